package testsupport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// JSONDiff compares two JSON payloads structurally, ignoring formatting and
// object key order. It returns an empty string when they are equal.
func JSONDiff(want, got []byte) (string, error) {
	wantValue, err := DecodeJSON(want)
	if err != nil {
		return "", fmt.Errorf("testsupport: decode want: %w", err)
	}
	gotValue, err := DecodeJSON(got)
	if err != nil {
		return "", fmt.Errorf("testsupport: decode got: %w", err)
	}
	return cmp.Diff(wantValue, gotValue), nil
}

// DecodeJSON decodes a payload into generic values, rejecting trailing data.
func DecodeJSON(payload []byte) (any, error) {
	if len(bytes.TrimSpace(payload)) == 0 {
		return nil, errors.New("testsupport: empty payload")
	}
	decoder := json.NewDecoder(bytes.NewReader(payload))
	var out any
	if err := decoder.Decode(&out); err != nil {
		return nil, err
	}
	if decoder.More() {
		return nil, errors.New("testsupport: trailing data after JSON value")
	}
	return out, nil
}

// MustDecodeJSON decodes payload or fails the test.
func MustDecodeJSON(t *testing.T, payload string) any {
	t.Helper()
	out, err := DecodeJSON([]byte(payload))
	if err != nil {
		t.Fatalf("decode json: %v\n%s", err, payload)
	}
	return out
}

// AssertJSONEqual fails the test when got is not structurally equal to want.
func AssertJSONEqual(t *testing.T, want, got string) {
	t.Helper()
	diff, err := JSONDiff([]byte(want), []byte(got))
	if err != nil {
		t.Fatalf("compare json: %v", err)
	}
	if diff != "" {
		t.Fatalf("document mismatch (-want +got):\n%s", diff)
	}
}

// AssertJSONGolden compares got against the golden file at path, rewriting
// the golden when UPDATE_GOLDENS is set.
func AssertJSONGolden(t *testing.T, path, got string) {
	t.Helper()
	if WriteMaybeGolden(t, path, []byte(got)) {
		return
	}
	AssertJSONEqual(t, string(MustReadGolden(t, path)), got)
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}
