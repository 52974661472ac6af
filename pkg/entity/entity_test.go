package entity_test

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-jsonapi/pkg/entity"
)

type article struct {
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Secret string `json:"-"`
}

func TestKindOf_PointerAndValueShareKind(t *testing.T) {
	byValue, ok := entity.KindOf(article{})
	if !ok {
		t.Fatalf("expected kind for value")
	}
	byPointer, ok := entity.KindOf(&article{})
	if !ok {
		t.Fatalf("expected kind for pointer")
	}
	if byValue != byPointer {
		t.Fatalf("expected same kind, got %q and %q", byValue, byPointer)
	}
	if byValue.IsRecord() {
		t.Fatalf("struct kind must not be a record kind")
	}
}

func TestKindOf_Records(t *testing.T) {
	kind, ok := entity.KindOf(entity.NewRecord("Article", nil))
	if !ok {
		t.Fatalf("expected record kind")
	}
	if kind != entity.RecordKind("Article") || !kind.IsRecord() {
		t.Fatalf("unexpected record kind %q", kind)
	}

	if _, ok := entity.KindOf(entity.NewRecord("", nil)); ok {
		t.Fatalf("record without type must not resolve a kind")
	}
}

func TestKindOfType_Errors(t *testing.T) {
	if _, err := entity.KindOfType(nil); !errors.Is(err, entity.ErrNilType) {
		t.Fatalf("expected ErrNilType, got %v", err)
	}
	anonymous := reflect.TypeOf(struct{ A int }{})
	if _, err := entity.KindOfType(anonymous); !errors.Is(err, entity.ErrTypeNotNamed) {
		t.Fatalf("expected ErrTypeNotNamed, got %v", err)
	}
	if _, ok := entity.KindOf(map[string]any{"id": 1}); ok {
		t.Fatalf("bare maps have no kind")
	}
}

func TestRecord_HiddenFields(t *testing.T) {
	rec := entity.NewRecord("User", map[string]any{
		"id":       7,
		"name":     "mariano",
		"password": "secret",
	}).SetHidden("password")

	want := map[string]any{"id": 7, "name": "mariano"}
	if diff := cmp.Diff(want, rec.ToMap()); diff != "" {
		t.Fatalf("visible fields mismatch (-want +got):\n%s", diff)
	}
	if value, ok := rec.Get("password"); !ok || value != "secret" {
		t.Fatalf("hidden field must stay readable, got %v (ok=%v)", value, ok)
	}
	if diff := cmp.Diff([]string{"password"}, rec.Hidden()); diff != "" {
		t.Fatalf("hidden list mismatch (-want +got):\n%s", diff)
	}
}

func TestToMap_StructUsesJSONEncoding(t *testing.T) {
	got, err := entity.ToMap(&article{ID: 3, Title: "Third", Secret: "x"})
	if err != nil {
		t.Fatalf("to map: %v", err)
	}
	want := map[string]any{"id": json.Number("3"), "title": "Third"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
}

func TestToMap_CopiesMaps(t *testing.T) {
	source := map[string]any{"id": 1}
	got, err := entity.ToMap(source)
	if err != nil {
		t.Fatalf("to map: %v", err)
	}
	got["extra"] = true
	if _, ok := source["extra"]; ok {
		t.Fatalf("ToMap must not alias the source map")
	}
}

func TestToMap_RejectsNonObjects(t *testing.T) {
	if _, err := entity.ToMap([]int{1, 2}); err == nil {
		t.Fatalf("expected error for slice value")
	}
	if _, err := entity.ToMap(nil); !errors.Is(err, entity.ErrNotObject) {
		t.Fatalf("expected ErrNotObject, got %v", err)
	}
}

func TestField(t *testing.T) {
	value, ok, err := entity.Field(article{ID: 9}, "id")
	if err != nil || !ok {
		t.Fatalf("expected id field, ok=%v err=%v", ok, err)
	}
	if entity.FormatID(value) != "9" {
		t.Fatalf("unexpected id %v", value)
	}

	if _, ok, _ := entity.Field(article{}, "missing"); ok {
		t.Fatalf("missing field must report ok=false")
	}
}

func TestFormatID(t *testing.T) {
	cases := []struct {
		name  string
		value any
		want  string
	}{
		{name: "string", value: "abc", want: "abc"},
		{name: "int", value: 42, want: "42"},
		{name: "uint", value: uint16(7), want: "7"},
		{name: "integral float", value: float64(12), want: "12"},
		{name: "fraction", value: 1.5, want: "1.5"},
		{name: "json number", value: json.Number("100"), want: "100"},
		{name: "nil", value: nil, want: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := entity.FormatID(tc.value); got != tc.want {
				t.Fatalf("FormatID(%v) = %q, want %q", tc.value, got, tc.want)
			}
		})
	}
}
