package render_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-jsonapi/pkg/render"
)

type stubRenderer struct {
	name        string
	contentType string
}

func (s stubRenderer) Name() string { return s.name }
func (s stubRenderer) ContentType() string {
	if s.contentType == "" {
		return "text/plain"
	}
	return s.contentType
}
func (s stubRenderer) Render(context.Context, map[string]any) (string, error) {
	return s.name, nil
}

func TestRegistry(t *testing.T) {
	registry := render.NewRegistry()
	registry.MustRegister(stubRenderer{name: "xml", contentType: "application/xml"})
	registry.MustRegister(stubRenderer{name: "jsonapi", contentType: "application/vnd.api+json"})

	if err := registry.Register(stubRenderer{name: "jsonapi"}); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
	if err := registry.Register(nil); err == nil {
		t.Fatalf("expected nil renderer error")
	}
	if err := registry.Register(stubRenderer{}); err == nil {
		t.Fatalf("expected empty name error")
	}
	if err := registry.Register(stubRenderer{name: "broken", contentType: "not a media type;;"}); err == nil {
		t.Fatalf("expected invalid content type error")
	}

	if diff := cmp.Diff([]string{"jsonapi", "xml"}, registry.List()); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}
	if !registry.Has("xml") || registry.Has("html") {
		t.Fatalf("unexpected Has results")
	}

	renderer, err := registry.Get("jsonapi")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	out, err := renderer.Render(context.Background(), nil)
	if err != nil || out != "jsonapi" {
		t.Fatalf("unexpected render result %q, %v", out, err)
	}

	if _, err := registry.Get("html"); !errors.Is(err, render.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRegistry_GetByContentType(t *testing.T) {
	registry := render.NewRegistry()
	registry.MustRegister(stubRenderer{name: "jsonapi", contentType: "application/vnd.api+json"})
	registry.MustRegister(stubRenderer{name: "jsonapi-compat", contentType: "application/vnd.api+json"})
	registry.MustRegister(stubRenderer{name: "text"})

	for _, key := range []string{
		"application/vnd.api+json",
		"Application/VND.API+JSON",
		"application/vnd.api+json; ext=\"https://jsonapi.org/ext/atomic\"",
	} {
		renderer, err := registry.Get(key)
		if err != nil {
			t.Fatalf("get %q: %v", key, err)
		}
		if renderer.Name() != "jsonapi" {
			t.Fatalf("get %q: expected first registered renderer, got %q", key, renderer.Name())
		}
	}

	if diff := cmp.Diff([]string{"application/vnd.api+json", "text/plain"}, registry.ContentTypes()); diff != "" {
		t.Fatalf("content types mismatch (-want +got):\n%s", diff)
	}
	if registry.Has("application/json") {
		t.Fatalf("unexpected renderer for application/json")
	}
}
