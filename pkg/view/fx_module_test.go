package view_test

import (
	"testing"

	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"

	"github.com/goliatone/go-jsonapi/pkg/config"
	"github.com/goliatone/go-jsonapi/pkg/render"
	"github.com/goliatone/go-jsonapi/pkg/schema"
	"github.com/goliatone/go-jsonapi/pkg/testsupport"
	"github.com/goliatone/go-jsonapi/pkg/view"
)

func TestFXModule_ProvidesView(t *testing.T) {
	var (
		v        *view.View
		renderer render.Renderer
	)

	app := fxtest.New(t,
		view.FXModule,
		fx.Provide(
			func() config.Config { return config.Config{Debug: false} },
			func() *schema.Catalog { return testsupport.NewCatalog() },
			func() *zap.Logger { return zap.NewNop() },
		),
		fx.Populate(&v, &renderer),
	)
	app.RequireStart()
	defer app.RequireStop()

	if v == nil || renderer == nil {
		t.Fatalf("expected view and renderer to be provided")
	}
	if renderer.ContentType() != view.ContentType {
		t.Fatalf("unexpected content type %q", renderer.ContentType())
	}

	out, err := renderer.Render(testsupport.Context(), view.Vars{
		view.VarEntities: []string{"Article"},
		view.VarMeta:     map[string]any{"ok": true},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != `{"meta":{"ok":true}}` {
		t.Fatalf("unexpected document %s", out)
	}
}

func TestFXModule_OptionalDependencies(t *testing.T) {
	var v *view.View

	app := fxtest.New(t,
		view.FXModule,
		fx.Provide(func() config.Config { return config.Default() }),
		fx.Populate(&v),
	)
	app.RequireStart()
	defer app.RequireStop()

	if v == nil {
		t.Fatalf("expected view to be provided")
	}
}
