package view

import (
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/goliatone/go-jsonapi/pkg/config"
	"github.com/goliatone/go-jsonapi/pkg/render"
	"github.com/goliatone/go-jsonapi/pkg/schema"
)

// FXModule provides the JSON:API view to an fx application, both as *View
// and as a render.Renderer.
//
// Usage:
//
//	app := fx.New(
//	    view.FXModule,
//	    fx.Provide(func() config.Config { return cfg }),
//	    fx.Invoke(func(v *view.View) { ... }),
//	)
//
// A config.Config is required. *zap.Logger, *schema.Catalog,
// *bluemonday.Policy and DeprecationHandler are optional; the catalog falls
// back to schema.Default().
var FXModule = fx.Module("jsonapi-view",
	fx.Provide(
		NewFromParams,
		fx.Annotate(
			func(v *View) render.Renderer { return v },
			fx.As(new(render.Renderer)),
		),
	),
)

// Params are the fx dependencies of the view.
type Params struct {
	fx.In

	Config       config.Config
	Logger       *zap.Logger        `optional:"true"`
	Catalog      *schema.Catalog    `optional:"true"`
	Policy       *bluemonday.Policy `optional:"true"`
	Deprecations DeprecationHandler `optional:"true"`
}

// NewFromParams builds a View from fx dependencies.
func NewFromParams(p Params) *View {
	opts := []Option{
		WithConfig(p.Config),
		WithCatalog(p.Catalog),
		WithLogger(p.Logger),
		WithDeprecationHandler(p.Deprecations),
	}
	if p.Policy != nil {
		opts = append(opts, WithSanitizePolicy(p.Policy))
	}
	return New(opts...)
}
