// Package jsonapi renders in-memory entities as JSON:API documents from a
// loosely typed variable bag. See package view for the bag contract.
package jsonapi

import (
	"context"

	"github.com/goliatone/go-jsonapi/pkg/schema"
	"github.com/goliatone/go-jsonapi/pkg/view"
)

// ContentType is the media type of rendered documents.
const ContentType = view.ContentType

// Vars aliases view.Vars so callers can build bags from the top-level package.
type Vars = view.Vars

// Catalog aliases schema.Catalog.
type Catalog = schema.Catalog

// NewView exposes the view constructor from the top-level module.
func NewView(options ...view.Option) *view.View {
	return view.New(options...)
}

// NewCatalog returns an empty entity catalog.
func NewCatalog() *Catalog {
	return schema.NewCatalog()
}

// Register registers a Go entity type under name in the default catalog,
// together with an optional schema factory.
func Register(name string, sample any, factory schema.Factory) error {
	catalog := schema.Default()
	if err := catalog.RegisterEntity(name, sample); err != nil {
		return err
	}
	if factory == nil {
		return nil
	}
	return catalog.RegisterSchema(name, factory)
}

// Render builds a view with options and renders vars. It is the simplest entry
// point for callers that render a single bag.
func Render(ctx context.Context, vars Vars, options ...view.Option) (string, error) {
	return view.New(options...).Render(ctx, vars)
}
