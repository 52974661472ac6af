// Package view renders controller variable bags as JSON:API documents.
//
// A bag is a Vars map. Keys starting with an underscore configure the
// document and every other key is data:
//
//	_entities    required; entity names resolved through a schema.Catalog
//	_serialize   which data entry becomes the primary data (default: the first)
//	_url         prefix for generated links
//	_links       document links
//	_meta        document meta; rendered alone when there is no data
//	_fieldsets   sparse fieldsets per resource type
//	_include     relationship paths to embed in "included"
//	_jsonOptions encoder.Flags bitmask; false disables escaping
//
// Usage:
//
//	v := view.New(view.WithCatalog(catalog), view.WithLogger(logger))
//	body, err := v.Render(ctx, view.Vars{
//		"articles":        articles,
//		view.VarEntities:  []string{"Article"},
//		view.VarURL:       "https://api.example.com",
//	})
//
// Render fails with *MissingVariableError when _entities is absent or empty
// and with *UnknownEntityTypeError when a name is not registered.
package view
