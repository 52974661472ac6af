// Package encoder writes JSON:API documents. It is configured per render with
// a schema map and optional document settings (URL prefix, links, meta,
// sparse fieldsets, include paths, output flags), then asked to encode either
// primary data or a meta-only document.
//
// Resource objects carry type, id, attributes, relationships and a self link.
// Relationship members carry resource linkage plus self/related links.
// Resources reached through include paths are added to "included" once per
// (type, id) and never repeat a primary resource.
package encoder
