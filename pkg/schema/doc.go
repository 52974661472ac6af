// Package schema defines how entities become JSON:API resource objects. A
// Schema answers three questions for the encoder: which resource type an
// entity belongs to, what its id is, and which attributes (and optionally
// relationships) it exposes. EntitySchema is the fallback used for any entity
// type without a dedicated schema; user schemas usually embed it and override
// the parts they care about.
//
// The Catalog maps short entity names ("Article") to entity kinds and optional
// schema factories. Resolve turns a list of entity names into a Map keyed by
// kind, which is what the encoder consumes.
package schema
