package schema

import (
	"github.com/goliatone/go-jsonapi/pkg/entity"
)

// Schema extracts the JSON:API representation of one entity type.
type Schema interface {
	// ResourceType is the value of the resource object's "type" member.
	ResourceType() string
	// ID returns the resource id and false when the entity has none.
	ID(resource any) (string, bool)
	// Attributes returns the attribute members. The id must not be included.
	Attributes(resource any) (map[string]any, error)
}

// RelationshipProvider is implemented by schemas that expose relationships.
// Schemas without it render no "relationships" member.
type RelationshipProvider interface {
	Relationships(resource any) (map[string]Relationship, error)
}

// LinkProvider lets a schema override the self link sub-URL of a resource.
// Returning an empty string suppresses the link.
type LinkProvider interface {
	SelfSubURL(resource any) string
}

// Relationship describes one relationship member. Data holds nil, a single
// related entity, or a slice/array of related entities.
type Relationship struct {
	Data any
	Meta any
	// OmitLinks suppresses the default self/related links.
	OmitLinks bool
}

// Helpers carries view-layer utilities a schema may need (URL builders,
// formatters, translators). They are passed in explicitly when the schema is
// constructed.
type Helpers map[string]any

// Lookup returns the named helper.
func (h Helpers) Lookup(name string) (any, bool) {
	if h == nil {
		return nil, false
	}
	helper, ok := h[name]
	return helper, ok
}

// Context is handed to every schema constructor.
type Context struct {
	// EntityName is the short entity name the schema was resolved for.
	EntityName string
	// Options holds the per-entity options from the entity list.
	Options map[string]any
	// Helpers exposes the rendering context's helpers.
	Helpers Helpers
	// Sanitize, when set, is applied to string attribute values.
	Sanitize func(string) string
}

// Factory builds a user supplied schema for an entity type.
type Factory func(ctx Context) (Schema, error)

// Constructor lazily instantiates the schema bound to an entity kind. The
// encoder calls it the first time it meets an instance of that kind.
type Constructor func() (Schema, error)

// Map associates entity kinds with schema constructors.
type Map map[entity.Kind]Constructor

// Kinds returns the kinds present in the map, unordered.
func (m Map) Kinds() []entity.Kind {
	kinds := make([]entity.Kind, 0, len(m))
	for kind := range m {
		kinds = append(kinds, kind)
	}
	return kinds
}
