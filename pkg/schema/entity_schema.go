package schema

import (
	"fmt"
	"strings"

	"github.com/jinzhu/inflection"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/goliatone/go-jsonapi/pkg/entity"
)

// DefaultIDField is the field EntitySchema reads ids from unless told
// otherwise.
const DefaultIDField = "id"

// EntitySchema is the generic schema used for entity types without a
// dedicated schema. It exposes every visible field except the id as an
// attribute and has no relationships.
//
// Custom schemas embed *EntitySchema and override ID, Attributes or add a
// Relationships method. IDField and Type may be preset before Bind; Bind only
// fills the ones left empty.
type EntitySchema struct {
	IDField string
	Type    string

	ctx Context
}

var _ Schema = (*EntitySchema)(nil)

// NewEntitySchema builds a generic schema bound to ctx.
func NewEntitySchema(ctx Context) *EntitySchema {
	return (&EntitySchema{}).Bind(ctx)
}

// NewGeneric is the Factory for the generic schema.
func NewGeneric(ctx Context) (Schema, error) {
	return NewEntitySchema(ctx), nil
}

// Bind attaches the rendering context and derives defaults. The resource type
// is the lowercased plural of the entity name unless Type is already set.
func (s *EntitySchema) Bind(ctx Context) *EntitySchema {
	s.ctx = ctx
	if s.IDField == "" {
		s.IDField = DefaultIDField
	}
	if s.Type == "" {
		s.Type = ResourceTypeFor(ctx.EntityName)
	}
	return s
}

// ResourceTypeFor derives a resource type from an entity name, e.g.
// "Article" -> "articles", "Person" -> "people".
func ResourceTypeFor(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	return cases.Lower(language.Und).String(inflection.Plural(name))
}

// ResourceType implements Schema.
func (s *EntitySchema) ResourceType() string {
	return s.Type
}

// ID implements Schema. It returns the string form of the id field, or false
// when the field is absent or nil.
func (s *EntitySchema) ID(resource any) (string, bool) {
	value, ok, err := entity.Field(resource, s.idField())
	if err != nil || !ok || value == nil {
		return "", false
	}
	return entity.FormatID(value), true
}

// Attributes implements Schema. The id field is removed so it only appears as
// the resource id.
func (s *EntitySchema) Attributes(resource any) (map[string]any, error) {
	fields, err := entity.ToMap(resource)
	if err != nil {
		return nil, fmt.Errorf("schema: %s attributes: %w", s.Type, err)
	}
	delete(fields, s.idField())

	if s.ctx.Sanitize != nil {
		for name, value := range fields {
			if text, ok := value.(string); ok {
				fields[name] = s.ctx.Sanitize(text)
			}
		}
	}
	return fields, nil
}

// Helper reads a helper from the rendering context.
func (s *EntitySchema) Helper(name string) (any, bool) {
	return s.ctx.Helpers.Lookup(name)
}

// Context returns the context the schema was bound to.
func (s *EntitySchema) Context() Context {
	return s.ctx
}

// EntityName returns the entity name the schema was resolved for.
func (s *EntitySchema) EntityName() string {
	return s.ctx.EntityName
}

// Sanitize applies the context sanitiser to value. Custom Attributes
// implementations use it to stay consistent with the generic schema.
func (s *EntitySchema) Sanitize(value string) string {
	if s.ctx.Sanitize == nil {
		return value
	}
	return s.ctx.Sanitize(value)
}

func (s *EntitySchema) idField() string {
	if s.IDField == "" {
		return DefaultIDField
	}
	return s.IDField
}
