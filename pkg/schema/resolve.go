package schema

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownEntityType matches UnknownEntityTypeError through errors.Is.
	ErrUnknownEntityType = errors.New("schema: unknown entity type")
	// ErrNoEntities is returned when Resolve receives an empty entity list.
	ErrNoEntities = errors.New("schema: entity list is empty")
)

// UnknownEntityTypeError reports an entity name that does not resolve to a
// registered entity kind. A missing schema override is not an error; the
// generic schema is used instead.
type UnknownEntityTypeError struct {
	Name string
}

func (e *UnknownEntityTypeError) Error() string {
	return fmt.Sprintf("schema: unknown entity type %q", e.Name)
}

// Is reports whether target is ErrUnknownEntityType.
func (e *UnknownEntityTypeError) Is(target error) bool {
	return target == ErrUnknownEntityType
}

// Entry is one entity name with its options.
type Entry struct {
	Name    string
	Options map[string]any
}

// Resolve builds the schema map for entries, in order. Each name must be
// registered in the catalog; its user schema factory is used when present and
// the generic EntitySchema otherwise. Constructors capture the context, so
// schemas are only instantiated when the encoder needs them. A later entry for
// the same kind replaces an earlier one.
func Resolve(catalog *Catalog, entries []Entry, base Context) (Map, error) {
	if catalog == nil {
		return nil, errors.New("schema: catalog is nil")
	}
	if len(entries) == 0 {
		return nil, ErrNoEntities
	}

	schemas := make(Map, len(entries))
	for _, entry := range entries {
		kind, ok := catalog.Entity(entry.Name)
		if !ok {
			return nil, &UnknownEntityTypeError{Name: entry.Name}
		}

		factory, ok := catalog.Schema(entry.Name)
		if !ok {
			factory = NewGeneric
		}

		ctx := base
		ctx.EntityName = entry.Name
		ctx.Options = entry.Options
		schemas[kind] = bind(factory, ctx)
	}
	return schemas, nil
}

func bind(factory Factory, ctx Context) Constructor {
	return func() (Schema, error) {
		s, err := factory(ctx)
		if err != nil {
			return nil, fmt.Errorf("schema: build %q schema: %w", ctx.EntityName, err)
		}
		if s == nil {
			return nil, fmt.Errorf("schema: %q factory returned nil", ctx.EntityName)
		}
		return s, nil
	}
}
