package encoder

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-jsonapi/pkg/entity"
)

// ErrSchemaNotFound matches SchemaNotFoundError through errors.Is.
var ErrSchemaNotFound = errors.New("encoder: schema not found")

// SchemaNotFoundError is returned when the encoder meets an entity whose kind
// has no schema in the map it was built with.
type SchemaNotFoundError struct {
	Kind entity.Kind
	Type string
}

func (e *SchemaNotFoundError) Error() string {
	if e.Kind == "" {
		return fmt.Sprintf("encoder: no schema for %s (value has no entity kind)", e.Type)
	}
	return fmt.Sprintf("encoder: no schema registered for %s (%s)", e.Kind, e.Type)
}

// Is reports whether target is ErrSchemaNotFound.
func (e *SchemaNotFoundError) Is(target error) bool {
	return target == ErrSchemaNotFound
}
