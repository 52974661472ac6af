package schema

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-jsonapi/pkg/entity"
)

// Catalog resolves short entity names to entity kinds and, optionally, to
// user supplied schema factories. It is safe for concurrent use so a single
// catalog can back many renders.
type Catalog struct {
	mu       sync.RWMutex
	entities map[string]entity.Kind
	schemas  map[string]Factory
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		entities: make(map[string]entity.Kind),
		schemas:  make(map[string]Factory),
	}
}

var defaultCatalog = NewCatalog()

// Default returns the process-wide catalog used when a view is not given one.
func Default() *Catalog {
	return defaultCatalog
}

// RegisterEntity registers name for the Go type of sample. Pointers are
// unwrapped, so passing Article{} or (*Article)(nil) is equivalent.
func (c *Catalog) RegisterEntity(name string, sample any) error {
	if sample == nil {
		return fmt.Errorf("schema: entity %q sample is required", name)
	}
	kind, err := entity.KindOfType(reflect.TypeOf(sample))
	if err != nil {
		return fmt.Errorf("schema: entity %q: %w", name, err)
	}
	return c.RegisterKind(name, kind)
}

// RegisterRecord registers name as a record-backed entity type.
func (c *Catalog) RegisterRecord(name string) error {
	return c.RegisterKind(name, entity.RecordKind(strings.TrimSpace(name)))
}

// RegisterKind associates name with kind. Registering the same pair twice is
// a no-op; re-registering a name for a different kind is an error.
func (c *Catalog) RegisterKind(name string, kind entity.Kind) error {
	key := normalizeName(name)
	if key == "" {
		return fmt.Errorf("schema: entity name is required")
	}
	if kind == "" {
		return fmt.Errorf("schema: entity %q kind is required", key)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.entities[key]; ok {
		if existing == kind {
			return nil
		}
		return fmt.Errorf("schema: entity %q already registered as %s", key, existing)
	}
	c.entities[key] = kind
	return nil
}

// RegisterSchema adds a schema factory for name. Duplicate names return an
// error.
func (c *Catalog) RegisterSchema(name string, factory Factory) error {
	if factory == nil {
		return fmt.Errorf("schema: schema factory is required")
	}
	key := normalizeName(name)
	if key == "" {
		return fmt.Errorf("schema: schema name is required")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.schemas[key]; exists {
		return fmt.Errorf("schema: schema %q already registered", key)
	}
	c.schemas[key] = factory
	return nil
}

// MustRegisterEntity panics on registration failure. Useful for init-time
// wiring.
func (c *Catalog) MustRegisterEntity(name string, sample any) {
	if err := c.RegisterEntity(name, sample); err != nil {
		panic(err)
	}
}

// MustRegisterRecord panics on registration failure.
func (c *Catalog) MustRegisterRecord(name string) {
	if err := c.RegisterRecord(name); err != nil {
		panic(err)
	}
}

// MustRegisterSchema panics on registration failure.
func (c *Catalog) MustRegisterSchema(name string, factory Factory) {
	if err := c.RegisterSchema(name, factory); err != nil {
		panic(err)
	}
}

// Entity returns the kind registered for name.
func (c *Catalog) Entity(name string) (entity.Kind, bool) {
	key := normalizeName(name)
	if key == "" {
		return "", false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	kind, ok := c.entities[key]
	return kind, ok
}

// Schema returns the user schema factory registered for name, if any.
func (c *Catalog) Schema(name string) (Factory, bool) {
	key := normalizeName(name)
	if key == "" {
		return nil, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	factory, ok := c.schemas[key]
	return factory, ok
}

// Has reports whether an entity is registered under name.
func (c *Catalog) Has(name string) bool {
	_, ok := c.Entity(name)
	return ok
}

// List returns the registered entity names, sorted.
func (c *Catalog) List() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.entities))
	for name := range c.entities {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func normalizeName(name string) string {
	return strings.TrimSpace(name)
}
