package render

import (
	"errors"
	"fmt"
	"mime"
	"sort"
	"strings"
	"sync"
)

// ErrNotFound matches lookups that resolve to no renderer.
var ErrNotFound = errors.New("render: renderer not found")

// Registry indexes renderers by name and by the media type they produce.
// Names are unique; when several renderers share a media type the first one
// registered answers for it.
type Registry struct {
	mu        sync.RWMutex
	byName    map[string]Renderer
	byContent map[string]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byName:    make(map[string]Renderer),
		byContent: make(map[string]string),
	}
}

// Register adds renderer under its Name() and ContentType().
func (r *Registry) Register(renderer Renderer) error {
	if renderer == nil {
		return fmt.Errorf("render: renderer is required")
	}
	name := strings.TrimSpace(renderer.Name())
	if name == "" {
		return fmt.Errorf("render: renderer name is required")
	}
	mediaType, err := baseMediaType(renderer.ContentType())
	if err != nil {
		return fmt.Errorf("render: renderer %q content type: %w", name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[name]; exists {
		return fmt.Errorf("render: renderer %q already registered", name)
	}
	r.byName[name] = renderer
	if _, taken := r.byContent[mediaType]; !taken {
		r.byContent[mediaType] = name
	}
	return nil
}

// MustRegister panics on registration failure.
func (r *Registry) MustRegister(renderer Renderer) {
	if err := r.Register(renderer); err != nil {
		panic(err)
	}
}

// Get resolves key as a renderer name first and then as a media type, so
// "jsonapi" and "application/vnd.api+json" find the same renderer. Media type
// parameters are ignored.
func (r *Registry) Get(key string) (Renderer, error) {
	key = strings.TrimSpace(key)

	r.mu.RLock()
	defer r.mu.RUnlock()

	if renderer, ok := r.byName[key]; ok {
		return renderer, nil
	}
	if mediaType, err := baseMediaType(key); err == nil {
		if name, ok := r.byContent[mediaType]; ok {
			return r.byName[name], nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrNotFound, key)
}

// List returns the registered names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ContentTypes returns the media types with a registered renderer, sorted.
func (r *Registry) ContentTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.byContent))
	for mediaType := range r.byContent {
		types = append(types, mediaType)
	}
	sort.Strings(types)
	return types
}

// Has reports whether key resolves to a renderer.
func (r *Registry) Has(key string) bool {
	_, err := r.Get(key)
	return err == nil
}

func baseMediaType(contentType string) (string, error) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", err
	}
	return mediaType, nil
}
