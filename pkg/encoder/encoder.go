package encoder

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-jsonapi/pkg/entity"
	"github.com/goliatone/go-jsonapi/pkg/schema"
)

// Encoder assembles JSON:API documents from entities using the schemas it was
// built with. An Encoder is configured for a single render and is not safe
// for concurrent use.
type Encoder struct {
	schemas   schema.Map
	instances map[entity.Kind]schema.Schema

	urlPrefix string
	links     Links
	meta      any
	hasMeta   bool
	fieldsets map[string]map[string]struct{}
	include   includeTree
	flags     Flags
}

// New creates an encoder over schemas. Schemas are instantiated lazily, the
// first time an entity of their kind is encoded.
func New(schemas schema.Map) *Encoder {
	return &Encoder{
		schemas:   schemas,
		instances: make(map[entity.Kind]schema.Schema, len(schemas)),
	}
}

// WithEncodeOptions sets the output flags.
func (e *Encoder) WithEncodeOptions(flags Flags) *Encoder {
	e.flags = flags
	return e
}

// Flags returns the configured output flags.
func (e *Encoder) Flags() Flags {
	return e.flags
}

// WithURLPrefix sets the prefix prepended to every sub-URL link.
func (e *Encoder) WithURLPrefix(prefix string) *Encoder {
	e.urlPrefix = strings.TrimRight(prefix, "/")
	return e
}

// WithLinks sets the document level links.
func (e *Encoder) WithLinks(links Links) *Encoder {
	e.links = links
	return e
}

// WithMeta sets the document level meta. A nil meta clears it.
func (e *Encoder) WithMeta(meta any) *Encoder {
	e.meta = meta
	e.hasMeta = meta != nil
	return e
}

// WithFieldsets restricts the attributes and relationships rendered for each
// resource type to the listed names.
func (e *Encoder) WithFieldsets(fieldsets map[string][]string) *Encoder {
	if len(fieldsets) == 0 {
		e.fieldsets = nil
		return e
	}
	e.fieldsets = make(map[string]map[string]struct{}, len(fieldsets))
	for typ, fields := range fieldsets {
		allowed := make(map[string]struct{}, len(fields))
		for _, field := range fields {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			allowed[field] = struct{}{}
		}
		e.fieldsets[typ] = allowed
	}
	return e
}

// WithIncludedPaths sets the dot separated relationship paths whose targets
// are embedded in the "included" member.
func (e *Encoder) WithIncludedPaths(paths []string) *Encoder {
	e.include = newIncludeTree(paths)
	return e
}

// EncodeData encodes data as the document's primary data. data may be nil,
// a single entity, or a slice/array of entities.
func (e *Encoder) EncodeData(data any) (string, error) {
	doc := document{
		Links: e.renderLinks(e.links),
	}
	if e.hasMeta {
		meta, err := marshal(e.meta)
		if err != nil {
			return "", fmt.Errorf("encoder: encode meta: %w", err)
		}
		doc.Meta = meta
	}

	b := &builder{enc: e, seen: make(map[resourceKey]struct{})}
	primary, err := b.primary(data)
	if err != nil {
		return "", err
	}
	doc.Data = primary
	doc.Included = b.included

	return e.write(doc)
}

// EncodeMeta encodes a meta-only document: {"meta": meta}.
func (e *Encoder) EncodeMeta(meta any) (string, error) {
	raw, err := marshal(meta)
	if err != nil {
		return "", fmt.Errorf("encoder: encode meta: %w", err)
	}
	return e.write(metaDocument{Meta: raw})
}

func (e *Encoder) write(v any) (string, error) {
	payload, err := marshal(v)
	if err != nil {
		return "", fmt.Errorf("encoder: encode document: %w", err)
	}
	if e.flags.Has(PrettyPrint) {
		var buf bytes.Buffer
		if err := json.Indent(&buf, payload, "", "    "); err != nil {
			return "", fmt.Errorf("encoder: indent document: %w", err)
		}
		payload = buf.Bytes()
	}
	return string(escapeStrings(payload, e.flags)), nil
}

func (e *Encoder) schemaFor(item any) (schema.Schema, error) {
	kind, ok := entity.KindOf(item)
	if !ok {
		return nil, &SchemaNotFoundError{Type: fmt.Sprintf("%T", item)}
	}
	if s, ok := e.instances[kind]; ok {
		return s, nil
	}
	ctor, ok := e.schemas[kind]
	if !ok || ctor == nil {
		return nil, &SchemaNotFoundError{Kind: kind, Type: fmt.Sprintf("%T", item)}
	}
	s, err := ctor()
	if err != nil {
		return nil, fmt.Errorf("encoder: %w", err)
	}
	e.instances[kind] = s
	return s, nil
}

type includeTree map[string]includeTree

func newIncludeTree(paths []string) includeTree {
	if len(paths) == 0 {
		return nil
	}
	root := make(includeTree)
	for _, path := range paths {
		node := root
		for _, segment := range strings.Split(path, ".") {
			segment = strings.TrimSpace(segment)
			if segment == "" {
				break
			}
			child, ok := node[segment]
			if !ok {
				child = make(includeTree)
				node[segment] = child
			}
			node = child
		}
	}
	if len(root) == 0 {
		return nil
	}
	return root
}

func (t includeTree) names() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
