package encoder

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"

	"github.com/goliatone/go-jsonapi/pkg/schema"
)

type document struct {
	Meta     json.RawMessage  `json:"meta,omitempty"`
	Links    linkObject       `json:"links,omitempty"`
	Data     json.RawMessage  `json:"data"`
	Included []resourceObject `json:"included,omitempty"`
}

type metaDocument struct {
	Meta json.RawMessage `json:"meta"`
}

type resourceObject struct {
	Type          string                        `json:"type"`
	ID            string                        `json:"id,omitempty"`
	Attributes    map[string]any                `json:"attributes,omitempty"`
	Relationships map[string]relationshipObject `json:"relationships,omitempty"`
	Links         linkObject                    `json:"links,omitempty"`
}

type relationshipObject struct {
	Data  json.RawMessage `json:"data"`
	Links linkObject      `json:"links,omitempty"`
	Meta  any             `json:"meta,omitempty"`
}

type identifier struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

type resourceKey struct {
	typ string
	id  string
}

// built is a resource object plus the raw relationship data needed to follow
// include paths.
type built struct {
	object  resourceObject
	related map[string]any
}

// builder collects the resources of one document. seen holds the keys of
// primary and already included resources so nothing is included twice.
type builder struct {
	enc      *Encoder
	seen     map[resourceKey]struct{}
	included []resourceObject
}

func (b *builder) primary(data any) (json.RawMessage, error) {
	items, many := collect(data)
	if !many && len(items) == 0 {
		return json.RawMessage("null"), nil
	}

	for _, item := range items {
		s, err := b.enc.schemaFor(item)
		if err != nil {
			return nil, err
		}
		if id, ok := s.ID(item); ok {
			b.seen[resourceKey{typ: s.ResourceType(), id: id}] = struct{}{}
		}
	}

	resources := make([]resourceObject, 0, len(items))
	related := make([]map[string]any, 0, len(items))
	for _, item := range items {
		res, err := b.build(item)
		if err != nil {
			return nil, err
		}
		resources = append(resources, res.object)
		related = append(related, res.related)
	}
	for _, rel := range related {
		if err := b.traverse(rel, b.enc.include); err != nil {
			return nil, err
		}
	}

	var (
		raw []byte
		err error
	)
	if many {
		raw, err = marshal(resources)
	} else {
		raw, err = marshal(resources[0])
	}
	if err != nil {
		return nil, fmt.Errorf("encoder: encode primary data: %w", err)
	}
	return raw, nil
}

func (b *builder) include(item any, tree includeTree) error {
	res, err := b.build(item)
	if err != nil {
		return err
	}

	if res.object.ID == "" {
		b.included = append(b.included, res.object)
	} else {
		key := resourceKey{typ: res.object.Type, id: res.object.ID}
		if _, dup := b.seen[key]; !dup {
			b.seen[key] = struct{}{}
			b.included = append(b.included, res.object)
		}
	}
	return b.traverse(res.related, tree)
}

func (b *builder) traverse(related map[string]any, tree includeTree) error {
	if len(tree) == 0 || len(related) == 0 {
		return nil
	}
	for _, name := range tree.names() {
		data, ok := related[name]
		if !ok {
			continue
		}
		items, _ := collect(data)
		for _, item := range items {
			if err := b.include(item, tree[name]); err != nil {
				return err
			}
		}
	}
	return nil
}

func (b *builder) build(item any) (built, error) {
	s, err := b.enc.schemaFor(item)
	if err != nil {
		return built{}, err
	}

	typ := s.ResourceType()
	id, hasID := s.ID(item)
	attrs, err := s.Attributes(item)
	if err != nil {
		return built{}, fmt.Errorf("encoder: %s attributes: %w", typ, err)
	}

	allowed, filtered := b.enc.fieldsets[typ]
	if filtered {
		attrs = filterFields(attrs, allowed)
	}

	out := built{
		object: resourceObject{
			Type:       typ,
			Attributes: attrs,
		},
	}
	if hasID {
		out.object.ID = id
	}

	self := selfSubURL(s, item, typ, id, hasID)
	if self != "" {
		out.object.Links = linkObject{{name: LinkSelf, href: b.enc.href(Link{Href: self})}}
	}

	provider, ok := s.(schema.RelationshipProvider)
	if !ok {
		return out, nil
	}
	relationships, err := provider.Relationships(item)
	if err != nil {
		return built{}, fmt.Errorf("encoder: %s relationships: %w", typ, err)
	}
	if len(relationships) == 0 {
		return out, nil
	}

	out.related = make(map[string]any, len(relationships))
	names := make([]string, 0, len(relationships))
	for name := range relationships {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		rel := relationships[name]
		out.related[name] = rel.Data
		if filtered {
			if _, ok := allowed[name]; !ok {
				continue
			}
		}
		obj, err := b.relationship(self, name, rel)
		if err != nil {
			return built{}, fmt.Errorf("encoder: %s relationship %q: %w", typ, name, err)
		}
		if out.object.Relationships == nil {
			out.object.Relationships = make(map[string]relationshipObject, len(names))
		}
		out.object.Relationships[name] = obj
	}
	return out, nil
}

func (b *builder) relationship(self, name string, rel schema.Relationship) (relationshipObject, error) {
	data, err := b.linkage(rel.Data)
	if err != nil {
		return relationshipObject{}, err
	}
	obj := relationshipObject{Data: data, Meta: rel.Meta}
	if !rel.OmitLinks && self != "" {
		obj.Links = linkObject{
			{name: LinkSelf, href: b.enc.href(Link{Href: self + joinURL("relationships", name)})},
			{name: LinkRelated, href: b.enc.href(Link{Href: self + joinURL(name)})},
		}
	}
	return obj, nil
}

func (b *builder) linkage(data any) (json.RawMessage, error) {
	items, many := collect(data)
	if !many {
		if len(items) == 0 {
			return json.RawMessage("null"), nil
		}
		ident, err := b.identifier(items[0])
		if err != nil {
			return nil, err
		}
		return marshal(ident)
	}

	idents := make([]identifier, 0, len(items))
	for _, item := range items {
		ident, err := b.identifier(item)
		if err != nil {
			return nil, err
		}
		idents = append(idents, ident)
	}
	return marshal(idents)
}

func (b *builder) identifier(item any) (identifier, error) {
	s, err := b.enc.schemaFor(item)
	if err != nil {
		return identifier{}, err
	}
	id, ok := s.ID(item)
	if !ok {
		return identifier{}, fmt.Errorf("related %s resource has no id", s.ResourceType())
	}
	return identifier{Type: s.ResourceType(), ID: id}, nil
}

func selfSubURL(s schema.Schema, item any, typ, id string, hasID bool) string {
	if provider, ok := s.(schema.LinkProvider); ok {
		return provider.SelfSubURL(item)
	}
	if !hasID {
		return ""
	}
	return joinURL(typ, id)
}

func filterFields(attrs map[string]any, allowed map[string]struct{}) map[string]any {
	if len(attrs) == 0 {
		return attrs
	}
	out := make(map[string]any, len(allowed))
	for name, value := range attrs {
		if _, ok := allowed[name]; ok {
			out[name] = value
		}
	}
	return out
}

// collect flattens data into entities. many reports whether data was a
// collection, so an empty collection can still render as [].
func collect(data any) (items []any, many bool) {
	if data == nil {
		return nil, false
	}
	rv := reflect.ValueOf(data)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return nil, false
		}
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return []any{data}, false
		}
		return collectElems(rv), true
	case reflect.Array:
		return collectElems(rv), true
	}
	return []any{data}, false
}

func collectElems(rv reflect.Value) []any {
	out := make([]any, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		elem := rv.Index(i)
		if (elem.Kind() == reflect.Ptr || elem.Kind() == reflect.Interface) && elem.IsNil() {
			continue
		}
		out = append(out, elem.Interface())
	}
	return out
}
