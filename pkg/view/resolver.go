package view

import (
	"encoding/json"
	"math"
	"sort"
	"strings"

	"github.com/stretchr/objx"

	"github.com/goliatone/go-jsonapi/pkg/encoder"
	"github.com/goliatone/go-jsonapi/pkg/schema"
)

// EntitySpec is the normalised _entities list: one entry per name, in input
// order, with empty options when none were given.
type EntitySpec []schema.Entry

// Names returns the entity names in order.
func (s EntitySpec) Names() []string {
	names := make([]string, 0, len(s))
	for _, entry := range s {
		names = append(names, entry.Name)
	}
	return names
}

// RenderConfig is everything a render needs, derived from one Vars bag.
type RenderConfig struct {
	URLPrefix    string
	Links        encoder.Links
	Fieldsets    map[string][]string
	IncludePaths []string
	Meta         any
	HasMeta      bool
	// JSONOptions is the resolved _jsonOptions value before debug mode adds
	// pretty printing.
	JSONOptions encoder.Flags
	// EncodeFlags is the value handed to the encoder.
	EncodeFlags encoder.Flags
	Selector    Selector
	Entities    EntitySpec
}

// ResolveOptions carries the process-wide settings the resolver consults.
type ResolveOptions struct {
	// Debug ORs encoder.PrettyPrint into the encode flags.
	Debug bool
	// DefaultURLPrefix is used when the bag has no _url.
	DefaultURLPrefix string
	// DefaultJSONOptions replaces encoder.HTMLSafe when _jsonOptions is absent.
	DefaultJSONOptions *encoder.Flags
}

// ResolveConfig reads the reserved variables of vars into a RenderConfig.
func ResolveConfig(vars Vars, opts ResolveOptions) (RenderConfig, error) {
	var cfg RenderConfig

	entities, err := ParseEntitySpec(vars[VarEntities])
	if err != nil {
		return RenderConfig{}, err
	}
	if len(entities) == 0 {
		return RenderConfig{}, &MissingVariableError{Name: VarEntities}
	}
	cfg.Entities = entities

	raw, present := vars.Lookup(VarSerialize)
	cfg.Selector = ParseSelector(raw, present)

	if cfg.URLPrefix, err = parseURL(vars.value(VarURL), opts.DefaultURLPrefix); err != nil {
		return RenderConfig{}, err
	}
	if cfg.Links, err = ParseLinks(vars[VarLinks]); err != nil {
		return RenderConfig{}, err
	}
	if meta := vars.value(VarMeta); !meta.IsNil() {
		cfg.Meta = meta.Data()
		cfg.HasMeta = true
	}
	if cfg.Fieldsets, err = parseFieldsets(vars.value(VarFieldsets)); err != nil {
		return RenderConfig{}, err
	}
	if cfg.IncludePaths, err = parseInclude(vars.value(VarInclude)); err != nil {
		return RenderConfig{}, err
	}

	defaults := encoder.HTMLSafe
	if opts.DefaultJSONOptions != nil {
		defaults = *opts.DefaultJSONOptions
	}
	if cfg.JSONOptions, err = parseJSONOptions(vars[VarJSONOptions], defaults); err != nil {
		return RenderConfig{}, err
	}
	cfg.EncodeFlags = cfg.JSONOptions
	if opts.Debug {
		cfg.EncodeFlags |= encoder.PrettyPrint
	}

	return cfg, nil
}

// ParseEntitySpec normalises an _entities value. It accepts a list of names,
// a name to options map, or a list mixing names and single-name option maps.
// Map keys are visited in sorted order. A nil value or a blank name yields an
// empty list.
func ParseEntitySpec(raw any) (EntitySpec, error) {
	value := objx.Map{VarEntities: raw}.Get(VarEntities)
	switch {
	case value.IsNil():
		return nil, nil
	case value.IsStr():
		if strings.TrimSpace(value.Str()) == "" {
			return nil, nil
		}
		return appendEntity(nil, value.Str(), nil)
	case value.IsStrSlice():
		var spec EntitySpec
		var err error
		for _, name := range value.StrSlice() {
			if spec, err = appendEntity(spec, name, nil); err != nil {
				return nil, err
			}
		}
		return spec, nil
	case value.IsMSI():
		return appendEntityMap(nil, value.MSI())
	case value.IsInterSlice():
		var spec EntitySpec
		var err error
		for _, item := range value.InterSlice() {
			switch typed := item.(type) {
			case string:
				spec, err = appendEntity(spec, typed, nil)
			case map[string]any:
				spec, err = appendEntityMap(spec, typed)
			default:
				err = invalid(VarEntities, "unsupported entry %T", item)
			}
			if err != nil {
				return nil, err
			}
		}
		return spec, nil
	}

	if typed, ok := raw.(map[string]map[string]any); ok {
		spec := make(EntitySpec, 0, len(typed))
		for _, name := range sortedKeys(typed) {
			var err error
			if spec, err = appendEntity(spec, name, typed[name]); err != nil {
				return nil, err
			}
		}
		return spec, nil
	}
	return nil, invalid(VarEntities, "unsupported type %T", raw)
}

func appendEntityMap(spec EntitySpec, entries map[string]any) (EntitySpec, error) {
	for _, name := range sortedKeys(entries) {
		var options map[string]any
		switch typed := entries[name].(type) {
		case nil:
		case map[string]any:
			options = typed
		case objx.Map:
			options = typed
		default:
			return nil, invalid(VarEntities, "options for %q must be an object, got %T", name, typed)
		}
		var err error
		if spec, err = appendEntity(spec, name, options); err != nil {
			return nil, err
		}
	}
	return spec, nil
}

func appendEntity(spec EntitySpec, name string, options map[string]any) (EntitySpec, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid(VarEntities, "entity name is empty")
	}
	if options == nil {
		options = map[string]any{}
	}
	return append(spec, schema.Entry{Name: name, Options: options}), nil
}

func parseURL(value *objx.Value, fallback string) (string, error) {
	if value.IsNil() {
		return strings.TrimRight(fallback, "/"), nil
	}
	if !value.IsStr() {
		return "", invalid(VarURL, "expected a string, got %T", value.Data())
	}
	return strings.TrimRight(value.Str(), "/"), nil
}

// ParseLinks normalises a _links value into ordered links. encoder.Links keep
// the order they were given in; maps are ordered by relation vocabulary.
func ParseLinks(raw any) (encoder.Links, error) {
	switch typed := raw.(type) {
	case nil:
		return nil, nil
	case encoder.Links:
		return append(encoder.Links(nil), typed...), nil
	case map[string]encoder.Link:
		return encoder.LinksFromMap(typed), nil
	case map[string]*encoder.Link:
		links := make(map[string]encoder.Link, len(typed))
		for name, link := range typed {
			if link != nil {
				links[name] = *link
			}
		}
		return encoder.LinksFromMap(links), nil
	case map[string]string:
		links := make(map[string]encoder.Link, len(typed))
		for name, href := range typed {
			links[name] = encoder.NewLink(href)
		}
		return encoder.LinksFromMap(links), nil
	case map[string]any:
		links := make(map[string]encoder.Link, len(typed))
		for name, value := range typed {
			link, ok, err := parseLink(name, value)
			if err != nil {
				return nil, err
			}
			if ok {
				links[name] = link
			}
		}
		return encoder.LinksFromMap(links), nil
	default:
		return nil, invalid(VarLinks, "unsupported type %T", raw)
	}
}

func parseLink(name string, raw any) (encoder.Link, bool, error) {
	switch typed := raw.(type) {
	case nil:
		return encoder.Link{}, false, nil
	case encoder.Link:
		return typed, true, nil
	case *encoder.Link:
		if typed == nil {
			return encoder.Link{}, false, nil
		}
		return *typed, true, nil
	case string:
		return encoder.NewLink(typed), true, nil
	case map[string]any:
		obj := objx.Map(typed)
		href := obj.Get("href")
		if !href.IsStr() {
			return encoder.Link{}, false, invalid(VarLinks, "link %q requires a string href", name)
		}
		link := encoder.NewLinkWithMeta(href.Str(), obj.Get("meta").Data())
		link.Absolute = obj.Get("absolute").Bool()
		return link, true, nil
	default:
		return encoder.Link{}, false, invalid(VarLinks, "link %q has unsupported type %T", name, raw)
	}
}

func parseFieldsets(value *objx.Value) (map[string][]string, error) {
	if value.IsNil() {
		return nil, nil
	}

	var entries map[string]any
	switch typed := value.Data().(type) {
	case map[string][]string:
		entries = make(map[string]any, len(typed))
		for typ, fields := range typed {
			entries[typ] = fields
		}
	case map[string]string:
		entries = make(map[string]any, len(typed))
		for typ, fields := range typed {
			entries[typ] = fields
		}
	default:
		if !value.IsMSI() {
			return nil, invalid(VarFieldsets, "expected an object, got %T", value.Data())
		}
		entries = value.MSI()
	}

	out := make(map[string][]string, len(entries))
	for typ, raw := range entries {
		fields, err := stringList(VarFieldsets, raw)
		if err != nil {
			return nil, err
		}
		out[typ] = fields
	}
	return out, nil
}

func parseInclude(value *objx.Value) ([]string, error) {
	if value.IsNil() {
		return nil, nil
	}
	paths, err := stringList(VarInclude, value.Data())
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, nil
	}
	return paths, nil
}

// stringList accepts []string, []any of strings, or a comma separated string.
// Entries are trimmed and empty ones dropped.
func stringList(name string, raw any) ([]string, error) {
	var items []string
	switch typed := raw.(type) {
	case nil:
	case string:
		items = strings.Split(typed, ",")
	case []string:
		items = typed
	case []any:
		items = make([]string, 0, len(typed))
		for _, item := range typed {
			str, ok := item.(string)
			if !ok {
				return nil, invalid(name, "expected strings, got %T", item)
			}
			items = append(items, str)
		}
	default:
		return nil, invalid(name, "expected a list of strings, got %T", raw)
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out, nil
}

func parseJSONOptions(raw any, defaults encoder.Flags) (encoder.Flags, error) {
	var value int64
	switch typed := raw.(type) {
	case nil:
		return defaults, nil
	case bool:
		if typed {
			return 0, invalid(VarJSONOptions, "true is not a bitmask")
		}
		return 0, nil
	case encoder.Flags:
		value = int64(typed)
	case int:
		value = int64(typed)
	case int8:
		value = int64(typed)
	case int16:
		value = int64(typed)
	case int32:
		value = int64(typed)
	case int64:
		value = typed
	case uint:
		value = int64(typed)
	case uint8:
		value = int64(typed)
	case uint16:
		value = int64(typed)
	case uint32:
		value = int64(typed)
	case uint64:
		if typed > math.MaxInt32 {
			return 0, invalid(VarJSONOptions, "%d is out of range", typed)
		}
		value = int64(typed)
	case float64:
		if typed != math.Trunc(typed) {
			return 0, invalid(VarJSONOptions, "%v is not an integer", typed)
		}
		value = int64(typed)
	case json.Number:
		parsed, err := typed.Int64()
		if err != nil {
			return 0, invalid(VarJSONOptions, "%s is not an integer", typed)
		}
		value = parsed
	default:
		return 0, invalid(VarJSONOptions, "unsupported type %T", raw)
	}

	if value < 0 || value > math.MaxInt32 {
		return 0, invalid(VarJSONOptions, "%d is out of range", value)
	}
	return encoder.Flags(value), nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
