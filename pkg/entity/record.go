package entity

import (
	"sort"
	"strings"
)

// Entity is implemented by records that expose their fields without going
// through JSON encoding.
type Entity interface {
	// Get returns the raw value of a field, including hidden fields.
	Get(field string) (any, bool)
	// ToMap returns the visible fields as a fresh map the caller may mutate.
	ToMap() map[string]any
}

// Record is a map-backed entity carrying its entity type name. It is used when
// entity types are only known at runtime (CLI input, decoded payloads).
type Record struct {
	Type   string
	Values map[string]any
	hidden map[string]struct{}
}

var (
	_ Entity = (*Record)(nil)
	_ Kinded = (*Record)(nil)
)

// NewRecord builds a record of the given entity type. The values map is used
// as is.
func NewRecord(typ string, values map[string]any) *Record {
	if values == nil {
		values = make(map[string]any)
	}
	return &Record{
		Type:   strings.TrimSpace(typ),
		Values: values,
	}
}

// EntityKind implements Kinded.
func (r *Record) EntityKind() Kind {
	if r == nil || r.Type == "" {
		return ""
	}
	return RecordKind(r.Type)
}

// Get implements Entity.
func (r *Record) Get(field string) (any, bool) {
	if r == nil {
		return nil, false
	}
	value, ok := r.Values[field]
	return value, ok
}

// Has reports whether field is set to a non-nil value.
func (r *Record) Has(field string) bool {
	value, ok := r.Get(field)
	return ok && value != nil
}

// Set assigns a field value and returns the record for chaining.
func (r *Record) Set(field string, value any) *Record {
	if r.Values == nil {
		r.Values = make(map[string]any)
	}
	r.Values[field] = value
	return r
}

// SetHidden marks fields that ToMap must leave out. Hidden fields remain
// readable through Get.
func (r *Record) SetHidden(fields ...string) *Record {
	if r.hidden == nil {
		r.hidden = make(map[string]struct{}, len(fields))
	}
	for _, field := range fields {
		r.hidden[field] = struct{}{}
	}
	return r
}

// Hidden returns the hidden field names in sorted order.
func (r *Record) Hidden() []string {
	if r == nil || len(r.hidden) == 0 {
		return nil
	}
	out := make([]string, 0, len(r.hidden))
	for field := range r.hidden {
		out = append(out, field)
	}
	sort.Strings(out)
	return out
}

// ToMap implements Entity.
func (r *Record) ToMap() map[string]any {
	if r == nil {
		return map[string]any{}
	}
	out := make(map[string]any, len(r.Values))
	for field, value := range r.Values {
		if _, hidden := r.hidden[field]; hidden {
			continue
		}
		out[field] = value
	}
	return out
}
