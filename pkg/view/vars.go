package view

import (
	"sort"

	"github.com/stretchr/objx"
)

// Reserved variable names. Every other key in a Vars bag is data.
const (
	VarURL         = "_url"
	VarEntities    = "_entities"
	VarInclude     = "_include"
	VarFieldsets   = "_fieldsets"
	VarLinks       = "_links"
	VarMeta        = "_meta"
	VarSerialize   = "_serialize"
	VarJSONOptions = "_jsonOptions"
	VarJSONP       = "_jsonp"
)

var reservedVars = []string{
	VarURL,
	VarEntities,
	VarInclude,
	VarFieldsets,
	VarLinks,
	VarMeta,
	VarSerialize,
	VarJSONOptions,
	VarJSONP,
}

// ReservedVars returns the reserved variable names.
func ReservedVars() []string {
	return append([]string(nil), reservedVars...)
}

// IsReserved reports whether key is a reserved variable name.
func IsReserved(key string) bool {
	for _, reserved := range reservedVars {
		if key == reserved {
			return true
		}
	}
	return false
}

// Vars is the variable bag a controller hands to the view.
type Vars map[string]any

// Lookup returns the raw value stored under key. Keys are matched literally,
// dots included.
func (v Vars) Lookup(key string) (any, bool) {
	value, ok := v[key]
	return value, ok
}

// Set stores value under key and returns the bag.
func (v Vars) Set(key string, value any) Vars {
	v[key] = value
	return v
}

// Data returns the non-reserved entries.
func (v Vars) Data() map[string]any {
	return objx.Map(v).Exclude(reservedVars)
}

// DataKeys returns the non-reserved keys in sorted order.
func (v Vars) DataKeys() []string {
	data := v.Data()
	keys := make([]string, 0, len(data))
	for key := range data {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// value wraps a reserved entry for type inspection. Absent and nil entries
// both report IsNil.
func (v Vars) value(key string) *objx.Value {
	return objx.Map(v).Get(key)
}
