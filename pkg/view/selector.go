package view

import "fmt"

// SelectorKind identifies how a Selector picks the primary data.
type SelectorKind int

const (
	// SelectFirst picks the first non-reserved entry in sorted key order.
	SelectFirst SelectorKind = iota
	// SelectNone renders no primary data.
	SelectNone
	// SelectName picks the entry stored under Name.
	SelectName
	// SelectValue uses Value directly. Deprecated.
	SelectValue
)

func (k SelectorKind) String() string {
	switch k {
	case SelectFirst:
		return "first"
	case SelectNone:
		return "none"
	case SelectName:
		return "name"
	case SelectValue:
		return "value"
	default:
		return fmt.Sprintf("SelectorKind(%d)", int(k))
	}
}

// Selector is the resolved form of the _serialize variable.
type Selector struct {
	Kind  SelectorKind
	Name  string
	Value any
}

// ParseSelector converts a _serialize value. present reports whether the key
// was set at all; a missing or nil value selects the first data entry. A list
// of names selects its first name and an empty list selects nothing. Anything
// that is not a bool, a name, or a list of names is a raw value.
func ParseSelector(raw any, present bool) Selector {
	if !present || raw == nil {
		return Selector{Kind: SelectFirst}
	}

	switch typed := raw.(type) {
	case bool:
		if typed {
			return Selector{Kind: SelectFirst}
		}
		return Selector{Kind: SelectNone}
	case string:
		return Selector{Kind: SelectName, Name: typed}
	case []string:
		if len(typed) == 0 {
			return Selector{Kind: SelectNone}
		}
		return Selector{Kind: SelectName, Name: typed[0]}
	case []any:
		if len(typed) == 0 {
			return Selector{Kind: SelectNone}
		}
		if name, ok := typed[0].(string); ok && allStrings(typed) {
			return Selector{Kind: SelectName, Name: name}
		}
	}
	return Selector{Kind: SelectValue, Value: raw}
}

// Resolve returns the primary data the selector picks from vars. ambiguous is
// true when SelectFirst had several candidates to choose from.
func (s Selector) Resolve(vars Vars) (data any, ambiguous bool) {
	switch s.Kind {
	case SelectFirst:
		keys := vars.DataKeys()
		if len(keys) == 0 {
			return nil, false
		}
		return vars[keys[0]], len(keys) > 1
	case SelectName:
		if IsReserved(s.Name) {
			return nil, false
		}
		value, _ := vars.Lookup(s.Name)
		return value, false
	case SelectValue:
		return s.Value, false
	default:
		return nil, false
	}
}

func allStrings(values []any) bool {
	for _, value := range values {
		if _, ok := value.(string); !ok {
			return false
		}
	}
	return true
}
