package entity

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
)

// ErrNotObject is returned when a value does not encode to a JSON object and
// therefore has no fields.
var ErrNotObject = errors.New("entity: value does not encode to an object")

// ToMap returns the visible fields of v. Entities answer directly, string
// keyed maps are copied, and any other value is read through its JSON
// encoding so struct tags decide field names. Numbers decoded along the way
// keep their literal form (json.Number).
func ToMap(v any) (map[string]any, error) {
	switch typed := v.(type) {
	case nil:
		return nil, ErrNotObject
	case Entity:
		return typed.ToMap(), nil
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, value := range typed {
			out[key] = value
		}
		return out, nil
	}

	payload, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("entity: encode %T: %w", v, err)
	}
	decoder := json.NewDecoder(bytes.NewReader(payload))
	decoder.UseNumber()

	var out map[string]any
	if err := decoder.Decode(&out); err != nil {
		return nil, fmt.Errorf("entity: decode %T: %w", v, err)
	}
	if out == nil {
		return nil, ErrNotObject
	}
	return out, nil
}

// Field returns the value of a single field of v, following the same rules as
// ToMap. Entities may expose hidden fields through Get.
func Field(v any, name string) (any, bool, error) {
	switch typed := v.(type) {
	case nil:
		return nil, false, nil
	case Entity:
		value, ok := typed.Get(name)
		return value, ok, nil
	case map[string]any:
		value, ok := typed[name]
		return value, ok, nil
	}

	fields, err := ToMap(v)
	if err != nil {
		return nil, false, err
	}
	value, ok := fields[name]
	return value, ok, nil
}

// FormatID renders an identifier value as the string JSON:API requires.
// Integral floats print without a fraction so decoded JSON numbers round trip.
func FormatID(v any) string {
	switch typed := v.(type) {
	case nil:
		return ""
	case string:
		return typed
	case json.Number:
		return typed.String()
	case []byte:
		return string(typed)
	case fmt.Stringer:
		return typed.String()
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, rv.Type().Bits())
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool())
	case reflect.String:
		return rv.String()
	default:
		return fmt.Sprint(v)
	}
}
