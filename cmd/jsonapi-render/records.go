package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/jsonc"

	"github.com/goliatone/go-jsonapi/pkg/entity"
	"github.com/goliatone/go-jsonapi/pkg/view"
)

const (
	typeMember   = "_type"
	hiddenMember = "_hidden"
)

// parseVars decodes a JSONC variable bag. Numbers are kept as json.Number so
// ids keep their exact text. Data entries holding "_type" objects are turned
// into records.
func parseVars(data []byte) (view.Vars, error) {
	decoder := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
	decoder.UseNumber()

	var vars view.Vars
	if err := decoder.Decode(&vars); err != nil {
		return nil, fmt.Errorf("parse variable bag: %w", err)
	}
	if decoder.More() {
		return nil, errors.New("parse variable bag: trailing data after object")
	}
	if vars == nil {
		vars = view.Vars{}
	}

	for key, value := range vars {
		if view.IsReserved(key) {
			continue
		}
		converted, err := toRecords(value)
		if err != nil {
			return nil, fmt.Errorf("parse variable bag: %q: %w", key, err)
		}
		vars[key] = converted
	}
	if raw, ok := vars[view.VarSerialize]; ok {
		converted, err := toRecords(raw)
		if err != nil {
			return nil, fmt.Errorf("parse variable bag: %s: %w", view.VarSerialize, err)
		}
		vars[view.VarSerialize] = converted
	}
	return vars, nil
}

// toRecords converts an object with a "_type" member, or a list of them, into
// records. Other values are returned unchanged.
func toRecords(value any) (any, error) {
	switch typed := value.(type) {
	case map[string]any:
		if _, ok := typed[typeMember]; !ok {
			return value, nil
		}
		return toRecord(typed)
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			converted, err := toRecords(item)
			if err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
			out[i] = converted
		}
		return out, nil
	default:
		return value, nil
	}
}

func toRecord(object map[string]any) (*entity.Record, error) {
	typ, ok := object[typeMember].(string)
	if !ok || strings.TrimSpace(typ) == "" {
		return nil, fmt.Errorf("%s must be a non-empty string", typeMember)
	}

	values := make(map[string]any, len(object))
	for key, value := range object {
		if key == typeMember || key == hiddenMember {
			continue
		}
		values[key] = value
	}
	record := entity.NewRecord(strings.TrimSpace(typ), values)

	switch hidden := object[hiddenMember].(type) {
	case nil:
	case []any:
		for _, field := range hidden {
			name, ok := field.(string)
			if !ok {
				return nil, fmt.Errorf("%s must list field names", hiddenMember)
			}
			record.SetHidden(name)
		}
	default:
		return nil, fmt.Errorf("%s must list field names", hiddenMember)
	}
	return record, nil
}
