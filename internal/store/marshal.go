package store

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/gdlookup/internal/gddb"
)

// marshalFields converts record fields to JSON text for storage.
// Keys are written in sorted order so identical images produce identical files.
func marshalFields(fields gddb.Fields) (string, error) {
	if fields == nil {
		return "{}", nil
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("marshal fields: %w", err)
	}
	return string(data), nil
}

// unmarshalFields parses stored JSON text. Numbers keep their integer or
// float kind through gddb.Fields.UnmarshalJSON.
func unmarshalFields(data string) (gddb.Fields, error) {
	if data == "" || data == "{}" {
		return gddb.Fields{}, nil
	}
	var fields gddb.Fields
	if err := json.Unmarshal([]byte(data), &fields); err != nil {
		return nil, fmt.Errorf("%w: fields: %w", gddb.ErrCorrupt, err)
	}
	return fields, nil
}
