package goRoles

import (
	"encoding/json"
	"fmt"
)

// mergeRole overlays the JSON fields present in patch onto current. A key
// absent from patch keeps the current value; a key present in patch wins,
// including explicit zero values.
func mergeRole(current Role, patch []byte) (Role, error) {
	base, err := json.Marshal(current)
	if err != nil {
		return Role{}, err
	}

	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(base, &fields); err != nil {
		return Role{}, err
	}

	var overlay map[string]json.RawMessage
	if err := json.Unmarshal(patch, &overlay); err != nil {
		return Role{}, fmt.Errorf("%w: %v", ErrDecodeResponse, err)
	}
	for k, v := range overlay {
		fields[k] = v
	}

	merged, err := json.Marshal(fields)
	if err != nil {
		return Role{}, err
	}
	var out Role
	if err := json.Unmarshal(merged, &out); err != nil {
		return Role{}, fmt.Errorf("%w: %v", ErrDecodeResponse, err)
	}
	return out, nil
}
