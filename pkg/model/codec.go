package model

import (
	"encoding/json"
	"fmt"
)

// Marshal serialises a definition into its persisted JSON form.
func Marshal(def *FormDefinition) ([]byte, error) {
	if def == nil {
		return nil, fmt.Errorf("model: marshal nil definition")
	}
	return json.Marshal(def)
}

// Unmarshal decodes a persisted definition and verifies its invariants so a
// corrupt snapshot never reaches the engines.
func Unmarshal(data []byte) (*FormDefinition, error) {
	var def FormDefinition
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("model: decode definition: %w", err)
	}
	if err := def.CheckInvariants(); err != nil {
		return nil, err
	}
	return &def, nil
}
