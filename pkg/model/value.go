package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ValueKind tags the shape held by a Value.
type ValueKind uint8

const (
	ValueAbsent ValueKind = iota
	ValueString
	ValueBool
)

func (k ValueKind) String() string {
	switch k {
	case ValueString:
		return "string"
	case ValueBool:
		return "bool"
	default:
		return "absent"
	}
}

// Value is the answer to a single field. Text-like fields carry strings,
// checkboxes carry booleans, and unanswered fields are absent.
type Value struct {
	Kind ValueKind
	Str  string
	Bool bool
}

// Values maps field ids to answers.
type Values map[string]Value

// Absent returns the zero Value.
func Absent() Value { return Value{} }

// String wraps a string answer.
func String(s string) Value { return Value{Kind: ValueString, Str: s} }

// Bool wraps a checkbox answer.
func Bool(b bool) Value { return Value{Kind: ValueBool, Bool: b} }

// IsEmpty reports whether the value counts as unanswered: absent, a blank
// string, or an unchecked box.
func (v Value) IsEmpty() bool {
	switch v.Kind {
	case ValueString:
		return strings.TrimSpace(v.Str) == ""
	case ValueBool:
		return !v.Bool
	default:
		return true
	}
}

// Text returns the textual representation used by length and pattern rules.
func (v Value) Text() string {
	switch v.Kind {
	case ValueString:
		return v.Str
	case ValueBool:
		return strconv.FormatBool(v.Bool)
	default:
		return ""
	}
}

// Any returns the plain Go value (nil, string or bool).
func (v Value) Any() any {
	switch v.Kind {
	case ValueString:
		return v.Str
	case ValueBool:
		return v.Bool
	default:
		return nil
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Any())
}

func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*v = Absent()
		return nil
	}
	var raw any
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return err
	}
	decoded, err := ValueFromAny(raw)
	if err != nil {
		return err
	}
	*v = decoded
	return nil
}

// ValueFromAny converts loosely typed input (decoded JSON, prompt answers) into
// a Value. Numbers are kept in their textual form since rules operate on text.
func ValueFromAny(raw any) (Value, error) {
	switch typed := raw.(type) {
	case nil:
		return Absent(), nil
	case Value:
		return typed, nil
	case string:
		return String(typed), nil
	case bool:
		return Bool(typed), nil
	case float64:
		return String(strconv.FormatFloat(typed, 'f', -1, 64)), nil
	case int:
		return String(strconv.Itoa(typed)), nil
	case int64:
		return String(strconv.FormatInt(typed, 10)), nil
	case json.Number:
		return String(typed.String()), nil
	default:
		return Value{}, fmt.Errorf("model: unsupported value type %T", raw)
	}
}

// Plain returns the values as a map of plain Go values.
func (vs Values) Plain() map[string]any {
	if vs == nil {
		return nil
	}
	out := make(map[string]any, len(vs))
	for id, value := range vs {
		out[id] = value.Any()
	}
	return out
}

// Clone returns an independent copy of the map.
func (vs Values) Clone() Values {
	if vs == nil {
		return Values{}
	}
	out := make(Values, len(vs))
	for id, value := range vs {
		out[id] = value
	}
	return out
}
