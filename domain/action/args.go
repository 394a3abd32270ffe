package action

import (
	"encoding/json"
	"fmt"
	"math"
)

// ArgType is the primitive type tag of an action argument.
type ArgType string

const (
	TypeString  ArgType = "string"
	TypeNumber  ArgType = "number"
	TypeInteger ArgType = "integer"
	TypeBoolean ArgType = "boolean"
	TypeObject  ArgType = "object"
	TypeArray   ArgType = "array"
)

// IsValid returns true if the type tag is recognized.
func (t ArgType) IsValid() bool {
	switch t {
	case TypeString, TypeNumber, TypeInteger, TypeBoolean, TypeObject, TypeArray:
		return true
	default:
		return false
	}
}

// Arg describes one entry of an action's argument schema.
type Arg struct {
	Name        string  `json:"name"`
	Type        ArgType `json:"type"`
	Description string  `json:"description"`
	Optional    bool    `json:"optional,omitempty"`
}

// Args is a decoded argument record.
type Args map[string]any

// String returns the named argument as a string, or "" if absent or not a string.
func (a Args) String(name string) string {
	s, _ := a[name].(string)
	return s
}

// Number returns the named argument as a float64.
func (a Args) Number(name string) (float64, bool) {
	switch v := a[name].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// Bool returns the named argument as a bool.
func (a Args) Bool(name string) (bool, bool) {
	b, ok := a[name].(bool)
	return b, ok
}

// ParseArgs decodes a JSON object into Args.
func ParseArgs(raw json.RawMessage) (Args, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return Args{}, nil
	}
	var args Args
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgs, err)
	}
	if args == nil {
		args = Args{}
	}
	return args, nil
}

// Validate checks args against the schema: required fields present and
// primitive types matching. Unknown fields are ignored.
func Validate(schema []Arg, args Args) error {
	for _, arg := range schema {
		v, ok := args[arg.Name]
		if !ok || v == nil {
			if arg.Optional {
				continue
			}
			return fmt.Errorf("%w: missing required argument %q", ErrInvalidArgs, arg.Name)
		}
		if !matchesType(arg.Type, v) {
			return fmt.Errorf("%w: argument %q must be %s", ErrInvalidArgs, arg.Name, arg.Type)
		}
	}
	return nil
}

func matchesType(t ArgType, v any) bool {
	switch t {
	case TypeString:
		_, ok := v.(string)
		return ok
	case TypeBoolean:
		_, ok := v.(bool)
		return ok
	case TypeNumber:
		_, ok := Args{"v": v}.Number("v")
		return ok
	case TypeInteger:
		f, ok := Args{"v": v}.Number("v")
		return ok && f == math.Trunc(f)
	case TypeObject:
		_, ok := v.(map[string]any)
		return ok
	case TypeArray:
		_, ok := v.([]any)
		return ok
	default:
		return false
	}
}
