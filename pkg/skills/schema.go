package skills

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/invopop/jsonschema"
	"github.com/pkg/errors"
)

// FieldType is the declared type of a schema field.
type FieldType string

const (
	FieldString FieldType = "string"
	FieldInt    FieldType = "integer"
	FieldFloat  FieldType = "number"
	FieldBool   FieldType = "boolean"
)

// Field describes one named parameter of a skill.
type Field struct {
	Name        string
	Type        FieldType
	Required    bool
	Default     any
	Description string

	// Min and Max bound numeric fields when non-nil.
	Min *float64
	Max *float64
	// MaxLength bounds string fields when non-nil.
	MaxLength *int
}

// ValidationError names the offending field and the reason a candidate
// parameter set was rejected.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("parameter %q: %s", e.Field, e.Reason)
}

// ParameterSchema is an ordered set of named fields used both to validate
// extracted parameters and to document the skill to the planner.
type ParameterSchema struct {
	fields []Field
}

// NewParameterSchema builds a schema from the given fields. It fails when
// field names collide or a required field declares a default, both of
// which are programming errors in the skill definition.
func NewParameterSchema(fields ...Field) (ParameterSchema, error) {
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if f.Name == "" {
			return ParameterSchema{}, errors.New("schema field with empty name")
		}
		if _, ok := seen[f.Name]; ok {
			return ParameterSchema{}, errors.Errorf("duplicate schema field %q", f.Name)
		}
		seen[f.Name] = struct{}{}
		if f.Required && f.Default != nil {
			return ParameterSchema{}, errors.Errorf("required field %q must not declare a default", f.Name)
		}
	}
	return ParameterSchema{fields: fields}, nil
}

// MustParameterSchema is NewParameterSchema that panics on error. Skill
// definitions are wired at process start, so a bad schema should fail fast.
func MustParameterSchema(fields ...Field) ParameterSchema {
	s, err := NewParameterSchema(fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// Fields returns the declared fields in order.
func (s ParameterSchema) Fields() []Field {
	return s.fields
}

// Validate checks candidate parameters against the schema and returns a
// normalized mapping with defaults filled in and types coerced. Validation
// is pure: the same input always yields the same result.
func (s ParameterSchema) Validate(params map[string]any) (map[string]any, error) {
	normalized := make(map[string]any, len(s.fields))
	for _, f := range s.fields {
		raw, present := params[f.Name]
		if !present || raw == nil {
			if f.Required {
				return nil, &ValidationError{Field: f.Name, Reason: "required field is missing"}
			}
			if f.Default != nil {
				normalized[f.Name] = f.Default
			}
			continue
		}

		value, err := coerce(f, raw)
		if err != nil {
			return nil, err
		}
		normalized[f.Name] = value
	}
	return normalized, nil
}

func coerce(f Field, raw any) (any, error) {
	switch f.Type {
	case FieldString:
		str, ok := raw.(string)
		if !ok {
			return nil, &ValidationError{Field: f.Name, Reason: fmt.Sprintf("expected string, got %T", raw)}
		}
		if f.MaxLength != nil && len([]rune(str)) > *f.MaxLength {
			return nil, &ValidationError{Field: f.Name, Reason: fmt.Sprintf("exceeds maximum length of %d characters", *f.MaxLength)}
		}
		return str, nil

	case FieldInt:
		n, err := toInt(raw)
		if err != nil {
			return nil, &ValidationError{Field: f.Name, Reason: err.Error()}
		}
		if err := checkRange(f, float64(n)); err != nil {
			return nil, err
		}
		return n, nil

	case FieldFloat:
		n, err := toFloat(raw)
		if err != nil {
			return nil, &ValidationError{Field: f.Name, Reason: err.Error()}
		}
		if err := checkRange(f, n); err != nil {
			return nil, err
		}
		return n, nil

	case FieldBool:
		switch v := raw.(type) {
		case bool:
			return v, nil
		case string:
			b, err := strconv.ParseBool(v)
			if err != nil {
				return nil, &ValidationError{Field: f.Name, Reason: fmt.Sprintf("expected boolean, got %q", v)}
			}
			return b, nil
		default:
			return nil, &ValidationError{Field: f.Name, Reason: fmt.Sprintf("expected boolean, got %T", raw)}
		}

	default:
		return nil, &ValidationError{Field: f.Name, Reason: fmt.Sprintf("unsupported field type %q", f.Type)}
	}
}

func checkRange(f Field, n float64) error {
	if f.Min != nil && n < *f.Min {
		return &ValidationError{Field: f.Name, Reason: fmt.Sprintf("value %v is below the minimum of %v", n, *f.Min)}
	}
	if f.Max != nil && n > *f.Max {
		return &ValidationError{Field: f.Name, Reason: fmt.Sprintf("value %v is above the maximum of %v", n, *f.Max)}
	}
	return nil
}

// toInt accepts the numeric representations a JSON decode or an LLM reply
// may produce for an integer field.
func toInt(raw any) (int, error) {
	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("expected integer, got %v", v)
		}
		return int(v), nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, fmt.Errorf("expected integer, got %q", v.String())
		}
		return int(n), nil
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("expected integer, got %q", v)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("expected integer, got %T", raw)
	}
}

func toFloat(raw any) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case json.Number:
		return v.Float64()
	case string:
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, fmt.Errorf("expected number, got %q", v)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("expected number, got %T", raw)
	}
}

// JSONSchema renders the schema as a JSON Schema object for embedding in
// the planner's skill catalogue.
func (s ParameterSchema) JSONSchema() *jsonschema.Schema {
	props := jsonschema.NewProperties()
	var required []string
	for _, f := range s.fields {
		prop := &jsonschema.Schema{
			Type:        string(f.Type),
			Description: f.Description,
		}
		if f.Default != nil {
			prop.Default = f.Default
		}
		if f.Min != nil {
			prop.Minimum = json.Number(strconv.FormatFloat(*f.Min, 'f', -1, 64))
		}
		if f.Max != nil {
			prop.Maximum = json.Number(strconv.FormatFloat(*f.Max, 'f', -1, 64))
		}
		if f.MaxLength != nil {
			l := uint64(*f.MaxLength)
			prop.MaxLength = &l
		}
		props.Set(f.Name, prop)
		if f.Required {
			required = append(required, f.Name)
		}
	}
	return &jsonschema.Schema{
		Type:                 "object",
		Properties:           props,
		Required:             required,
		AdditionalProperties: jsonschema.FalseSchema,
	}
}
