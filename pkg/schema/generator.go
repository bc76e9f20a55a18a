// Package schema derives JSON Schema documents from Go configuration types so
// that editors can validate hand-written YAML files.
package schema

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

type JSONSchema struct {
	Schema      string                 `json:"$schema,omitempty"`
	ID          string                 `json:"$id,omitempty"`
	Title       string                 `json:"title,omitempty"`
	Description string                 `json:"description,omitempty"`
	Type        string                 `json:"type"`
	Required    []string               `json:"required,omitempty"`
	Properties  map[string]*JSONSchema `json:"properties,omitempty"`
	Items       *JSONSchema            `json:"items,omitempty"`
	Enum        []any                  `json:"enum,omitempty"`
	Minimum     *float64               `json:"minimum,omitempty"`
	Examples    []any                  `json:"examples,omitempty"`

	AdditionalProperties *bool `json:"additionalProperties,omitempty"`
}

const schemaRef = "https://json-schema.org/draft/2020-12/schema"

// Generator walks struct fields by their yaml tag, falling back to the json
// tag. Supported field tags:
//
//	schema:"required,enum=a|b,min=0"
//	example:"value"
//	description:"text"
type Generator struct {
	baseID string
}

// NewGenerator builds schema ids as baseID + "/" + lower-cased type name.
func NewGenerator(baseID string) *Generator {
	return &Generator{baseID: strings.TrimSuffix(baseID, "/")}
}

func (g *Generator) Generate(v any) (*JSONSchema, error) {
	t := reflect.TypeOf(v)
	if t == nil {
		return nil, fmt.Errorf("cannot generate schema for nil")
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	root, err := g.forType(t)
	if err != nil {
		return nil, err
	}
	root.Schema = schemaRef
	root.Title = t.Name()
	if g.baseID != "" {
		root.ID = g.baseID + "/" + strings.ToLower(t.Name())
	}
	return root, nil
}

// GenerateJSON renders the schema of v as indented JSON.
func (g *Generator) GenerateJSON(v any) ([]byte, error) {
	s, err := g.Generate(v)
	if err != nil {
		return nil, err
	}
	out, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	return out, nil
}

func (g *Generator) forType(t reflect.Type) (*JSONSchema, error) {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.Struct:
		return g.forStruct(t)
	case reflect.Slice, reflect.Array:
		items, err := g.forType(t.Elem())
		if err != nil {
			return nil, fmt.Errorf("failed to generate schema for items: %w", err)
		}
		return &JSONSchema{Type: "array", Items: items}, nil
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return nil, fmt.Errorf("unsupported map key: %s", t.Key().Kind())
		}
		return &JSONSchema{Type: "object"}, nil
	case reflect.String:
		return &JSONSchema{Type: "string"}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &JSONSchema{Type: "integer"}, nil
	case reflect.Float32, reflect.Float64:
		return &JSONSchema{Type: "number"}, nil
	case reflect.Bool:
		return &JSONSchema{Type: "boolean"}, nil
	default:
		return nil, fmt.Errorf("unsupported type: %s", t.Kind())
	}
}

func (g *Generator) forStruct(t reflect.Type) (*JSONSchema, error) {
	closed := false
	s := &JSONSchema{
		Type:                 "object",
		Properties:           make(map[string]*JSONSchema),
		AdditionalProperties: &closed,
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		name := fieldName(field)
		if name == "" {
			continue
		}

		fs, err := g.forType(field.Type)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", field.Name, err)
		}
		fs.Description = field.Tag.Get("description")
		if ex := field.Tag.Get("example"); ex != "" {
			fs.Examples = []any{typedExample(fs.Type, ex)}
		}

		if applyTag(field.Tag.Get("schema"), fs) {
			s.Required = append(s.Required, name)
		}
		s.Properties[name] = fs
	}

	return s, nil
}

// applyTag copies schema tag constraints onto s and reports whether the
// field is required.
func applyTag(tag string, s *JSONSchema) bool {
	required := false
	for _, part := range strings.Split(tag, ",") {
		part = strings.TrimSpace(part)
		key, value, _ := strings.Cut(part, "=")

		switch key {
		case "required":
			required = true
		case "enum":
			for _, e := range strings.Split(value, "|") {
				s.Enum = append(s.Enum, e)
			}
		case "min":
			if f, err := strconv.ParseFloat(value, 64); err == nil {
				s.Minimum = &f
			}
		}
	}
	return required
}

func fieldName(field reflect.StructField) string {
	for _, key := range []string{"yaml", "json"} {
		tag, ok := field.Tag.Lookup(key)
		if !ok {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return strings.ToLower(field.Name[:1]) + field.Name[1:]
}

func typedExample(typ, raw string) any {
	switch typ {
	case "integer":
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return n
		}
	case "number":
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return f
		}
	case "boolean":
		if b, err := strconv.ParseBool(raw); err == nil {
			return b
		}
	}
	return raw
}
