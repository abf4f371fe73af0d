package registry

import (
	"reflect"
	"strings"
)

// Schema is a structural JSON schema fragment derived from a request or
// response type. Object schemas carry nested properties; array schemas
// carry their item schema.
type Schema struct {
	Type        string            `json:"type"`
	Description string            `json:"description,omitempty"`
	Properties  map[string]Schema `json:"properties,omitempty"`
	Required    []string          `json:"required,omitempty"`
	Items       *Schema           `json:"items,omitempty"`
}

// SchemaFor derives a schema from a Go type using its struct tags: the
// json tag names the property, the desc tag describes it, and a field is
// required unless it is a pointer or carries omitempty.
func SchemaFor(t reflect.Type) Schema {
	return schemaFor(t, map[reflect.Type]bool{})
}

func schemaFor(t reflect.Type, seen map[reflect.Type]bool) Schema {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.String:
		return Schema{Type: "string"}
	case reflect.Bool:
		return Schema{Type: "boolean"}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Schema{Type: "integer"}
	case reflect.Float32, reflect.Float64:
		return Schema{Type: "number"}
	case reflect.Slice, reflect.Array:
		items := schemaFor(t.Elem(), seen)
		return Schema{Type: "array", Items: &items}
	case reflect.Map, reflect.Interface:
		return Schema{Type: "object"}
	case reflect.Struct:
		// Self-referential types bottom out as plain objects.
		if seen[t] {
			return Schema{Type: "object"}
		}
		seen[t] = true
		defer delete(seen, t)
		return structSchema(t, seen)
	default:
		return Schema{Type: "object"}
	}
}

func structSchema(t reflect.Type, seen map[reflect.Type]bool) Schema {
	schema := Schema{
		Type:       "object",
		Properties: map[string]Schema{},
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		name, opts := parseJSONTag(field)
		if name == "" {
			continue
		}

		prop := schemaFor(field.Type, seen)
		prop.Description = field.Tag.Get("desc")
		schema.Properties[name] = prop

		if field.Type.Kind() != reflect.Pointer && !opts.omitempty {
			schema.Required = append(schema.Required, name)
		}
	}
	return schema
}

type jsonTagOpts struct {
	omitempty bool
}

func parseJSONTag(field reflect.StructField) (string, jsonTagOpts) {
	tag := field.Tag.Get("json")
	if tag == "-" {
		return "", jsonTagOpts{}
	}

	parts := strings.Split(tag, ",")
	name := parts[0]
	if name == "" {
		name = field.Name
	}

	var opts jsonTagOpts
	for _, p := range parts[1:] {
		if p == "omitempty" {
			opts.omitempty = true
		}
	}
	return name, opts
}
