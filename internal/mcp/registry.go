package mcp

import (
	"math"

	"github.com/go-faster/errors"
)

// Schema is the JSON-Schema-shaped argument description attached to a tool.
type Schema struct {
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties"`
	Required   []string            `json:"required"`
}

// Property describes one argument. Nested Properties/Required support the
// single object-valued argument (customer address).
type Property struct {
	Type        string              `json:"type"`
	Description string              `json:"description,omitempty"`
	Default     any                 `json:"default,omitempty"`
	Minimum     *float64            `json:"minimum,omitempty"`
	Properties  map[string]Property `json:"properties,omitempty"`
	Required    []string            `json:"required,omitempty"`
}

// Tool is one registry entry: what tools/list reports and what validation
// runs against.
type Tool struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	InputSchema Schema `json:"inputSchema"`
}

// Registry is the static tool table. It answers tools/list verbatim and
// validates arguments before any handler runs.
type Registry struct {
	tools []Tool
	index map[string]int
}

// NewRegistry builds the registry with the fixed tool set.
func NewRegistry() *Registry {
	tools := toolTable()
	index := make(map[string]int, len(tools))
	for i, t := range tools {
		index[t.Name] = i
	}
	return &Registry{tools: tools, index: index}
}

// Tools returns the registry contents. The slice is shared; callers must
// not mutate it.
func (r *Registry) Tools() []Tool {
	return r.tools
}

// Lookup finds a tool by name.
func (r *Registry) Lookup(name string) (Tool, bool) {
	i, ok := r.index[name]
	if !ok {
		return Tool{}, false
	}
	return r.tools[i], true
}

// ValidateArguments checks args against the tool's schema and returns a
// normalized copy: defaults applied, integer-typed values coerced to int.
// Validation never mutates order state; a failure here means no handler
// runs at all.
func (r *Registry) ValidateArguments(t Tool, args map[string]any) (map[string]any, error) {
	if args == nil {
		args = map[string]any{}
	}
	out := make(map[string]any, len(args))
	for k, v := range args {
		out[k] = v
	}

	if err := validateObject(t.InputSchema.Properties, t.InputSchema.Required, out); err != nil {
		return nil, err
	}

	for name, prop := range t.InputSchema.Properties {
		if _, present := out[name]; !present && prop.Default != nil {
			out[name] = prop.Default
		}
	}
	return out, nil
}

func validateObject(props map[string]Property, required []string, obj map[string]any) error {
	for _, name := range required {
		if _, ok := obj[name]; !ok {
			return errors.Errorf("missing required argument %q", name)
		}
	}
	for name, prop := range props {
		v, ok := obj[name]
		if !ok {
			continue
		}
		normalized, err := validateValue(name, prop, v)
		if err != nil {
			return err
		}
		obj[name] = normalized
	}
	return nil
}

func validateValue(name string, prop Property, v any) (any, error) {
	switch prop.Type {
	case "string":
		s, ok := v.(string)
		if !ok {
			return nil, errors.Errorf("argument %q must be a string", name)
		}
		return s, nil

	case "integer":
		n, err := asInt(v)
		if err != nil {
			return nil, errors.Wrapf(err, "argument %q", name)
		}
		if prop.Minimum != nil && float64(n) < *prop.Minimum {
			return nil, errors.Errorf("argument %q must be >= %d", name, int(*prop.Minimum))
		}
		return n, nil

	case "object":
		m, ok := v.(map[string]any)
		if !ok {
			return nil, errors.Errorf("argument %q must be an object", name)
		}
		if len(prop.Properties) > 0 || len(prop.Required) > 0 {
			if err := validateObject(prop.Properties, prop.Required, m); err != nil {
				return nil, errors.Wrapf(err, "argument %q", name)
			}
		}
		return m, nil

	default:
		// Free-form argument, passed through unmodified.
		return v, nil
	}
}

// asInt accepts the numeric shapes JSON decoding can produce.
func asInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, errors.New("must be an integer")
		}
		return int(n), nil
	default:
		return 0, errors.New("must be an integer")
	}
}
