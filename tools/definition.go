package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/invopop/jsonschema"

	"github.com/petasbytes/sasa/internal/safety"
)

// ToolFunc performs a tool's effect. input has already passed schema validation.
type ToolFunc func(ctx context.Context, env Env, input json.RawMessage) (string, error)

// ToolDefinition describes one callable action.
type ToolDefinition struct {
	Name        string
	Description string
	Schema      *jsonschema.Schema
	Function    ToolFunc
	// Terminal marks the action whose successful invocation ends a run.
	Terminal bool
}

// Env is what handlers may touch besides their input.
type Env struct {
	Policy       safety.Policy
	HTTPClient   *http.Client
	Shell        string
	ShellTimeout time.Duration
}

// DefaultEnv allows everything and uses /bin/sh with no explicit timeouts.
func DefaultEnv() Env {
	return Env{
		Policy:     safety.Unrestricted(),
		HTTPClient: http.DefaultClient,
		Shell:      "sh",
	}
}

// GenerateSchema reflects the JSON Schema of a tool input struct. Fields are
// required unless their json tag carries omitempty.
func GenerateSchema[T any]() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: true,
		DoNotReference:            true,
		Anonymous:                 true,
	}
	var v T
	return reflector.Reflect(v)
}

// InputSchema converts the definition's schema into the SDK request shape.
func (d ToolDefinition) InputSchema() anthropic.ToolInputSchemaParam {
	if d.Schema == nil {
		return anthropic.ToolInputSchemaParam{}
	}
	return anthropic.ToolInputSchemaParam{
		Properties: d.Schema.Properties,
		Required:   d.Schema.Required,
	}
}

// Param is a flattened view of one input parameter.
type Param struct {
	Name        string
	Type        string
	Description string
	Required    bool
	Enum        []string
}

// Params lists the definition's parameters in declaration order.
func (d ToolDefinition) Params() []Param {
	if d.Schema == nil || d.Schema.Properties == nil {
		return nil
	}
	required := make(map[string]bool, len(d.Schema.Required))
	for _, name := range d.Schema.Required {
		required[name] = true
	}
	var out []Param
	for pair := d.Schema.Properties.Oldest(); pair != nil; pair = pair.Next() {
		p := Param{Name: pair.Key, Required: required[pair.Key]}
		if s := pair.Value; s != nil {
			p.Type = s.Type
			p.Description = s.Description
			for _, e := range s.Enum {
				p.Enum = append(p.Enum, fmt.Sprint(e))
			}
		}
		out = append(out, p)
	}
	return out
}

// SDKTools converts definitions to the tool list sent with every model request.
func SDKTools(defs []ToolDefinition) []anthropic.ToolUnionParam {
	out := make([]anthropic.ToolUnionParam, 0, len(defs))
	for _, t := range defs {
		out = append(out, anthropic.ToolUnionParam{OfTool: &anthropic.ToolParam{
			Name:        t.Name,
			Description: anthropic.String(t.Description),
			InputSchema: t.InputSchema(),
		}})
	}
	return out
}

// Lookup returns the definition named name.
func Lookup(defs []ToolDefinition, name string) (ToolDefinition, bool) {
	for _, d := range defs {
		if d.Name == name {
			return d, true
		}
	}
	return ToolDefinition{}, false
}
