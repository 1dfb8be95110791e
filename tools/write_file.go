package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/petasbytes/sasa/internal/fsops"
)

type WriteFileInput struct {
	Path    string `json:"path" jsonschema:"minLength=1" jsonschema_description:"Path to the file to write"`
	Content string `json:"content" jsonschema_description:"Content to write to the file"`
}

var WriteFileDefinition = ToolDefinition{
	Name:        "write_file",
	Description: "Write content to a file. Creates the file if it doesn't exist",
	Schema:      GenerateSchema[WriteFileInput](),
	Function:    WriteFile,
}

// WriteFile replaces the file's contents. The parent directory must exist.
func WriteFile(_ context.Context, env Env, input json.RawMessage) (string, error) {
	var in WriteFileInput
	if err := json.Unmarshal(input, &in); err != nil {
		return "", classify(KindSchema, err)
	}
	if err := fsops.WriteFile(env.Policy, in.Path, in.Content); err != nil {
		return "", classify(KindIO, err)
	}
	return fmt.Sprintf("Successfully wrote to %s", in.Path), nil
}
