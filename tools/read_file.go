package tools

import (
	"context"
	"encoding/json"

	"github.com/petasbytes/sasa/internal/fsops"
)

type ReadFileInput struct {
	Path string `json:"path" jsonschema:"minLength=1" jsonschema_description:"Path to the file to read"`
}

var ReadFileDefinition = ToolDefinition{
	Name:        "read_file",
	Description: "Read contents of a file from the filesystem",
	Schema:      GenerateSchema[ReadFileInput](),
	Function:    ReadFile,
}

// ReadFile returns the file's full contents as text.
func ReadFile(_ context.Context, env Env, input json.RawMessage) (string, error) {
	var in ReadFileInput
	if err := json.Unmarshal(input, &in); err != nil {
		return "", classify(KindSchema, err)
	}
	content, err := fsops.ReadFile(env.Policy, in.Path)
	if err != nil {
		return "", classify(KindIO, err)
	}
	return content, nil
}
