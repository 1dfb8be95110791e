package tools

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/petasbytes/sasa/internal/fsops"
)

type ListDirectoryInput struct {
	Path string `json:"path" jsonschema:"minLength=1" jsonschema_description:"Path to the directory to list"`
}

var ListDirectoryDefinition = ToolDefinition{
	Name:        "list_directory",
	Description: "List contents of a directory",
	Schema:      GenerateSchema[ListDirectoryInput](),
	Function:    ListDirectory,
}

// ListDirectory returns the directory's entry names, one per line.
func ListDirectory(_ context.Context, env Env, input json.RawMessage) (string, error) {
	var in ListDirectoryInput
	if err := json.Unmarshal(input, &in); err != nil {
		return "", classify(KindSchema, err)
	}
	names, err := fsops.ListDir(env.Policy, in.Path)
	if err != nil {
		return "", classify(KindIO, err)
	}
	return strings.Join(names, "\n"), nil
}
