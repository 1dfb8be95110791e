package tools

import (
	"context"
	"encoding/json"
)

type TaskCompleteInput struct {
	Result string `json:"result" jsonschema_description:"Final result or summary of the completed task"`
}

var TaskCompleteDefinition = ToolDefinition{
	Name:        TaskCompleteName,
	Description: "Mark the task as complete with a final result",
	Schema:      GenerateSchema[TaskCompleteInput](),
	Function:    TaskComplete,
	Terminal:    true,
}

// TaskComplete has no effect; it hands the result back for the loop to finish with.
func TaskComplete(_ context.Context, _ Env, input json.RawMessage) (string, error) {
	var in TaskCompleteInput
	if err := json.Unmarshal(input, &in); err != nil {
		return "", classify(KindSchema, err)
	}
	return in.Result, nil
}
