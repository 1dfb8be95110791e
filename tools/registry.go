package tools

// TaskCompleteName is the terminal action's name.
const TaskCompleteName = "task_complete"

// Registry returns all tool definitions wired for the agent, in a stable order.
func Registry() []ToolDefinition {
	return []ToolDefinition{
		ReadFileDefinition,
		WriteFileDefinition,
		ListDirectoryDefinition,
		ExecuteShellDefinition,
		HTTPRequestDefinition,
		TaskCompleteDefinition,
	}
}
