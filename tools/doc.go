// Package tools defines the closed set of actions the model may request and
// the executor that performs them.
//
// Includes:
//   - ToolDefinition: name, description, JSON input schema, handler.
//   - GenerateSchema[T](): derive JSON Schema from Go input structs.
//   - Registry(): read_file, write_file, list_directory, execute_shell,
//     http_request, task_complete (in that order).
//   - Executor: validates input against the schema and runs one handler,
//     converting every failure into a ToolResult.
//
// Invariant: Executor.Execute never returns an error and never panics; each
// ToolCall yields exactly one ToolResult carrying the call's ID.
package tools
