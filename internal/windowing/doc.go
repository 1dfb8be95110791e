// Package windowing audits a request history before it is sent to the model.
//
// The full history is always sent. Inspect groups messages into atomic units
// (singletons and tool_use/tool_result pairs), estimates the input cost with a
// TokenCounter and reports broken pairing or an exceeded input budget.
package windowing
