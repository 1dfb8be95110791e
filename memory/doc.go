// Package memory holds the per-run conversation between the user, the model
// and the tool executor.
//
// A Conversation is append-only and is replayed in full on every model call.
// Every tool_results turn must answer exactly the tool calls of the assistant
// turn immediately before it.
//
// Transcripts can be exported with WriteTranscript for inspection. They are
// never loaded back.
package memory
