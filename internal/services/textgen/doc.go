// Package textgen generates carousel slide copy through an OpenAI-compatible
// chat-completion service. The orchestrator depends only on the Generator
// interface; the payload parsing tolerates the usual model formatting quirks.
package textgen
