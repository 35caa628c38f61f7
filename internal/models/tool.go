// ABOUTME: ToolKind is the closed set of retrieval strategies the dispatcher can pick
// ABOUTME: Exactly one tool is selected per request; there is no fallback between tools
package models

// ToolKind identifies the retrieval strategy routed to for a query.
type ToolKind string

const (
	// ToolDocument retrieves from an uploaded document (direct or indexed tier).
	ToolDocument ToolKind = "file_search"
	// ToolVideo transcribes a referenced video.
	ToolVideo ToolKind = "video_transcribe"
	// ToolWeb researches the topic across web search providers.
	ToolWeb ToolKind = "web_search"
)
