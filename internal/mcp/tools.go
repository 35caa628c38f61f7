// ABOUTME: MCP tool definitions and registration for the postforge server
// ABOUTME: Defines JSON schemas for the generation, upload, and reset tools

package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/postforge/postforge/internal/orchestrator"
)

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, orch *orchestrator.Orchestrator, logger *zap.Logger) *Handlers {
	handlers := &Handlers{orch: orch, logger: logger}

	// 1. generate_post - run one generation request
	server.AddTool(mcp.Tool{
		Name:        "generate_post",
		Description: "Generate a professional social post from a topic query, a YouTube URL, or an uploaded document reference. Pass conversation_id to refine a previous post.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Topic, YouTube URL, document reference (doc_...), or a refinement instruction",
				},
				"conversation_id": map[string]interface{}{
					"type":        "string",
					"description": "Conversation to continue; omit to start a new one",
				},
			},
			Required: []string{"query"},
		},
	}, handlers.GeneratePost)

	// 2. ingest_document - upload a document for grounding
	server.AddTool(mcp.Tool{
		Name:        "ingest_document",
		Description: "Upload a PDF, TXT, or MD document (base64-encoded) to ground future posts on. Returns the document id to reference in generate_post queries.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"filename": map[string]interface{}{
					"type":        "string",
					"description": "Original filename including extension",
				},
				"content_base64": map[string]interface{}{
					"type":        "string",
					"description": "File content, base64-encoded",
				},
				"conversation_id": map[string]interface{}{
					"type":        "string",
					"description": "Conversation to attach the document to",
				},
			},
			Required: []string{"filename", "content_base64"},
		},
	}, handlers.IngestDocument)

	// 3. clear_conversation - reset conversation state
	server.AddTool(mcp.Tool{
		Name:        "clear_conversation",
		Description: "Delete a conversation's history and document association. Succeeds even if the conversation does not exist.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"conversation_id": map[string]interface{}{
					"type":        "string",
					"description": "Conversation to clear",
				},
			},
			Required: []string{"conversation_id"},
		},
	}, handlers.ClearConversation)

	return handlers
}
