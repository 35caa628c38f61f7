// ABOUTME: MCP tool handler implementations for the postforge server
// ABOUTME: Handlers report domain failures as tool errors, not protocol errors

package mcp

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/postforge/postforge/internal/orchestrator"
)

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	orch   *orchestrator.Orchestrator
	logger *zap.Logger
}

// GeneratePost handles the generate_post tool
func (h *Handlers) GeneratePost(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query argument is required and must be a string"), nil
	}
	conversationID := request.GetString("conversation_id", "")

	result, err := h.orch.Generate(ctx, orchestrator.Request{
		Query:          query,
		ConversationID: conversationID,
	})
	if err != nil {
		h.logger.Warn("generate_post failed", zap.Error(err))
		return mcp.NewToolResultError(err.Error()), nil
	}

	payload, err := json.Marshal(map[string]interface{}{
		"conversation_id": result.ConversationID,
		"tool":            string(result.Tool),
		"post":            result.Post,
		"truncated":       result.Truncated,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(payload)), nil
}

// IngestDocument handles the ingest_document tool
func (h *Handlers) IngestDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filename, err := request.RequireString("filename")
	if err != nil {
		return mcp.NewToolResultError("filename argument is required and must be a string"), nil
	}
	encoded, err := request.RequireString("content_base64")
	if err != nil {
		return mcp.NewToolResultError("content_base64 argument is required and must be a string"), nil
	}
	conversationID := request.GetString("conversation_id", "")

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return mcp.NewToolResultError("content_base64 is not valid base64"), nil
	}

	doc, err := h.orch.IngestDocument(ctx, filename, data, conversationID)
	if err != nil {
		h.logger.Warn("ingest_document failed", zap.Error(err))
		return mcp.NewToolResultError(err.Error()), nil
	}

	payload, err := json.Marshal(map[string]interface{}{
		"document_id": doc.DocumentID,
		"filename":    doc.Filename,
		"size_bytes":  doc.SizeBytes,
		"token_count": doc.TokenCount,
		"tier":        string(doc.Tier),
		"message":     fmt.Sprintf("Reference this document as %s in generate_post queries.", doc.DocumentID),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(payload)), nil
}

// ClearConversation handles the clear_conversation tool
func (h *Handlers) ClearConversation(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	conversationID, err := request.RequireString("conversation_id")
	if err != nil {
		return mcp.NewToolResultError("conversation_id argument is required and must be a string"), nil
	}

	if err := h.orch.ClearConversation(conversationID); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("conversation %s cleared", conversationID)), nil
}
