// ABOUTME: MCP command starts Model Context Protocol server
// ABOUTME: Enables LLM agents to generate posts via stdio

package commands

import (
	"github.com/spf13/cobra"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/postforge/postforge/internal/mcp"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs postforge as an MCP (Model Context Protocol) server over stdio,
exposing generate_post, ingest_document, and clear_conversation tools.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically launched by an agent host)
  postforge mcp

  # Configure in claude_desktop_config.json:
  # {
  #   "mcpServers": {
  #     "postforge": {
  #       "command": "postforge",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}
}

// runMCP starts the MCP server
func runMCP(cmd *cobra.Command, args []string) error {
	svc, err := buildServices()
	if err != nil {
		return err
	}
	defer svc.close()

	server := mcpserver.NewMCPServer(
		"postforge",
		versionInfo.Version,
	)
	mcp.RegisterTools(server, svc.orch, svc.logger)

	svc.logger.Info("mcp server starting on stdio")
	return mcpserver.ServeStdio(server)
}
