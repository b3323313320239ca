package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lodestone-ai/lodestone/internal/adapters/driving/mcp"
)

var mcpHTTPAddr string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

By default the server communicates over stdio using JSON-RPC and can be
used with Claude Desktop and other MCP-compatible AI assistants. Use
--http to serve the streamable HTTP transport instead.

Examples:
  # Stdio mode (default, for Claude Desktop)
  lodestone mcp

  # HTTP mode (for MCP Inspector, remote access)
  lodestone mcp --http 127.0.0.1:8080`,
	RunE: runMCP,
}

func init() {
	mcpCmd.Flags().StringVar(&mcpHTTPAddr, "http", "", "serve streamable HTTP on this address instead of stdio")
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, _ []string) error {
	server, err := mcp.NewServer(&mcp.Ports{
		Search: searchService,
		Chat:   chatService,
	})
	if err != nil {
		return err
	}

	if mcpHTTPAddr != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://%s\n", mcpHTTPAddr)
		return server.RunHTTP(cmd.Context(), mcpHTTPAddr)
	}
	return server.Run(cmd.Context())
}
