// Package mcp provides an MCP (Model Context Protocol) server adapter for
// Lodestone. It lets AI assistants search the knowledge base and ask
// grounded questions against it.
package mcp

import "errors"

// ErrMissingSearcher is returned when the search service is not provided.
var ErrMissingSearcher = errors.New("mcp: search service is required")

// ErrMissingChatService is returned when the chat service is not provided.
var ErrMissingChatService = errors.New("mcp: chat service is required")
