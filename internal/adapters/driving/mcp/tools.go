package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lodestone-ai/lodestone/internal/core/domain"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"the query to match against indexed document chunks"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of chunks to return (default: configured top-k)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput is a single retrieved chunk.
type SearchResultOutput struct {
	Source  string  `json:"source"`
	Path    string  `json:"path"`
	Page    int     `json:"page,omitempty"`
	Score   float64 `json:"score"`
	Content string  `json:"content"`
}

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question to answer from the knowledge base"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer  string          `json:"answer"`
	Sources []domain.Source `json:"sources"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Retrieve the document chunks most relevant to a query",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question grounded in the indexed documents, with source citations",
	}, s.handleAsk)
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	matches, err := s.ports.Search.Search(ctx, input.Query, input.Limit)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(matches)),
		Count:   len(matches),
	}
	for i, m := range matches {
		output.Results[i] = SearchResultOutput{
			Source:  m.Chunk.Metadata.Source,
			Path:    m.Chunk.Metadata.Path,
			Page:    m.Chunk.Metadata.Page,
			Score:   m.Score,
			Content: m.Chunk.Text,
		}
	}
	return nil, output, nil
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	answer, err := s.ports.Chat.Answer(ctx, input.Question)
	if err != nil {
		return nil, AskOutput{}, err
	}
	return nil, AskOutput{Answer: answer.Text, Sources: answer.Sources}, nil
}
