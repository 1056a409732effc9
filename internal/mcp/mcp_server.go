// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kyhsueh/codegrade/internal/contract"
)

// NewMCPServer initializes and configures the codegrade MCP server without
// starting it. This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config) *server.MCPServer {
	s := server.NewMCPServer(
		"Codegrade Analysis Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{baseCfg: baseCfg}

	// --- 1. Tool: score_authors ---
	s.AddTool(mcp.NewTool("score_authors",
		mcp.WithDescription("Mine git history and grade every contributor's work habits (S/A/B/C/D with per-metric breakdown)."),
		mcp.WithString("project_path", mcp.Description("Path to the project (defaults to the configured project if not specified).")),
		mcp.WithString("authors", mcp.Description("Comma-separated author allow-list.")),
		mcp.WithNumber("max_commits", mcp.Description("Maximum number of recent commits to analyze.")),
	), h.handleScoreAuthors)

	// --- 2. Tool: get_top_changed_files ---
	s.AddTool(mcp.NewTool("get_top_changed_files",
		mcp.WithDescription("Rank files by change frequency with a four-tier change distribution."),
		mcp.WithString("project_path", mcp.Description("Path to the project.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of results returned.")),
	), h.handleGetTopChangedFiles)

	// --- 3. Tool: analyze_repository ---
	s.AddTool(mcp.NewTool("analyze_repository",
		mcp.WithDescription("Run the full analysis: static complexity, git history, and contributor quality scores."),
		mcp.WithString("project_path", mcp.Description("Path to the project.")),
		mcp.WithNumber("max_commits", mcp.Description("Maximum number of recent commits to analyze.")),
	), h.handleAnalyzeRepository)

	return s
}

// StartMCPServer starts the codegrade MCP server over stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config) error {
	s := NewMCPServer(baseCfg)
	return server.ServeStdio(s)
}
