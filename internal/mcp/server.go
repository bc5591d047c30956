// Package mcp exposes the tutorial chapters to AI agents over the Model
// Context Protocol.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/pytutor/internal/chapters"
	"github.com/ziadkadry99/pytutor/internal/fetch"
)

// Version is set via ldflags at build time.
var Version = "dev"

// ChapterSource returns a chapter's Markdown after fence repair.
type ChapterSource interface {
	Source(ctx context.Context, ch chapters.Chapter) (fetch.Result, error)
}

// Server wraps an MCP server that exposes chapter tools.
type Server struct {
	registry *chapters.Registry
	source   ChapterSource
	mcp      *server.MCPServer
}

// NewServer creates a new MCP server over the given chapters.
func NewServer(registry *chapters.Registry, source ChapterSource) *Server {
	s := &Server{
		registry: registry,
		source:   source,
	}

	s.mcp = server.NewMCPServer(
		"pytutor",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(listChaptersTool, s.handleListChapters)
	s.mcp.AddTool(readChapterTool, s.handleReadChapter)
	s.mcp.AddTool(searchChaptersTool, s.handleSearchChapters)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
