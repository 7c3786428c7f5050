package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/askdocs/knowledgebase/internal/documents"
	"github.com/askdocs/knowledgebase/internal/qa"
	"github.com/askdocs/knowledgebase/internal/search"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes the document knowledge base
// to AI agents over stdio.
type Server struct {
	search *search.Service
	qa     *qa.Service
	docs   *documents.Store
	mcp    *server.MCPServer
}

// NewServer creates a new MCP server with the given dependencies.
func NewServer(searchSvc *search.Service, qaSvc *qa.Service, docs *documents.Store) *Server {
	s := &Server{
		search: searchSvc,
		qa:     qaSvc,
		docs:   docs,
	}

	s.mcp = server.NewMCPServer(
		"askdocs",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(searchDocumentsTool, s.handleSearchDocuments)
	s.mcp.AddTool(askQuestionTool, s.handleAskQuestion)
	s.mcp.AddTool(listDocumentsTool, s.handleListDocuments)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
