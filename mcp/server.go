package mcp

import (
	"github.com/lukman83/catalog-scrap/internal/catalog"
	"github.com/mark3labs/mcp-go/server"
)

const (
	serverName    = "catalog-scrap"
	serverVersion = "1.0.0"
)

// NewServer returns an MCP server exposing the catalog tools backed by svc.
func NewServer(svc *catalog.Service) *server.MCPServer {
	s := server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(true),
	)

	registerTools(s, svc)
	return s
}

// Serve starts the MCP stdio server with all tools registered.
func Serve(svc *catalog.Service) error {
	return server.ServeStdio(NewServer(svc))
}
