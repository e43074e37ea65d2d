// Package mcp exposes display layout operations as MCP tools over stdio, so
// an agent can inspect and rearrange outputs the same way the CLI does.
package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/xlayout/internal/engine"
)

const (
	ServerName    = "xlayout"
	ServerVersion = "0.1.0"
)

// Server is the MCP server for display layout control.
type Server struct {
	mcpServer *mcpsdk.Server
	engine    *engine.Engine
}

// NewServer creates an MCP server backed by the given engine.
func NewServer(eng *engine.Engine) *Server {
	s := &Server{engine: eng}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_outputs",
		Description: "List all display outputs with their connection state, modes and geometry, plus any ghost outputs the server still lists as monitors.",
	}, s.handleListOutputs)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "apply_layout",
		Description: "Apply a display layout: single (external relative to primary), triple (primary flanked left and right), auto (pick from connected count) or reset (everything to automatic mode). Ghost outputs are cleaned up first.",
	}, s.handleApplyLayout)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "save_profile",
		Description: "Save the current raw display report as a named profile for later restoration.",
	}, s.handleSaveProfile)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "load_profile",
		Description: "Restore a saved profile: outputs are reset to automatic mode, then each recorded output is set to its saved resolution. Relative placement is not restored.",
	}, s.handleLoadProfile)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "clean_outputs",
		Description: "Disable ghost outputs and disconnected outputs that still hold screen space, without changing the layout.",
	}, s.handleCleanOutputs)
}
