// Package mcpserver exposes calculator sessions as Model Context Protocol
// tools over stdio.
package mcpserver

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"go-chi-calculator/internal/session"
)

const serverName = "go-chi-calculator"

// Server is the calculator MCP server
type Server struct {
	mcpServer *server.MCPServer
	sessions  *session.Store
	logger    *zap.Logger
}

// New creates the MCP server and registers its tools.
func New(sessions *session.Store, version string, logger *zap.Logger) *Server {
	s := &Server{
		mcpServer: server.NewMCPServer(serverName, version),
		sessions:  sessions,
		logger:    logger,
	}
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	pressTool := NewPressTool(s.sessions, s.logger)
	s.mcpServer.AddTool(pressTool.GetTool(), pressTool.Handle)

	clearTool := NewClearTool(s.sessions)
	s.mcpServer.AddTool(clearTool.GetTool(), clearTool.Handle)
}

// ServeStdio serves MCP on stdin/stdout until the client disconnects. The
// session janitor runs for as long as the server does.
func (s *Server) ServeStdio(ctx context.Context, sweepInterval time.Duration) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go s.sessions.Run(ctx, sweepInterval)

	s.logger.Info("serving calculator MCP tools on stdio")

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("serve MCP stdio: %w", err)
	}
	return nil
}
