package mcpapi

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"pitchdrill/app/service/corpus"
	"pitchdrill/app/service/engine"

	"github.com/go-playground/validator/v10"
	"github.com/mark3labs/mcp-go/server"
	"github.com/samber/do"
)

const (
	serverName    = "pitchdrill"
	serverVersion = "0.1.0"
)

// Server exposes the reply engine as MCP tools.
type Server struct {
	engineSvc *engine.Service
	corpus    *corpus.Corpus
	mcpServer *server.MCPServer
	validate  *validator.Validate
}

func New(di *do.Injector) (*Server, error) {
	return NewServer(
		do.MustInvoke[*engine.Service](di),
		do.MustInvoke[*corpus.Corpus](di),
	), nil
}

func NewServer(engineSvc *engine.Service, c *corpus.Corpus) *Server {
	s := &Server{
		engineSvc: engineSvc,
		corpus:    c,
		mcpServer: server.NewMCPServer(
			serverName,
			serverVersion,
			server.WithToolCapabilities(false),
		),
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}

	s.mcpServer.AddTool(classifyScenarioTool(), s.handleClassifyScenario)
	s.mcpServer.AddTool(detectIntentTool(), s.handleDetectIntent)
	s.mcpServer.AddTool(nextReplyTool(), s.handleNextReply)
	s.mcpServer.AddTool(listScenariosTool(), s.handleListScenarios)

	return s
}

// Run serves MCP over stdio until ctx is done or stdin is closed.
func (s *Server) Run(ctx context.Context) error {
	slog.Info("MCP server listening on stdio")

	if err := server.NewStdioServer(s.mcpServer).Listen(ctx, os.Stdin, os.Stdout); err != nil && ctx.Err() == nil {
		return fmt.Errorf("serve MCP: %w", err)
	}

	return nil
}
