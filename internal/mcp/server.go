package mcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	"github.com/a3tai/mcp-envelope-editor/internal/config"
)

// shutdownTimeout bounds the graceful stop of the SSE server
const shutdownTimeout = 5 * time.Second

// Server represents the MCP server instance
type Server struct {
	config    *config.Config
	workspace *Workspace
	mcpServer *server.MCPServer
	log       logrus.FieldLogger

	stdin  io.Reader
	stdout io.Writer
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, workspace *Workspace, logger logrus.FieldLogger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if workspace == nil {
		return nil, fmt.Errorf("workspace cannot be nil")
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	s := &Server{
		config:    cfg,
		workspace: workspace,
		log:       logger,
		stdin:     os.Stdin,
		stdout:    os.Stdout,
	}

	s.mcpServer = server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false), // We don't support dynamic tool capabilities
		server.WithRecovery(),
		server.WithToolHandlerMiddleware(s.logToolCall),
	)
	s.mcpServer.AddTools(s.tools()...)

	return s, nil
}

// logToolCall records every tool invocation and its outcome
func (s *Server) logToolCall(next server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		result, err := next(ctx, request)

		entry := s.log.WithFields(logrus.Fields{
			"tool":     request.Params.Name,
			"duration": time.Since(start),
		})
		switch {
		case err != nil:
			entry.WithError(err).Error("tool call failed")
		case result != nil && result.IsError:
			entry.Warn("tool call returned an error")
		default:
			entry.Debug("tool call completed")
		}
		return result, err
	}
}

// Run starts the MCP server in the configured mode
func (s *Server) Run(ctx context.Context) error {
	switch {
	case s.config.IsServerMode():
		return s.runServerMode(ctx)
	case s.config.IsStdioMode():
		return s.runStdioMode(ctx)
	default:
		return fmt.Errorf("unsupported mode: %s", s.config.Mode)
	}
}

// runStdioMode serves JSON-RPC over stdin/stdout until EOF or cancellation
func (s *Server) runStdioMode(ctx context.Context) error {
	s.log.WithField("directory", s.config.DocumentDirectory).Debug("starting envelope MCP server in stdio mode")

	stdio := server.NewStdioServer(s.mcpServer)
	stdio.SetErrorLogger(log.New(logWriter{s.log}, "", 0))

	if err := stdio.Listen(ctx, s.stdin, s.stdout); err != nil && ctx.Err() == nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}

// runServerMode serves MCP over SSE on the configured address until ctx is done
func (s *Server) runServerMode(ctx context.Context) error {
	addr := s.config.Address()
	httpServer := &http.Server{Addr: addr, ReadHeaderTimeout: 10 * time.Second}
	sse := server.NewSSEServer(s.mcpServer,
		server.WithBaseURL("http://"+addr),
		server.WithKeepAlive(true),
		server.WithHTTPServer(httpServer),
	)
	httpServer.Handler = sse

	s.log.WithFields(logrus.Fields{
		"address":   addr,
		"directory": s.config.DocumentDirectory,
	}).Info("starting envelope MCP server in SSE mode")

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to serve sse: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := sse.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down sse server: %w", err)
		}
		s.log.Info("SSE server stopped")
		return nil
	}
}

// logWriter forwards transport errors to the structured logger
type logWriter struct {
	log logrus.FieldLogger
}

func (w logWriter) Write(p []byte) (int, error) {
	w.log.WithField("component", "stdio").Error(strings.TrimSpace(string(p)))
	return len(p), nil
}
