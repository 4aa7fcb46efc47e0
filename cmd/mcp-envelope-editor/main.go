package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/a3tai/mcp-envelope-editor/internal/config"
	"github.com/a3tai/mcp-envelope-editor/internal/documents"
	"github.com/a3tai/mcp-envelope-editor/internal/logging"
	"github.com/a3tai/mcp-envelope-editor/internal/mcp"
	"github.com/a3tai/mcp-envelope-editor/internal/render"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

// newServer wires the renderer, loader and workspace behind the MCP server
func newServer(cfg *config.Config, log logrus.FieldLogger) (*mcp.Server, error) {
	engine, err := render.ParseEngine(cfg.Engine)
	if err != nil {
		return nil, err
	}
	renderer, err := render.NewRenderer(engine, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	loader, err := documents.NewLoader(cfg.DocumentDirectory, renderer, cfg.MaxFileSize, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create document loader: %w", err)
	}
	workspace, err := mcp.NewWorkspace(loader, renderer, log,
		mcp.WithZoom(cfg.Zoom),
		mcp.WithEmailSubject(cfg.EmailSubject),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}
	return mcp.NewServer(cfg, workspace, log)
}

// runServerMode handles server mode execution with signal handling
func runServerMode(ctx context.Context, cancel context.CancelFunc, server *mcp.Server, log logrus.FieldLogger) int {
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(signalCh)

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- server.Run(ctx)
	}()

	select {
	case sig := <-signalCh:
		log.WithField("signal", sig.String()).Info("initiating graceful shutdown")
		cancel()
		if err := <-serverErrCh; err != nil {
			log.WithError(err).Error("server shutdown with error")
			return 1
		}
	case err := <-serverErrCh:
		if err != nil {
			log.WithError(err).Error("server error")
			return 1
		}
	}

	log.Info("server stopped successfully")
	return 0
}

// runStdioMode handles stdio mode execution. The parent process controls our
// lifecycle; closing stdin ends the session.
func runStdioMode(ctx context.Context, server *mcp.Server, log logrus.FieldLogger) int {
	if err := server.Run(ctx); err != nil {
		log.WithError(err).Error("server error")
		return 1
	}
	return 0
}

func run() int {
	cfg, err := config.LoadFromFlags()
	if errors.Is(err, config.ErrVersionRequested) {
		printVersion(os.Stdout)
		return 0
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}

	log := logging.Setup(cfg)

	if version != "dev" {
		cfg.Version = version
	}
	log.WithField("config", cfg.String()).Debug("starting with configuration")

	server, err := newServer(cfg, log)
	if err != nil {
		log.WithError(err).Error("failed to create MCP server")
		fmt.Fprintf(os.Stderr, "Failed to create MCP server: %v\n", err)
		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.IsServerMode() {
		return runServerMode(ctx, cancel, server, log)
	}
	return runStdioMode(ctx, server, log)
}

func main() {
	os.Exit(run())
}

// printVersion prints version information
func printVersion(w io.Writer) {
	fmt.Fprintf(w, "MCP Envelope Editor\n")
	fmt.Fprintf(w, "Version: %s\n", version)
	fmt.Fprintf(w, "Build Time: %s\n", buildTime)
	fmt.Fprintf(w, "Git Commit: %s\n", gitCommit)
	fmt.Fprintf(w, "Built with: %s\n", runtime.Version())
}
