// Package logging configures the process logger for the configured run mode.
package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/a3tai/mcp-envelope-editor/internal/config"
)

// Setup builds a logger for cfg. In stdio mode stdout carries the MCP
// protocol, so logs go to stderr and only when debug logging is on.
func Setup(cfg *config.Config) *logrus.Logger {
	return SetupWithOutput(cfg, os.Stderr)
}

// SetupWithOutput is Setup with an explicit destination
func SetupWithOutput(cfg *config.Config, out io.Writer) *logrus.Logger {
	log := logrus.New()

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if cfg.IsStdioMode() {
		log.SetFormatter(&logrus.TextFormatter{DisableColors: true})
		if cfg.IsDebug() {
			log.SetOutput(out)
		} else {
			log.SetOutput(io.Discard)
		}
		return log
	}

	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	log.SetOutput(out)
	return log
}
