package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "stdio", cfg.Mode)
	assert.Equal(t, "127.0.0.1", cfg.Host)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "1.0.0", cfg.Version)
	assert.Equal(t, "mcp-envelope-editor", cfg.ServerName)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, int64(100*1024*1024), cfg.MaxFileSize)
	assert.Equal(t, "auto", cfg.Engine)
	assert.Equal(t, 1.0, cfg.Zoom)
	assert.Equal(t, "Please sign this document", cfg.EmailSubject)

	currentDir, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, currentDir, cfg.DocumentDirectory)
}

func validConfig(t *testing.T) *Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.DocumentDirectory = t.TempDir()
	return cfg
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "defaults"},
		{name: "server mode", mutate: func(c *Config) { c.Mode = ModeServer; c.Port = 9000 }},
		{name: "port ignored in stdio mode", mutate: func(c *Config) { c.Port = 0 }},
		{name: "zoom lower bound", mutate: func(c *Config) { c.Zoom = MinZoom }},
		{name: "zoom upper bound", mutate: func(c *Config) { c.Zoom = MaxZoom }},
		{name: "pdfcpu engine", mutate: func(c *Config) { c.Engine = EnginePDFCPU }},
		{name: "ledongthuc engine", mutate: func(c *Config) { c.Engine = EngineLedongthuc }},
		{
			name:    "invalid mode",
			mutate:  func(c *Config) { c.Mode = "grpc" },
			wantErr: "mode must be either 'stdio' or 'server'",
		},
		{
			name:    "port zero in server mode",
			mutate:  func(c *Config) { c.Mode = ModeServer; c.Port = 0 },
			wantErr: "port must be between 1 and 65535",
		},
		{
			name:    "port too high",
			mutate:  func(c *Config) { c.Mode = ModeServer; c.Port = 70000 },
			wantErr: "port must be between 1 and 65535",
		},
		{
			name:    "empty directory",
			mutate:  func(c *Config) { c.DocumentDirectory = "" },
			wantErr: "document directory cannot be empty",
		},
		{
			name:    "zero max file size",
			mutate:  func(c *Config) { c.MaxFileSize = 0 },
			wantErr: "maximum file size must be positive",
		},
		{
			name:    "unknown log level",
			mutate:  func(c *Config) { c.LogLevel = "trace" },
			wantErr: "invalid log level",
		},
		{
			name:    "unknown engine",
			mutate:  func(c *Config) { c.Engine = "poppler" },
			wantErr: "invalid engine",
		},
		{
			name:    "zoom too small",
			mutate:  func(c *Config) { c.Zoom = 0.1 },
			wantErr: "zoom must be between 0.25 and 3",
		},
		{
			name:    "zoom too large",
			mutate:  func(c *Config) { c.Zoom = 4 },
			wantErr: "zoom must be between 0.25 and 3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			if tt.mutate != nil {
				tt.mutate(cfg)
			}
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfigValidateCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "documents")
	cfg := DefaultConfig()
	cfg.DocumentDirectory = dir

	require.NoError(t, cfg.Validate())

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestConfigValidateLogLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		cfg := validConfig(t)
		cfg.LogLevel = level
		assert.NoError(t, cfg.Validate(), level)
	}
	for _, level := range []string{"DEBUG", "INFO", "trace", "fatal", ""} {
		cfg := validConfig(t)
		cfg.LogLevel = level
		assert.Error(t, cfg.Validate(), level)
	}
}

func TestConfigHelpers(t *testing.T) {
	cfg := &Config{
		Mode:              ModeServer,
		Host:              "localhost",
		Port:              3000,
		DocumentDirectory: "/srv/documents",
		LogLevel:          "debug",
		MaxFileSize:       2048,
		Engine:            EnginePDFCPU,
		Zoom:              1.5,
	}

	assert.Equal(t, "localhost:3000", cfg.Address())
	assert.True(t, cfg.IsDebug())
	assert.True(t, cfg.IsServerMode())
	assert.False(t, cfg.IsStdioMode())
	assert.Equal(t,
		"Config{Mode: server, Host: localhost, Port: 3000, DocumentDirectory: /srv/documents, "+
			"LogLevel: debug, MaxFileSize: 2048, Engine: pdfcpu, Zoom: 1.5}",
		cfg.String())

	cfg.Mode = ModeStdio
	cfg.LogLevel = "info"
	assert.False(t, cfg.IsDebug())
	assert.False(t, cfg.IsServerMode())
	assert.True(t, cfg.IsStdioMode())
}
