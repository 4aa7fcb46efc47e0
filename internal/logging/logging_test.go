package logging

import (
	"bytes"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/a3tai/mcp-envelope-editor/internal/config"
)

func TestSetupWithOutput(t *testing.T) {
	tests := []struct {
		name      string
		mode      string
		level     string
		wantLevel logrus.Level
		wantOut   bool
	}{
		{"stdio info is silent", config.ModeStdio, "info", logrus.InfoLevel, false},
		{"stdio debug writes", config.ModeStdio, "debug", logrus.DebugLevel, true},
		{"server info writes", config.ModeServer, "info", logrus.InfoLevel, true},
		{"server warn", config.ModeServer, "warn", logrus.WarnLevel, true},
		{"unknown level falls back to info", config.ModeServer, "loud", logrus.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			cfg.Mode = tt.mode
			cfg.LogLevel = tt.level

			var buf bytes.Buffer
			log := SetupWithOutput(cfg, &buf)
			assert.Equal(t, tt.wantLevel, log.GetLevel())

			log.WithField("tool", "envelope_info").Warn("hello")
			if tt.wantOut {
				assert.Contains(t, buf.String(), "hello")
				assert.Contains(t, buf.String(), "tool=envelope_info")
			} else {
				assert.Empty(t, buf.String())
				assert.Equal(t, io.Discard, log.Out)
			}
		})
	}
}

func TestSetup_ServerModeTimestamps(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Mode = config.ModeServer

	log := Setup(cfg)
	formatter, ok := log.Formatter.(*logrus.TextFormatter)
	if assert.True(t, ok) {
		assert.True(t, formatter.FullTimestamp)
	}
}
