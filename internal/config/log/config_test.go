package log

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"

	"github.com/weisyn/custody/pkg/types"
)

func TestNewAppliesUserConfig(t *testing.T) {
	cfg := New(nil)
	assert.Equal(t, "info", cfg.GetLevel())
	assert.True(t, cfg.IsConsoleEnabled())
	assert.Empty(t, cfg.GetFilePath())

	cfg = New(&types.UserLogConfig{
		Level:    types.StringPtr(" WARN "),
		FilePath: types.StringPtr("/var/log/custody.log"),
	})
	assert.Equal(t, zapcore.WarnLevel, cfg.GetZapLevel())
	assert.Equal(t, "/var/log/custody.log", cfg.GetFilePath())
	assert.False(t, cfg.IsConsoleEnabled())
}

func TestGetZapLevel(t *testing.T) {
	tests := []struct {
		level string
		want  zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"error", zapcore.ErrorLevel},
		{"fatal", zapcore.FatalLevel},
		{"panic", zapcore.InfoLevel},
		{"verbose", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := NewFromOptions(&LogOptions{Level: tt.level})
			assert.Equal(t, tt.want, cfg.GetZapLevel())
		})
	}
}

func TestDefaultFilePath(t *testing.T) {
	assert.Empty(t, DefaultFilePath(""))
	assert.Equal(t, filepath.Join("data", "logs", "custody.log"), DefaultFilePath("data"))
}

type logProvider struct{ opts *LogOptions }

func (p logProvider) GetLog() *LogOptions { return p.opts }

func TestNewFromProvider(t *testing.T) {
	opts := &LogOptions{Level: "debug"}
	assert.Same(t, opts, NewFromProvider(logProvider{opts}).GetOptions())
	assert.Equal(t, "info", NewFromProvider(struct{}{}).GetLevel())
}
