package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/contentgen/backend/internal/infrastructure/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "zero config", cfg: Config{}},
		{name: "console stdout", cfg: Config{Level: "debug", Format: "console"}},
		{name: "json stderr", cfg: Config{Level: "error", Format: "json", Output: "stderr"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.cfg)
			require.NoError(t, err)
			assert.NotNil(t, l)
		})
	}
}

func TestNew_FileOutputWithFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.log")

	l, err := New(Config{
		Level:  "info",
		Format: "json",
		Output: path,
		Fields: []zap.Field{zap.String("app", "contentgen")},
	})
	require.NoError(t, err)
	l.Debug("hidden")
	l.Info("video created", zap.String("video_id", "video_1"))
	require.NoError(t, l.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(data, &entry))
	assert.Equal(t, "video created", entry["msg"])
	assert.Equal(t, "contentgen", entry["app"])
	assert.Equal(t, "video_1", entry["video_id"])
	assert.Equal(t, "info", entry["level"])
	assert.Contains(t, entry, "time")
}

func TestNew_UnwritableFile(t *testing.T) {
	_, err := New(Config{Output: filepath.Join(t.TempDir(), "missing", "dir", "app.log")})
	assert.Error(t, err)
}

func TestForServer_ProductionForcesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prod.log")
	l, err := ForServer(
		config.LogConfig{Level: "info", Format: "console", Output: path},
		config.AppConfig{Name: "contentgen", Env: "production"},
	)
	require.NoError(t, err)
	l.Info("started")
	require.NoError(t, l.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var entry map[string]any
	require.NoError(t, json.Unmarshal(data, &entry))
	assert.Equal(t, "production", entry["env"])
}

func TestForCLI(t *testing.T) {
	l, err := ForCLI("warn")
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, l.Core().Enabled(zapcore.WarnLevel))
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"DEBUG":   zapcore.DebugLevel,
		"info":    zapcore.InfoLevel,
		"warn":    zapcore.WarnLevel,
		"Warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"fatal":   zapcore.FatalLevel,
		"bogus":   zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLevel(in), in)
	}
}

func TestNamed_NilLogger(t *testing.T) {
	assert.NotNil(t, Named(nil, "youtube"))
}

func TestSync_NilLogger(t *testing.T) {
	assert.NoError(t, Sync(nil))
}
