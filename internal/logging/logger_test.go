package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(Config{Level: "chatty"})
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseLevel(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProductionWritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	logger, err := New(Config{Level: "info", OutputPaths: []string{path}})
	require.NoError(t, err)

	logger.Named("source").Info("loaded", zap.String("ref", "page.html"))
	logger.Debug("hidden")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"component":"source"`)
	assert.Contains(t, string(data), `"ref":"page.html"`)
	assert.NotContains(t, string(data), "hidden")
}

func TestFallbacks(t *testing.T) {
	assert.NotNil(t, NewDefault())
	assert.NotNil(t, NewDevelopment())
	assert.NotNil(t, OrNop(nil).Logger)

	l := Nop()
	assert.Same(t, l, OrNop(l))
	assert.NotNil(t, l.With(zap.Int("n", 1)).Logger)
}
