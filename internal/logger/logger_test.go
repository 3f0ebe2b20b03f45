package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gm.log")
	l, err := New(Config{Level: "debug", Encoding: "json", OutputPath: path})
	require.NoError(t, err)
	l.Debug("session created")
	require.NoError(t, l.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	line := string(data)
	assert.True(t, strings.Contains(line, `"msg":"session created"`), line)
	assert.True(t, strings.Contains(line, `"level":"DEBUG"`), line)
}

func TestNewFallsBackToInfo(t *testing.T) {
	l, err := New(Config{Level: "loud"})
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
}

func TestOrNop(t *testing.T) {
	assert.NotNil(t, OrNop(nil))
}
