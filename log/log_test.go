package log

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDefaultLoggerIsNop(t *testing.T) {
	require.NotNil(t, Logger)
	Logger.Info("dropped")
}

func TestInitLoggerToFile(t *testing.T) {
	prev := Logger
	t.Cleanup(func() { Logger = prev })

	path := filepath.Join(t.TempDir(), "server.log")
	require.NoError(t, InitLogger("warn", path))

	Logger.Info("filtered out")
	Logger.Warn("protocol error", zap.String("addr", "127.0.0.1:1"))
	Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "protocol error", entry["msg"])
	assert.Equal(t, "127.0.0.1:1", entry["addr"])
}

func TestInitLoggerRejectsLevel(t *testing.T) {
	prev := Logger
	t.Cleanup(func() { Logger = prev })

	assert.Error(t, InitLogger("loud", ""))
	assert.Same(t, prev, Logger)
}
