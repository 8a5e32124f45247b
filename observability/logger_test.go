package observability

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/notargets/MeshQuality/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func setupTestLogger(cfg config.LoggerConfig) *bytes.Buffer {
	buf := new(bytes.Buffer)
	Initialize(cfg, zapcore.AddSync(buf))
	return buf
}

func TestInitialize_Console(t *testing.T) {
	ResetForTest()
	defer ResetForTest()

	buf := setupTestLogger(config.LoggerConfig{
		Level:       "debug",
		Format:      "console",
		ServiceName: "meshquality",
		Colors:      config.ColorConfig{Info: "green"},
	})
	GetLogger().Info("Evaluated mesh quality", zap.Int("elements", 4))
	Sync()

	out := buf.String()
	assert.Contains(t, out, colorGreen+"INFO"+colorReset)
	assert.Contains(t, out, "meshquality.")
	assert.Contains(t, out, "Evaluated mesh quality")
	assert.Contains(t, out, `"elements": 4`)
}

func TestInitialize_JSONAndLevel(t *testing.T) {
	ResetForTest()
	defer ResetForTest()

	buf := setupTestLogger(config.LoggerConfig{Level: "warn", Format: "json", ServiceName: "mq"})
	log := GetLogger()
	log.Info("hidden")
	log.Warn("degenerate element", zap.Int("element", 3))
	Sync()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "mq", entry["logger"])
	assert.Equal(t, "degenerate element", entry["msg"])
	assert.Equal(t, float64(3), entry["element"])
}

func TestInitialize_OnlyOnce(t *testing.T) {
	ResetForTest()
	defer ResetForTest()

	first := setupTestLogger(config.LoggerConfig{Level: "info", Format: "json"})
	second := setupTestLogger(config.LoggerConfig{Level: "info", Format: "json"})
	GetLogger().Info("once")
	Sync()

	assert.Contains(t, first.String(), "once")
	assert.Empty(t, second.String())
}

func TestInitialize_LogFile(t *testing.T) {
	ResetForTest()
	defer ResetForTest()

	path := filepath.Join(t.TempDir(), "meshquality.log")
	setupTestLogger(config.LoggerConfig{Level: "info", Format: "console", LogFile: path, MaxSize: 1})
	GetLogger().Error("zero mesh inputs found")
	Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"level":"ERROR"`)
	assert.Contains(t, string(data), "zero mesh inputs found")
}

func TestGetLogger_Fallback(t *testing.T) {
	ResetForTest()
	assert.NotNil(t, GetLogger())
	// Sync with no global logger is a no-op
	Sync()
}
