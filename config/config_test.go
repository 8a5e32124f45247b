package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "console", cfg.Logger.Format)
	assert.Equal(t, "meshquality", cfg.Logger.ServiceName)
	assert.Equal(t, "green", cfg.Logger.Colors.Info)
	assert.Equal(t, "block", cfg.Engine.Strategy)
	assert.Equal(t, 0, cfg.Engine.Workers)
	assert.Equal(t, "text", cfg.Report.Format)
	assert.Equal(t, 0, cfg.Report.Metric)
	assert.Equal(t, 3, cfg.Report.Precision)
}

func TestNewConfigFromViper_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meshquality.yaml")
	content := `
engine:
  workers: 4
  strategy: round-robin
report:
  format: json
  metric: 3
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	v := viper.New()
	SetDefaults(v)
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := NewConfigFromViper(v)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Engine.Workers)
	assert.Equal(t, "round-robin", cfg.Engine.Strategy)
	assert.Equal(t, "json", cfg.Report.Format)
	assert.Equal(t, 3, cfg.Report.Metric)
	// Untouched keys keep their defaults
	assert.Equal(t, 3, cfg.Report.Precision)
	assert.Equal(t, "info", cfg.Logger.Level)
}

func TestNewConfigFromViper_Env(t *testing.T) {
	t.Setenv("MESHQUALITY_REPORT_METRIC", "2")
	t.Setenv("MESHQUALITY_ENGINE_PARTITION_SIZE", "64")

	v := viper.New()
	SetDefaults(v)
	BindEnv(v)

	cfg, err := NewConfigFromViper(v)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Report.Metric)
	assert.Equal(t, 64, cfg.Engine.PartitionSize)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"report format", func(c *Config) { c.Report.Format = "xml" }},
		{"log format", func(c *Config) { c.Logger.Format = "logfmt" }},
		{"negative workers", func(c *Config) { c.Engine.Workers = -1 }},
		{"negative partition size", func(c *Config) { c.Engine.PartitionSize = -5 }},
		{"strategy", func(c *Config) { c.Engine.Strategy = "metis" }},
		{"precision", func(c *Config) { c.Report.Precision = 20 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestNewConfigFromViper_UncoloredMetric(t *testing.T) {
	for _, code := range []int{0, 7, -2} {
		v := viper.New()
		SetDefaults(v)
		v.Set("report.metric", code)

		cfg, err := NewConfigFromViper(v)
		require.NoError(t, err, "metric %d", code)
		assert.Equal(t, code, cfg.Report.Metric)
	}
}
