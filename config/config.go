package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment overrides, e.g.
// MESHQUALITY_ENGINE_WORKERS=8
const EnvPrefix = "MESHQUALITY"

// Config is the complete runtime configuration
type Config struct {
	Logger LoggerConfig `mapstructure:"logger" yaml:"logger"`
	Engine EngineConfig `mapstructure:"engine" yaml:"engine"`
	Report ReportConfig `mapstructure:"report" yaml:"report"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig names the terminal color of each log level
type ColorConfig struct {
	Debug string `mapstructure:"debug" yaml:"debug"`
	Info  string `mapstructure:"info" yaml:"info"`
	Warn  string `mapstructure:"warn" yaml:"warn"`
	Error string `mapstructure:"error" yaml:"error"`
}

// EngineConfig controls how an evaluation pass is spread over workers
type EngineConfig struct {
	// Workers <= 0 means one per CPU
	Workers int `mapstructure:"workers" yaml:"workers"`
	// PartitionSize <= 0 splits the elements evenly over the workers
	PartitionSize int    `mapstructure:"partition_size" yaml:"partition_size"`
	Strategy      string `mapstructure:"strategy" yaml:"strategy"`
}

// ReportConfig selects the classification metric and the output rendering
type ReportConfig struct {
	Format string `mapstructure:"format" yaml:"format"`
	// Metric is the external metric code: 1 aspect ratio, 2 skewness,
	// 3 jacobian ratio. Any other code leaves elements uncolored.
	Metric    int `mapstructure:"metric" yaml:"metric"`
	Precision int `mapstructure:"precision" yaml:"precision"`
}

// NewDefaultConfig returns the configuration with every default applied
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults registers the default value of every key
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "meshquality")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")

	// -- Engine --
	v.SetDefault("engine.workers", 0)
	v.SetDefault("engine.partition_size", 0)
	v.SetDefault("engine.strategy", "block")

	// -- Report --
	v.SetDefault("report.format", "text")
	v.SetDefault("report.metric", 0)
	v.SetDefault("report.precision", 3)
}

// BindEnv makes every key overridable from MESHQUALITY_<SECTION>_<KEY>
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// NewConfigFromViper decodes and validates the configuration held by v
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

var (
	logFormats    = map[string]bool{"console": true, "json": true}
	reportFormats = map[string]bool{"text": true, "json": true}
	strategies    = map[string]bool{"block": true, "round-robin": true, "roundrobin": true}
)

// Validate checks the configuration for sane values.
func (c *Config) Validate() error {
	if !logFormats[c.Logger.Format] {
		return fmt.Errorf("logger.format must be console or json, got %q", c.Logger.Format)
	}
	if c.Engine.Workers < 0 {
		return fmt.Errorf("engine.workers must not be negative")
	}
	if c.Engine.PartitionSize < 0 {
		return fmt.Errorf("engine.partition_size must not be negative")
	}
	if !strategies[strings.ToLower(c.Engine.Strategy)] {
		return fmt.Errorf("engine.strategy must be block or round-robin, got %q", c.Engine.Strategy)
	}
	if !reportFormats[c.Report.Format] {
		return fmt.Errorf("report.format must be text or json, got %q", c.Report.Format)
	}
	if c.Report.Precision < 0 || c.Report.Precision > 12 {
		return fmt.Errorf("report.precision must be between 0 and 12")
	}
	return nil
}
