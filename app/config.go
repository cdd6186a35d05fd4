package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cosmossdk.io/log"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Config is the node configuration read from <home>/config/app.toml.
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	DB        DBConfig        `mapstructure:"db"`
	API       APIConfig       `mapstructure:"api"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Verifier  VerifierConfig  `mapstructure:"verifier"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type DBConfig struct {
	Backend string `mapstructure:"backend"`
	Dir     string `mapstructure:"dir"`
}

type APIConfig struct {
	Enable         bool          `mapstructure:"enable"`
	Address        string        `mapstructure:"address"`
	RateLimitRPS   float64       `mapstructure:"rate-limit-rps"`
	RateLimitBurst int           `mapstructure:"rate-limit-burst"`
	CORSOrigins    []string      `mapstructure:"cors-origins"`
	ReadTimeout    time.Duration `mapstructure:"read-timeout"`
	WriteTimeout   time.Duration `mapstructure:"write-timeout"`
}

type TelemetryConfig struct {
	MetricsAddress    string  `mapstructure:"metrics-address"`
	PrometheusEnabled bool    `mapstructure:"prometheus-enabled"`
	TracingEnabled    bool    `mapstructure:"tracing-enabled"`
	OTLPEndpoint      string  `mapstructure:"otlp-endpoint"`
	SampleRate        float64 `mapstructure:"sample-rate"`
	Environment       string  `mapstructure:"environment"`
}

type VerifierConfig struct {
	KeysDir      string `mapstructure:"keys-dir"`
	MaxProofSize int    `mapstructure:"max-proof-size"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "plain")

	v.SetDefault("db.backend", string(dbm.GoLevelDBBackend))
	v.SetDefault("db.dir", "data")

	v.SetDefault("api.enable", true)
	v.SetDefault("api.address", "127.0.0.1:1317")
	v.SetDefault("api.rate-limit-rps", 50.0)
	v.SetDefault("api.rate-limit-burst", 100)
	v.SetDefault("api.cors-origins", []string{"*"})
	v.SetDefault("api.read-timeout", "10s")
	v.SetDefault("api.write-timeout", "10s")

	v.SetDefault("telemetry.metrics-address", "127.0.0.1:36660")
	v.SetDefault("telemetry.prometheus-enabled", true)
	v.SetDefault("telemetry.tracing-enabled", false)
	v.SetDefault("telemetry.otlp-endpoint", "localhost:4318")
	v.SetDefault("telemetry.sample-rate", 0.1)
	v.SetDefault("telemetry.environment", "development")

	v.SetDefault("verifier.keys-dir", "keys")
	v.SetDefault("verifier.max-proof-size", 64*1024)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("toml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// ConfigPath returns the app.toml location under home.
func ConfigPath(home string) string {
	return filepath.Join(home, "config", "app.toml")
}

// GenesisPath returns the genesis.json location under home.
func GenesisPath(home string) string {
	return filepath.Join(home, "config", "genesis.json")
}

// LoadConfig reads app.toml under home, applies ZKMARKET_ environment
// overrides and resolves relative directories against home. A missing
// file yields the defaults.
func LoadConfig(home string) (Config, error) {
	v := newViper()
	path := ConfigPath(home)
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.DB.Dir = resolve(home, cfg.DB.Dir)
	cfg.Verifier.KeysDir = resolve(home, cfg.Verifier.KeysDir)
	return cfg, cfg.Validate()
}

// WriteDefaultConfig writes app.toml with default values under home.
func WriteDefaultConfig(home string) error {
	path := ConfigPath(home)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return newViper().WriteConfigAs(path)
}

// Validate checks the config for values the node cannot run with.
func (c Config) Validate() error {
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch c.Log.Format {
	case "plain", "json":
	default:
		return fmt.Errorf("log.format must be plain or json, got %q", c.Log.Format)
	}
	switch dbm.BackendType(c.DB.Backend) {
	case dbm.GoLevelDBBackend, dbm.MemDBBackend:
	default:
		return fmt.Errorf("db.backend %q is not supported", c.DB.Backend)
	}
	if c.API.RateLimitRPS <= 0 || c.API.RateLimitBurst <= 0 {
		return fmt.Errorf("api rate limit must be positive")
	}
	if c.Telemetry.SampleRate < 0 || c.Telemetry.SampleRate > 1 {
		return fmt.Errorf("telemetry.sample-rate must be between 0 and 1")
	}
	if c.Verifier.MaxProofSize <= 0 {
		return fmt.Errorf("verifier.max-proof-size must be positive")
	}
	return nil
}

// NewLogger builds the node logger from the log section.
func (c Config) NewLogger() log.Logger {
	level, err := zerolog.ParseLevel(c.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	opts := []log.Option{log.LevelOption(level)}
	if c.Log.Format == "json" {
		opts = append(opts, log.OutputJSONOption())
	}
	return log.NewLogger(os.Stderr, opts...)
}

// OpenDB opens the configured database backend.
func (c Config) OpenDB() (dbm.DB, error) {
	return dbm.NewDB("market", dbm.BackendType(c.DB.Backend), c.DB.Dir)
}

func resolve(home, dir string) string {
	if dir == "" || filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(home, dir)
}
