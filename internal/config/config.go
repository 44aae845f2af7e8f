// Package config loads the symdx server configuration from config/<env>.yaml.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Database drivers.
const (
	DriverNone   = "none"
	DriverFile   = "file"
	DriverRedis  = "redis"
	DriverValkey = "valkey"
)

// Config holds the symdx API configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Knowledge KnowledgeConfig `yaml:"knowledge"`
	Matcher   MatcherConfig   `yaml:"matcher"`
	Diagnosis DiagnosisConfig `yaml:"diagnosis"`
	History   HistoryConfig   `yaml:"history"`
	Cache     CacheConfig     `yaml:"cache"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int      `yaml:"port"`
	ReadTimeoutSec  int      `yaml:"read_timeout_sec"`
	WriteTimeoutSec int      `yaml:"write_timeout_sec"`
	ShutdownSec     int      `yaml:"shutdown_timeout_sec"`
	AllowedOrigins  []string `yaml:"allowed_origins"`
}

// DatabaseConfig selects the history/cache backend.
type DatabaseConfig struct {
	Driver           string   `yaml:"driver"` // none, file, redis, valkey (default: none)
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// KnowledgeConfig points to an optional YAML knowledge base.
type KnowledgeConfig struct {
	Path string `yaml:"path"` // empty = built-in knowledge base
}

// MatcherConfig tunes the n-gram symptom matcher.
type MatcherConfig struct {
	Threshold    float64 `yaml:"threshold"`
	TopPerPhrase int     `yaml:"top_per_phrase"`
	MinGram      int     `yaml:"min_gram"`
	MaxGram      int     `yaml:"max_gram"`
}

// DiagnosisConfig tunes ranking.
type DiagnosisConfig struct {
	TopN int `yaml:"top_n"`
}

// HistoryConfig holds history storage and listing settings.
type HistoryConfig struct {
	FilePath     string `yaml:"file_path"`
	MaxRecords   int    `yaml:"max_records"`
	DefaultLimit int    `yaml:"default_limit"`
	MaxLimit     int    `yaml:"max_limit"`
}

// CacheConfig holds diagnosis cache settings. Only used with redis/valkey.
type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	TTLSec  int  `yaml:"ttl_sec"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}
	return Parse(data)
}

// Parse decodes YAML config data, expanding ${VAR} references and applying defaults.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8000
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DriverNone
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Matcher.Threshold == 0 {
		c.Matcher.Threshold = 0.15
	}
	if c.Matcher.TopPerPhrase == 0 {
		c.Matcher.TopPerPhrase = 2
	}
	if c.Matcher.MinGram == 0 {
		c.Matcher.MinGram = 2
	}
	if c.Matcher.MaxGram == 0 {
		c.Matcher.MaxGram = 4
	}
	if c.Diagnosis.TopN <= 0 {
		c.Diagnosis.TopN = 3
	}
	if c.History.FilePath == "" {
		c.History.FilePath = filepath.Join("data", "history.json")
	}
	if c.History.MaxRecords <= 0 {
		c.History.MaxRecords = 200
	}
	if c.History.MaxLimit <= 0 {
		c.History.MaxLimit = 200
	}
	if c.History.DefaultLimit <= 0 {
		c.History.DefaultLimit = min(50, c.History.MaxLimit)
	}
	if c.Cache.TTLSec <= 0 {
		c.Cache.TTLSec = 3600
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Database.Driver {
	case DriverNone, DriverFile:
	case DriverRedis, DriverValkey:
		if len(c.Database.Addrs) == 0 {
			return fmt.Errorf("database.addrs is required for driver %q", c.Database.Driver)
		}
	default:
		return fmt.Errorf("database.driver must be one of none, file, redis, valkey, got %q", c.Database.Driver)
	}
	if c.Matcher.Threshold <= 0 || c.Matcher.Threshold > 1 {
		return fmt.Errorf("matcher.threshold must be in (0, 1], got %v", c.Matcher.Threshold)
	}
	if c.Matcher.TopPerPhrase < 1 {
		return fmt.Errorf("matcher.top_per_phrase must be >= 1, got %d", c.Matcher.TopPerPhrase)
	}
	if c.Matcher.MinGram < 1 || c.Matcher.MaxGram < c.Matcher.MinGram {
		return fmt.Errorf("matcher n-gram range [%d, %d] is invalid", c.Matcher.MinGram, c.Matcher.MaxGram)
	}
	if c.Diagnosis.TopN < 1 || c.Diagnosis.TopN > 3 {
		return fmt.Errorf("diagnosis.top_n must be between 1 and 3, got %d", c.Diagnosis.TopN)
	}
	if c.History.DefaultLimit > c.History.MaxLimit {
		return fmt.Errorf("history.default_limit (%d) exceeds history.max_limit (%d)",
			c.History.DefaultLimit, c.History.MaxLimit)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// Relative to the source file, for tests and `go run` from subdirectories.
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
