package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sgrust01/json-surf/internal/domain"
)

// Config holds the json-surf server configuration.
type Config struct {
	HTTP        HTTPConfig         `yaml:"http"`
	Auth        AuthConfig         `yaml:"auth"`
	Storage     StorageConfig      `yaml:"storage"`
	Query       QueryConfig        `yaml:"query"`
	Logging     LoggingConfig      `yaml:"logging"`
	Collections []CollectionConfig `yaml:"collections"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error (default: determined by env)
	Format string `yaml:"format"` // json, console (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
	MaxBatchSize    int `yaml:"max_batch_size"`
}

// StorageConfig holds index storage settings.
type StorageConfig struct {
	Home               string `yaml:"home"`
	WriterMemoryBudget uint64 `yaml:"writer_memory_budget_bytes"`
	LockTimeoutSec     int    `yaml:"lock_timeout_sec"`
	OpenConcurrency    int    `yaml:"open_concurrency"`
}

// QueryConfig holds read-path defaults.
type QueryConfig struct {
	DefaultLimit    int     `yaml:"default_limit"`
	DefaultMinScore float64 `yaml:"default_min_score"`
	SelectLimit     int     `yaml:"select_limit"`
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

// Parse decodes, defaults and validates configuration bytes.
func Parse(data []byte) (Config, error) {
	// Substitute env variables of the form ${VAR}
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

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
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
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.HTTP.MaxBatchSize <= 0 {
		c.HTTP.MaxBatchSize = 1000
	}
	if c.Storage.Home == "" {
		c.Storage.Home = domain.DefaultHome
	}
	if c.Storage.WriterMemoryBudget == 0 {
		c.Storage.WriterMemoryBudget = domain.DefaultWriterMemoryBudget
	}
	if c.Storage.LockTimeoutSec <= 0 {
		c.Storage.LockTimeoutSec = 5
	}
	if c.Storage.OpenConcurrency <= 0 {
		c.Storage.OpenConcurrency = 4
	}
	if c.Query.DefaultLimit <= 0 {
		c.Query.DefaultLimit = domain.DefaultLimit
	}
	if c.Query.SelectLimit <= 0 {
		c.Query.SelectLimit = domain.SelectLimit
	}
}

// QueryDefaults returns the read-path defaults for the search service.
func (c *Config) QueryDefaults() domain.QueryConfig {
	return domain.QueryConfig{
		DefaultLimit:    c.Query.DefaultLimit,
		DefaultMinScore: c.Query.DefaultMinScore,
		SelectLimit:     c.Query.SelectLimit,
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Query.DefaultMinScore < 0 {
		return fmt.Errorf("query.default_min_score must not be negative, got %v", c.Query.DefaultMinScore)
	}
	switch c.Logging.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
	seen := make(map[string]bool, len(c.Collections))
	for i, col := range c.Collections {
		if col.Name == "" {
			return fmt.Errorf("collections[%d].name is required", i)
		}
		if seen[col.Name] {
			return fmt.Errorf("collections.%s is declared twice", col.Name)
		}
		seen[col.Name] = true
		if col.Sample.Kind != yaml.MappingNode {
			return fmt.Errorf("collections.%s.sample must be a mapping", col.Name)
		}
	}
	return nil
}

// findConfigPath locates the config file. JSONSURF_CONFIG, when set, is
// used as is.
func findConfigPath(env string) string {
	if path := os.Getenv("JSONSURF_CONFIG"); path != "" {
		return path
	}
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
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
