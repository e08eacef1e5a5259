package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"runtime"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Dataset sources.
const (
	SourceCSV   = "csv"
	SourceRedis = "redis"
)

// Config holds the movierec API configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Dataset   DatasetConfig   `yaml:"dataset"`
	Database  DatabaseConfig  `yaml:"database"`
	Recommend RecommendConfig `yaml:"recommend"`
	Auth      AuthConfig      `yaml:"auth"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn error"` // default: determined by env
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys" validate:"dive,required"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port" validate:"min=1,max=65535"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatasetConfig says where the item and rating tables come from.
type DatasetConfig struct {
	Source            string `yaml:"source" validate:"oneof=csv redis"` // default: csv
	ItemsPath         string `yaml:"items_path" validate:"required_if=Source csv"`
	RatingsPath       string `yaml:"ratings_path" validate:"required_if=Source csv"`
	KeyPrefix         string `yaml:"key_prefix"`
	PageSize          int    `yaml:"page_size" validate:"min=1"`
	ReloadIntervalSec int    `yaml:"reload_interval_sec" validate:"min=0"` // 0 = reload only on demand
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Driver           string   `yaml:"driver" validate:"oneof=valkey redis"` // default: valkey
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db" validate:"min=0"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// RecommendConfig holds catalog and scoring thresholds.
type RecommendConfig struct {
	QualityThreshold   float64 `yaml:"quality_threshold" validate:"gte=0,lte=5"`
	FanThreshold       float64 `yaml:"fan_threshold" validate:"gte=0,lte=5"`
	MinSimilarFraction float64 `yaml:"min_similar_fraction" validate:"gte=0,lt=1"`
	Limit              int     `yaml:"limit" validate:"min=1,max=100"`
}

// DefaultRecommendConfig returns the thresholds used for keys absent from the file.
func DefaultRecommendConfig() RecommendConfig {
	return RecommendConfig{
		QualityThreshold:   2.8,
		FanThreshold:       4.0,
		MinSimilarFraction: 0.10,
		Limit:              10,
	}
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

// Parse decodes YAML config bytes, expanding ${VAR} references, then applies
// defaults and validates the result. Thresholds are seeded before decoding,
// so an explicit 0 in the file is kept.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	cfg := Config{Recommend: DefaultRecommendConfig()}
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

// ApplyDefaults fills empty fields with default values. Thresholds, where 0 is a
// meaningful value, are defaulted by Parse instead.
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
	if c.Dataset.Source == "" {
		c.Dataset.Source = SourceCSV
	}
	if c.Dataset.KeyPrefix == "" {
		c.Dataset.KeyPrefix = "movierec:"
	}
	if c.Dataset.PageSize <= 0 {
		c.Dataset.PageSize = 1000
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "valkey"
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Recommend.Limit <= 0 {
		c.Recommend.Limit = DefaultRecommendConfig().Limit
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fieldError(verrs[0])
		}
		return err
	}
	if c.Dataset.Source == SourceRedis && len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required when dataset.source is %q", SourceRedis)
	}
	return nil
}

func fieldError(fe validator.FieldError) error {
	_, path, _ := strings.Cut(fe.Namespace(), ".") // drop the root struct name
	if fe.Param() != "" {
		return fmt.Errorf("%s must satisfy %s=%s, got %v", path, fe.Tag(), fe.Param(), fe.Value())
	}
	return fmt.Errorf("%s must satisfy %s, got %v", path, fe.Tag(), fe.Value())
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
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
