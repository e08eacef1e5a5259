package config

import (
	"strings"
	"testing"
)

func validConfig() Config {
	cfg := Config{
		HTTP: HTTPConfig{Port: 8080},
		Dataset: DatasetConfig{
			ItemsPath:   "data/movies.csv",
			RatingsPath: "data/ratings.csv",
		},
		Recommend: DefaultRecommendConfig(),
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestValidate_Valid(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid port")
	}
	if !strings.HasPrefix(err.Error(), "http.port") {
		t.Errorf("expected error to name http.port, got %q", err.Error())
	}
}

func TestValidate_UnknownSource(t *testing.T) {
	cfg := validConfig()
	cfg.Dataset.Source = "postgres"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for unknown source")
	}
	if !strings.HasPrefix(err.Error(), "dataset.source") {
		t.Errorf("expected error to name dataset.source, got %q", err.Error())
	}
}

func TestValidate_CSVRequiresPaths(t *testing.T) {
	cfg := validConfig()
	cfg.Dataset.RatingsPath = ""

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing ratings path")
	}
	if !strings.HasPrefix(err.Error(), "dataset.ratings_path") {
		t.Errorf("unexpected error: %q", err.Error())
	}
}

func TestValidate_RedisRequiresAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.Dataset.Source = SourceRedis
	cfg.Dataset.ItemsPath = ""
	cfg.Dataset.RatingsPath = ""

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing database addrs")
	}

	cfg.Database.Addrs = []string{"localhost:6379"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_Thresholds(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"quality above scale", func(c *Config) { c.Recommend.QualityThreshold = 6 }},
		{"fan above scale", func(c *Config) { c.Recommend.FanThreshold = 5.5 }},
		{"fraction of one", func(c *Config) { c.Recommend.MinSimilarFraction = 1 }},
		{"limit too large", func(c *Config) { c.Recommend.Limit = 1000 }},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }},
		{"empty api key", func(c *Config) { c.Auth.APIKeys = []string{"ok", ""} }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.Dataset.Source != SourceCSV {
		t.Errorf("expected Source=csv, got %q", cfg.Dataset.Source)
	}
	if cfg.Dataset.KeyPrefix != "movierec:" {
		t.Errorf("expected KeyPrefix='movierec:', got %q", cfg.Dataset.KeyPrefix)
	}
	if cfg.Dataset.PageSize != 1000 {
		t.Errorf("expected PageSize=1000, got %d", cfg.Dataset.PageSize)
	}
	if cfg.Database.Driver != "valkey" {
		t.Errorf("expected Driver=valkey, got %q", cfg.Database.Driver)
	}
	if cfg.Recommend.Limit != 10 {
		t.Errorf("expected Limit=10, got %d", cfg.Recommend.Limit)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:      HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 60, ShutdownSec: 5},
		Dataset:   DatasetConfig{Source: SourceRedis, KeyPrefix: "custom:", PageSize: 50},
		Recommend: RecommendConfig{QualityThreshold: 3.5, Limit: 5},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.WriteTimeoutSec != 60 {
		t.Errorf("expected WriteTimeoutSec=60, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.Dataset.Source != SourceRedis || cfg.Dataset.KeyPrefix != "custom:" || cfg.Dataset.PageSize != 50 {
		t.Errorf("dataset overridden: %+v", cfg.Dataset)
	}
	if cfg.Recommend.QualityThreshold != 3.5 || cfg.Recommend.Limit != 5 {
		t.Errorf("recommend overridden: %+v", cfg.Recommend)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("MOVIEREC_TEST_PORT", "9090")

	got := string(expandEnvVars([]byte("port: ${MOVIEREC_TEST_PORT}\nlevel: ${MOVIEREC_UNSET:-warn}\nkey: ${MOVIEREC_UNSET}")))
	want := "port: 9090\nlevel: warn\nkey: "
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestParse(t *testing.T) {
	t.Setenv("MOVIEREC_TEST_RATINGS", "/data/ratings.csv")

	cfg, err := Parse([]byte(`
http:
  port: 8080
dataset:
  items_path: /data/movies.csv
  ratings_path: ${MOVIEREC_TEST_RATINGS}
recommend:
  limit: 5
auth:
  api_keys: ["k1"]
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Dataset.RatingsPath != "/data/ratings.csv" {
		t.Errorf("env var not expanded: %q", cfg.Dataset.RatingsPath)
	}
	if cfg.Recommend.Limit != 5 || cfg.Recommend.FanThreshold != 4.0 {
		t.Errorf("unexpected recommend config: %+v", cfg.Recommend)
	}
	if len(cfg.Auth.APIKeys) != 1 {
		t.Errorf("expected 1 api key, got %v", cfg.Auth.APIKeys)
	}
}

func TestParse_ThresholdDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
http:
  port: 8080
dataset:
  items_path: /data/movies.csv
  ratings_path: /data/ratings.csv
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Recommend != DefaultRecommendConfig() {
		t.Errorf("expected default thresholds, got %+v", cfg.Recommend)
	}
}

func TestParse_ExplicitZeroThreshold(t *testing.T) {
	cfg, err := Parse([]byte(`
http:
  port: 8080
dataset:
  items_path: /data/movies.csv
  ratings_path: /data/ratings.csv
recommend:
  quality_threshold: 0
  min_similar_fraction: 0
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Recommend.QualityThreshold != 0 || cfg.Recommend.MinSimilarFraction != 0 {
		t.Errorf("explicit zero replaced by default: %+v", cfg.Recommend)
	}
	if cfg.Recommend.FanThreshold != 4.0 {
		t.Errorf("absent key must keep its default, got %v", cfg.Recommend.FanThreshold)
	}
}

func TestParse_DatabaseCredentials(t *testing.T) {
	cfg, err := Parse([]byte(`
http:
  port: 8080
dataset:
  source: redis
database:
  addrs: ["localhost:6379"]
  username: movierec
  db: 2
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Database.Username != "movierec" || cfg.Database.DB != 2 {
		t.Errorf("unexpected database config: %+v", cfg.Database)
	}
}

func TestParse_Invalid(t *testing.T) {
	if _, err := Parse([]byte("http: [")); err == nil {
		t.Fatal("expected parse error")
	}
	if _, err := Parse([]byte("http:\n  port: 0\n")); err == nil {
		t.Fatal("expected validation error")
	}
}
