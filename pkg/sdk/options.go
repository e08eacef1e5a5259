package movierec

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	itemsPath   string
	ratingsPath string

	addrs     []string
	password  string
	keyPrefix string
	pageSize  int

	qualityThreshold   float64
	fanThreshold       float64
	minSimilarFraction float64
	limit              int

	logger     *zap.Logger
	metricsReg prometheus.Registerer
}

// WithCSV reads the dataset from an items CSV and a ratings CSV.
func WithCSV(itemsPath, ratingsPath string) Option {
	return optionFunc(func(c *clientConfig) {
		c.itemsPath = itemsPath
		c.ratingsPath = ratingsPath
	})
}

// WithValkey reads a dataset previously imported into a Valkey instance.
func WithValkey(addr, password string) Option {
	return WithRedis(addr, password)
}

// WithRedis reads a dataset previously imported into a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithKeyPrefix sets the key prefix the dataset was imported under.
// Default: "movierec:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithPageSize sets how many list entries are fetched per LRANGE call.
func WithPageSize(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.pageSize = n
	})
}

// WithQualityThreshold sets the mean rating an item must strictly exceed
// to enter the catalog. Default: 2.8.
func WithQualityThreshold(v float64) Option {
	return optionFunc(func(c *clientConfig) {
		c.qualityThreshold = v
	})
}

// WithFanThreshold sets the rating a user must strictly exceed to count as a fan.
// Default: 4.0.
func WithFanThreshold(v float64) Option {
	return optionFunc(func(c *clientConfig) {
		c.fanThreshold = v
	})
}

// WithMinSimilarFraction sets the relevance floor. Default: 0.10.
func WithMinSimilarFraction(v float64) Option {
	return optionFunc(func(c *clientConfig) {
		c.minSimilarFraction = v
	})
}

// WithLimit caps the number of recommendations per query. Default: 10.
func WithLimit(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.limit = n
	})
}

// WithLogger enables structured logging for client operations.
// Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers client metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
