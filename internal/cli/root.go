// Package cli implements the movierecctl commands.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/movierec/internal/config"
	dbRedis "github.com/kailas-cloud/movierec/internal/db/redis"
	logpkg "github.com/kailas-cloud/movierec/internal/logger"
	"github.com/kailas-cloud/movierec/internal/repository/dataset"
	cataloguc "github.com/kailas-cloud/movierec/internal/usecase/catalog"
)

// options are the global flags shared by every command.
type options struct {
	source        string
	itemsPath     string
	ratingsPath   string
	redisAddrs    []string
	redisUsername string
	redisPassword string
	redisDB       int
	keyPrefix     string
	threshold     float64
	jsonOutput    bool
	verbose       bool

	logger *zap.Logger
}

// NewRootCmd builds the movierecctl command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "movierecctl",
		Short: "Offline movie recommendations and dataset tooling",
		Long: `movierecctl builds a catalog snapshot from CSV files or Redis and answers
recommendation queries without running the API server.

Example usage:
  movierecctl recommend --title "Toy Story 1995"
  movierecctl similar --id 1
  movierecctl search --query story
  movierecctl import --redis-addr localhost:6379`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level := "warn"
			if opts.verbose {
				level = "debug"
			}
			l, err := logpkg.NewLogger("local", level)
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			opts.logger = l
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.source, "source", config.SourceCSV, "dataset source: csv or redis")
	pf.StringVar(&opts.itemsPath, "items", "data/movies.csv", "items CSV file (movieId,title,genres)")
	pf.StringVar(&opts.ratingsPath, "ratings", "data/ratings.csv", "ratings CSV file (userId,movieId,rating)")
	pf.StringSliceVar(&opts.redisAddrs, "redis-addr", []string{"localhost:6379"}, "Redis/Valkey addresses")
	pf.StringVar(&opts.redisUsername, "redis-username", os.Getenv("VALKEY_USERNAME"), "Redis/Valkey ACL username")
	pf.StringVar(&opts.redisPassword, "redis-password", os.Getenv("VALKEY_PASSWORD"), "Redis/Valkey password")
	pf.IntVar(&opts.redisDB, "redis-db", 0, "Redis/Valkey logical database")
	pf.StringVar(&opts.keyPrefix, "key-prefix", dataset.DefaultKeyPrefix, "key prefix of the Redis dataset layout")
	pf.Float64Var(&opts.threshold, "quality-threshold", cataloguc.DefaultQualityThreshold,
		"average rating an item must exceed to stay in the catalog")
	pf.BoolVar(&opts.jsonOutput, "json", false, "output as JSON")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output")

	root.AddCommand(
		newRecommendCmd(opts),
		newSimilarCmd(opts),
		newSearchCmd(opts),
		newStatsCmd(opts),
		newImportCmd(opts),
		newVersionCmd(),
	)
	return root
}

// Execute runs the CLI with os.Args. Cancelling ctx aborts loading and imports.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// openStore connects to Redis/Valkey using the global flags.
func (o *options) openStore() (*dbRedis.Store, error) {
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    o.redisAddrs,
		Username: o.redisUsername,
		Password: o.redisPassword,
		DB:       o.redisDB,
	})
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return store, nil
}

// loadHolder reads the configured source and installs a preprocessed snapshot.
func (o *options) loadHolder(ctx context.Context) (*cataloguc.Holder, error) {
	var source cataloguc.Source
	switch o.source {
	case config.SourceCSV:
		source = dataset.NewCSVSource(o.itemsPath, o.ratingsPath)
	case config.SourceRedis:
		store, err := o.openStore()
		if err != nil {
			return nil, err
		}
		defer store.Close()
		source = dataset.NewRedisSource(store, dataset.NewLayout(o.keyPrefix))
	default:
		return nil, fmt.Errorf("unknown source %q (want %s or %s)", o.source, config.SourceCSV, config.SourceRedis)
	}

	holder := cataloguc.NewHolder(source, cataloguc.NewPreprocessor(o.logger).WithThreshold(o.threshold), o.logger)
	if _, err := holder.Reload(ctx); err != nil {
		return nil, err
	}
	return holder, nil
}
