package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/movierec/internal/repository/dataset"
)

func newImportCmd(opts *options) *cobra.Command {
	var (
		batchSize int
		timeout   time.Duration
	)
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load the CSV dataset into Redis/Valkey",
		Long: `Read the items and ratings CSV files and replace the dataset stored under
--key-prefix. The API server reads it back with dataset.source: redis.

Examples:
  movierecctl import --items data/movies.csv --ratings data/ratings.csv
  movierecctl import --redis-addr valkey:6379 --key-prefix prod:`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			tables, err := dataset.NewCSVSource(opts.itemsPath, opts.ratingsPath).Load(ctx)
			if err != nil {
				return fmt.Errorf("read csv: %w", err)
			}

			store, err := opts.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.WaitForReady(ctx, timeout); err != nil {
				return fmt.Errorf("redis not ready: %w", err)
			}

			meta, err := dataset.NewWriter(store, dataset.NewLayout(opts.keyPrefix)).
				WithBatchSize(batchSize).
				Write(ctx, tables)
			if err != nil {
				return fmt.Errorf("write dataset: %w", err)
			}

			if opts.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), meta)
			}
			return renderTable(cmd.OutOrStdout(), []string{"KEY PREFIX", "ITEMS", "RATINGS", "IMPORTED AT"}, [][]string{{
				opts.keyPrefix,
				strconv.Itoa(meta.Items),
				strconv.Itoa(meta.Ratings),
				meta.ImportedAt.UTC().Format(time.RFC3339),
			}})
		},
	}
	cmd.Flags().IntVar(&batchSize, "batch-size", dataset.DefaultBatchSize, "entries per pipelined write")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "how long to wait for Redis to become ready")
	return cmd
}
