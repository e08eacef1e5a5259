package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	searchuc "github.com/kailas-cloud/movierec/internal/usecase/search"
)

func newSearchCmd(opts *options) *cobra.Command {
	var (
		query string
		limit int
	)
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Find catalog titles containing a query",
		RunE: func(cmd *cobra.Command, _ []string) error {
			holder, err := opts.loadHolder(cmd.Context())
			if err != nil {
				return err
			}

			titles, err := searchuc.New(holder).Titles(cmd.Context(), query, limit)
			if err != nil {
				return err
			}

			if opts.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), titles)
			}
			rows := make([][]string, len(titles))
			for i, t := range titles {
				rows[i] = []string{strconv.Itoa(i + 1), t}
			}
			return renderTable(cmd.OutOrStdout(), []string{"#", "TITLE"}, rows)
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "case-insensitive substring")
	cmd.Flags().IntVar(&limit, "limit", searchuc.MaxLimit, "maximum titles")
	return cmd
}
