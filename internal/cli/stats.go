package cli

import (
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

type statsJSON struct {
	RawItems       int       `json:"raw_items"`
	RawRatings     int       `json:"raw_ratings"`
	RatedItems     int       `json:"rated_items"`
	DuplicateItems int       `json:"duplicate_items"`
	Items          int       `json:"items"`
	Ratings        int       `json:"ratings"`
	Users          int       `json:"users"`
	QualityCutoff  float64   `json:"quality_cutoff"`
	LoadedAt       time.Time `json:"loaded_at"`
}

func newStatsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show what preprocessing kept from the dataset",
		RunE: func(cmd *cobra.Command, _ []string) error {
			holder, err := opts.loadHolder(cmd.Context())
			if err != nil {
				return err
			}
			snap, err := holder.Snapshot(cmd.Context())
			if err != nil {
				return err
			}
			st := snap.Stats()

			if opts.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), statsJSON{
					RawItems:       st.RawItems,
					RawRatings:     st.RawRatings,
					RatedItems:     st.RatedItems,
					DuplicateItems: st.DuplicateItems,
					Items:          st.Items,
					Ratings:        st.Ratings,
					Users:          st.Users,
					QualityCutoff:  st.QualityCutoff,
					LoadedAt:       snap.LoadedAt().UTC(),
				})
			}
			return renderTable(cmd.OutOrStdout(), []string{"METRIC", "VALUE"}, [][]string{
				{"raw items", strconv.Itoa(st.RawItems)},
				{"raw ratings", strconv.Itoa(st.RawRatings)},
				{"rated items", strconv.Itoa(st.RatedItems)},
				{"duplicate items", strconv.Itoa(st.DuplicateItems)},
				{"quality cutoff", strconv.FormatFloat(st.QualityCutoff, 'f', -1, 64)},
				{"catalog items", strconv.Itoa(st.Items)},
				{"catalog ratings", strconv.Itoa(st.Ratings)},
				{"users", strconv.Itoa(st.Users)},
			})
		},
	}
}
