package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/movierec/internal/domain/recommendation"
	recommenduc "github.com/kailas-cloud/movierec/internal/usecase/recommend"
)

type recommendFlags struct {
	fanThreshold       float64
	minSimilarFraction float64
	limit              int
}

func (f *recommendFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.fanThreshold, "fan-threshold", recommenduc.DefaultFanThreshold,
		"rating a user must exceed to count as a fan")
	cmd.Flags().Float64Var(&f.minSimilarFraction, "min-similar-fraction", recommenduc.DefaultMinSimilarFraction,
		"share of seed fans a candidate must exceed")
	cmd.Flags().IntVar(&f.limit, "limit", recommenduc.DefaultLimit, "maximum recommendations")
}

func (f *recommendFlags) scorer() *recommenduc.Scorer {
	return recommenduc.NewScorer().
		WithFanThreshold(f.fanThreshold).
		WithMinSimilarFraction(f.minSimilarFraction).
		WithLimit(f.limit)
}

func newRecommendCmd(opts *options) *cobra.Command {
	var (
		title string
		flags recommendFlags
	)
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Recommend items co-loved with a title",
		Long: `Resolve an exact normalized title and list the items its fans also loved.

Examples:
  movierecctl recommend --title "Toy Story 1995"
  movierecctl recommend --title "Heat 1995" --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			holder, err := opts.loadHolder(cmd.Context())
			if err != nil {
				return err
			}
			set, err := recommenduc.New(holder, flags.scorer()).Recommend(cmd.Context(), title)
			if err != nil {
				return err
			}
			return printSet(cmd.OutOrStdout(), set, opts.jsonOutput)
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "normalized title, e.g. \"Toy Story 1995\"")
	_ = cmd.MarkFlagRequired("title")
	flags.register(cmd)
	return cmd
}

func newSimilarCmd(opts *options) *cobra.Command {
	var (
		id    int64
		flags recommendFlags
	)
	cmd := &cobra.Command{
		Use:   "similar",
		Short: "Recommend items co-loved with an item id",
		RunE: func(cmd *cobra.Command, _ []string) error {
			holder, err := opts.loadHolder(cmd.Context())
			if err != nil {
				return err
			}
			set, err := recommenduc.New(holder, flags.scorer()).Similar(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printSet(cmd.OutOrStdout(), set, opts.jsonOutput)
		},
	}
	cmd.Flags().Int64Var(&id, "id", 0, "seed item id")
	_ = cmd.MarkFlagRequired("id")
	flags.register(cmd)
	return cmd
}

type setJSON struct {
	Outcome   string     `json:"outcome"`
	SeedID    int64      `json:"seed_id"`
	SeedTitle string     `json:"seed_title"`
	Items     []itemJSON `json:"items"`
}

type itemJSON struct {
	ID     int64   `json:"id"`
	Title  string  `json:"title"`
	Genres string  `json:"genres"`
	Score  float64 `json:"score"`
}

func printSet(w io.Writer, set recommendation.Set, asJSON bool) error {
	if asJSON {
		out := setJSON{
			Outcome:   string(set.Outcome),
			SeedID:    set.SeedID,
			SeedTitle: set.SeedTitle,
			Items:     make([]itemJSON, len(set.Items)),
		}
		for i := range set.Items {
			rec := &set.Items[i]
			out.Items[i] = itemJSON{ID: rec.ItemID(), Title: rec.Title(), Genres: rec.Genres(), Score: rec.Score()}
		}
		return writeJSON(w, out)
	}

	if set.Outcome == recommendation.NoSignal {
		fmt.Fprintf(w, "No recommendations for %q: not enough fans to compare.\n", set.SeedTitle)
		return nil
	}

	rows := make([][]string, len(set.Items))
	for i := range set.Items {
		rec := &set.Items[i]
		rows[i] = []string{
			strconv.Itoa(i + 1),
			strconv.FormatInt(rec.ItemID(), 10),
			rec.Title(),
			rec.Genres(),
			strconv.FormatFloat(rec.Score(), 'f', 4, 64),
		}
	}
	fmt.Fprintf(w, "Recommendations for %q (id %d)\n", set.SeedTitle, set.SeedID)
	return renderTable(w, []string{"RANK", "ID", "TITLE", "GENRES", "SCORE"}, rows)
}
