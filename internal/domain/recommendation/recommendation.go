package recommendation

// Outcome tells a caller whether a resolved seed produced any recommendations.
type Outcome string

const (
	// OK means at least one candidate survived the relevance floor.
	OK Outcome = "ok"
	// NoSignal means the seed has no fans or no candidate survived the floor.
	NoSignal Outcome = "no_signal"
)

// Recommendation is a single ranked candidate.
type Recommendation struct {
	itemID int64
	title  string
	genres string
	score  float64
}

// New creates a recommendation.
func New(itemID int64, title, genres string, score float64) Recommendation {
	return Recommendation{itemID: itemID, title: title, genres: genres, score: score}
}

// ItemID returns the candidate item identifier.
func (r *Recommendation) ItemID() int64 { return r.itemID }

// Title returns the candidate title.
func (r *Recommendation) Title() string { return r.title }

// Genres returns the candidate genres.
func (r *Recommendation) Genres() string { return r.genres }

// Score returns the lift score rounded to four decimals.
func (r *Recommendation) Score() float64 { return r.score }

// Set is the answer to a recommendation query for one seed item.
type Set struct {
	SeedID    int64
	SeedTitle string
	Outcome   Outcome
	Items     []Recommendation
}

// NewSet builds a Set and derives its Outcome from the item count.
func NewSet(seedID int64, seedTitle string, items []Recommendation) Set {
	outcome := OK
	if len(items) == 0 {
		outcome = NoSignal
		items = []Recommendation{}
	}
	return Set{SeedID: seedID, SeedTitle: seedTitle, Outcome: outcome, Items: items}
}
