package item

import "regexp"

// titleStrip matches every character outside the canonical title alphabet.
var titleStrip = regexp.MustCompile(`[^a-zA-Z0-9 ]`)

// NormalizeTitle removes every character outside [A-Za-z0-9 ].
// The result is the canonical key for lookup-by-title.
func NormalizeTitle(title string) string {
	return titleStrip.ReplaceAllString(title, "")
}

// Raw is an item row as delivered by a dataset source, before preprocessing.
type Raw struct {
	ID     int64
	Title  string
	Genres string
}

// Item is a catalog entry (immutable value object).
type Item struct {
	id     int64
	title  string
	genres string
}

// New builds a normalized Item from a raw row.
func New(raw Raw) Item {
	return Item{
		id:     raw.ID,
		title:  NormalizeTitle(raw.Title),
		genres: raw.Genres,
	}
}

// Reconstruct creates an Item from already normalized fields (no validation).
func Reconstruct(id int64, title, genres string) Item {
	return Item{id: id, title: title, genres: genres}
}

// ID returns the item identifier.
func (i *Item) ID() int64 { return i.id }

// Title returns the normalized title.
func (i *Item) Title() string { return i.title }

// Genres returns the genre tags, empty when the source had none.
func (i *Item) Genres() string { return i.genres }
