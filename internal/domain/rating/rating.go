package rating

// Rating is a single (user, item, value) observation.
type Rating struct {
	UserID int64
	ItemID int64
	Value  float64
}

// New creates a rating.
func New(userID, itemID int64, value float64) Rating {
	return Rating{UserID: userID, ItemID: itemID, Value: value}
}
