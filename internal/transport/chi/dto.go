package chi

import "time"

// ErrorResponseCode is a stable machine-readable error identifier.
type ErrorResponseCode string

// Error codes returned by the API.
const (
	ErrorResponseCodeBadRequest       ErrorResponseCode = "bad_request"
	ErrorResponseCodeValidationFailed ErrorResponseCode = "validation_failed"
	ErrorResponseCodeUnauthorized     ErrorResponseCode = "unauthorized"
	ErrorResponseCodeTitleNotFound    ErrorResponseCode = "title_not_found"
	ErrorResponseCodeItemNotFound     ErrorResponseCode = "item_not_found"
	ErrorResponseCodeCatalogNotReady  ErrorResponseCode = "catalog_not_ready"
	ErrorResponseCodeReloadFailed     ErrorResponseCode = "reload_failed"
	ErrorResponseCodeInternalError    ErrorResponseCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorResponseCode `json:"code"`
	Message string            `json:"message"`
}

// RecommendRequest is the body of POST /api/v1/recommendations.
type RecommendRequest struct {
	Title string `json:"title" validate:"required,max=512"`
}

// SearchParams are the query parameters of GET /api/v1/search.
type SearchParams struct {
	Query string `json:"query" validate:"max=512"`
	Limit int    `json:"limit" validate:"min=0,max=100"`
}

// Seed identifies the item recommendations were computed for.
type Seed struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// RecommendedItem is one ranked recommendation.
type RecommendedItem struct {
	ID     int64   `json:"id"`
	Title  string  `json:"title"`
	Genres string  `json:"genres"`
	Score  float64 `json:"score"`
}

// RecommendationResponse is returned by the recommendation endpoints.
type RecommendationResponse struct {
	Outcome string            `json:"outcome"`
	Seed    Seed              `json:"seed"`
	Items   []RecommendedItem `json:"items"`
}

// ReloadResponse summarizes the snapshot installed by a reload.
type ReloadResponse struct {
	Items          int       `json:"items"`
	Ratings        int       `json:"ratings"`
	Users          int       `json:"users"`
	RawItems       int       `json:"raw_items"`
	RawRatings     int       `json:"raw_ratings"`
	DuplicateItems int       `json:"duplicate_items"`
	QualityCutoff  float64   `json:"quality_cutoff"`
	LoadedAt       time.Time `json:"loaded_at"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
