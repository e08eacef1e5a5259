package chi

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	gochi "github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"
	"github.com/oapi-codegen/runtime"
	"go.uber.org/zap"

	"github.com/kailas-cloud/movierec/internal/domain"
	domcat "github.com/kailas-cloud/movierec/internal/domain/catalog"
	"github.com/kailas-cloud/movierec/internal/domain/recommendation"
	logpkg "github.com/kailas-cloud/movierec/internal/logger"
	"github.com/kailas-cloud/movierec/internal/metrics"
	cataloguc "github.com/kailas-cloud/movierec/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/movierec/internal/usecase/health"
	recommenduc "github.com/kailas-cloud/movierec/internal/usecase/recommend"
	searchuc "github.com/kailas-cloud/movierec/internal/usecase/search"
)

const maxBodyBytes = 1 << 20

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the recommendation HTTP API.
type Server struct {
	recommend     *recommenduc.Service
	search        *searchuc.Service
	catalog       *cataloguc.Holder
	health        *healthuc.Service
	logger        *zap.Logger
	validate      *validator.Validate
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	recommend *recommenduc.Service,
	search *searchuc.Service,
	catalog *cataloguc.Holder,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		recommend: recommend,
		search:    search,
		catalog:   catalog,
		health:    health,
		logger:    logger,
		validate:  newValidator(),
	}
	s.errorHandlers = []errorHandler{
		invalidInputHandler,
		sentinelHandler(domain.ErrTitleNotFound, http.StatusNotFound, ErrorResponseCodeTitleNotFound),
		sentinelHandler(domain.ErrItemNotFound, http.StatusNotFound, ErrorResponseCodeItemNotFound),
		sentinelHandler(domain.ErrSnapshotNotReady, http.StatusServiceUnavailable, ErrorResponseCodeCatalogNotReady),
	}
	return s
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Routes mounts the API on r.
func (s *Server) Routes(r gochi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Route("/api/v1", func(r gochi.Router) {
		r.Post("/recommendations", s.Recommend)
		r.Get("/items/{id}/similar", s.Similar)
		r.Get("/search", s.Search)
		r.Post("/admin/reload", s.Reload)
	})
}

// Recommend handles POST /api/v1/recommendations.
func (s *Server) Recommend(w http.ResponseWriter, r *http.Request) {
	var req RecommendRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, "Invalid request body")
		return
	}
	if err := s.check(req); err != nil {
		s.handleDomainError(w, err)
		return
	}

	set, err := s.recommend.Recommend(r.Context(), req.Title)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	annotateSet(r, set)

	writeJSON(w, http.StatusOK, recommendationToResponse(set))
}

// Similar handles GET /api/v1/items/{id}/similar.
func (s *Server) Similar(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(gochi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, "item id must be an integer")
		return
	}

	set, err := s.recommend.Similar(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	annotateSet(r, set)

	writeJSON(w, http.StatusOK, recommendationToResponse(set))
}

// Search handles GET /api/v1/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var params SearchParams
	query := r.URL.Query()
	if err := runtime.BindQueryParameter("form", true, false, "query", query, &params.Query); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, "invalid query parameter")
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", query, &params.Limit); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, "invalid limit parameter")
		return
	}
	if err := s.check(params); err != nil {
		s.handleDomainError(w, err)
		return
	}

	titles, err := s.search.Titles(r.Context(), params.Query, params.Limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	logpkg.Annotate(r.Context(), zap.Int("results", len(titles)))

	writeJSON(w, http.StatusOK, titles)
}

// Reload handles POST /api/v1/admin/reload.
func (s *Server) Reload(w http.ResponseWriter, r *http.Request) {
	snap, err := s.catalog.Reload(r.Context())
	if err != nil {
		logpkg.FromContext(r.Context()).Error("catalog reload failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, ErrorResponseCodeReloadFailed,
			"catalog reload failed, previous snapshot kept")
		return
	}

	logpkg.Annotate(r.Context(),
		zap.Int("catalog_items", snap.Stats().Items),
		zap.Int("catalog_ratings", snap.Stats().Ratings),
	)
	writeJSON(w, http.StatusOK, reloadToResponse(snap))
}

func annotateSet(r *http.Request, set recommendation.Set) {
	logpkg.Annotate(r.Context(),
		zap.Int64("seed_id", set.SeedID),
		zap.String("outcome", string(set.Outcome)),
		zap.Int("results", len(set.Items)),
	)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	metrics.Handler().ServeHTTP(w, r)
}

// check validates a request struct, wrapping failures in domain.ErrInvalidInput.
func (s *Server) check(v any) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, err.Error())
	}
	msgs := make([]string, len(verrs))
	for i, fe := range verrs {
		if fe.Param() != "" {
			msgs[i] = fmt.Sprintf("%s: must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param())
		} else {
			msgs[i] = fmt.Sprintf("%s: %s", fe.Field(), fe.Tag())
		}
	}
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(msgs, "; "))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorResponseCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrTitleNotFound,
		domain.ErrItemNotFound,
		domain.ErrSnapshotNotReady,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorResponseCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// invalidInputHandler returns validation details, which only describe the request itself.
func invalidInputHandler(w http.ResponseWriter, err error, _ string) bool {
	if !errors.Is(err, domain.ErrInvalidInput) {
		return false
	}
	writeError(w, http.StatusBadRequest, ErrorResponseCodeValidationFailed, err.Error())
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorResponseCodeInternalError, "internal error")
}

func recommendationToResponse(set recommendation.Set) RecommendationResponse {
	items := make([]RecommendedItem, len(set.Items))
	for i := range set.Items {
		rec := &set.Items[i]
		items[i] = RecommendedItem{
			ID:     rec.ItemID(),
			Title:  rec.Title(),
			Genres: rec.Genres(),
			Score:  rec.Score(),
		}
	}
	return RecommendationResponse{
		Outcome: string(set.Outcome),
		Seed:    Seed{ID: set.SeedID, Title: set.SeedTitle},
		Items:   items,
	}
}

func reloadToResponse(snap *domcat.Snapshot) ReloadResponse {
	st := snap.Stats()
	return ReloadResponse{
		Items:          st.Items,
		Ratings:        st.Ratings,
		Users:          st.Users,
		RawItems:       st.RawItems,
		RawRatings:     st.RawRatings,
		DuplicateItems: st.DuplicateItems,
		QualityCutoff:  st.QualityCutoff,
		LoadedAt:       snap.LoadedAt().UTC(),
	}
}
