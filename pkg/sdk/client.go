package movierec

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/movierec/internal/db"
	dbRedis "github.com/kailas-cloud/movierec/internal/db/redis"
	domcat "github.com/kailas-cloud/movierec/internal/domain/catalog"
	"github.com/kailas-cloud/movierec/internal/domain/recommendation"
	"github.com/kailas-cloud/movierec/internal/repository/dataset"
	cataloguc "github.com/kailas-cloud/movierec/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/movierec/internal/usecase/health"
	recommenduc "github.com/kailas-cloud/movierec/internal/usecase/recommend"
	searchuc "github.com/kailas-cloud/movierec/internal/usecase/search"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces, replaced by mocks in tests.
type catalogUseCase interface {
	Snapshot(ctx context.Context) (*domcat.Snapshot, error)
	Reload(ctx context.Context) (*domcat.Snapshot, error)
}

type recommendUseCase interface {
	Recommend(ctx context.Context, title string) (recommendation.Set, error)
	Similar(ctx context.Context, seedID int64) (recommendation.Set, error)
}

type searchUseCase interface {
	Titles(ctx context.Context, query string, limit int) ([]string, error)
}

// Client is the movierec embedded entry point.
type Client struct {
	store     db.Store
	catalog   catalogUseCase
	recSvc    recommendUseCase
	searchSvc searchUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New creates a Client and performs the first catalog load.
// The provided context is used for the database readiness check and the load.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		keyPrefix:          dataset.DefaultKeyPrefix,
		qualityThreshold:   cataloguc.DefaultQualityThreshold,
		fanThreshold:       recommenduc.DefaultFanThreshold,
		minSimilarFraction: recommenduc.DefaultMinSimilarFraction,
		limit:              recommenduc.DefaultLimit,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	var (
		store  db.Store
		source cataloguc.Source
	)
	switch {
	case cfg.itemsPath != "" || cfg.ratingsPath != "":
		if cfg.itemsPath == "" || cfg.ratingsPath == "" {
			return nil, errors.New("movierec: both items and ratings paths are required")
		}
		source = dataset.NewCSVSource(cfg.itemsPath, cfg.ratingsPath)
	case len(cfg.addrs) > 0:
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("movierec: create store: %w", err)
		}
		if err := s.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			s.Close()
			return nil, fmt.Errorf("movierec: database not ready: %w", err)
		}
		store = s
		source = dataset.NewRedisSource(s, dataset.NewLayout(cfg.keyPrefix)).WithPageSize(cfg.pageSize)
	default:
		return nil, errors.New("movierec: dataset required (use WithCSV, WithValkey or WithRedis)")
	}

	c := wireClient(store, source, cfg, obs)
	if _, err := c.Reload(ctx); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func wireClient(store db.Store, source cataloguc.Source, cfg *clientConfig, obs *observer) *Client {
	pre := cataloguc.NewPreprocessor(obs.logger).WithThreshold(cfg.qualityThreshold)
	holder := cataloguc.NewHolder(source, pre, obs.logger)

	scorer := recommenduc.NewScorer().
		WithFanThreshold(cfg.fanThreshold).
		WithMinSimilarFraction(cfg.minSimilarFraction).
		WithLimit(cfg.limit)

	var pinger healthuc.DBPinger
	if store != nil {
		pinger = store
	}

	return &Client{
		store:     store,
		catalog:   holder,
		recSvc:    recommenduc.New(holder, scorer),
		searchSvc: searchuc.New(holder),
		healthSvc: healthuc.New(holder, pinger),
		obs:       obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Recommend resolves title against the catalog and ranks items co-loved with it.
// An unknown title returns ErrTitleNotFound; a known title with nothing above
// the relevance floor returns OutcomeNoSignal and no error.
func (c *Client) Recommend(ctx context.Context, title string) (_ Recommendations, err error) {
	start := time.Now()
	defer func() { c.obs.observe("recommend", start, err) }()

	set, err := c.recSvc.Recommend(ctx, title)
	if err != nil {
		return Recommendations{}, fmt.Errorf("recommend: %w", err)
	}
	return fromSet(set), nil
}

// Similar ranks items co-loved with the catalog item id.
// An id outside the filtered catalog returns ErrItemNotFound.
func (c *Client) Similar(ctx context.Context, itemID int64) (_ Recommendations, err error) {
	start := time.Now()
	defer func() { c.obs.observe("similar", start, err) }()

	set, err := c.recSvc.Similar(ctx, itemID)
	if err != nil {
		return Recommendations{}, fmt.Errorf("similar: %w", err)
	}
	return fromSet(set), nil
}

// Search returns up to limit catalog titles containing query, case-insensitively.
func (c *Client) Search(ctx context.Context, query string, limit int) (_ []string, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	titles, err := c.searchSvc.Titles(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return titles, nil
}

// Reload rebuilds the catalog from the dataset source. On failure the
// previous catalog keeps serving.
func (c *Client) Reload(ctx context.Context) (_ CatalogStats, err error) {
	start := time.Now()
	defer func() { c.obs.observe("reload", start, err) }()

	snap, err := c.catalog.Reload(ctx)
	if err != nil {
		return CatalogStats{}, fmt.Errorf("reload: %w", err)
	}
	return fromSnapshot(snap), nil
}

// Stats describes the catalog currently serving.
func (c *Client) Stats(ctx context.Context) (CatalogStats, error) {
	snap, err := c.catalog.Snapshot(ctx)
	if err != nil {
		return CatalogStats{}, fmt.Errorf("stats: %w", err)
	}
	return fromSnapshot(snap), nil
}
