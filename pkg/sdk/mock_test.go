package movierec

import (
	"context"

	domcat "github.com/kailas-cloud/movierec/internal/domain/catalog"
	"github.com/kailas-cloud/movierec/internal/domain/recommendation"
	healthuc "github.com/kailas-cloud/movierec/internal/usecase/health"
)

// --- catalogUseCase mock ---

type mockCatalogUC struct {
	snapshotFn func(ctx context.Context) (*domcat.Snapshot, error)
	reloadFn   func(ctx context.Context) (*domcat.Snapshot, error)
}

func (m *mockCatalogUC) Snapshot(ctx context.Context) (*domcat.Snapshot, error) {
	return m.snapshotFn(ctx)
}

func (m *mockCatalogUC) Reload(ctx context.Context) (*domcat.Snapshot, error) {
	return m.reloadFn(ctx)
}

// --- recommendUseCase mock ---

type mockRecommendUC struct {
	recommendFn func(ctx context.Context, title string) (recommendation.Set, error)
	similarFn   func(ctx context.Context, seedID int64) (recommendation.Set, error)
}

func (m *mockRecommendUC) Recommend(ctx context.Context, title string) (recommendation.Set, error) {
	return m.recommendFn(ctx, title)
}

func (m *mockRecommendUC) Similar(ctx context.Context, seedID int64) (recommendation.Set, error) {
	return m.similarFn(ctx, seedID)
}

// --- searchUseCase mock ---

type mockSearchUC struct {
	titlesFn func(ctx context.Context, query string, limit int) ([]string, error)
}

func (m *mockSearchUC) Titles(ctx context.Context, query string, limit int) ([]string, error) {
	return m.titlesFn(ctx, query, limit)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(_ context.Context) healthuc.Report {
	return m.report
}
