package usecase

import (
	"context"
	"fmt"

	"github.com/shelfaware/backend/internal/domain"
)

// SnapshotProvider hands out the current immutable dataset snapshot.
type SnapshotProvider interface {
	Snapshot(ctx context.Context) (*domain.Snapshot, error)
	Invalidate()
}

// PricingServiceConfig holds configuration for the pricing service
type PricingServiceConfig struct {
	HomeStoreID string
}

// PricingService answers recommendation, impact, and category queries over
// the current snapshot. All computation is delegated to pure functions; the
// service only resolves the snapshot and the home store.
type PricingService struct {
	snapshots   SnapshotProvider
	homeStoreID string
}

// NewPricingService creates a new pricing service with dependencies
func NewPricingService(snapshots SnapshotProvider, config PricingServiceConfig) *PricingService {
	return &PricingService{
		snapshots:   snapshots,
		homeStoreID: config.HomeStoreID,
	}
}

// resolveStore picks the requested store id, falling back to the configured
// home store, and verifies it exists in the directory.
func (s *PricingService) resolveStore(snap *domain.Snapshot, storeID string) (string, error) {
	if storeID == "" {
		storeID = s.homeStoreID
	}
	if storeID == "" {
		return "", fmt.Errorf("%w: no home store configured", domain.ErrInvalidRequest)
	}
	if _, ok := snap.StoreByID(storeID); !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrStoreNotFound, storeID)
	}
	return storeID, nil
}

// Recommendations computes one row per catalog item for the given home store.
func (s *PricingService) Recommendations(ctx context.Context, storeID string) ([]domain.RecommendationRow, error) {
	snap, err := s.snapshots.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	storeID, err = s.resolveStore(snap, storeID)
	if err != nil {
		return nil, err
	}
	return ComputeRecommendations(snap, storeID)
}

// Impact evaluates proposed prices against the current recommendations.
func (s *PricingService) Impact(ctx context.Context, storeID string, proposed map[string]float64) ([]domain.ImpactRow, error) {
	if len(proposed) == 0 {
		return nil, fmt.Errorf("%w: no proposed prices", domain.ErrInvalidRequest)
	}
	recs, err := s.Recommendations(ctx, storeID)
	if err != nil {
		return nil, err
	}
	return ComputeImpact(recs, proposed), nil
}

// Categories aggregates the current recommendations by item category.
func (s *PricingService) Categories(ctx context.Context, storeID string) ([]domain.CategorySummary, error) {
	recs, err := s.Recommendations(ctx, storeID)
	if err != nil {
		return nil, err
	}
	return AggregateByCategory(recs), nil
}

// Stores lists the store directory from the current snapshot.
func (s *PricingService) Stores(ctx context.Context) ([]domain.Store, error) {
	snap, err := s.snapshots.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Stores, nil
}

// Items lists the item catalog from the current snapshot.
func (s *PricingService) Items(ctx context.Context) ([]domain.Item, error) {
	snap, err := s.snapshots.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Items, nil
}

// Refresh drops the cached snapshot so the next query reloads from storage.
func (s *PricingService) Refresh() {
	s.snapshots.Invalidate()
}
