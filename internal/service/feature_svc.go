package service

import (
	"context"
	"log"
	"sort"
	"strings"

	"github.com/ronan-soo/Redoxide-Feature-Request-System/internal/model"
)

// FeatureStore is the persistence surface the feature service depends on.
// *repository.FeatureRepo satisfies it.
type FeatureStore interface {
	Create(ctx context.Context, title, description, createdBy, authorName string) (*model.FeatureRequest, error)
	List(ctx context.Context) ([]model.FeatureRequest, error)
	ToggleUpvote(ctx context.Context, featureID, userID string) (upvoted bool, upvotes int, err error)
	UpdateStatus(ctx context.Context, featureID, status string) error
	Stats(ctx context.Context) (*model.StatsResponse, error)
}

type FeatureService struct {
	store FeatureStore
	cache *CacheService
}

func NewFeatureService(store FeatureStore, cache *CacheService) *FeatureService {
	return &FeatureService{store: store, cache: cache}
}

// Submit validates and creates a feature request. Validation failures and
// a missing identity short-circuit before the store is contacted.
func (s *FeatureService) Submit(ctx context.Context, identity *model.Identity, req model.SubmitRequest) (*model.FeatureRequest, error) {
	title := strings.TrimSpace(req.Title)
	description := strings.TrimSpace(req.Description)

	if title == "" {
		return nil, &ValidationError{Msg: "title must not be empty"}
	}
	if description == "" {
		return nil, &ValidationError{Msg: "description must not be empty"}
	}
	if identity == nil || identity.UserID == "" {
		return nil, ErrSignInRequired
	}

	authorName := "Anonymous"
	f, err := s.store.Create(ctx, title, description, identity.UserID, authorName)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.InvalidateSnapshot(ctx); err != nil {
			log.Printf("cache: invalidate snapshot error: %v", err)
		}
	}

	return f, nil
}

// List returns the current record set sorted for presentation. Reads go
// through the snapshot cache; the stored records are never mutated by
// sorting.
func (s *FeatureService) List(ctx context.Context, sortBy model.SortOption) ([]model.FeatureRequest, error) {
	var features []model.FeatureRequest

	if s.cache != nil {
		cached, err := s.cache.GetSnapshot(ctx)
		if err != nil {
			log.Printf("cache: snapshot read error: %v", err)
		}
		features = cached
	}

	if features == nil {
		loaded, err := s.store.List(ctx)
		if err != nil {
			return nil, err
		}
		features = loaded

		if s.cache != nil {
			if err := s.cache.SetSnapshot(ctx, features); err != nil {
				log.Printf("cache: snapshot write error: %v", err)
			}
		}
	}

	return SortFeatures(features, sortBy), nil
}

// UpdateStatus applies an administrative status change.
func (s *FeatureService) UpdateStatus(ctx context.Context, featureID, status string) error {
	if !model.ValidStatuses[status] {
		return &ValidationError{Msg: "status must be one of: open, planned, in-progress, completed"}
	}

	if err := s.store.UpdateStatus(ctx, featureID, status); err != nil {
		return err
	}

	if s.cache != nil {
		if err := s.cache.InvalidateSnapshot(ctx); err != nil {
			log.Printf("cache: invalidate snapshot error: %v", err)
		}
	}
	return nil
}

// Stats returns board-wide totals.
func (s *FeatureService) Stats(ctx context.Context) (*model.StatsResponse, error) {
	return s.store.Stats(ctx)
}

// SortFeatures returns a sorted copy of features. Popular sorts by vote
// count descending, newest by creation time descending. Ties keep the
// incoming (store) order; no secondary key is applied.
func SortFeatures(features []model.FeatureRequest, sortBy model.SortOption) []model.FeatureRequest {
	sorted := make([]model.FeatureRequest, len(features))
	copy(sorted, features)

	switch sortBy {
	case model.SortNewest:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].CreatedAt > sorted[j].CreatedAt
		})
	default: // popular
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Upvotes > sorted[j].Upvotes
		})
	}
	return sorted
}
