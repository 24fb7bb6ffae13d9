package service

import (
	"context"
	"log"

	"github.com/ronan-soo/Redoxide-Feature-Request-System/internal/model"
)

type VoteService struct {
	store FeatureStore
	cache *CacheService
}

func NewVoteService(store FeatureStore, cache *CacheService) *VoteService {
	return &VoteService{store: store, cache: cache}
}

// Toggle flips the viewer's upvote on a feature. Without a resolved
// identity the store is never contacted; the caller is told to sign in.
// Membership is decided inside the store transaction, not by the caller,
// so the counter and the vote set move together.
func (s *VoteService) Toggle(ctx context.Context, identity *model.Identity, featureID string) (*model.VoteResponse, error) {
	if identity == nil || identity.UserID == "" {
		return nil, ErrSignInRequired
	}

	upvoted, upvotes, err := s.store.ToggleUpvote(ctx, featureID, identity.UserID)
	if err != nil {
		return nil, err
	}

	// The feed worker pushes the next snapshot via LISTEN/NOTIFY; here we
	// only drop the read cache so direct listings see the new count.
	if s.cache != nil {
		if err := s.cache.InvalidateSnapshot(ctx); err != nil {
			log.Printf("cache: invalidate snapshot error: %v", err)
		}
	}

	return &model.VoteResponse{
		Success: true,
		Upvoted: upvoted,
		Upvotes: upvotes,
	}, nil
}
