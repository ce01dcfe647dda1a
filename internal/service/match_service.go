package service

import (
	"context"
	"fmt"

	"revlink/internal/models"
	"revlink/internal/observability"
	"revlink/internal/repository"
)

// MatchService resolves batches of phone hashes to registered profiles.
// Lookups are read-only and safe to retry; the batch cap bounds query cost so
// oversized contact lists are chunked client-side instead of timing out here.
type MatchService struct {
	userRepo  repository.UserRepository
	maxHashes int
}

// NewMatchService returns a new MatchService with the given batch cap.
func NewMatchService(userRepo repository.UserRepository, maxHashes int) *MatchService {
	return &MatchService{
		userRepo:  userRepo,
		maxHashes: maxHashes,
	}
}

// LookupByHashes returns the profiles whose verified phone hash appears in
// the given set. Hashes are deduplicated before the single batch query. Only
// profiles whose hash was bound through OTP verification can ever match,
// because that is the only write path for phone_hash.
func (s *MatchService) LookupByHashes(ctx context.Context, hashes []string) ([]models.User, error) {
	if len(hashes) == 0 {
		return []models.User{}, nil
	}
	if len(hashes) > s.maxHashes {
		return nil, models.NewValidationError(fmt.Sprintf("Too many hashes in one lookup (max %d)", s.maxHashes))
	}

	seen := make(map[string]struct{}, len(hashes))
	deduped := make([]string, 0, len(hashes))
	for _, h := range hashes {
		if h == "" {
			continue
		}
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		deduped = append(deduped, h)
	}

	observability.ContactLookupHashes.Observe(float64(len(deduped)))
	if len(deduped) == 0 {
		return []models.User{}, nil
	}
	return s.userRepo.FindByPhoneHashes(ctx, deduped)
}
