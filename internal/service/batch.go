package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/actuallystonmai/catalog-recommender/internal/domain"
	"github.com/actuallystonmai/catalog-recommender/internal/logging"
)

// GetBatchRecommendations computes recommendations for one page of users
// with a bounded worker pool. Per-user failures are reported in the result.
func (s *Service) GetBatchRecommendations(ctx context.Context, kind domain.Kind, page, limit int) (*domain.BatchResponse, error) {
	if page < 1 {
		return nil, domain.NewValidationError("page", "must be at least 1")
	}
	if limit < 1 || limit > maxBatchLimit {
		return nil, domain.NewValidationError("limit", "must be between 1 and %d", maxBatchLimit)
	}
	start := time.Now()

	// Fetch paginated user IDs
	userIDs, err := s.store.GetUserIDsPaginated(ctx, page, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch user ids: %w", err)
	}

	// Fetch total user
	totalUsers, err := s.store.CountUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("count user: %w", err)
	}

	results := make([]domain.BatchUserResult, len(userIDs))
	var wg sync.WaitGroup
	sem := make(chan struct{}, batchConcurrency) // semaphore

	for i, userID := range userIDs {
		wg.Add(1)
		go func(idx int, uid int64) {
			defer wg.Done()
			sem <- struct{}{}        // acquire
			defer func() { <-sem }() // release

			results[idx] = s.processUserForBatch(ctx, kind, uid)
		}(i, userID)
	}
	wg.Wait()

	summary := domain.BatchSummary{}
	for _, r := range results {
		if r.Status == domain.StatusSuccess {
			summary.SuccessCount++
		} else {
			summary.FailedCount++
		}
	}
	summary.ProcessingTimeMs = time.Since(start).Milliseconds()

	return &domain.BatchResponse{
		Kind:       kind,
		Page:       page,
		Limit:      limit,
		TotalUsers: totalUsers,
		Results:    results,
		Summary:    summary,
		Metadata: domain.BatchMeta{
			GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		},
	}, nil
}

// Generates recommendations for a single user, capturing errors.
func (s *Service) processUserForBatch(ctx context.Context, kind domain.Kind, userID int64) domain.BatchUserResult {
	result, err := s.Recommend(ctx, kind, userID)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Int64("user_id", userID).Msg("batch: recommendation failed")
		code, msg := categorizeError(err)
		return domain.BatchUserResult{
			UserID:  userID,
			Status:  domain.StatusFailed,
			Error:   code,
			Message: msg,
		}
	}

	return domain.BatchUserResult{
		UserID:          userID,
		Recommendations: result.Recommendations,
		Status:          domain.StatusSuccess,
	}
}

// Handle response error
func categorizeError(err error) (string, string) {
	if errors.Is(err, domain.ErrUserNotFound) {
		return "user_not_found", "user not found"
	}
	if domain.IsComputationError(err) {
		return "computation_error", "recommendations could not be computed"
	}
	return "internal_error", "an unexpected error occurred"
}
