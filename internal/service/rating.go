package service

import (
	"context"
	"unicode/utf8"

	"github.com/actuallystonmai/catalog-recommender/internal/domain"
	"github.com/actuallystonmai/catalog-recommender/internal/logging"
	"github.com/actuallystonmai/catalog-recommender/internal/metrics"
)

// RateItem stores, replaces or (with an empty label) removes the user's
// rating of an item and drops the user's cached recommendations.
func (s *Service) RateItem(ctx context.Context, kind domain.Kind, userID, itemID int64, label string) (domain.RatingOutcome, error) {
	if utf8.RuneCountInString(label) > domain.MaxLabelLength {
		return "", domain.NewValidationError("rating", "must be at most %d characters", domain.MaxLabelLength)
	}

	outcome, err := s.store.RateItem(ctx, kind, userID, itemID, label)
	if err != nil {
		metrics.RatingWrites.WithLabelValues(string(kind), "error").Inc()
		return "", err
	}
	metrics.RatingWrites.WithLabelValues(string(kind), string(outcome)).Inc()

	if outcome != domain.RatingNothingToRemove {
		s.clearCache(ctx, userID)
	}
	logging.Ctx(ctx).Info().
		Str("kind", string(kind)).
		Int64("user_id", userID).
		Int64("item_id", itemID).
		Str("outcome", string(outcome)).
		Msg("rating written")
	return outcome, nil
}
