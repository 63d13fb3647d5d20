package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/actuallystonmai/catalog-recommender/internal/domain"
	"github.com/actuallystonmai/catalog-recommender/internal/logging"
	"github.com/actuallystonmai/catalog-recommender/internal/metrics"
	"github.com/actuallystonmai/catalog-recommender/internal/recommend"
)

// Recommend returns the user's personalized recommendations grouped by
// favorite genre. The user and the catalog are read on every call; a cached
// result is served only when it was computed from the same catalog version.
func (s *Service) Recommend(ctx context.Context, kind domain.Kind, userID int64) (*domain.RecommendationResult, error) {
	res, err := s.recommend(ctx, kind, userID)
	if err != nil {
		metrics.Recommendations.WithLabelValues(string(kind), outcomeLabel(err)).Inc()
		return nil, err
	}
	metrics.Recommendations.WithLabelValues(string(kind), "success").Inc()
	return res, nil
}

func (s *Service) recommend(ctx context.Context, kind domain.Kind, userID int64) (*domain.RecommendationResult, error) {
	log := logging.Ctx(ctx)

	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("fetch user: %w", err)
	}
	items, err := s.loadCatalog(ctx, kind)
	if err != nil {
		return nil, err
	}

	cacheable := s.cache != nil
	version, err := recommend.CatalogVersion(items)
	if err != nil {
		log.Warn().Err(err).Str("kind", string(kind)).Msg("catalog version unavailable, skipping cache")
		cacheable = false
	}
	if cacheable {
		cached, found, err := s.cache.Get(ctx, userID, kind, version)
		if err != nil {
			log.Warn().Err(err).Int64("user_id", userID).Msg("cache get failed")
		}
		if found {
			metrics.RecommendationCache.WithLabelValues("hit").Inc()
			return &domain.RecommendationResult{Recommendations: cached, CacheHit: true}, nil
		}
		metrics.RecommendationCache.WithLabelValues("miss").Inc()
	}

	ratings, err := s.loadRatings(ctx, userID, kind)
	if err != nil {
		return nil, err
	}
	recs, stats := s.engine.Recommend(kind, items, ratings, user)
	observe(kind, stats)
	log.Debug().
		Str("kind", string(kind)).
		Int64("user_id", userID).
		Int("catalog", stats.Items).
		Bool("index_reused", stats.Reused).
		Dur("index_build", stats.IndexBuild).
		Int("results", recs.TotalCount()).
		Msg("recommendations generated")

	if cacheable {
		if err := s.cache.Set(ctx, userID, kind, version, recs); err != nil {
			log.Warn().Err(err).Int64("user_id", userID).Msg("cache set failed")
		}
	}
	return &domain.RecommendationResult{Recommendations: recs}, nil
}

// RecommendByGenres is the non-personalized browse: popular items matching
// any of genres, filtered by the user's age and grouped per genre.
func (s *Service) RecommendByGenres(ctx context.Context, kind domain.Kind, genres []string, userID int64) (domain.GenreRecommendations, error) {
	if len(genres) == 0 {
		return nil, domain.NewValidationError("genre", "must be a non-empty list")
	}
	clean := make([]string, 0, len(genres))
	for _, g := range genres {
		g = strings.TrimSpace(g)
		if g == "" {
			return nil, domain.NewValidationError("genre", "must not contain blank genres")
		}
		clean = append(clean, g)
	}

	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("fetch user: %w", err)
	}

	items, err := s.store.GetItemsByGenres(ctx, kind, clean, kind.GenreQueryLimit())
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &domain.ComputationError{Op: fmt.Sprintf("load %s by genres", kind), Err: err}
	}
	return s.engine.ByGenres(items, clean, user.Age), nil
}

// Similar returns the items most similar to itemID that the user has not
// rated and may watch.
func (s *Service) Similar(ctx context.Context, kind domain.Kind, itemID, userID int64) ([]domain.CatalogItem, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("fetch user: %w", err)
	}
	ratings, err := s.loadRatings(ctx, userID, kind)
	if err != nil {
		return nil, err
	}
	items, err := s.loadCatalog(ctx, kind)
	if err != nil {
		return nil, err
	}

	similar, stats, err := s.engine.Similar(kind, items, itemID, user, ratings, recommend.DefaultSimilarLimit)
	if err != nil {
		return nil, err
	}
	observe(kind, stats)
	return similar, nil
}

func outcomeLabel(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case domain.IsComputationError(err):
		return "computation_error"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "timeout"
	}
	return "error"
}
