package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/actuallystonmai/catalog-recommender/internal/domain"
	"github.com/actuallystonmai/catalog-recommender/internal/logging"
	"github.com/actuallystonmai/catalog-recommender/internal/metrics"
	"github.com/actuallystonmai/catalog-recommender/internal/recommend"
	"github.com/sony/gobreaker/v2"
)

const (
	batchConcurrency = 10
	maxBatchLimit    = 100
)

// Store is the catalog, user and rating persistence the service needs.
type Store interface {
	GetUserByID(ctx context.Context, userID int64) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	CreateUser(ctx context.Context, u *domain.User) error
	SaveFirstAccess(ctx context.Context, userID int64, genres string, movieIDs, serieIDs []int64) error
	GetUserIDsPaginated(ctx context.Context, page, limit int) ([]int64, error)
	CountUsers(ctx context.Context) (int, error)

	GetAllItems(ctx context.Context, kind domain.Kind) ([]domain.CatalogItem, error)
	GetItemsByGenres(ctx context.Context, kind domain.Kind, genres []string, limit int) ([]domain.CatalogItem, error)
	GetUserRatings(ctx context.Context, userID int64, kind domain.Kind) ([]domain.Rating, error)
	RateItem(ctx context.Context, kind domain.Kind, userID, itemID int64, label string) (domain.RatingOutcome, error)

	Ping(ctx context.Context) error
}

// Cache holds finished recommendations per user, kind and catalog version.
type Cache interface {
	Get(ctx context.Context, userID int64, kind domain.Kind, version uint64) (domain.GenreRecommendations, bool, error)
	Set(ctx context.Context, userID int64, kind domain.Kind, version uint64, recs domain.GenreRecommendations) error
	ClearUserCache(ctx context.Context, userID int64) error
	Ping(ctx context.Context) error
}

// TokenIssuer signs login tokens.
type TokenIssuer interface {
	Issue(userID int64, username string) (string, error)
}

type Service struct {
	store   Store
	cache   Cache
	engine  *recommend.Engine
	tokens  TokenIssuer
	breaker *gobreaker.CircuitBreaker[[]domain.CatalogItem]
}

func NewService(store Store, cache Cache, engine *recommend.Engine, tokens TokenIssuer) *Service {
	log := logging.Component("service")
	return &Service{
		store:  store,
		cache:  cache,
		engine: engine,
		tokens: tokens,
		breaker: gobreaker.NewCircuitBreaker[[]domain.CatalogItem](gobreaker.Settings{
			Name:    "catalog",
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			IsSuccessful: func(err error) bool {
				return err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
					Msg("circuit breaker state changed")
			},
		}),
	}
}

// Ping checks the store. The service cannot answer without it.
func (s *Service) Ping(ctx context.Context) error {
	if err := s.store.Ping(ctx); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	return nil
}

// PingCache checks the recommendation cache. Requests still succeed while it
// is down, they are just computed every time.
func (s *Service) PingCache(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	if err := s.cache.Ping(ctx); err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	return nil
}

// loadCatalog fetches the current catalog snapshot through the breaker.
func (s *Service) loadCatalog(ctx context.Context, kind domain.Kind) ([]domain.CatalogItem, error) {
	items, err := s.breaker.Execute(func() ([]domain.CatalogItem, error) {
		return s.store.GetAllItems(ctx, kind)
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &domain.ComputationError{Op: fmt.Sprintf("load %s catalog", kind), Err: err}
	}
	return items, nil
}

func (s *Service) loadRatings(ctx context.Context, userID int64, kind domain.Kind) ([]domain.Rating, error) {
	ratings, err := s.store.GetUserRatings(ctx, userID, kind)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &domain.ComputationError{Op: fmt.Sprintf("load %s ratings", kind), Err: err}
	}
	return ratings, nil
}

func (s *Service) clearCache(ctx context.Context, userID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.ClearUserCache(ctx, userID); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Int64("user_id", userID).Msg("cache invalidation failed")
	}
}

func observe(kind domain.Kind, stats recommend.Stats) {
	metrics.ObserveBuild(string(kind), stats.Items, stats.Reused, stats.IndexBuild)
}
