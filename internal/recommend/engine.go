package recommend

import (
	"fmt"
	"sort"
	"time"

	"github.com/actuallystonmai/catalog-recommender/internal/domain"
)

// DefaultSimilarLimit is the size of a similar-items answer.
const DefaultSimilarLimit = 10

// Engine runs the recommendation pipeline over a catalog snapshot.
type Engine struct {
	quota int
	cache *IndexCache
}

// Option configures an Engine.
type Option func(*Engine)

// WithQuota overrides the per-genre cap.
func WithQuota(q int) Option {
	return func(e *Engine) { e.quota = q }
}

// WithIndexCache reuses indexes across requests while the catalog blobs are
// unchanged.
func WithIndexCache(c *IndexCache) Option {
	return func(e *Engine) { e.cache = c }
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{quota: DefaultQuota}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Stats describes how the index of a request was obtained.
type Stats struct {
	Items      int
	Reused     bool
	IndexBuild time.Duration
}

// index builds or reuses the index of items.
func (e *Engine) index(kind domain.Kind, items []domain.CatalogItem) (*Index, Stats) {
	start := time.Now()
	blobs := CombineAll(items)
	var (
		idx    *Index
		reused bool
	)
	if e.cache != nil {
		idx, reused = e.cache.Get(string(kind), blobs)
	} else {
		idx = BuildIndex(blobs)
	}
	return idx, Stats{Items: len(items), Reused: reused, IndexBuild: time.Since(start)}
}

// Recommend ranks items against the user's rating history and returns them
// grouped by the user's favorite genres.
func (e *Engine) Recommend(kind domain.Kind, items []domain.CatalogItem, ratings []domain.Rating, user *domain.User) (domain.GenreRecommendations, Stats) {
	idx, stats := e.index(kind, items)
	prefs := AggregatePreferences(ratings, RowIndex(items))
	ranked := Rank(idx, prefs)

	filter := NewEligibility(user, ratings)
	eligible := make([]domain.CatalogItem, 0, len(ranked))
	for _, r := range ranked {
		if item := items[r.Row]; filter.Allows(item) {
			eligible = append(eligible, item)
		}
	}
	return Bucketize(eligible, filter.Favorites, e.quota).Lists(), stats
}

// Similar returns up to limit items most similar to itemID, skipping the
// item itself, items the user rated and items above the user's age.
func (e *Engine) Similar(kind domain.Kind, items []domain.CatalogItem, itemID int64, user *domain.User, ratings []domain.Rating, limit int) ([]domain.CatalogItem, Stats, error) {
	rows := RowIndex(items)
	src, ok := rows[itemID]
	if !ok {
		return nil, Stats{}, fmt.Errorf("%s %d: %w", kind, itemID, domain.ErrItemNotFound)
	}
	if limit <= 0 {
		limit = DefaultSimilarLimit
	}
	idx, stats := e.index(kind, items)

	seen := make(map[int64]struct{}, len(ratings))
	for _, r := range ratings {
		seen[r.ItemID] = struct{}{}
	}

	row := idx.Row(src)
	order := make([]int, 0, len(items))
	for i := range items {
		if i != src {
			order = append(order, i)
		}
	}
	sort.SliceStable(order, func(a, b int) bool { return row[order[a]] > row[order[b]] })

	out := make([]domain.CatalogItem, 0, limit)
	for _, i := range order {
		item := items[i]
		if _, rated := seen[item.ID]; rated || !AgeAllows(item, user.Age) {
			continue
		}
		out = append(out, item)
		if len(out) == limit {
			break
		}
	}
	return out, stats, nil
}

// ByGenres groups popularity-ordered items under the requested genres,
// keeping only items suitable for age.
func (e *Engine) ByGenres(items []domain.CatalogItem, genres []string, age int) domain.GenreRecommendations {
	allowed := make([]domain.CatalogItem, 0, len(items))
	for _, item := range items {
		if AgeAllows(item, age) {
			allowed = append(allowed, item)
		}
	}
	return Bucketize(allowed, genres, e.quota).Lists()
}
