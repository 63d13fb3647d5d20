package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/actuallystonmai/catalog-recommender/internal/domain"
)

type ratingKey struct {
	kind   domain.Kind
	userID int64
	itemID int64
}

type fakeStore struct {
	mu       sync.Mutex
	users    map[int64]*domain.User
	items    map[domain.Kind][]domain.CatalogItem
	ratings  map[ratingKey]string
	catalogN int
	itemsErr error
	pingErr  error
	nextID   int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:   map[int64]*domain.User{},
		items:   map[domain.Kind][]domain.CatalogItem{},
		ratings: map[ratingKey]string{},
		nextID:  100,
	}
}

func (f *fakeStore) GetUserByID(_ context.Context, id int64) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeStore) GetUserByUsername(_ context.Context, name string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == name {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeStore) CreateUser(_ context.Context, u *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return domain.ErrConflict
		}
	}
	f.nextID++
	u.ID = f.nextID
	u.IsNewUser = true
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeStore) SaveFirstAccess(_ context.Context, userID int64, genres string, movieIDs, serieIDs []int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.FavoriteGenres = genres
	u.IsNewUser = false
	for _, id := range movieIDs {
		f.ratings[ratingKey{domain.KindMovie, userID, id}] = domain.LabelLike
	}
	for _, id := range serieIDs {
		f.ratings[ratingKey{domain.KindSerie, userID, id}] = domain.LabelLike
	}
	return nil
}

func (f *fakeStore) sortedUserIDs() []int64 {
	ids := make([]int64, 0, len(f.users))
	for id := range f.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (f *fakeStore) GetUserIDsPaginated(_ context.Context, page, limit int) ([]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := f.sortedUserIDs()
	start := (page - 1) * limit
	if start >= len(ids) {
		return nil, nil
	}
	end := min(start+limit, len(ids))
	return ids[start:end], nil
}

func (f *fakeStore) CountUsers(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.users), nil
}

func (f *fakeStore) GetAllItems(_ context.Context, kind domain.Kind) ([]domain.CatalogItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.catalogN++
	if f.itemsErr != nil {
		return nil, f.itemsErr
	}
	return append([]domain.CatalogItem(nil), f.items[kind]...), nil
}

func (f *fakeStore) GetItemsByGenres(_ context.Context, kind domain.Kind, genres []string, limit int) ([]domain.CatalogItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.CatalogItem
	for _, it := range f.items[kind] {
		if it.IsAdult || !it.Popularity.Valid {
			continue
		}
		for _, g := range genres {
			if strings.Contains(strings.ToLower(it.Genres.String), strings.ToLower(g)) {
				out = append(out, it)
				break
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Popularity.Float64 > out[j].Popularity.Float64 })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeStore) GetUserRatings(_ context.Context, userID int64, kind domain.Kind) ([]domain.Rating, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Rating
	for k, label := range f.ratings {
		if k.kind == kind && k.userID == userID {
			out = append(out, domain.Rating{UserID: userID, ItemID: k.itemID, Label: label})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemID < out[j].ItemID })
	return out, nil
}

func (f *fakeStore) RateItem(_ context.Context, kind domain.Kind, userID, itemID int64, label string) (domain.RatingOutcome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[userID]; !ok {
		return "", domain.ErrUserNotFound
	}
	found := false
	for _, it := range f.items[kind] {
		if it.ID == itemID {
			found = true
			break
		}
	}
	if !found {
		return "", domain.ErrItemNotFound
	}
	key := ratingKey{kind, userID, itemID}
	_, exists := f.ratings[key]
	if label == "" {
		if !exists {
			return domain.RatingNothingToRemove, nil
		}
		delete(f.ratings, key)
		return domain.RatingRemoved, nil
	}
	f.ratings[key] = label
	if exists {
		return domain.RatingUpdated, nil
	}
	return domain.RatingCreated, nil
}

func (f *fakeStore) Ping(context.Context) error { return f.pingErr }

type cacheKey struct {
	userID  int64
	kind    domain.Kind
	version uint64
}

type fakeCache struct {
	mu      sync.Mutex
	entries map[cacheKey]domain.GenreRecommendations
	cleared []int64
	pingErr error
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[cacheKey]domain.GenreRecommendations{}}
}

func (c *fakeCache) Get(_ context.Context, userID int64, kind domain.Kind, version uint64) (domain.GenreRecommendations, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	recs, ok := c.entries[cacheKey{userID, kind, version}]
	return recs, ok, nil
}

func (c *fakeCache) Set(_ context.Context, userID int64, kind domain.Kind, version uint64, recs domain.GenreRecommendations) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey{userID, kind, version}] = recs
	return nil
}

func (c *fakeCache) ClearUserCache(_ context.Context, userID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if k.userID == userID {
			delete(c.entries, k)
		}
	}
	c.cleared = append(c.cleared, userID)
	return nil
}

func (c *fakeCache) Ping(context.Context) error { return c.pingErr }

type fakeTokens struct{}

func (fakeTokens) Issue(userID int64, username string) (string, error) {
	if username == "" {
		return "", errors.New("empty username")
	}
	return "token-" + username, nil
}
