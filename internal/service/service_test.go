package service

import (
	"context"
	"errors"
	"testing"

	"github.com/actuallystonmai/catalog-recommender/internal/auth"
	"github.com/actuallystonmai/catalog-recommender/internal/domain"
	"github.com/actuallystonmai/catalog-recommender/internal/recommend"
)

func seeded() (*Service, *fakeStore, *fakeCache) {
	store := newFakeStore()
	store.users[1] = &domain.User{ID: 1, Username: "teen", Age: 15, FavoriteGenres: "Comedy"}
	store.users[2] = &domain.User{ID: 2, Username: "adult", Age: 30, FavoriteGenres: "Horror, Comedy"}
	store.items[domain.KindMovie] = []domain.CatalogItem{
		{ID: 1, Title: domain.Text("Night Terror"), Genres: domain.Text("Horror"), AgeRating: domain.Text("R"), Popularity: domain.Float(9)},
		{ID: 2, Title: domain.Text("Laugh Track"), Genres: domain.Text("Comedy, Drama"), AgeRating: domain.Text("PG-13"), Popularity: domain.Float(5)},
		{ID: 3, Title: domain.Text("Gunfight"), Genres: domain.Text("Action"), AgeRating: domain.Text("TV-MA"), Popularity: domain.Float(7)},
	}
	store.items[domain.KindSerie] = []domain.CatalogItem{
		{ID: 10, Title: domain.Text("Office Days"), Genres: domain.Text("Comedy"), AgeRating: domain.Text("TV-PG"), Popularity: domain.Float(3)},
	}
	cache := newFakeCache()
	return NewService(store, cache, recommend.NewEngine(), fakeTokens{}), store, cache
}

func TestRecommendColdStartTeen(t *testing.T) {
	svc, _, _ := seeded()
	res, err := svc.Recommend(context.Background(), domain.KindMovie, 1)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	got := res.Recommendations.Get("Comedy")
	if len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("Comedy = %v, want [2]", got)
	}
	if res.CacheHit {
		t.Error("first call should not be a cache hit")
	}
}

func TestRecommendServesFromCache(t *testing.T) {
	svc, store, cache := seeded()
	ctx := context.Background()

	if _, err := svc.Recommend(ctx, domain.KindMovie, 2); err != nil {
		t.Fatal(err)
	}
	res, err := svc.Recommend(ctx, domain.KindMovie, 2)
	if err != nil {
		t.Fatal(err)
	}
	if !res.CacheHit {
		t.Error("second call should hit the cache")
	}
	if store.catalogN != 2 {
		t.Errorf("catalog loaded %d times, want once per call", store.catalogN)
	}
	if len(cache.entries) != 1 {
		t.Errorf("cache holds %d entries, want 1", len(cache.entries))
	}
}

func TestRecommendRecomputesAfterCatalogChange(t *testing.T) {
	tests := []struct {
		name   string
		change func(*fakeStore)
		want   []int64
	}{
		{
			name: "eligible item added",
			change: func(s *fakeStore) {
				s.items[domain.KindMovie] = append(s.items[domain.KindMovie], domain.CatalogItem{
					ID: 4, Title: domain.Text("New Comedy"), Genres: domain.Text("Comedy"),
					AgeRating: domain.Text("PG"), Popularity: domain.Float(8),
				})
			},
			want: []int64{2, 4},
		},
		{
			name: "age rating tightened",
			change: func(s *fakeStore) {
				s.items[domain.KindMovie][1].AgeRating = domain.Text("R")
			},
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store, _ := seeded()
			ctx := context.Background()

			res, err := svc.Recommend(ctx, domain.KindMovie, 1)
			if err != nil {
				t.Fatal(err)
			}
			if got := res.Recommendations.Get("Comedy"); len(got) != 1 || got[0].ID != 2 {
				t.Fatalf("Comedy before change = %v, want [2]", got)
			}

			tt.change(store)
			res, err = svc.Recommend(ctx, domain.KindMovie, 1)
			if err != nil {
				t.Fatal(err)
			}
			if res.CacheHit {
				t.Error("catalog changed but the cached result was served")
			}
			got := res.Recommendations.Get("Comedy")
			if len(got) != len(tt.want) {
				t.Fatalf("Comedy after change = %v, want %v", got, tt.want)
			}
			for i, id := range tt.want {
				if got[i].ID != id {
					t.Errorf("Comedy[%d] = %d, want %d", i, got[i].ID, id)
				}
			}
		})
	}
}

func TestRecommendDeletedUserBypassesCache(t *testing.T) {
	svc, store, _ := seeded()
	ctx := context.Background()

	if _, err := svc.Recommend(ctx, domain.KindMovie, 2); err != nil {
		t.Fatal(err)
	}
	delete(store.users, 2)
	if _, err := svc.Recommend(ctx, domain.KindMovie, 2); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("Recommend() error = %v, want ErrUserNotFound", err)
	}
}

func TestRecommendErrors(t *testing.T) {
	tests := []struct {
		name   string
		userID int64
		setup  func(*fakeStore)
		check  func(error) bool
	}{
		{
			name:   "unknown user",
			userID: 99,
			check:  func(err error) bool { return errors.Is(err, domain.ErrUserNotFound) },
		},
		{
			name:   "catalog unavailable",
			userID: 1,
			setup:  func(s *fakeStore) { s.itemsErr = errors.New("connection refused") },
			check:  domain.IsComputationError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store, _ := seeded()
			if tt.setup != nil {
				tt.setup(store)
			}
			_, err := svc.Recommend(context.Background(), domain.KindMovie, tt.userID)
			if err == nil || !tt.check(err) {
				t.Errorf("Recommend() error = %v", err)
			}
		})
	}
}

func TestRateItemOutcomes(t *testing.T) {
	svc, _, cache := seeded()
	ctx := context.Background()

	steps := []struct {
		label string
		want  domain.RatingOutcome
	}{
		{"", domain.RatingNothingToRemove},
		{domain.LabelLike, domain.RatingCreated},
		{domain.LabelLove, domain.RatingUpdated},
		{"", domain.RatingRemoved},
	}
	for _, st := range steps {
		got, err := svc.RateItem(ctx, domain.KindMovie, 2, 3, st.label)
		if err != nil {
			t.Fatalf("RateItem(%q) error = %v", st.label, err)
		}
		if got != st.want {
			t.Errorf("RateItem(%q) = %s, want %s", st.label, got, st.want)
		}
	}
	if len(cache.cleared) != 3 {
		t.Errorf("cache cleared %d times, want 3", len(cache.cleared))
	}
}

func TestRateItemInvalidatesRecommendations(t *testing.T) {
	svc, _, _ := seeded()
	ctx := context.Background()

	res, err := svc.Recommend(ctx, domain.KindMovie, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Recommendations.Get("Comedy")) != 1 {
		t.Fatalf("Comedy = %v", res.Recommendations.Get("Comedy"))
	}
	if _, err := svc.RateItem(ctx, domain.KindMovie, 2, 2, domain.LabelLike); err != nil {
		t.Fatal(err)
	}
	res, err = svc.Recommend(ctx, domain.KindMovie, 2)
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheHit {
		t.Error("rating should invalidate the cache")
	}
	if got := res.Recommendations.Get("Comedy"); len(got) != 0 {
		t.Errorf("rated item still recommended: %v", got)
	}
}

func TestRateItemErrors(t *testing.T) {
	tests := []struct {
		name   string
		userID int64
		itemID int64
		label  string
		check  func(error) bool
	}{
		{"label too long", 1, 1, "Me gusta muchisimo", domain.IsValidationError},
		{"unknown user", 99, 1, domain.LabelLike, func(err error) bool { return errors.Is(err, domain.ErrUserNotFound) }},
		{"unknown item", 1, 404, domain.LabelLike, func(err error) bool { return errors.Is(err, domain.ErrItemNotFound) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := seeded()
			_, err := svc.RateItem(context.Background(), domain.KindMovie, tt.userID, tt.itemID, tt.label)
			if err == nil || !tt.check(err) {
				t.Errorf("RateItem() error = %v", err)
			}
		})
	}
}

func TestRecommendByGenres(t *testing.T) {
	svc, _, _ := seeded()
	ctx := context.Background()

	recs, err := svc.RecommendByGenres(ctx, domain.KindMovie, []string{"Comedy", "Horror"}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got := recs.Get("Comedy"); len(got) != 1 || got[0].ID != 2 {
		t.Errorf("Comedy = %v", got)
	}
	if got := recs.Get("Horror"); len(got) != 0 {
		t.Errorf("Horror should be age filtered for a 15 year old: %v", got)
	}

	if _, err := svc.RecommendByGenres(ctx, domain.KindMovie, nil, 1); !domain.IsValidationError(err) {
		t.Errorf("empty genres error = %v", err)
	}
	if _, err := svc.RecommendByGenres(ctx, domain.KindMovie, []string{"Comedy"}, 99); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("unknown user error = %v", err)
	}
}

func TestSimilar(t *testing.T) {
	svc, _, _ := seeded()
	ctx := context.Background()

	got, err := svc.Similar(ctx, domain.KindMovie, 1, 2)
	if err != nil {
		t.Fatal(err)
	}
	for _, it := range got {
		if it.ID == 1 {
			t.Error("Similar() returned the query item")
		}
	}
	if _, err := svc.Similar(ctx, domain.KindMovie, 404, 2); !errors.Is(err, domain.ErrItemNotFound) {
		t.Errorf("unknown item error = %v", err)
	}
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _, _ := seeded()
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{Username: "ana", Email: "ana@example.com", Password: "s3cret-pass", Age: 22})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if u.ID == 0 || !auth.CheckPassword(u.PasswordHash, "s3cret-pass") {
		t.Errorf("registered user = %+v", u)
	}
	if _, err := svc.Register(ctx, RegisterInput{Username: "ana", Email: "other@example.com", Password: "x"}); !errors.Is(err, domain.ErrConflict) {
		t.Errorf("duplicate Register() error = %v", err)
	}

	token, _, err := svc.Login(ctx, "ana", "s3cret-pass")
	if err != nil || token != "token-ana" {
		t.Errorf("Login() = %q, %v", token, err)
	}
	if _, _, err := svc.Login(ctx, "ana", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("wrong password error = %v", err)
	}
	if _, _, err := svc.Login(ctx, "nobody", "x"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("unknown user error = %v", err)
	}
}

func TestFirstAccess(t *testing.T) {
	svc, store, cache := seeded()
	ctx := context.Background()

	u, err := svc.FirstAccess(ctx, 1, "Comedy|Drama", []int64{2}, []int64{10})
	if err != nil {
		t.Fatalf("FirstAccess() error = %v", err)
	}
	if u.FavoriteGenres != "Comedy|Drama" || u.IsNewUser {
		t.Errorf("user = %+v", u)
	}
	if store.ratings[ratingKey{domain.KindSerie, 1, 10}] != domain.LabelLike {
		t.Error("serie like not stored")
	}
	if len(cache.cleared) != 1 {
		t.Errorf("cache cleared %d times, want 1", len(cache.cleared))
	}
	if _, err := svc.FirstAccess(ctx, 1, " , ", nil, nil); !domain.IsValidationError(err) {
		t.Errorf("blank genres error = %v", err)
	}
}

func TestGetBatchRecommendations(t *testing.T) {
	svc, _, _ := seeded()
	ctx := context.Background()

	resp, err := svc.GetBatchRecommendations(ctx, domain.KindMovie, 1, 10)
	if err != nil {
		t.Fatal(err)
	}
	if resp.TotalUsers != 2 || len(resp.Results) != 2 {
		t.Fatalf("resp = %+v", resp)
	}
	if resp.Summary.SuccessCount != 2 || resp.Summary.FailedCount != 0 {
		t.Errorf("summary = %+v", resp.Summary)
	}
	if resp.Results[0].UserID != 1 || resp.Results[1].UserID != 2 {
		t.Errorf("results out of page order: %d, %d", resp.Results[0].UserID, resp.Results[1].UserID)
	}

	if _, err := svc.GetBatchRecommendations(ctx, domain.KindMovie, 0, 10); !domain.IsValidationError(err) {
		t.Errorf("page 0 error = %v", err)
	}
	if _, err := svc.GetBatchRecommendations(ctx, domain.KindMovie, 1, maxBatchLimit+1); !domain.IsValidationError(err) {
		t.Errorf("oversized limit error = %v", err)
	}
}

func TestCategorizeError(t *testing.T) {
	tests := []struct {
		err  error
		code string
	}{
		{domain.ErrUserNotFound, "user_not_found"},
		{&domain.ComputationError{Op: "load", Err: errors.New("down")}, "computation_error"},
		{errors.New("boom"), "internal_error"},
	}
	for _, tt := range tests {
		if code, _ := categorizeError(tt.err); code != tt.code {
			t.Errorf("categorizeError(%v) = %s, want %s", tt.err, code, tt.code)
		}
	}
}

func TestPingSeparatesStoreAndCache(t *testing.T) {
	svc, store, cache := seeded()
	ctx := context.Background()

	cache.pingErr = errors.New("redis down")
	if err := svc.Ping(ctx); err != nil {
		t.Errorf("Ping() with cache down = %v, want nil", err)
	}
	if err := svc.PingCache(ctx); err == nil {
		t.Error("PingCache() should report the cache outage")
	}

	store.pingErr = errors.New("db down")
	if err := svc.Ping(ctx); err == nil {
		t.Error("Ping() should report the store outage")
	}

	noCache := NewService(store, nil, recommend.NewEngine(), fakeTokens{})
	if err := noCache.PingCache(ctx); err != nil {
		t.Errorf("PingCache() without cache = %v", err)
	}
}
