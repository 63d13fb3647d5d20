package recommend

import "github.com/actuallystonmai/catalog-recommender/internal/domain"

// DefaultQuota caps each genre list.
const DefaultQuota = 30

// GenreBuckets is an ordered map of genre to a bounded item list.
type GenreBuckets struct {
	order []string
	lists map[string][]domain.CatalogItem
	quota int
}

func NewGenreBuckets(genres []string, quota int) *GenreBuckets {
	if quota <= 0 {
		quota = DefaultQuota
	}
	b := &GenreBuckets{lists: make(map[string][]domain.CatalogItem, len(genres)), quota: quota}
	for _, g := range genres {
		if _, dup := b.lists[g]; dup {
			continue
		}
		b.order = append(b.order, g)
		b.lists[g] = []domain.CatalogItem{}
	}
	return b
}

// Add appends item under genre unless the list is full.
func (b *GenreBuckets) Add(genre string, item domain.CatalogItem) bool {
	list, ok := b.lists[genre]
	if !ok || len(list) >= b.quota {
		return false
	}
	b.lists[genre] = append(list, item)
	return true
}

// Full reports whether every list reached the quota.
func (b *GenreBuckets) Full() bool {
	for _, g := range b.order {
		if len(b.lists[g]) < b.quota {
			return false
		}
	}
	return true
}

// Lists returns the buckets in genre order.
func (b *GenreBuckets) Lists() domain.GenreRecommendations {
	out := make(domain.GenreRecommendations, 0, len(b.order))
	for _, g := range b.order {
		out = append(out, domain.GenreList{Genre: g, Items: b.lists[g]})
	}
	return out
}

// Bucketize distributes ranked items over genres: ranked items outer,
// genres inner. An item goes into every matching genre that still has room,
// so it may appear under several genres but once per genre.
func Bucketize(ranked []domain.CatalogItem, genres []string, quota int) *GenreBuckets {
	b := NewGenreBuckets(genres, quota)
	for _, item := range ranked {
		if b.Full() {
			break
		}
		for _, g := range b.order {
			if MatchesGenre(item, g) {
				b.Add(g, item)
			}
		}
	}
	return b
}
