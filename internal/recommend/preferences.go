package recommend

import "github.com/actuallystonmai/catalog-recommender/internal/domain"

// Preferences holds the matrix rows of the items a user loved, liked and
// disliked.
type Preferences struct {
	Loved    []int
	Liked    []int
	Disliked []int
}

// Rated returns the union of the three buckets.
func (p Preferences) Rated() map[int]struct{} {
	set := make(map[int]struct{}, len(p.Loved)+len(p.Liked)+len(p.Disliked))
	for _, bucket := range [][]int{p.Loved, p.Liked, p.Disliked} {
		for _, row := range bucket {
			set[row] = struct{}{}
		}
	}
	return set
}

// AggregatePreferences partitions ratings by exact label. Ratings of items
// missing from rows (e.g. removed from the catalog) and unrecognised labels
// are skipped.
func AggregatePreferences(ratings []domain.Rating, rows map[int64]int) Preferences {
	var p Preferences
	for _, r := range ratings {
		row, ok := rows[r.ItemID]
		if !ok {
			continue
		}
		switch r.Label {
		case domain.LabelLove:
			p.Loved = append(p.Loved, row)
		case domain.LabelLike:
			p.Liked = append(p.Liked, row)
		case domain.LabelDislike:
			p.Disliked = append(p.Disliked, row)
		}
	}
	return p
}

// RowIndex maps item id to matrix row.
func RowIndex(items []domain.CatalogItem) map[int64]int {
	rows := make(map[int64]int, len(items))
	for i, item := range items {
		rows[item.ID] = i
	}
	return rows
}
