package recommend

import "sort"

// Bucket weights applied to the summed similarity rows.
const (
	LoveWeight    = 2.0
	LikeWeight    = 1.0
	DislikeWeight = -1.0
)

// Ranked is a candidate row and its preference score.
type Ranked struct {
	Row   int
	Score float64
}

// Rank scores every row as 2*sum(loved) + sum(liked) - sum(disliked) of the
// similarity rows, drops rows the user rated and sorts by score descending.
// Equal scores keep catalog order.
func Rank(idx *Index, prefs Preferences) []Ranked {
	scores := make([]float64, idx.Len())
	accumulate(scores, idx, prefs.Loved, LoveWeight)
	accumulate(scores, idx, prefs.Liked, LikeWeight)
	accumulate(scores, idx, prefs.Disliked, DislikeWeight)

	rated := prefs.Rated()
	ranked := make([]Ranked, 0, len(scores))
	for row, s := range scores {
		if _, skip := rated[row]; skip {
			continue
		}
		ranked = append(ranked, Ranked{Row: row, Score: s})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

func accumulate(scores []float64, idx *Index, rows []int, weight float64) {
	for _, r := range rows {
		for j, s := range idx.Row(r) {
			scores[j] += weight * s
		}
	}
}
