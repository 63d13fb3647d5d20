package recommend

import (
	"strings"

	"github.com/actuallystonmai/catalog-recommender/internal/domain"
)

// DefaultMinAge applies to unknown, unmapped and empty age ratings.
const DefaultMinAge = 18

// ageTable is shared by the personalized and the genre browsing paths.
// PG and TV-PG both map to 10.
var ageTable = map[string]int{
	"TV-Y":     0,
	"TV-G":     0,
	"G":        0,
	"TV-Y7":    10,
	"TV-Y7-FV": 10,
	"PG":       10,
	"TV-PG":    10,
	"PG-13":    13,
	"TV-14":    14,
	"TV-MA":    17,
	"R":        17,
	"NC-17":    18,
	"NR":       18,
	"UR":       18,
}

// MinAge returns the minimum viewer age for an age rating.
func MinAge(rating string) int {
	if age, ok := ageTable[strings.TrimSpace(rating)]; ok {
		return age
	}
	return DefaultMinAge
}

// AgeAllows reports whether a viewer of age may see item.
func AgeAllows(item domain.CatalogItem, age int) bool {
	rating := ""
	if item.AgeRating.Valid {
		rating = item.AgeRating.String
	}
	return MinAge(rating) <= age
}

// MatchesGenre is a case-insensitive substring test on the item's genre text.
func MatchesGenre(item domain.CatalogItem, genre string) bool {
	if !item.Genres.Valid || genre == "" {
		return false
	}
	return strings.Contains(strings.ToLower(item.Genres.String), strings.ToLower(genre))
}

// Eligibility is the admission test applied after ranking.
type Eligibility struct {
	Age       int
	Favorites []string
	Rated     map[int64]struct{}
}

// NewEligibility builds the filter for user from their full rating history.
func NewEligibility(user *domain.User, ratings []domain.Rating) Eligibility {
	rated := make(map[int64]struct{}, len(ratings))
	for _, r := range ratings {
		rated[r.ItemID] = struct{}{}
	}
	return Eligibility{Age: user.Age, Favorites: user.Genres(), Rated: rated}
}

// Allows passes items old enough for the user, not yet rated and matching at
// least one favorite genre.
func (e Eligibility) Allows(item domain.CatalogItem) bool {
	if !AgeAllows(item, e.Age) {
		return false
	}
	if _, seen := e.Rated[item.ID]; seen {
		return false
	}
	for _, g := range e.Favorites {
		if MatchesGenre(item, g) {
			return true
		}
	}
	return false
}
