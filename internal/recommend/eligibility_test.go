package recommend

import (
	"testing"

	"github.com/actuallystonmai/catalog-recommender/internal/domain"
)

func TestMinAge(t *testing.T) {
	tests := []struct {
		rating string
		want   int
	}{
		{"TV-Y", 0}, {"TV-G", 0}, {"G", 0},
		{"TV-Y7", 10}, {"TV-Y7-FV", 10}, {"PG", 10}, {"TV-PG", 10},
		{"PG-13", 13}, {"TV-14", 14},
		{"TV-MA", 17}, {"R", 17},
		{"NC-17", 18}, {"NR", 18}, {"UR", 18}, {"", 18},
		{"X-UNKNOWN", 18},
		{" PG-13 ", 13},
	}
	for _, tt := range tests {
		if got := MinAge(tt.rating); got != tt.want {
			t.Errorf("MinAge(%q) = %d, want %d", tt.rating, got, tt.want)
		}
	}
}

func TestEligibilityAgeBoundary(t *testing.T) {
	item := domain.CatalogItem{ID: 1, AgeRating: domain.Text("R"), Genres: domain.Text("Thriller")}

	for _, tt := range []struct {
		age  int
		want bool
	}{{16, false}, {17, true}} {
		e := Eligibility{Age: tt.age, Favorites: []string{"Thriller"}}
		if got := e.Allows(item); got != tt.want {
			t.Errorf("age %d: Allows() = %v, want %v", tt.age, got, tt.want)
		}
	}
}

func TestEligibilityRules(t *testing.T) {
	e := Eligibility{
		Age:       30,
		Favorites: []string{"comedy", "Sci-Fi"},
		Rated:     map[int64]struct{}{5: {}},
	}
	tests := []struct {
		name string
		item domain.CatalogItem
		want bool
	}{
		{"substring case-insensitive", domain.CatalogItem{ID: 1, AgeRating: domain.Text("PG"), Genres: domain.Text("Dark Comedy|Drama")}, true},
		{"second favorite", domain.CatalogItem{ID: 2, AgeRating: domain.Text("PG"), Genres: domain.Text("sci-fi")}, true},
		{"no genre match", domain.CatalogItem{ID: 3, AgeRating: domain.Text("PG"), Genres: domain.Text("Horror")}, false},
		{"null genres", domain.CatalogItem{ID: 4, AgeRating: domain.Text("PG")}, false},
		{"already rated", domain.CatalogItem{ID: 5, AgeRating: domain.Text("PG"), Genres: domain.Text("Comedy")}, false},
		{"null rating treated as adult", domain.CatalogItem{ID: 6, Genres: domain.Text("Comedy")}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.Allows(tt.item); got != tt.want {
				t.Errorf("Allows() = %v, want %v", got, tt.want)
			}
		})
	}

	minor := Eligibility{Age: 12, Favorites: []string{"Comedy"}}
	if minor.Allows(domain.CatalogItem{ID: 7, Genres: domain.Text("Comedy")}) {
		t.Error("missing age rating should require 18")
	}
}
