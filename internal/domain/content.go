package domain

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"
)

// Kind selects one of the two catalogs. Movies and series never share
// identity spaces.
type Kind string

const (
	KindMovie Kind = "movie"
	KindSerie Kind = "serie"
)

// ParseKind accepts the singular and plural route spellings.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "movie", "movies":
		return KindMovie, nil
	case "serie", "series":
		return KindSerie, nil
	}
	return "", &ValidationError{Field: "kind", Message: fmt.Sprintf("unknown catalog kind %q", s)}
}

// Table is the catalog table backing the kind.
func (k Kind) Table() string {
	if k == KindSerie {
		return "series"
	}
	return "movies"
}

// RatingTable is the rating table backing the kind.
func (k Kind) RatingTable() string {
	if k == KindSerie {
		return "serie_user_ratings"
	}
	return "movie_user_ratings"
}

// ItemColumn is the foreign key column of the rating table.
func (k Kind) ItemColumn() string {
	if k == KindSerie {
		return "serie_id"
	}
	return "movie_id"
}

// GenreQueryLimit is the store-side cap for the genre browsing query.
func (k Kind) GenreQueryLimit() int {
	if k == KindSerie {
		return 60
	}
	return 90
}

// CatalogItem is one movie or serie. Nullable columns keep their typed
// missing state so the feature combiner can tell "absent" from "empty".
type CatalogItem struct {
	ID            int64         `json:"id"`
	Kind          Kind          `json:"-"`
	Title         pgtype.Text   `json:"title"`
	Director      pgtype.Text   `json:"director"`
	Cast          pgtype.Text   `json:"cast"`
	Country       pgtype.Text   `json:"country"`
	AgeRating     pgtype.Text   `json:"age_rating"`
	Description   pgtype.Text   `json:"description"`
	Genres        pgtype.Text   `json:"genres"`
	StartYear     pgtype.Int4   `json:"start_year"`
	AverageRating pgtype.Float8 `json:"average_rating"`
	PosterURL     pgtype.Text   `json:"poster_url"`
	Popularity    pgtype.Float8 `json:"popularity"`
	Seasons       *int32        `json:"seasons,omitempty"` // series only
	IsAdult       bool          `json:"is_adult"`
}

// Text builds a present nullable string.
func Text(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: true}
}

// Float builds a present nullable float.
func Float(f float64) pgtype.Float8 {
	return pgtype.Float8{Float64: f, Valid: true}
}
