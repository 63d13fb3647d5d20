package handler

import (
	"bytes"

	"github.com/actuallystonmai/catalog-recommender/internal/domain"
	"github.com/goccy/go-json"
)

type RecommendationResponse struct {
	UserID          int64                       `json:"user_id"`
	Kind            domain.Kind                 `json:"kind"`
	Recommendations domain.GenreRecommendations `json:"recommendations"`
	Metadata        domain.RecommendationMeta   `json:"metadata"`
}

type SimilarResponse struct {
	ItemID          int64                `json:"item_id"`
	Kind            domain.Kind          `json:"item_type"`
	Recommendations []domain.CatalogItem `json:"recommendations"`
}

type RatingResponse struct {
	Outcome domain.RatingOutcome `json:"outcome"`
	Message string               `json:"message"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email,max=100"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Age      int    `json:"age" validate:"min=0,max=130"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type FirstAccessRequest struct {
	UserID int64    `json:"user_id" validate:"required,gt=0"`
	Genres GenreField `json:"genres" validate:"required,min=1,dive,required"`
	Movies []int64  `json:"movies" validate:"dive,gt=0"`
	Series []int64  `json:"series" validate:"dive,gt=0"`
}

type RateRequest struct {
	Rating string `json:"rating" validate:"max=15"`
}

type SimilarRequest struct {
	ItemID   int64  `json:"item_id" validate:"required,gt=0"`
	ItemType string `json:"item_type" validate:"required"`
	UserID   int64  `json:"user_id" validate:"required,gt=0"`
}

type GenreRequest struct {
	Genre  []string `json:"genre" validate:"required,min=1,dive,required"`
	UserID int64    `json:"user_id" validate:"required,gt=0"`
}

// GenreField accepts either a JSON list of genres or a single comma
// separated string such as "Comedy, Drama".
type GenreField []string

func (g *GenreField) UnmarshalJSON(b []byte) error {
	if bytes.HasPrefix(bytes.TrimSpace(b), []byte(`"`)) {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*g = domain.SplitGenres(s)
		return nil
	}
	var list []string
	if err := json.Unmarshal(b, &list); err != nil {
		return err
	}
	*g = list
	return nil
}
