package domain

import "time"

// Labels with a scoring weight. Any other label is stored but ignored by
// the ranker.
const (
	LabelLove    = "Me encanta"
	LabelLike    = "Me gusta"
	LabelDislike = "No me gusta"
)

// MaxLabelLength matches the rating column width.
const MaxLabelLength = 15

type Rating struct {
	UserID    int64     `json:"user_id"`
	ItemID    int64     `json:"item_id"`
	Label     string    `json:"rating"`
	DateRated time.Time `json:"date_rated"`
}

// RatingOutcome reports what a rating write did.
type RatingOutcome string

const (
	RatingCreated         RatingOutcome = "created"
	RatingUpdated         RatingOutcome = "updated"
	RatingRemoved         RatingOutcome = "removed"
	RatingNothingToRemove RatingOutcome = "nothing_to_remove"
)

// Message is the user facing text for the outcome.
func (o RatingOutcome) Message() string {
	switch o {
	case RatingCreated:
		return "rating stored"
	case RatingUpdated:
		return "rating updated"
	case RatingRemoved:
		return "rating removed"
	case RatingNothingToRemove:
		return "no existing rating to remove"
	}
	return string(o)
}
