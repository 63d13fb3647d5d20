package domain

import (
	"bytes"

	"github.com/goccy/go-json"
)

// GenreList is one favorite genre and its ranked items.
type GenreList struct {
	Genre string        `json:"genre"`
	Items []CatalogItem `json:"items"`
}

// GenreRecommendations is an ordered genre -> items mapping. It encodes as a
// JSON object whose keys keep the favorite-genre order.
type GenreRecommendations []GenreList

// Get returns the items listed under genre.
func (g GenreRecommendations) Get(genre string) []CatalogItem {
	for _, l := range g {
		if l.Genre == genre {
			return l.Items
		}
	}
	return nil
}

// TotalCount counts entries across genres, repeats included.
func (g GenreRecommendations) TotalCount() int {
	n := 0
	for _, l := range g {
		n += len(l.Items)
	}
	return n
}

func (g GenreRecommendations) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, l := range g {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(l.Genre)
		if err != nil {
			return nil, err
		}
		items := l.Items
		if items == nil {
			items = []CatalogItem{}
		}
		val, err := json.Marshal(items)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

type RecommendationMeta struct {
	CacheHit    bool   `json:"cache_hit"`
	GeneratedAt string `json:"generated_at"`
	TotalCount  int    `json:"total_count"`
}

type RecommendationResult struct {
	Recommendations GenreRecommendations
	CacheHit        bool
}

type BatchStatus string

const (
	StatusSuccess BatchStatus = "success"
	StatusFailed  BatchStatus = "failed"
)

type BatchUserResult struct {
	UserID          int64                `json:"user_id"`
	Recommendations GenreRecommendations `json:"recommendations,omitempty"`
	Status          BatchStatus          `json:"status"`
	Error           string               `json:"error,omitempty"`
	Message         string               `json:"message,omitempty"`
}

type BatchSummary struct {
	SuccessCount     int   `json:"success_count"`
	FailedCount      int   `json:"failed_count"`
	ProcessingTimeMs int64 `json:"processing_time_ms"`
}

type BatchMeta struct {
	GeneratedAt string `json:"generated_at"`
}

type BatchResponse struct {
	Kind       Kind              `json:"kind"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalUsers int               `json:"total_users"`
	Results    []BatchUserResult `json:"results"`
	Summary    BatchSummary      `json:"summary"`
	Metadata   BatchMeta         `json:"metadata"`
}
