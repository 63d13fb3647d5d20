package recommend

import (
	"strings"

	"github.com/actuallystonmai/catalog-recommender/internal/domain"
	"github.com/jackc/pgx/v5/pgtype"
)

// CombineFeatures builds the lowercase feature blob of an item from title,
// director, cast and genres. Null fields are skipped; empty strings are not.
func CombineFeatures(item domain.CatalogItem) string {
	fields := []pgtype.Text{item.Title, item.Director, item.Cast, item.Genres}
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		if !f.Valid {
			continue
		}
		parts = append(parts, f.String)
	}
	return strings.ToLower(strings.Join(parts, " "))
}

// CombineAll returns the blobs of items in catalog order.
func CombineAll(items []domain.CatalogItem) []string {
	blobs := make([]string, len(items))
	for i, item := range items {
		blobs[i] = CombineFeatures(item)
	}
	return blobs
}
