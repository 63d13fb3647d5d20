package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/actuallystonmai/catalog-recommender/internal/domain"
	"github.com/jackc/pgx/v5"
)

func itemColumns(kind domain.Kind) string {
	seasons := "NULL::integer"
	if kind == domain.KindSerie {
		seasons = "seasons"
	}
	return `id, title, director, "cast", country, age_rating, description, genres,
		start_year, average_rating, poster_url, popularity, ` + seasons + `,
		COALESCE(is_adult, 0) <> 0`
}

func scanItem(kind domain.Kind, row pgx.Row) (domain.CatalogItem, error) {
	c := domain.CatalogItem{Kind: kind}
	err := row.Scan(&c.ID, &c.Title, &c.Director, &c.Cast, &c.Country, &c.AgeRating,
		&c.Description, &c.Genres, &c.StartYear, &c.AverageRating, &c.PosterURL,
		&c.Popularity, &c.Seasons, &c.IsAdult)
	return c, err
}

func collectItems(kind domain.Kind, rows pgx.Rows) ([]domain.CatalogItem, error) {
	defer rows.Close()
	var items []domain.CatalogItem
	for rows.Next() {
		c, err := scanItem(kind, rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", kind, err)
		}
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate over %s: %w", kind.Table(), err)
	}
	return items, nil
}

// GetAllItems is a full scan of the catalog in id order. The order is the
// row order of the similarity matrix.
func (r *Repository) GetAllItems(ctx context.Context, kind domain.Kind) ([]domain.CatalogItem, error) {
	rows, err := r.pool.Query(ctx,
		fmt.Sprintf(`SELECT %s FROM %s ORDER BY id`, itemColumns(kind), kind.Table()))
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", kind.Table(), err)
	}
	return collectItems(kind, rows)
}

// GetItemsByGenres returns non-adult items with a popularity whose genre text
// contains any of genres, most popular first.
func (r *Repository) GetItemsByGenres(ctx context.Context, kind domain.Kind, genres []string, limit int) ([]domain.CatalogItem, error) {
	patterns := make([]string, len(genres))
	for i, g := range genres {
		patterns[i] = "%" + escapeLike(g) + "%"
	}
	rows, err := r.pool.Query(ctx,
		fmt.Sprintf(`SELECT %s FROM %s
		WHERE genres ILIKE ANY($1)
			AND COALESCE(is_adult, 0) = 0
			AND popularity IS NOT NULL
		ORDER BY popularity DESC, id
		LIMIT $2`, itemColumns(kind), kind.Table()),
		patterns, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query %s by genres: %w", kind.Table(), err)
	}
	return collectItems(kind, rows)
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func itemExists(ctx context.Context, q pgx.Tx, kind domain.Kind, id int64) (bool, error) {
	var ok bool
	err := q.QueryRow(ctx,
		fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1)`, kind.Table()), id,
	).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("check %s %d: %w", kind, id, err)
	}
	return ok, nil
}
