package seeds

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/actuallystonmai/catalog-recommender/internal/auth"
	"github.com/actuallystonmai/catalog-recommender/internal/domain"
	"github.com/actuallystonmai/catalog-recommender/internal/logging"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DefaultPassword is the password of every seeded user.
const DefaultPassword = "password123"

const (
	numUsers  = 20
	numMovies = 50
	numSeries = 30
)

var genres = []string{"Action", "Drama", "Comedy", "Thriller", "Sci-Fi", "Horror", "Animation"}

var titles = map[string][]string{
	"Action": {
		"Die Hard", "Mad Max: Fury Road", "John Wick", "The Dark Knight",
		"Gladiator", "Top Gun: Maverick", "The Raid", "Mission: Impossible",
	},
	"Drama": {
		"The Shawshank Redemption", "Forrest Gump", "The Godfather",
		"A Beautiful Mind", "12 Angry Men", "Parasite", "Moonlight", "Whiplash",
	},
	"Comedy": {
		"Superbad", "The Hangover", "Bridesmaids", "Step Brothers",
		"Anchorman", "Mean Girls", "Hot Fuzz", "Groundhog Day",
	},
	"Thriller": {
		"Se7en", "Gone Girl", "Zodiac", "Prisoners",
		"Sicario", "Nightcrawler", "Shutter Island", "Oldboy",
	},
	"Sci-Fi": {
		"Blade Runner 2049", "Interstellar", "The Matrix", "Arrival",
		"Dune", "Ex Machina", "Inception", "Edge of Tomorrow",
	},
	"Horror": {
		"The Shining", "Hereditary", "Get Out", "The Conjuring",
		"It Follows", "The Babadook", "Midsommar", "Alien",
	},
	"Animation": {
		"Spirited Away", "Toy Story", "Up", "Coco",
		"Inside Out", "Wall-E", "Ratatouille", "Zootopia",
	},
}

var (
	directors = []string{"Ann Lee", "Bo Chen", "Carla Ruiz", "Dev Patel", "Emma Stone", "Felix Braun"}
	actors    = []string{"Tom Hardy", "Zendaya", "Pedro Pascal", "Florence Pugh", "Oscar Isaac", "Ana de Armas", "Daniel Kaluuya"}
	countries = []string{"United States", "United Kingdom", "Spain", "Mexico", "South Korea", "Japan", "France"}

	ageRatings       = []string{"G", "PG", "PG-13", "R", "TV-PG", "TV-14", "TV-MA"}
	ageRatingWeights = []float64{0.1, 0.2, 0.25, 0.15, 0.1, 0.1, 0.1}

	labels       = []string{domain.LabelLove, domain.LabelLike, domain.LabelDislike}
	labelWeights = []float64{0.3, 0.5, 0.2}
)

// Setup truncates every table and loads a deterministic demo dataset.
func Setup(ctx context.Context, pool *pgxpool.Pool) error {
	log := logging.Component("seed")
	rng := rand.New(rand.NewSource(42))

	// Truncate existing data before insert
	log.Info().Msg("truncating existing data")
	if _, err := pool.Exec(ctx, `
		TRUNCATE movie_user_ratings, serie_user_ratings, movies, series, users RESTART IDENTITY CASCADE
	`); err != nil {
		return fmt.Errorf("truncate: %w", err)
	}

	log.Info().Int("count", numUsers).Msg("inserting users")
	if err := seedUsers(ctx, pool, rng, numUsers); err != nil {
		return fmt.Errorf("seed users: %w", err)
	}

	for _, k := range []struct {
		kind domain.Kind
		n    int
	}{{domain.KindMovie, numMovies}, {domain.KindSerie, numSeries}} {
		log.Info().Str("kind", string(k.kind)).Int("count", k.n).Msg("inserting catalog")
		if err := seedCatalog(ctx, pool, rng, k.kind, k.n); err != nil {
			return fmt.Errorf("seed %s catalog: %w", k.kind, err)
		}
		log.Info().Str("kind", string(k.kind)).Msg("inserting ratings")
		if err := seedRatings(ctx, pool, rng, k.kind, k.n, k.n*4); err != nil {
			return fmt.Errorf("seed %s ratings: %w", k.kind, err)
		}
	}

	log.Info().Msg("seeding complete")
	return nil
}

func seedUsers(ctx context.Context, pool *pgxpool.Pool, rng *rand.Rand, n int) error {
	hash, err := auth.HashPassword(DefaultPassword)
	if err != nil {
		return err
	}

	rows := []string{}
	args := []any{}

	for i := range n {
		age := rng.Intn(54) + 12
		favorites := pick(rng, genres, rng.Intn(3)+1)
		createdAt := time.Now().AddDate(0, 0, -rng.Intn(365))

		base := len(args)
		rows = append(rows, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, FALSE, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6))
		args = append(args,
			fmt.Sprintf("user%02d", i+1),
			fmt.Sprintf("user%02d@example.com", i+1),
			hash, age, strings.Join(favorites, ", "), createdAt)
	}

	if len(rows) == 0 {
		return nil
	}

	query := "INSERT INTO users (username, email, password, age, favorite_genres, is_new_user, created_at) VALUES " +
		strings.Join(rows, ", ")

	_, err = pool.Exec(ctx, query, args...)
	return err
}

func seedCatalog(ctx context.Context, pool *pgxpool.Pool, rng *rand.Rand, kind domain.Kind, n int) error {
	columns := "title, director, \"cast\", country, age_rating, description, is_adult, start_year, genres, average_rating, popularity"
	width := 11
	if kind == domain.KindSerie {
		columns += ", seasons"
		width++
	}

	rows := []string{}
	args := []any{}

	for i := range n {
		genre := genres[i%len(genres)]
		titleList := titles[genre]
		title := titleList[(i/len(genres))%len(titleList)]
		if kind == domain.KindSerie {
			title += ": The Series"
		}
		if i >= len(genres)*len(titleList) {
			title = fmt.Sprintf("%s %d", title, i/(len(genres)*len(titleList))+1)
		}

		itemGenres := append([]string{genre}, pick(rng, genres, rng.Intn(2))...)
		director := directors[rng.Intn(len(directors))]
		cast := strings.Join(pick(rng, actors, 3), ", ")

		base := len(args)
		placeholders := make([]string, width)
		for j := range placeholders {
			placeholders[j] = fmt.Sprintf("$%d", base+j+1)
		}
		rows = append(rows, "("+strings.Join(placeholders, ", ")+")")
		args = append(args,
			title,
			director,
			cast,
			countries[rng.Intn(len(countries))],
			weightedChoice(rng, ageRatings, ageRatingWeights),
			fmt.Sprintf("A %s story directed by %s.", strings.ToLower(genre), director),
			0,
			1970+rng.Intn(55),
			strings.Join(dedupe(itemGenres), ", "),
			math.Round((5+rng.Float64()*4.5)*10)/10,
			powerLawScore(rng)*100,
		)
		if kind == domain.KindSerie {
			args = append(args, rng.Intn(8)+1)
		}
	}

	if len(rows) == 0 {
		return nil
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s", kind.Table(), columns, strings.Join(rows, ", "))

	_, err := pool.Exec(ctx, query, args...)
	return err
}

func seedRatings(ctx context.Context, pool *pgxpool.Pool, rng *rand.Rand, kind domain.Kind, items, n int) error {
	seen := make(map[[2]int64]bool)

	rows := []string{}
	args := []any{}

	for range n {
		userID := int64(math.Ceil(math.Pow(rng.Float64(), 1.5) * numUsers))
		userID = max(1, min(userID, numUsers))

		itemID := int64(math.Ceil(math.Pow(rng.Float64(), 1.3) * float64(items)))
		itemID = max(1, min(itemID, int64(items)))

		key := [2]int64{userID, itemID}
		if seen[key] {
			continue
		}
		seen[key] = true

		ratedAt := time.Now().AddDate(0, 0, -rng.Intn(180))

		base := len(args)
		rows = append(rows, fmt.Sprintf("($%d, $%d, $%d, $%d)", base+1, base+2, base+3, base+4))
		args = append(args, userID, itemID, weightedChoice(rng, labels, labelWeights), ratedAt)
	}

	if len(rows) == 0 {
		return nil
	}

	query := fmt.Sprintf("INSERT INTO %s (user_id, %s, rating, date_rated) VALUES %s",
		kind.RatingTable(), kind.ItemColumn(), strings.Join(rows, ", "))

	_, err := pool.Exec(ctx, query, args...)
	return err
}

// pick returns k distinct elements of choices in random order.
func pick(rng *rand.Rand, choices []string, k int) []string {
	k = min(k, len(choices))
	out := make([]string, 0, k)
	for _, i := range rng.Perm(len(choices))[:k] {
		out = append(out, choices[i])
	}
	return out
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := in[:0]
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func powerLawScore(rng *rand.Rand) float64 {
	u := rng.Float64()
	if u == 0 {
		u = 0.001
	}
	raw := math.Pow(u, 2.0)
	if raw < 0.01 {
		raw = 0.01
	}
	return math.Round(raw*100) / 100
}

func weightedChoice(rng *rand.Rand, choices []string, weights []float64) string {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	r := rng.Float64() * total
	cumulative := 0.0
	for i, w := range weights {
		cumulative += w
		if r <= cumulative {
			return choices[i]
		}
	}
	return choices[len(choices)-1]
}
