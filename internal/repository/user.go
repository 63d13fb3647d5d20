package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/actuallystonmai/catalog-recommender/internal/domain"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, username, email, password, COALESCE(age, 0),
	COALESCE(favorite_genres, ''), is_new_user, created_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	u := &domain.User{}
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Age,
		&u.FavoriteGenres, &u.IsNewUser, &u.CreatedAt)
	return u, err
}

// Get single user
func (r *Repository) GetUserByID(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("query user id=%d: %w", userID, err)
	}
	return user, nil
}

func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, err := scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("query user %q: %w", username, err)
	}
	return user, nil
}

// CreateUser inserts u and fills its id and creation time. Duplicate
// usernames or emails return domain.ErrConflict.
func (r *Repository) CreateUser(ctx context.Context, u *domain.User) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (username, email, password, age, is_new_user)
		VALUES ($1, $2, $3, $4, TRUE)
		RETURNING id, is_new_user, created_at`,
		u.Username, u.Email, u.PasswordHash, u.Age,
	).Scan(&u.ID, &u.IsNewUser, &u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("user %q: %w", u.Username, domain.ErrConflict)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// SaveFirstAccess stores favorite genres and likes every listed movie and
// serie in one transaction.
func (r *Repository) SaveFirstAccess(ctx context.Context, userID int64, genres string, movieIDs, serieIDs []int64) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE users SET favorite_genres = $2, is_new_user = FALSE WHERE id = $1`,
			userID, genres)
		if err != nil {
			return fmt.Errorf("update user %d: %w", userID, err)
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrUserNotFound
		}

		for _, batch := range []struct {
			kind domain.Kind
			ids  []int64
		}{{domain.KindMovie, movieIDs}, {domain.KindSerie, serieIDs}} {
			for _, id := range batch.ids {
				ok, err := itemExists(ctx, tx, batch.kind, id)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("%s %d: %w", batch.kind, id, domain.ErrItemNotFound)
				}
				if _, err := upsertRating(ctx, tx, batch.kind, userID, id, domain.LabelLike); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func userExists(ctx context.Context, tx pgx.Tx, userID int64) (bool, error) {
	var ok bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&ok); err != nil {
		return false, fmt.Errorf("check user %d: %w", userID, err)
	}
	return ok, nil
}

// Get user ids for page
func (r *Repository) GetUserIDsPaginated(ctx context.Context, page, limit int) ([]int64, error) {
	offset := (page - 1) * limit
	rows, err := r.pool.Query(ctx,
		`SELECT id FROM users ORDER BY id LIMIT $1 OFFSET $2`, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("query user ids for page %d: %w", page, err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user ids: %w", err)
	}
	return ids, nil
}

// Count total users
func (r *Repository) CountUsers(ctx context.Context) (int, error) {
	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM users`,
	).Scan(&total)

	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return total, nil
}
