package repository

import (
	"context"
	"fmt"

	"github.com/actuallystonmai/catalog-recommender/internal/domain"
	"github.com/jackc/pgx/v5"
)

func (r *Repository) GetUserRatings(ctx context.Context, userID int64, kind domain.Kind) ([]domain.Rating, error) {
	rows, err := r.pool.Query(ctx,
		fmt.Sprintf(`SELECT user_id, %s, rating, date_rated
		FROM %s
		WHERE user_id = $1
		ORDER BY date_rated, id`, kind.ItemColumn(), kind.RatingTable()),
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("get %s ratings for user %d: %w", kind, userID, err)
	}
	defer rows.Close()

	var ratings []domain.Rating
	for rows.Next() {
		var rt domain.Rating
		if err := rows.Scan(&rt.UserID, &rt.ItemID, &rt.Label, &rt.DateRated); err != nil {
			return nil, fmt.Errorf("scan rating: %w", err)
		}
		ratings = append(ratings, rt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate over ratings: %w", err)
	}
	return ratings, nil
}

// RateItem upserts the user's rating of an item, or deletes it when label is
// empty. It runs in one transaction.
func (r *Repository) RateItem(ctx context.Context, kind domain.Kind, userID, itemID int64, label string) (domain.RatingOutcome, error) {
	var outcome domain.RatingOutcome
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		if ok, err := userExists(ctx, tx, userID); err != nil {
			return err
		} else if !ok {
			return domain.ErrUserNotFound
		}
		if ok, err := itemExists(ctx, tx, kind, itemID); err != nil {
			return err
		} else if !ok {
			return fmt.Errorf("%s %d: %w", kind, itemID, domain.ErrItemNotFound)
		}

		if label == "" {
			tag, err := tx.Exec(ctx,
				fmt.Sprintf(`DELETE FROM %s WHERE user_id = $1 AND %s = $2`, kind.RatingTable(), kind.ItemColumn()),
				userID, itemID)
			if err != nil {
				return fmt.Errorf("delete rating: %w", err)
			}
			outcome = domain.RatingNothingToRemove
			if tag.RowsAffected() > 0 {
				outcome = domain.RatingRemoved
			}
			return nil
		}

		inserted, err := upsertRating(ctx, tx, kind, userID, itemID, label)
		if err != nil {
			return err
		}
		outcome = domain.RatingUpdated
		if inserted {
			outcome = domain.RatingCreated
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return outcome, nil
}

// upsertRating reports whether a new row was inserted.
func upsertRating(ctx context.Context, tx pgx.Tx, kind domain.Kind, userID, itemID int64, label string) (bool, error) {
	var inserted bool
	err := tx.QueryRow(ctx,
		fmt.Sprintf(`INSERT INTO %[1]s (user_id, %[2]s, rating, date_rated)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (user_id, %[2]s) DO UPDATE
			SET rating = EXCLUDED.rating, date_rated = EXCLUDED.date_rated
		RETURNING (xmax = 0)`, kind.RatingTable(), kind.ItemColumn()),
		userID, itemID, label,
	).Scan(&inserted)
	if err != nil {
		return false, fmt.Errorf("upsert %s rating: %w", kind, err)
	}
	return inserted, nil
}
