package favorite

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	listFavoritesQuery = `
		SELECT COALESCE(favorite_product_ids, ARRAY[]::integer[])
		FROM users
		WHERE user_id = $1
	`
	addFavoriteQuery = `
		UPDATE users
		SET favorite_product_ids = array_append(COALESCE(favorite_product_ids, ARRAY[]::integer[]), $2),
			updated_at = $3
		WHERE user_id = $1
			AND NOT ($2 = ANY(COALESCE(favorite_product_ids, ARRAY[]::integer[])))
		RETURNING favorite_product_ids
	`
	removeFavoriteQuery = `
		UPDATE users
		SET favorite_product_ids = array_remove(COALESCE(favorite_product_ids, ARRAY[]::integer[]), $2),
			updated_at = $3
		WHERE user_id = $1
			AND ($2 = ANY(COALESCE(favorite_product_ids, ARRAY[]::integer[])))
		RETURNING favorite_product_ids
	`
	userExistsQuery = `SELECT 1 FROM users WHERE user_id = $1`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(userID int) ([]int, error) {
	var arr pq.Int64Array
	if err := r.db.QueryRow(listFavoritesQuery, userID).Scan(&arr); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toInts(arr), nil
}

// Add appends the product id only when absent; the conditional UPDATE makes
// the duplicate check and the append one atomic statement.
func (r *PostgresRepository) Add(userID, productID int) ([]int, error) {
	var arr pq.Int64Array
	err := r.db.QueryRow(addFavoriteQuery, userID, productID, time.Now().UTC()).Scan(&arr)
	if err == sql.ErrNoRows {
		return nil, r.noRowsReason(userID, ErrAlreadyFavorite)
	}
	if err != nil {
		return nil, err
	}
	return toInts(arr), nil
}

func (r *PostgresRepository) Remove(userID, productID int) ([]int, error) {
	var arr pq.Int64Array
	err := r.db.QueryRow(removeFavoriteQuery, userID, productID, time.Now().UTC()).Scan(&arr)
	if err == sql.ErrNoRows {
		return nil, r.noRowsReason(userID, ErrNotFavorite)
	}
	if err != nil {
		return nil, err
	}
	return toInts(arr), nil
}

// noRowsReason distinguishes "user missing" from "condition not met" after a
// conditional update matched nothing.
func (r *PostgresRepository) noRowsReason(userID int, conditionErr error) error {
	var one int
	if err := r.db.QueryRow(userExistsQuery, userID).Scan(&one); err == sql.ErrNoRows {
		return ErrNotFound
	}
	return conditionErr
}

func toInts(arr pq.Int64Array) []int {
	out := make([]int, 0, len(arr))
	for _, v := range arr {
		out = append(out, int(v))
	}
	return out
}
