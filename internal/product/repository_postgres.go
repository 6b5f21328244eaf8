package product

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	listProductsQuery = `
		SELECT product_id, product_name, brand, category_id, description, image, price, count_in_stock, rating, num_reviews, reviews, created_at, updated_at
		FROM product
		WHERE ($1 = '' OR product_name ILIKE '%' || $1 || '%')
			AND (cardinality($2::int[]) = 0 OR category_id = ANY($2::int[]))
			AND ($3::numeric IS NULL OR price >= $3)
			AND ($4::numeric IS NULL OR price <= $4)
		ORDER BY product_id
		LIMIT $5 OFFSET $6
	`
	countProductsQuery = `
		SELECT COUNT(*) FROM product
		WHERE ($1 = '' OR product_name ILIKE '%' || $1 || '%')
			AND (cardinality($2::int[]) = 0 OR category_id = ANY($2::int[]))
			AND ($3::numeric IS NULL OR price >= $3)
			AND ($4::numeric IS NULL OR price <= $4)
	`
	listProductsByIDsQuery = `
		SELECT product_id, product_name, brand, category_id, description, image, price, count_in_stock, rating, num_reviews, reviews, created_at, updated_at
		FROM product
		WHERE product_id = ANY($1::int[])
		ORDER BY array_position($1::int[], product_id)
	`
	newestProductsQuery = `
		SELECT product_id, product_name, brand, category_id, description, image, price, count_in_stock, rating, num_reviews, reviews, created_at, updated_at
		FROM product
		ORDER BY product_id DESC
		LIMIT $1
	`
	topRatedQuery = `
		SELECT product_id, product_name, brand, category_id, description, image, price, count_in_stock, rating, num_reviews, reviews, created_at, updated_at
		FROM product
		ORDER BY rating DESC, product_id
		LIMIT $1
	`
	getProductByIDQuery = `
		SELECT product_id, product_name, brand, category_id, description, image, price, count_in_stock, rating, num_reviews, reviews, created_at, updated_at
		FROM product
		WHERE product_id = $1
	`
	lockProductReviewsQuery = `
		SELECT reviews FROM product WHERE product_id = $1 FOR UPDATE
	`
	insertProductQuery = `
		INSERT INTO product (product_name, brand, category_id, description, image, price, count_in_stock, rating, num_reviews, reviews, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,0,0,'[]',$8,$9)
		RETURNING product_id
	`
	updateProductQuery = `
		UPDATE product
		SET product_name = $1,
			brand = $2,
			category_id = $3,
			description = $4,
			image = $5,
			price = $6,
			count_in_stock = $7,
			updated_at = $8
		WHERE product_id = $9
	`
	updateReviewsQuery = `
		UPDATE product
		SET reviews = $1, rating = $2, num_reviews = $3, updated_at = $4
		WHERE product_id = $5
	`
	deleteProductQuery = `DELETE FROM product WHERE product_id = $1`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(f Filter, limit, offset int) ([]Product, int, error) {
	// a nil slice would encode as SQL NULL and break the cardinality guard
	ids := f.CategoryIDs
	if ids == nil {
		ids = []int{}
	}
	categories := pq.Array(ids)

	var total int
	if err := r.db.QueryRow(countProductsQuery, f.Keyword, categories, f.PriceMin, f.PriceMax).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(listProductsQuery, f.Keyword, categories, f.PriceMin, f.PriceMax, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

func (r *PostgresRepository) Newest(limit int) ([]Product, error) {
	rows, err := r.db.Query(newestProductsQuery, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Product, 0, limit)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) ListByIDs(ids []int) ([]Product, error) {
	if len(ids) == 0 {
		return []Product{}, nil
	}

	rows, err := r.db.Query(listProductsByIDsQuery, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Product, 0, len(ids))
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) TopRated(limit int) ([]Product, error) {
	rows, err := r.db.Query(topRatedQuery, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Product, 0, limit)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetByID(id int) (Product, error) {
	p, err := scanProduct(r.db.QueryRow(getProductByIDQuery, id))
	if err == sql.ErrNoRows {
		return Product{}, ErrNotFound
	}
	return p, err
}

func (r *PostgresRepository) Create(p Product) (Product, error) {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	err := r.db.QueryRow(insertProductQuery,
		p.Name, p.Brand, p.CategoryID, p.Description, p.Image, p.Price, p.CountInStock, p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID)
	if err != nil {
		return Product{}, err
	}
	p.Rating = 0
	p.NumReviews = 0
	p.Reviews = nil
	return p, nil
}

func (r *PostgresRepository) Update(id int, p Product) (Product, error) {
	res, err := r.db.Exec(updateProductQuery,
		p.Name, p.Brand, p.CategoryID, p.Description, p.Image, p.Price, p.CountInStock, time.Now().UTC(), id,
	)
	if err != nil {
		return Product{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return Product{}, ErrNotFound
	}
	return r.GetByID(id)
}

func (r *PostgresRepository) Delete(id int) error {
	res, err := r.db.Exec(deleteProductQuery, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// AddReview serializes concurrent submissions against the same product with a
// row lock, so two reviewers appending at once cannot lose each other's
// update. The duplicate-reviewer check runs under the same lock.
func (r *PostgresRepository) AddReview(productID int, rev Review) (Product, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return Product{}, err
	}
	defer tx.Rollback()

	var rawReviews []byte
	if err := tx.QueryRow(lockProductReviewsQuery, productID).Scan(&rawReviews); err != nil {
		if err == sql.ErrNoRows {
			return Product{}, ErrNotFound
		}
		return Product{}, err
	}

	reviews := make([]Review, 0)
	if len(rawReviews) > 0 {
		if err := json.Unmarshal(rawReviews, &reviews); err != nil {
			return Product{}, fmt.Errorf("decoding reviews for product %d: %w", productID, err)
		}
	}

	for _, existing := range reviews {
		if existing.UserID == rev.UserID {
			return Product{}, ErrAlreadyReviewed
		}
	}

	reviews = append(reviews, rev)
	p := Product{Reviews: reviews}
	recomputeAggregates(&p)

	encoded, err := json.Marshal(reviews)
	if err != nil {
		return Product{}, err
	}
	if _, err := tx.Exec(updateReviewsQuery, encoded, p.Rating, p.NumReviews, time.Now().UTC(), productID); err != nil {
		return Product{}, err
	}
	if err := tx.Commit(); err != nil {
		return Product{}, err
	}

	return r.GetByID(productID)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (Product, error) {
	var (
		p          Product
		categoryID sql.NullInt64
		rawReviews []byte
	)
	err := row.Scan(&p.ID, &p.Name, &p.Brand, &categoryID, &p.Description, &p.Image,
		&p.Price, &p.CountInStock, &p.Rating, &p.NumReviews, &rawReviews, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return Product{}, err
	}
	if categoryID.Valid {
		v := int(categoryID.Int64)
		p.CategoryID = &v
	}
	if len(rawReviews) > 0 {
		if err := json.Unmarshal(rawReviews, &p.Reviews); err != nil {
			return Product{}, fmt.Errorf("decoding reviews for product %d: %w", p.ID, err)
		}
	}
	return p, nil
}
