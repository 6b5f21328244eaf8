package category

import (
	"database/sql"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	listCategoriesQuery = `SELECT category_id, category_name FROM category ORDER BY category_name`
	getCategoryQuery    = `SELECT category_id, category_name FROM category WHERE category_id = $1`
	getByNameQuery      = `SELECT category_id, category_name FROM category WHERE LOWER(category_name) = LOWER($1)`
	insertCategoryQuery = `INSERT INTO category (category_name) VALUES ($1) RETURNING category_id`
	updateCategoryQuery = `UPDATE category SET category_name = $1 WHERE category_id = $2`
	deleteCategoryQuery = `DELETE FROM category WHERE category_id = $1`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List() ([]Category, error) {
	rows, err := r.db.Query(listCategoriesQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Category, 0)
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetByID(id int) (Category, error) {
	var c Category
	err := r.db.QueryRow(getCategoryQuery, id).Scan(&c.ID, &c.Name)
	if err == sql.ErrNoRows {
		return Category{}, ErrNotFound
	}
	return c, err
}

func (r *PostgresRepository) GetByName(name string) (Category, error) {
	var c Category
	err := r.db.QueryRow(getByNameQuery, name).Scan(&c.ID, &c.Name)
	if err == sql.ErrNoRows {
		return Category{}, ErrNotFound
	}
	return c, err
}

func (r *PostgresRepository) Create(c Category) (Category, error) {
	if err := r.db.QueryRow(insertCategoryQuery, c.Name).Scan(&c.ID); err != nil {
		return Category{}, err
	}
	return c, nil
}

func (r *PostgresRepository) Update(id int, c Category) (Category, error) {
	res, err := r.db.Exec(updateCategoryQuery, c.Name, id)
	if err != nil {
		return Category{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return Category{}, ErrNotFound
	}
	c.ID = id
	return c, nil
}

func (r *PostgresRepository) Delete(id int) error {
	res, err := r.db.Exec(deleteCategoryQuery, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
