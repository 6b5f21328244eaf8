package order

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	insertOrderQuery = `
		INSERT INTO orders (user_id, order_items, shipping_address, payment_method,
			items_price, shipping_price, tax_price, total_price, is_paid, is_delivered, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,FALSE,FALSE,$9)
		RETURNING order_id
	`
	getOrderByIDQuery = `
		SELECT order_id, user_id, order_items, shipping_address, payment_method,
			items_price, shipping_price, tax_price, total_price,
			is_paid, paid_at, payment_result, is_delivered, delivered_at, created_at
		FROM orders
		WHERE order_id = $1
	`
	listOrdersByUserQuery = `
		SELECT order_id, user_id, order_items, shipping_address, payment_method,
			items_price, shipping_price, tax_price, total_price,
			is_paid, paid_at, payment_result, is_delivered, delivered_at, created_at
		FROM orders
		WHERE user_id = $1
		ORDER BY order_id DESC
	`
	listAllOrdersQuery = `
		SELECT order_id, user_id, order_items, shipping_address, payment_method,
			items_price, shipping_price, tax_price, total_price,
			is_paid, paid_at, payment_result, is_delivered, delivered_at, created_at
		FROM orders
		ORDER BY order_id DESC
	`
	// the WHERE NOT is_paid guard makes concurrent captures serialize: only
	// the first caller flips the row, everyone else affects zero rows.
	markPaidQuery = `
		UPDATE orders
		SET is_paid = TRUE, paid_at = $2, payment_result = $3
		WHERE order_id = $1 AND is_paid = FALSE
	`
	markDeliveredQuery = `
		UPDATE orders
		SET is_delivered = TRUE, delivered_at = $2
		WHERE order_id = $1 AND is_paid = TRUE
	`
	summaryQuery = `SELECT COUNT(*), COALESCE(SUM(total_price), 0) FROM orders`

	salesByDayQuery = `
		SELECT to_char(paid_at, 'YYYY-MM-DD') AS day, COUNT(*), SUM(total_price)
		FROM orders
		WHERE is_paid = TRUE
		GROUP BY day
		ORDER BY day
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(o Order) (Order, error) {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return Order{}, err
	}
	address, err := json.Marshal(o.ShippingAddress)
	if err != nil {
		return Order{}, err
	}

	o.CreatedAt = time.Now().UTC()
	err = r.db.QueryRow(insertOrderQuery,
		o.UserID, items, address, o.PaymentMethod,
		o.ItemsPrice, o.ShippingPrice, o.TaxPrice, o.TotalPrice, o.CreatedAt,
	).Scan(&o.ID)
	if err != nil {
		return Order{}, err
	}
	return o, nil
}

func (r *PostgresRepository) GetByID(id int) (Order, error) {
	o, err := scanOrder(r.db.QueryRow(getOrderByIDQuery, id))
	if err == sql.ErrNoRows {
		return Order{}, ErrNotFound
	}
	return o, err
}

func (r *PostgresRepository) ListByUser(userID int) ([]Order, error) {
	return r.list(listOrdersByUserQuery, userID)
}

func (r *PostgresRepository) ListAll() ([]Order, error) {
	return r.list(listAllOrdersQuery)
}

func (r *PostgresRepository) list(query string, args ...any) ([]Order, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) MarkPaid(id int, paidAt time.Time, receipt Receipt) (Order, bool, error) {
	encoded, err := json.Marshal(receipt)
	if err != nil {
		return Order{}, false, err
	}

	res, err := r.db.Exec(markPaidQuery, id, paidAt, encoded)
	if err != nil {
		return Order{}, false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return Order{}, false, err
	}

	o, err := r.GetByID(id)
	if err != nil {
		return Order{}, false, err
	}
	return o, n > 0, nil
}

func (r *PostgresRepository) MarkDelivered(id int, deliveredAt time.Time) (Order, error) {
	if _, err := r.db.Exec(markDeliveredQuery, id, deliveredAt); err != nil {
		return Order{}, err
	}
	// the service has already verified existence and paid state; re-read the
	// row so the caller gets the stored timestamps
	return r.GetByID(id)
}

func (r *PostgresRepository) Summary() (Summary, error) {
	var s Summary
	if err := r.db.QueryRow(summaryQuery).Scan(&s.TotalOrders, &s.TotalSales); err != nil {
		return Summary{}, err
	}

	rows, err := r.db.Query(salesByDayQuery)
	if err != nil {
		return Summary{}, err
	}
	defer rows.Close()

	s.SalesByDay = make([]DailySale, 0)
	for rows.Next() {
		var d DailySale
		if err := rows.Scan(&d.Date, &d.Orders, &d.Sales); err != nil {
			return Summary{}, err
		}
		s.SalesByDay = append(s.SalesByDay, d)
	}
	return s, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (Order, error) {
	var (
		o          Order
		rawItems   []byte
		rawAddress []byte
		rawReceipt []byte
		paidAt     sql.NullTime
		delivered  sql.NullTime
	)
	err := row.Scan(&o.ID, &o.UserID, &rawItems, &rawAddress, &o.PaymentMethod,
		&o.ItemsPrice, &o.ShippingPrice, &o.TaxPrice, &o.TotalPrice,
		&o.IsPaid, &paidAt, &rawReceipt, &o.IsDelivered, &delivered, &o.CreatedAt)
	if err != nil {
		return Order{}, err
	}

	if err := json.Unmarshal(rawItems, &o.Items); err != nil {
		return Order{}, fmt.Errorf("decoding items for order %d: %w", o.ID, err)
	}
	if err := json.Unmarshal(rawAddress, &o.ShippingAddress); err != nil {
		return Order{}, fmt.Errorf("decoding address for order %d: %w", o.ID, err)
	}
	if len(rawReceipt) > 0 {
		o.PaymentResult = new(Receipt)
		if err := json.Unmarshal(rawReceipt, o.PaymentResult); err != nil {
			return Order{}, fmt.Errorf("decoding payment result for order %d: %w", o.ID, err)
		}
	}
	if paidAt.Valid {
		t := paidAt.Time
		o.PaidAt = &t
	}
	if delivered.Valid {
		t := delivered.Time
		o.DeliveredAt = &t
	}
	return o, nil
}
