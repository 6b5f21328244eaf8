package order

import (
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMockRepo(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	return NewPostgresRepository(db), mock, func() { db.Close() }
}

func orderRow(o Order) *sqlmock.Rows {
	items, _ := json.Marshal(o.Items)
	address, _ := json.Marshal(o.ShippingAddress)
	var receipt any
	if o.PaymentResult != nil {
		receipt, _ = json.Marshal(o.PaymentResult)
	}
	var paidAt, deliveredAt any
	if o.PaidAt != nil {
		paidAt = *o.PaidAt
	}
	if o.DeliveredAt != nil {
		deliveredAt = *o.DeliveredAt
	}
	return sqlmock.NewRows([]string{
		"order_id", "user_id", "order_items", "shipping_address", "payment_method",
		"items_price", "shipping_price", "tax_price", "total_price",
		"is_paid", "paid_at", "payment_result", "is_delivered", "delivered_at", "created_at",
	}).AddRow(o.ID, o.UserID, items, address, o.PaymentMethod,
		o.ItemsPrice, o.ShippingPrice, o.TaxPrice, o.TotalPrice,
		o.IsPaid, paidAt, receipt, o.IsDelivered, deliveredAt, o.CreatedAt)
}

func TestPostgresMarkPaidFlipsUnpaidRow(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	paidAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	receipt := Receipt{ID: "R-1", Status: "COMPLETED"}

	mock.ExpectExec(regexp.QuoteMeta("UPDATE orders")).
		WithArgs(1, paidAt, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT order_id")).
		WithArgs(1).
		WillReturnRows(orderRow(Order{
			ID: 1, UserID: 7, Items: []Item{{ProductID: 1, Qty: 1}},
			TotalPrice: 25.99, IsPaid: true, PaidAt: &paidAt, PaymentResult: &receipt,
			CreatedAt: time.Now(),
		}))

	o, transitioned, err := repo.MarkPaid(1, paidAt, receipt)
	if err != nil {
		t.Fatal(err)
	}
	if !transitioned {
		t.Error("expected the unpaid row to transition")
	}
	if !o.IsPaid || o.PaymentResult == nil || o.PaymentResult.ID != "R-1" {
		t.Errorf("unexpected order state: %+v", o)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestPostgresMarkPaidAlreadyPaidAffectsNoRows(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	original := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	stored := Receipt{ID: "R-1", Status: "COMPLETED"}

	mock.ExpectExec(regexp.QuoteMeta("UPDATE orders")).
		WithArgs(1, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT order_id")).
		WithArgs(1).
		WillReturnRows(orderRow(Order{
			ID: 1, UserID: 7, Items: []Item{{ProductID: 1, Qty: 1}},
			IsPaid: true, PaidAt: &original, PaymentResult: &stored,
			CreatedAt: time.Now(),
		}))

	o, transitioned, err := repo.MarkPaid(1, time.Now().UTC(), Receipt{ID: "R-2"})
	if err != nil {
		t.Fatal(err)
	}
	if transitioned {
		t.Error("an already-paid row must not report a transition")
	}
	if o.PaymentResult.ID != "R-1" {
		t.Errorf("stored receipt must survive the retry, got %q", o.PaymentResult.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestPostgresSummaryGroupsPaidOrdersByDay(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*), COALESCE(SUM(total_price), 0) FROM orders")).
		WillReturnRows(sqlmock.NewRows([]string{"count", "sum"}).AddRow(3, 77.97))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT to_char(paid_at, 'YYYY-MM-DD')")).
		WillReturnRows(sqlmock.NewRows([]string{"day", "count", "sum"}).
			AddRow("2024-05-01", 2, 51.98).
			AddRow("2024-05-02", 1, 25.99))

	s, err := repo.Summary()
	if err != nil {
		t.Fatal(err)
	}
	if s.TotalOrders != 3 || s.TotalSales != 77.97 {
		t.Errorf("unexpected totals: %+v", s)
	}
	if len(s.SalesByDay) != 2 || s.SalesByDay[0].Date != "2024-05-01" {
		t.Errorf("unexpected daily breakdown: %+v", s.SalesByDay)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
