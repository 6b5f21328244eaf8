package order

import (
	"sort"
	"sync"
	"time"

	"github.com/kritsada65/storefront-backend/internal/apperr"
)

var ErrNotFound = apperr.NotFound("order not found")

type Repository interface {
	Create(o Order) (Order, error)
	GetByID(id int) (Order, error)
	ListByUser(userID int) ([]Order, error)
	ListAll() ([]Order, error)
	// MarkPaid sets the paid state only when the order is still unpaid. The
	// bool reports whether this call performed the transition; false with a
	// nil error means the order was already paid (the idempotent path).
	MarkPaid(id int, paidAt time.Time, receipt Receipt) (Order, bool, error)
	MarkDelivered(id int, deliveredAt time.Time) (Order, error)
	Summary() (Summary, error)
}

// InMemoryRepository backs tests and local runs without Postgres.
type InMemoryRepository struct {
	mu     sync.RWMutex
	orders []Order
	nextID int
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{nextID: 1}
}

func (r *InMemoryRepository) Create(o Order) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o.ID = r.nextID
	r.nextID++
	r.orders = append(r.orders, o)
	return o, nil
}

func (r *InMemoryRepository) GetByID(id int) (Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, o := range r.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return Order{}, ErrNotFound
}

func (r *InMemoryRepository) ListByUser(userID int) ([]Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Order, 0)
	for _, o := range r.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *InMemoryRepository) ListAll() ([]Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Order, len(r.orders))
	copy(out, r.orders)
	return out, nil
}

func (r *InMemoryRepository) MarkPaid(id int, paidAt time.Time, receipt Receipt) (Order, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.orders {
		if r.orders[i].ID != id {
			continue
		}
		if r.orders[i].IsPaid {
			return r.orders[i], false, nil
		}
		r.orders[i].IsPaid = true
		r.orders[i].PaidAt = &paidAt
		rec := receipt
		r.orders[i].PaymentResult = &rec
		return r.orders[i], true, nil
	}
	return Order{}, false, ErrNotFound
}

func (r *InMemoryRepository) MarkDelivered(id int, deliveredAt time.Time) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.orders {
		if r.orders[i].ID != id {
			continue
		}
		r.orders[i].IsDelivered = true
		r.orders[i].DeliveredAt = &deliveredAt
		return r.orders[i], nil
	}
	return Order{}, ErrNotFound
}

func (r *InMemoryRepository) Summary() (Summary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s := Summary{TotalOrders: len(r.orders), SalesByDay: []DailySale{}}
	byDay := make(map[string]*DailySale)
	for _, o := range r.orders {
		s.TotalSales += o.TotalPrice
		if !o.IsPaid || o.PaidAt == nil {
			continue
		}
		day := o.PaidAt.UTC().Format("2006-01-02")
		d, ok := byDay[day]
		if !ok {
			d = &DailySale{Date: day}
			byDay[day] = d
		}
		d.Orders++
		d.Sales += o.TotalPrice
	}

	for _, d := range byDay {
		s.SalesByDay = append(s.SalesByDay, *d)
	}
	sort.Slice(s.SalesByDay, func(i, j int) bool { return s.SalesByDay[i].Date < s.SalesByDay[j].Date })
	return s, nil
}
