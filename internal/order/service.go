package order

import (
	"context"
	"math"
	"time"

	"github.com/kritsada65/storefront-backend/internal/apperr"
	"github.com/kritsada65/storefront-backend/internal/payment"
	"github.com/kritsada65/storefront-backend/internal/product"
)

var (
	ErrEmptyOrder     = apperr.Validation("order must contain at least one item", "orderItems")
	ErrNotOwner       = apperr.Authorization("order belongs to another user")
	ErrUnpaidDelivery = apperr.InvalidState("cannot mark an unpaid order delivered")
	ErrAdminOnly      = apperr.Authorization("admin access required")
)

// Catalog is the read-only product lookup used to validate that every line
// item references an existing product at placement time.
type Catalog interface {
	GetByID(id int) (product.Product, error)
}

// Service owns the order state machine. The optional verifier cross-checks
// submitted payment receipts against the payment provider; when nil the
// receipt is trusted as-is.
type Service struct {
	repo     Repository
	catalog  Catalog
	verifier payment.Verifier
}

func NewService(repo Repository, catalog Catalog, verifier payment.Verifier) *Service {
	return &Service{repo: repo, catalog: catalog, verifier: verifier}
}

// PlaceInput is the explicit checkout schema. Every price is validated up
// front and all violations are reported in a single error.
type PlaceInput struct {
	Items           []Item
	ShippingAddress Address
	PaymentMethod   string
	ItemsPrice      float64
	ShippingPrice   float64
	TaxPrice        float64
	TotalPrice      float64
}

// Place persists a new unpaid order for userID with each line item captured
// as a frozen snapshot. Stock is not decremented here.
func (s *Service) Place(userID int, in PlaceInput) (Order, error) {
	if len(in.Items) == 0 {
		return Order{}, ErrEmptyOrder
	}

	fields := make([]string, 0, 4)
	items := 0.0
	for _, it := range in.Items {
		if it.Qty < 1 || it.Price < 0 {
			fields = append(fields, "orderItems")
			break
		}
		items += float64(it.Qty) * it.Price
	}
	if in.ShippingPrice < 0 {
		fields = append(fields, "shippingPrice")
	}
	if in.TaxPrice < 0 {
		fields = append(fields, "taxPrice")
	}
	if roundCents(items) != roundCents(in.ItemsPrice) {
		fields = append(fields, "itemsPrice")
	}
	if roundCents(in.ItemsPrice+in.ShippingPrice+in.TaxPrice) != roundCents(in.TotalPrice) {
		fields = append(fields, "totalPrice")
	}
	if len(fields) > 0 {
		return Order{}, apperr.Validation("invalid order", fields...)
	}

	for _, it := range in.Items {
		if _, err := s.catalog.GetByID(it.ProductID); err != nil {
			return Order{}, err
		}
	}

	return s.repo.Create(Order{
		UserID:          userID,
		Items:           in.Items,
		ShippingAddress: in.ShippingAddress,
		PaymentMethod:   in.PaymentMethod,
		ItemsPrice:      roundCents(in.ItemsPrice),
		ShippingPrice:   roundCents(in.ShippingPrice),
		TaxPrice:        roundCents(in.TaxPrice),
		TotalPrice:      roundCents(in.TotalPrice),
	})
}

// CapturePayment transitions an order to paid. Re-capturing an already-paid
// order is a no-op success returning the stored order, so retries after a
// lost response are safe and can never double-apply a receipt.
func (s *Service) CapturePayment(ctx context.Context, orderID int, actor Actor, receipt Receipt) (Order, error) {
	o, err := s.repo.GetByID(orderID)
	if err != nil {
		return Order{}, err
	}
	if o.UserID != actor.UserID && !actor.IsAdmin {
		return Order{}, ErrNotOwner
	}
	if o.IsPaid {
		return o, nil
	}

	if s.verifier != nil {
		verified, err := s.verifier.VerifyCapture(ctx, receipt.ID)
		if err != nil {
			// the order must stay untouched on provider failure
			return Order{}, err
		}
		receipt.Status = verified.Status
		if verified.EmailAddress != "" {
			receipt.EmailAddress = verified.EmailAddress
		}
		if verified.UpdateTime != "" {
			receipt.UpdateTime = verified.UpdateTime
		}
	}

	updated, _, err := s.repo.MarkPaid(orderID, time.Now().UTC(), receipt)
	return updated, err
}

// MarkDelivered is the admin-only final transition; it requires the order to
// be paid already.
func (s *Service) MarkDelivered(orderID int, actor Actor) (Order, error) {
	if !actor.IsAdmin {
		return Order{}, ErrAdminOnly
	}

	o, err := s.repo.GetByID(orderID)
	if err != nil {
		return Order{}, err
	}
	if !o.IsPaid {
		return Order{}, ErrUnpaidDelivery
	}
	return s.repo.MarkDelivered(orderID, time.Now().UTC())
}

// Get enforces that non-admins can only read their own orders.
func (s *Service) Get(orderID int, actor Actor) (Order, error) {
	o, err := s.repo.GetByID(orderID)
	if err != nil {
		return Order{}, err
	}
	if o.UserID != actor.UserID && !actor.IsAdmin {
		return Order{}, ErrNotOwner
	}
	return o, nil
}

func (s *Service) ListForUser(userID int) ([]Order, error) {
	return s.repo.ListByUser(userID)
}

func (s *Service) ListAll(actor Actor) ([]Order, error) {
	if !actor.IsAdmin {
		return nil, ErrAdminOnly
	}
	return s.repo.ListAll()
}

func (s *Service) Summary(actor Actor) (Summary, error) {
	if !actor.IsAdmin {
		return Summary{}, ErrAdminOnly
	}
	return s.repo.Summary()
}

// Actor is the verified caller identity supplied by the auth middleware.
type Actor struct {
	UserID  int
	IsAdmin bool
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
