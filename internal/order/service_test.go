package order

import (
	"context"
	"errors"
	"testing"

	"github.com/kritsada65/storefront-backend/internal/apperr"
	"github.com/kritsada65/storefront-backend/internal/payment"
	"github.com/kritsada65/storefront-backend/internal/product"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCatalog treats every product id below 1000 as existing.
type fakeCatalog struct{}

func (fakeCatalog) GetByID(id int) (product.Product, error) {
	if id >= 1000 {
		return product.Product{}, product.ErrNotFound
	}
	return product.Product{ID: id}, nil
}

type fakeVerifier struct {
	receipt payment.Receipt
	err     error
	calls   int
}

func (f *fakeVerifier) VerifyCapture(ctx context.Context, remoteOrderID string) (payment.Receipt, error) {
	f.calls++
	if f.err != nil {
		return payment.Receipt{}, f.err
	}
	return f.receipt, nil
}

func newTestService(verifier payment.Verifier) (*Service, *InMemoryRepository) {
	repo := NewInMemoryRepository()
	return NewService(repo, fakeCatalog{}, verifier), repo
}

func placeInput() PlaceInput {
	return PlaceInput{
		Items:           []Item{{ProductID: 1, Name: "dog bed", Price: 10.00, Qty: 2}},
		ShippingAddress: Address{Address: "1 Main St", City: "Bangkok", PostalCode: "10100", Country: "TH"},
		PaymentMethod:   "PayPal",
		ItemsPrice:      20.00,
		ShippingPrice:   5.99,
		TaxPrice:        0,
		TotalPrice:      25.99,
	}
}

func TestPlaceComputesTotalsToTheCent(t *testing.T) {
	svc, _ := newTestService(nil)

	o, err := svc.Place(7, placeInput())
	require.NoError(t, err)

	assert.Equal(t, 20.00, o.ItemsPrice)
	assert.Equal(t, 25.99, o.TotalPrice)
	assert.Equal(t, o.ItemsPrice+o.ShippingPrice+o.TaxPrice, o.TotalPrice)
	assert.False(t, o.IsPaid)
	assert.False(t, o.IsDelivered)
	assert.Equal(t, 7, o.UserID)
	assert.NotZero(t, o.ID)
}

func TestPlaceRejectsEmptyOrder(t *testing.T) {
	svc, repo := newTestService(nil)

	in := placeInput()
	in.Items = nil
	_, err := svc.Place(7, in)

	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	orders, _ := repo.ListAll()
	assert.Empty(t, orders, "no order may be persisted on validation failure")
}

func TestPlaceReportsAllViolationsAtOnce(t *testing.T) {
	svc, _ := newTestService(nil)

	in := placeInput()
	in.ShippingPrice = -1
	in.TotalPrice = 99.99
	_, err := svc.Place(7, in)

	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	var appErr *apperr.Error
	require.True(t, errors.As(err, &appErr))
	assert.Contains(t, appErr.Fields, "shippingPrice")
	assert.Contains(t, appErr.Fields, "totalPrice")
}

func TestPlaceRejectsMismatchedItemsPrice(t *testing.T) {
	svc, _ := newTestService(nil)

	in := placeInput()
	in.ItemsPrice = 19.00
	in.TotalPrice = 24.99
	_, err := svc.Place(7, in)

	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestPlaceRejectsUnknownProduct(t *testing.T) {
	svc, _ := newTestService(nil)

	in := placeInput()
	in.Items[0].ProductID = 1000
	_, err := svc.Place(7, in)

	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestPlaceKeepsDuplicateLinesAsSubmitted(t *testing.T) {
	svc, _ := newTestService(nil)

	in := placeInput()
	in.Items = append(in.Items, in.Items[0])
	in.ItemsPrice = 40.00
	in.TotalPrice = 45.99
	o, err := svc.Place(7, in)

	require.NoError(t, err)
	assert.Len(t, o.Items, 2, "the order manager trusts the cart and does not de-duplicate")
}

func TestCapturePaymentTransitionsToPaid(t *testing.T) {
	svc, _ := newTestService(nil)
	o, err := svc.Place(7, placeInput())
	require.NoError(t, err)

	paid, err := svc.CapturePayment(context.Background(), o.ID, Actor{UserID: 7}, Receipt{ID: "R-1", Status: "COMPLETED"})
	require.NoError(t, err)

	assert.True(t, paid.IsPaid)
	require.NotNil(t, paid.PaidAt)
	require.NotNil(t, paid.PaymentResult)
	assert.Equal(t, "R-1", paid.PaymentResult.ID)
	assert.False(t, paid.IsDelivered)
}

func TestCapturePaymentIsIdempotent(t *testing.T) {
	svc, _ := newTestService(nil)
	o, err := svc.Place(7, placeInput())
	require.NoError(t, err)

	first, err := svc.CapturePayment(context.Background(), o.ID, Actor{UserID: 7}, Receipt{ID: "R-1", Status: "COMPLETED"})
	require.NoError(t, err)

	// second capture with a different receipt must be a no-op success
	second, err := svc.CapturePayment(context.Background(), o.ID, Actor{UserID: 7}, Receipt{ID: "R-2", Status: "COMPLETED"})
	require.NoError(t, err)

	assert.Equal(t, first.PaymentResult.ID, second.PaymentResult.ID, "stored receipt must not change")
	assert.Equal(t, first.PaidAt, second.PaidAt, "paid timestamp must not change")
}

func TestCapturePaymentVerifierFailureLeavesOrderUnpaid(t *testing.T) {
	verifier := &fakeVerifier{err: payment.ErrUnavailable}
	svc, repo := newTestService(verifier)
	o, err := svc.Place(7, placeInput())
	require.NoError(t, err)

	_, err = svc.CapturePayment(context.Background(), o.ID, Actor{UserID: 7}, Receipt{ID: "R-1"})
	assert.Equal(t, apperr.KindExternalDependency, apperr.KindOf(err))

	stored, err := repo.GetByID(o.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsPaid, "provider failure must not mutate the order")
	assert.Nil(t, stored.PaymentResult)
}

func TestCapturePaymentUsesVerifiedReceipt(t *testing.T) {
	verifier := &fakeVerifier{receipt: payment.Receipt{ID: "R-1", Status: "COMPLETED", EmailAddress: "payer@example.com"}}
	svc, _ := newTestService(verifier)
	o, err := svc.Place(7, placeInput())
	require.NoError(t, err)

	paid, err := svc.CapturePayment(context.Background(), o.ID, Actor{UserID: 7}, Receipt{ID: "R-1"})
	require.NoError(t, err)

	assert.Equal(t, 1, verifier.calls)
	assert.Equal(t, "COMPLETED", paid.PaymentResult.Status)
	assert.Equal(t, "payer@example.com", paid.PaymentResult.EmailAddress)
}

func TestCapturePaymentRejectsNonOwner(t *testing.T) {
	svc, _ := newTestService(nil)
	o, err := svc.Place(7, placeInput())
	require.NoError(t, err)

	_, err = svc.CapturePayment(context.Background(), o.ID, Actor{UserID: 8}, Receipt{ID: "R-1"})
	assert.Equal(t, apperr.KindAuthorization, apperr.KindOf(err))
}

func TestCapturePaymentUnknownOrder(t *testing.T) {
	svc, _ := newTestService(nil)

	_, err := svc.CapturePayment(context.Background(), 999, Actor{UserID: 7}, Receipt{ID: "R-1"})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestMarkDeliveredRequiresPayment(t *testing.T) {
	svc, _ := newTestService(nil)
	o, err := svc.Place(7, placeInput())
	require.NoError(t, err)

	_, err = svc.MarkDelivered(o.ID, Actor{UserID: 1, IsAdmin: true})
	assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))
}

func TestMarkDeliveredRequiresAdmin(t *testing.T) {
	svc, _ := newTestService(nil)
	o, err := svc.Place(7, placeInput())
	require.NoError(t, err)

	_, err = svc.MarkDelivered(o.ID, Actor{UserID: 7})
	assert.Equal(t, apperr.KindAuthorization, apperr.KindOf(err))
}

func TestFullLifecycle(t *testing.T) {
	svc, _ := newTestService(nil)
	o, err := svc.Place(7, placeInput())
	require.NoError(t, err)

	// deliver before pay: invalid state
	_, err = svc.MarkDelivered(o.ID, Actor{IsAdmin: true})
	require.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))

	// pay
	paid, err := svc.CapturePayment(context.Background(), o.ID, Actor{UserID: 7}, Receipt{ID: "R-1", Status: "COMPLETED"})
	require.NoError(t, err)
	require.True(t, paid.IsPaid)

	// deliver
	delivered, err := svc.MarkDelivered(o.ID, Actor{IsAdmin: true})
	require.NoError(t, err)
	assert.True(t, delivered.IsDelivered)
	require.NotNil(t, delivered.DeliveredAt)
}

func TestGetEnforcesOwnership(t *testing.T) {
	svc, _ := newTestService(nil)
	o, err := svc.Place(7, placeInput())
	require.NoError(t, err)

	_, err = svc.Get(o.ID, Actor{UserID: 8})
	assert.Equal(t, apperr.KindAuthorization, apperr.KindOf(err))

	got, err := svc.Get(o.ID, Actor{UserID: 7})
	require.NoError(t, err)
	assert.Equal(t, o.ID, got.ID)

	got, err = svc.Get(o.ID, Actor{UserID: 8, IsAdmin: true})
	require.NoError(t, err)
	assert.Equal(t, o.ID, got.ID)
}

func TestListAllRequiresAdmin(t *testing.T) {
	svc, _ := newTestService(nil)

	_, err := svc.ListAll(Actor{UserID: 7})
	assert.Equal(t, apperr.KindAuthorization, apperr.KindOf(err))
}

func TestSummaryAggregates(t *testing.T) {
	svc, _ := newTestService(nil)

	first, err := svc.Place(7, placeInput())
	require.NoError(t, err)
	_, err = svc.Place(8, placeInput())
	require.NoError(t, err)

	_, err = svc.CapturePayment(context.Background(), first.ID, Actor{UserID: 7}, Receipt{ID: "R-1", Status: "COMPLETED"})
	require.NoError(t, err)

	summary, err := svc.Summary(Actor{IsAdmin: true})
	require.NoError(t, err)

	assert.Equal(t, 2, summary.TotalOrders)
	assert.InDelta(t, 51.98, summary.TotalSales, 0.001)
	require.Len(t, summary.SalesByDay, 1, "only the paid order contributes to daily sales")
	assert.Equal(t, 1, summary.SalesByDay[0].Orders)
	assert.InDelta(t, 25.99, summary.SalesByDay[0].Sales, 0.001)
}
