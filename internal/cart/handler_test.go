package cart

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func setupApp() *fiber.App {
	app := fiber.New()
	h := NewHandler(Policy{ShippingFlat: 5.99, FreeShippingMin: 100, TaxRate: 0})
	h.RegisterPublicRoutes(app)
	return app
}

func TestQuote(t *testing.T) {
	app := setupApp()

	body, _ := json.Marshal(quoteRequest{Items: []Item{{ProductID: 1, Price: 10.00, Qty: 2}}})
	req := httptest.NewRequest("POST", "/api/v1/cart/quote", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	res, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 got %d", res.StatusCode)
	}

	var totals Totals
	if err := json.NewDecoder(res.Body).Decode(&totals); err != nil {
		t.Fatal(err)
	}
	if totals.ItemsPrice != 20.00 {
		t.Errorf("expected itemsPrice 20.00, got %v", totals.ItemsPrice)
	}
	if totals.TotalPrice != 25.99 {
		t.Errorf("expected totalPrice 25.99, got %v", totals.TotalPrice)
	}
}

func TestQuoteRejectsZeroQuantity(t *testing.T) {
	app := setupApp()

	body, _ := json.Marshal(quoteRequest{Items: []Item{{ProductID: 1, Price: 10, Qty: 0}}})
	req := httptest.NewRequest("POST", "/api/v1/cart/quote", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	res, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400 got %d", res.StatusCode)
	}
}
