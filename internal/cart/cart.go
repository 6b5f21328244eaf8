// Package cart is the pure checkout-cart model. The cart itself lives on the
// client; the server only prices a submitted cart, so everything here is a
// value transformation with no I/O.
package cart

import "math"

// Item is a product snapshot plus the requested quantity. Snapshots are
// captured at add time so the cart keeps displaying what the shopper saw.
type Item struct {
	ProductID    int     `json:"productId"`
	Name         string  `json:"name"`
	Image        string  `json:"image"`
	Brand        string  `json:"brand"`
	Price        float64 `json:"price"`
	CountInStock int     `json:"countInStock"`
	Qty          int     `json:"qty"`
}

// Cart is a list of items, unique by product id.
type Cart struct {
	Items []Item `json:"items"`
}

// AddOrUpdate returns a cart where it replaces any existing line with the
// same product id, or is appended when no such line exists. The receiver is
// never mutated.
func AddOrUpdate(c Cart, it Item) Cart {
	out := Cart{Items: make([]Item, 0, len(c.Items)+1)}
	replaced := false
	for _, existing := range c.Items {
		if existing.ProductID == it.ProductID {
			out.Items = append(out.Items, it)
			replaced = true
			continue
		}
		out.Items = append(out.Items, existing)
	}
	if !replaced {
		out.Items = append(out.Items, it)
	}
	return out
}

// Remove returns a cart without the line for productID. Removing an absent
// product is a no-op, not an error.
func Remove(c Cart, productID int) Cart {
	out := Cart{Items: make([]Item, 0, len(c.Items))}
	for _, it := range c.Items {
		if it.ProductID != productID {
			out.Items = append(out.Items, it)
		}
	}
	return out
}

// Clear returns an empty cart. Call it only after order placement succeeds.
func Clear(Cart) Cart {
	return Cart{Items: []Item{}}
}

// ItemsPrice is the sum of line extensions, rounded to cents.
func ItemsPrice(c Cart) float64 {
	total := 0.0
	for _, it := range c.Items {
		total += float64(it.Qty) * it.Price
	}
	return roundCents(total)
}

// Totals is the full price breakdown for a cart. Shipping and tax are policy
// inputs decided by the caller, not computed here.
type Totals struct {
	ItemsPrice    float64 `json:"itemsPrice"`
	ShippingPrice float64 `json:"shippingPrice"`
	TaxPrice      float64 `json:"taxPrice"`
	TotalPrice    float64 `json:"totalPrice"`
}

// ComputeTotals combines the cart's items price with caller-supplied
// shipping and tax.
func ComputeTotals(c Cart, shippingPrice, taxPrice float64) Totals {
	items := ItemsPrice(c)
	shipping := roundCents(shippingPrice)
	tax := roundCents(taxPrice)
	return Totals{
		ItemsPrice:    items,
		ShippingPrice: shipping,
		TaxPrice:      tax,
		TotalPrice:    roundCents(items + shipping + tax),
	}
}

// Policy is the storefront's checkout pricing policy: flat shipping, waived
// above the free-shipping threshold, and tax as a fraction of items price.
type Policy struct {
	ShippingFlat    float64
	FreeShippingMin float64
	TaxRate         float64
}

// Quote applies the policy to a cart.
func (p Policy) Quote(c Cart) Totals {
	items := ItemsPrice(c)
	shipping := p.ShippingFlat
	if items >= p.FreeShippingMin {
		shipping = 0
	}
	return ComputeTotals(c, shipping, items*p.TaxRate)
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
