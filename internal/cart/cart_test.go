package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddOrUpdateReplacesExistingLine(t *testing.T) {
	c := Cart{}
	c = AddOrUpdate(c, Item{ProductID: 1, Name: "collar", Price: 10, Qty: 1})
	c = AddOrUpdate(c, Item{ProductID: 1, Name: "collar", Price: 10, Qty: 3})

	assert.Len(t, c.Items, 1, "re-adding the same product must not duplicate the line")
	assert.Equal(t, 3, c.Items[0].Qty, "quantity must be replaced, not merged")
}

func TestAddOrUpdateKeepsOtherLines(t *testing.T) {
	c := Cart{}
	c = AddOrUpdate(c, Item{ProductID: 1, Price: 10, Qty: 2})
	c = AddOrUpdate(c, Item{ProductID: 2, Price: 5, Qty: 1})
	c = AddOrUpdate(c, Item{ProductID: 1, Price: 10, Qty: 4})

	assert.Len(t, c.Items, 2)
	for _, it := range c.Items {
		if it.ProductID == 1 {
			assert.Equal(t, 4, it.Qty)
		}
	}
}

func TestAddOrUpdateDoesNotMutateInput(t *testing.T) {
	original := AddOrUpdate(Cart{}, Item{ProductID: 1, Qty: 1})
	_ = AddOrUpdate(original, Item{ProductID: 1, Qty: 9})

	assert.Equal(t, 1, original.Items[0].Qty, "caller's cart must be left untouched")
}

func TestRemoveIsNoOpWhenAbsent(t *testing.T) {
	c := AddOrUpdate(Cart{}, Item{ProductID: 1, Qty: 1})
	out := Remove(c, 42)

	assert.Len(t, out.Items, 1)
}

func TestRemoveFiltersLine(t *testing.T) {
	c := Cart{}
	c = AddOrUpdate(c, Item{ProductID: 1, Qty: 1})
	c = AddOrUpdate(c, Item{ProductID: 2, Qty: 1})

	out := Remove(c, 1)
	assert.Len(t, out.Items, 1)
	assert.Equal(t, 2, out.Items[0].ProductID)
}

func TestClear(t *testing.T) {
	c := AddOrUpdate(Cart{}, Item{ProductID: 1, Qty: 5})
	assert.Empty(t, Clear(c).Items)
}

func TestTotalsToTheCent(t *testing.T) {
	c := AddOrUpdate(Cart{}, Item{ProductID: 1, Price: 10.00, Qty: 2})

	totals := ComputeTotals(c, 5.99, 0)
	assert.Equal(t, 20.00, totals.ItemsPrice)
	assert.Equal(t, 25.99, totals.TotalPrice)
}

func TestTotalsRoundsLineExtensions(t *testing.T) {
	c := AddOrUpdate(Cart{}, Item{ProductID: 1, Price: 0.1, Qty: 3})

	totals := ComputeTotals(c, 0, 0)
	assert.Equal(t, 0.3, totals.ItemsPrice)
	assert.Equal(t, 0.3, totals.TotalPrice)
}

func TestPolicyQuoteAppliesFreeShipping(t *testing.T) {
	p := Policy{ShippingFlat: 10, FreeShippingMin: 100, TaxRate: 0.15}

	small := AddOrUpdate(Cart{}, Item{ProductID: 1, Price: 20, Qty: 1})
	quote := p.Quote(small)
	assert.Equal(t, 10.0, quote.ShippingPrice)
	assert.Equal(t, 3.0, quote.TaxPrice)
	assert.Equal(t, 33.0, quote.TotalPrice)

	big := AddOrUpdate(Cart{}, Item{ProductID: 1, Price: 100, Qty: 1})
	quote = p.Quote(big)
	assert.Equal(t, 0.0, quote.ShippingPrice)
	assert.Equal(t, 115.0, quote.TotalPrice)
}
