package product

import "time"

// Product maps to the `product` table. Reviews are embedded in the row as a
// jsonb array; Rating and NumReviews are maintained as denormalized
// aggregates of that array.
type Product struct {
	ID           int       `json:"productId"`
	Name         string    `json:"name"`
	Brand        string    `json:"brand"`
	CategoryID   *int      `json:"categoryId,omitempty"`
	Description  string    `json:"description"`
	Image        string    `json:"image"`
	Price        float64   `json:"price"`
	CountInStock int       `json:"countInStock"`
	Rating       float64   `json:"rating"`
	NumReviews   int       `json:"numReviews"`
	Reviews      []Review  `json:"reviews,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Review is a single customer review, embedded in its product.
type Review struct {
	UserID    int       `json:"userId"`
	Name      string    `json:"name"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

// Page is a keyword-filtered slice of the catalog plus paging metadata.
type Page struct {
	Products []Product `json:"products"`
	Page     int       `json:"page"`
	Pages    int       `json:"pages"`
	Total    int       `json:"total"`
}

// recomputeAggregates rederives rating and review count from the embedded
// review list. A product with no reviews has rating 0.
func recomputeAggregates(p *Product) {
	p.NumReviews = len(p.Reviews)
	if p.NumReviews == 0 {
		p.Rating = 0
		return
	}
	sum := 0
	for _, rev := range p.Reviews {
		sum += rev.Rating
	}
	p.Rating = float64(sum) / float64(p.NumReviews)
}
