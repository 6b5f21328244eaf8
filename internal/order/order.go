package order

import "time"

// Order is a persisted checkout. It moves through exactly three states:
// created (unpaid, undelivered) -> paid -> delivered. There is no transition
// backwards and no delivery of an unpaid order.
type Order struct {
	ID              int        `json:"orderId"`
	UserID          int        `json:"userId"`
	Items           []Item     `json:"orderItems"`
	ShippingAddress Address    `json:"shippingAddress"`
	PaymentMethod   string     `json:"paymentMethod"`
	ItemsPrice      float64    `json:"itemsPrice"`
	ShippingPrice   float64    `json:"shippingPrice"`
	TaxPrice        float64    `json:"taxPrice"`
	TotalPrice      float64    `json:"totalPrice"`
	IsPaid          bool       `json:"isPaid"`
	PaidAt          *time.Time `json:"paidAt,omitempty"`
	PaymentResult   *Receipt   `json:"paymentResult,omitempty"`
	IsDelivered     bool       `json:"isDelivered"`
	DeliveredAt     *time.Time `json:"deliveredAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// Item is a frozen snapshot of a product at placement time. Later catalog
// edits must not change historical orders, so nothing here references live
// product fields.
type Item struct {
	ProductID int     `json:"productId"`
	Name      string  `json:"name"`
	Image     string  `json:"image"`
	Brand     string  `json:"brand"`
	Price     float64 `json:"price"`
	Qty       int     `json:"qty"`
}

type Address struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// Receipt is the opaque external-payment record stored on a paid order.
type Receipt struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	UpdateTime   string `json:"updateTime"`
	EmailAddress string `json:"emailAddress"`
}

// Summary is the admin dashboard aggregate over all orders.
type Summary struct {
	TotalOrders int         `json:"totalOrders"`
	TotalSales  float64     `json:"totalSales"`
	SalesByDay  []DailySale `json:"salesByDay"`
}

// DailySale groups paid-order revenue by calendar date of payment.
type DailySale struct {
	Date   string  `json:"date"`
	Orders int     `json:"orders"`
	Sales  float64 `json:"sales"`
}
