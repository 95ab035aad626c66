package models

import "time"

// LineItem references a product and a quantity inside a cart or an order.
type LineItem struct {
	ProductID string  `json:"productId"`
	Quantity  float64 `json:"quantity"`
}

type Cart struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	Products  []LineItem `json:"products"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Order statuses. New orders start as OrderStatusPending.
const (
	OrderStatusPending   = "pending"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// OrderStatuses lists every valid order status.
var OrderStatuses = []string{OrderStatusPending, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled}

type Order struct {
	ID        string         `json:"id"`
	UserID    string         `json:"userId"`
	Products  []LineItem     `json:"products"`
	Amount    float64        `json:"amount"`
	Address   map[string]any `json:"address"`
	Status    string         `json:"status"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// MonthlyIncome is the sum of order amounts for one calendar month.
type MonthlyIncome struct {
	Year  int     `json:"year"`
	Month int     `json:"month"`
	Total float64 `json:"total"`
}

// Charge is the result of a captured payment.
type Charge struct {
	ID       string    `json:"id"`
	Amount   int64     `json:"amount"`
	Currency string    `json:"currency"`
	Source   string    `json:"source"`
	Status   string    `json:"status"`
	Created  time.Time `json:"created"`
}
