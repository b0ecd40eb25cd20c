// Package orders is a typed client for the Order Management REST API.
// It covers the Order resource, the Items nested under an Order, and the
// current-record bookkeeping the companion web form relies on.
package orders

// Order represents a customer purchase header
// Schema matches the Order Management API wire format
type Order struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	CreateTime string `json:"create_time"`
	Address    string `json:"address"`
	CostAmount int    `json:"cost_amount"`
	Status     string `json:"status"`
	UserID     int    `json:"user_id"`
	Items      []Item `json:"items"`
}

// Item represents a line item belonging to exactly one Order
type Item struct {
	ID        int     `json:"id"`
	OrderID   int     `json:"order_id"`
	ProductID int     `json:"product_id"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Amount    int     `json:"amount"`
	Status    string  `json:"status"`
}

// OrderForm holds the raw order fields as entered by the operator.
// Numeric coercion is per-operation: Create parses cost_amount and user_id,
// Update sends every field exactly as entered.
type OrderForm struct {
	Name       string
	CreateTime string
	Address    string
	CostAmount string
	Status     string
	UserID     string
}

// ItemForm holds the raw item fields as entered by the operator
type ItemForm struct {
	Title     string
	ProductID string
	Price     string
	Amount    string
	Status    string
}

// OrderFilter holds optional search filters. Empty values are omitted from
// the query string.
type OrderFilter struct {
	Name       string
	CreateTime string
	Status     string
	UserID     string
}
