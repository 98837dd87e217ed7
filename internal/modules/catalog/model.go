package catalog

import "time"

// Unit is a unit of measure (box, piece, roll, bottle, bundle, ...).
type Unit struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Item stock status.
const (
	StatusInStock    = "IN_STOCK"
	StatusOutOfStock = "OUT_OF_STOCK"
)

// Item is a catalog entry staff can request against.
type Item struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	BeginningStock   int       `json:"beginning_stock"`
	NewDeliveryStock int       `json:"new_delivery_stock"`
	StockNo          string    `json:"stock_no,omitempty"`
	UnitID           int64     `json:"unit_id"`
	UnitCost         float64   `json:"unit_cost"`
	Status           string    `json:"status"`
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
}

// ItemWithBalance is an item joined with its unit name and current actual
// balance, as shown on the item list.
type ItemWithBalance struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	Description      string `json:"description"`
	Status           string `json:"status"`
	BeginningStock   int    `json:"beginning_stock"`
	NewDeliveryStock int    `json:"new_delivery_stock"`
	StockNo          string `json:"stock_no,omitempty"`
	Unit             string `json:"unit"`
	Balance          int    `json:"balance"`
}
