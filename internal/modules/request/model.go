package request

import (
	"errors"
	"time"
)

// Request lifecycle. A request is created PENDING and becomes RELEASED
// when its lines are applied to inventory.
const (
	StatusPending  = "PENDING"
	StatusReleased = "RELEASED"
)

// ErrNotFound is returned when no request matches the given id (or it is
// not owned by the caller, for owner-scoped operations).
var ErrNotFound = errors.New("request not found")

// ErrAlreadyReleased is returned when a request has already been released.
var ErrAlreadyReleased = errors.New("request already released")

// Request is a requisition and issue slip header with its line items.
type Request struct {
	ID         int64          `json:"id"`
	UserID     int64          `json:"user_id"`
	UserName   string         `json:"user_name,omitempty"`
	Purpose    string         `json:"purpose"`
	Status     string         `json:"status"`
	ReleasedAt *time.Time     `json:"released_at,omitempty"`
	ReleasedBy *int64         `json:"released_by,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	Items      []*RequestItem `json:"items"`
}

// RequestItem is one line of a slip. The stock number, unit, name, and
// description are captured at submission time so the printed slip stays
// stable even if the catalog changes later. ItemID is nil when the staff
// member typed an item that is not in the catalog.
type RequestItem struct {
	ID          int64  `json:"id"`
	RequestID   int64  `json:"request_id"`
	ItemID      *int64 `json:"item_id,omitempty"`
	StockNo     string `json:"stock_no"`
	Unit        string `json:"unit"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	Remarks     string `json:"remarks"`
}
