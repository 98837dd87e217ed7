package inventory

import (
	"context"
	"errors"
)

// ErrNoSummary is returned when an item has no inventory summary row. Such
// an item cannot be deducted from or delivered to.
var ErrNoSummary = errors.New("no inventory summary for item")

// Repository defines inventory data storage. ReleaseLine and StockIn each
// perform their three writes (transaction, stock card, summary) in a single
// database transaction; the balance arithmetic happens inside the UPDATE so
// concurrent movements against the same item cannot lose updates.
type Repository interface {
	GetSummary(ctx context.Context, itemID int64) (*Summary, error)

	// ReleaseLine applies one OUT movement and returns the resulting
	// actual balance. Returns ErrNoSummary when the item has no summary.
	ReleaseLine(ctx context.Context, itemID, userID int64, qty int, remarks string) (int, error)

	// StockIn applies one IN movement (a delivery) and returns the
	// resulting actual balance.
	StockIn(ctx context.Context, itemID, userID int64, qty int, unitCost float64, remarks string) (int, error)

	ListStockCard(ctx context.Context, itemID int64) ([]*StockCardRow, error)
	Report(ctx context.Context, year int) ([]*ReportRow, error)
}
