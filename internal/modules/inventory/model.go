package inventory

import "time"

// Movement types. FORWARD carries an opening balance into the ledger, IN
// records a delivery, OUT records a release.
const (
	TypeIn      = "IN"
	TypeOut     = "OUT"
	TypeForward = "FORWARD"
)

// Summary is the single current-state row per item, derived from the
// ledger. Invariant: ActualBalance = BeginningStock + TotalIn - TotalOut.
type Summary struct {
	ID               int64     `json:"id"`
	ItemID           int64     `json:"item_id"`
	BeginningStock   int       `json:"beginning_stock"`
	ForwardedBalance int       `json:"forwarded_balance"`
	TotalIn          int       `json:"total_in"`
	TotalOut         int       `json:"total_out"`
	ActualBalance    int       `json:"actual_balance"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// StockCardRow is one ledger entry joined with its transaction details and
// the name of the user who performed it, as shown on the stock card.
type StockCardRow struct {
	ID          int64     `json:"id"`
	Date        time.Time `json:"date"`
	Type        string    `json:"type"`
	InQty       int       `json:"in_qty"`
	OutQty      int       `json:"out_qty"`
	Balance     int       `json:"balance"`
	Remarks     string    `json:"remarks"`
	PerformedBy string    `json:"performed_by"`
}

// ReportRow is one item's line on the annual consumption report: the
// summary totals plus OUT quantities bucketed per month of the report year.
type ReportRow struct {
	ItemID           int64   `json:"item_id"`
	Name             string  `json:"name"`
	Description      string  `json:"description"`
	BeginningStock   int     `json:"beginning_stock"`
	ForwardedBalance int     `json:"forwarded_balance"`
	TotalIn          int     `json:"total_in"`
	TotalOut         int     `json:"total_out"`
	ActualBalance    int     `json:"actual_balance"`
	MonthlyOut       [12]int `json:"monthly_out"`
}
