package inventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) GetSummary(ctx context.Context, itemID int64) (*Summary, error) {
	s := &Summary{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, item_id, beginning_stock, forwarded_balance, total_in, total_out, actual_balance, updated_at
		FROM inventory_summary WHERE item_id=$1`, itemID).
		Scan(&s.ID, &s.ItemID, &s.BeginningStock, &s.ForwardedBalance,
			&s.TotalIn, &s.TotalOut, &s.ActualBalance, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSummary
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// ReleaseLine deducts qty from the item's balance and appends the OUT
// transaction and stock card row, all in one database transaction. The
// UPDATE both adjusts and reads the balance, which serializes concurrent
// deductions against the same summary row on the database side.
func (r *postgresRepo) ReleaseLine(ctx context.Context, itemID, userID int64, qty int, remarks string) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var newBalance int
	err = tx.QueryRowContext(ctx, `
		UPDATE inventory_summary
		SET total_out = total_out + $1,
		    actual_balance = actual_balance - $1,
		    updated_at = NOW()
		WHERE item_id = $2
		RETURNING actual_balance`, qty, itemID).Scan(&newBalance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNoSummary
	}
	if err != nil {
		return 0, fmt.Errorf("update summary: %w", err)
	}

	var txID int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO inventory_transactions (item_id, user_id, type, quantity, remarks)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id`,
		itemID, userID, TypeOut, qty, remarks).Scan(&txID)
	if err != nil {
		return 0, fmt.Errorf("insert transaction: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO stock_cards (item_id, transaction_id, in_qty, out_qty, balance)
		VALUES ($1,$2,0,$3,$4)`,
		itemID, txID, qty, newBalance)
	if err != nil {
		return 0, fmt.Errorf("insert stock card: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return newBalance, nil
}

// StockIn records a delivery: the mirror image of ReleaseLine.
func (r *postgresRepo) StockIn(ctx context.Context, itemID, userID int64, qty int, unitCost float64, remarks string) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var newBalance int
	err = tx.QueryRowContext(ctx, `
		UPDATE inventory_summary
		SET total_in = total_in + $1,
		    actual_balance = actual_balance + $1,
		    updated_at = NOW()
		WHERE item_id = $2
		RETURNING actual_balance`, qty, itemID).Scan(&newBalance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNoSummary
	}
	if err != nil {
		return 0, fmt.Errorf("update summary: %w", err)
	}

	var txID int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO inventory_transactions (item_id, user_id, type, quantity, unit_cost, total_cost, remarks)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id`,
		itemID, userID, TypeIn, qty, unitCost, unitCost*float64(qty), remarks).Scan(&txID)
	if err != nil {
		return 0, fmt.Errorf("insert transaction: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO stock_cards (item_id, transaction_id, in_qty, out_qty, balance)
		VALUES ($1,$2,$3,0,$4)`,
		itemID, txID, qty, newBalance)
	if err != nil {
		return 0, fmt.Errorf("insert stock card: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return newBalance, nil
}

func (r *postgresRepo) ListStockCard(ctx context.Context, itemID int64) ([]*StockCardRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT sc.id, sc.created_at, COALESCE(t.type,''), sc.in_qty, sc.out_qty, sc.balance,
		       COALESCE(t.remarks,''), COALESCE(u.name,'')
		FROM stock_cards sc
		LEFT JOIN inventory_transactions t ON t.id = sc.transaction_id
		LEFT JOIN users u ON u.id = t.user_id
		WHERE sc.item_id=$1
		ORDER BY sc.created_at`, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*StockCardRow
	for rows.Next() {
		e := &StockCardRow{}
		if err := rows.Scan(&e.ID, &e.Date, &e.Type, &e.InQty, &e.OutQty,
			&e.Balance, &e.Remarks, &e.PerformedBy); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *postgresRepo) Report(ctx context.Context, year int) ([]*ReportRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT i.id, i.name, i.description,
		       COALESCE(s.beginning_stock,0), COALESCE(s.forwarded_balance,0),
		       COALESCE(s.total_in,0), COALESCE(s.total_out,0), COALESCE(s.actual_balance,0)
		FROM items i
		LEFT JOIN inventory_summary s ON s.item_id = i.id
		ORDER BY i.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var report []*ReportRow
	byItem := make(map[int64]*ReportRow)
	for rows.Next() {
		row := &ReportRow{}
		if err := rows.Scan(&row.ItemID, &row.Name, &row.Description,
			&row.BeginningStock, &row.ForwardedBalance,
			&row.TotalIn, &row.TotalOut, &row.ActualBalance); err != nil {
			return nil, err
		}
		report = append(report, row)
		byItem[row.ItemID] = row
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)

	txRows, err := r.db.QueryContext(ctx, `
		SELECT item_id, quantity, created_at
		FROM inventory_transactions
		WHERE type=$1 AND created_at >= $2 AND created_at < $3`,
		TypeOut, start, end)
	if err != nil {
		return nil, err
	}
	defer txRows.Close()

	for txRows.Next() {
		var itemID int64
		var qty int
		var createdAt time.Time
		if err := txRows.Scan(&itemID, &qty, &createdAt); err != nil {
			return nil, err
		}
		if row, ok := byItem[itemID]; ok {
			row.MonthlyOut[int(createdAt.Month())-1] += qty
		}
	}
	return report, txRows.Err()
}
