package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ---- Units ----

type unitPostgres struct{ db *sql.DB }

func NewUnitPostgresRepository(db *sql.DB) UnitRepository { return &unitPostgres{db: db} }

func (r *unitPostgres) Create(ctx context.Context, name string) (*Unit, error) {
	u := &Unit{Name: name}
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO units (name) VALUES ($1)
		RETURNING id, created_at`, name).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert unit: %w", err)
	}
	return u, nil
}

func (r *unitPostgres) GetByName(ctx context.Context, name string) (*Unit, error) {
	u := &Unit{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, created_at FROM units WHERE name=$1`, name).
		Scan(&u.ID, &u.Name, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUnitNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *unitPostgres) List(ctx context.Context) ([]*Unit, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, created_at FROM units ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var units []*Unit
	for rows.Next() {
		u := &Unit{}
		if err := rows.Scan(&u.ID, &u.Name, &u.CreatedAt); err != nil {
			return nil, err
		}
		units = append(units, u)
	}
	return units, rows.Err()
}

// ---- Items ----

type itemPostgres struct{ db *sql.DB }

func NewItemPostgresRepository(db *sql.DB) ItemRepository { return &itemPostgres{db: db} }

// Create inserts the item, seeds its inventory summary and, for non-zero
// opening quantities, the FORWARD/IN ledger rows, all in one transaction.
// The seeding rule keeps actual = beginning + total_in - total_out from the
// first row: total_in starts at the new-delivery quantity, actual at
// beginning + new delivery.
func (r *itemPostgres) Create(ctx context.Context, it *Item, createdBy int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO items
		  (name, description, beginning_stock, new_delivery_stock, stock_no, unit_id, unit_cost, status, is_active)
		VALUES ($1,$2,$3,$4,NULLIF($5,''),$6,$7,$8,$9)
		RETURNING id, created_at`,
		it.Name, it.Description, it.BeginningStock, it.NewDeliveryStock,
		it.StockNo, it.UnitID, it.UnitCost, it.Status, it.IsActive).
		Scan(&it.ID, &it.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert item: %w", err)
	}

	actual := it.BeginningStock + it.NewDeliveryStock
	_, err = tx.ExecContext(ctx, `
		INSERT INTO inventory_summary (item_id, beginning_stock, total_in, actual_balance)
		VALUES ($1,$2,$3,$4)`,
		it.ID, it.BeginningStock, it.NewDeliveryStock, actual)
	if err != nil {
		return fmt.Errorf("insert summary: %w", err)
	}

	if it.BeginningStock > 0 {
		if err := appendOpeningEntry(ctx, tx, it.ID, createdBy, "FORWARD", it.BeginningStock,
			0, "Beginning balance", it.BeginningStock); err != nil {
			return err
		}
	}
	if it.NewDeliveryStock > 0 {
		if err := appendOpeningEntry(ctx, tx, it.ID, createdBy, "IN", it.NewDeliveryStock,
			it.UnitCost, "New delivery", actual); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func appendOpeningEntry(ctx context.Context, tx *sql.Tx, itemID, userID int64, txType string, qty int, unitCost float64, remarks string, balance int) error {
	var txID int64
	err := tx.QueryRowContext(ctx, `
		INSERT INTO inventory_transactions (item_id, user_id, type, quantity, unit_cost, total_cost, remarks)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id`,
		itemID, userID, txType, qty, unitCost, unitCost*float64(qty), remarks).Scan(&txID)
	if err != nil {
		return fmt.Errorf("insert %s transaction: %w", txType, err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO stock_cards (item_id, transaction_id, in_qty, out_qty, balance)
		VALUES ($1,$2,$3,0,$4)`,
		itemID, txID, qty, balance)
	if err != nil {
		return fmt.Errorf("insert %s stock card: %w", txType, err)
	}
	return nil
}

func (r *itemPostgres) GetByID(ctx context.Context, id int64) (*Item, error) {
	it := &Item{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, description, beginning_stock, new_delivery_stock,
		       COALESCE(stock_no,''), unit_id, unit_cost, status, is_active, created_at
		FROM items WHERE id=$1`, id).
		Scan(&it.ID, &it.Name, &it.Description, &it.BeginningStock, &it.NewDeliveryStock,
			&it.StockNo, &it.UnitID, &it.UnitCost, &it.Status, &it.IsActive, &it.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, err
	}
	return it, nil
}

func (r *itemPostgres) GetIDByStockNo(ctx context.Context, stockNo string) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `
		SELECT id FROM items WHERE stock_no=$1 LIMIT 1`, stockNo).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrItemNotFound
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *itemPostgres) Update(ctx context.Context, it *Item) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE items
		SET name=$1, description=$2, stock_no=NULLIF($3,''), unit_id=$4, unit_cost=$5, is_active=$6
		WHERE id=$7`,
		it.Name, it.Description, it.StockNo, it.UnitID, it.UnitCost, it.IsActive, it.ID)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (r *itemPostgres) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM items WHERE id=$1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (r *itemPostgres) ListWithBalance(ctx context.Context) ([]*ItemWithBalance, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT i.id, i.name, i.description, i.status,
		       i.beginning_stock, i.new_delivery_stock, COALESCE(i.stock_no,''),
		       COALESCE(u.name,''), COALESCE(s.actual_balance,0)
		FROM items i
		LEFT JOIN units u ON u.id = i.unit_id
		LEFT JOIN inventory_summary s ON s.item_id = i.id
		ORDER BY i.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*ItemWithBalance
	for rows.Next() {
		it := &ItemWithBalance{}
		if err := rows.Scan(&it.ID, &it.Name, &it.Description, &it.Status,
			&it.BeginningStock, &it.NewDeliveryStock, &it.StockNo,
			&it.Unit, &it.Balance); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
