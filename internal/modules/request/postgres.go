package request

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

// Create inserts the request and all its line items inside a single
// transaction.
func (r *postgresRepo) Create(ctx context.Context, req *Request) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO ris_requests (user_id, purpose, status)
		VALUES ($1, NULLIF($2,''), $3)
		RETURNING id, created_at`,
		req.UserID, req.Purpose, StatusPending).Scan(&req.ID, &req.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert request: %w", err)
	}
	req.Status = StatusPending

	for _, item := range req.Items {
		err = tx.QueryRowContext(ctx, `
			INSERT INTO ris_request_items
			  (request_id, item_id, stock_no, unit, name, description, quantity, remarks)
			VALUES ($1,$2,NULLIF($3,''),NULLIF($4,''),$5,$6,$7,NULLIF($8,''))
			RETURNING id`,
			req.ID, item.ItemID, item.StockNo, item.Unit,
			item.Name, item.Description, item.Quantity, item.Remarks).Scan(&item.ID)
		if err != nil {
			return fmt.Errorf("insert request item: %w", err)
		}
		item.RequestID = req.ID
	}

	return tx.Commit()
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID int64) ([]*Request, error) {
	return r.list(ctx, `
		SELECT r.id, r.user_id, '', COALESCE(r.purpose,''), r.status, r.released_at, r.released_by, r.created_at,
		       ri.id, ri.item_id, COALESCE(ri.stock_no,''), COALESCE(ri.unit,''),
		       ri.name, ri.description, ri.quantity, COALESCE(ri.remarks,'')
		FROM ris_requests r
		LEFT JOIN ris_request_items ri ON ri.request_id = r.id
		WHERE r.user_id=$1
		ORDER BY r.created_at DESC, ri.id`, userID)
}

func (r *postgresRepo) ListAll(ctx context.Context) ([]*Request, error) {
	return r.list(ctx, `
		SELECT r.id, r.user_id, COALESCE(u.name,''), COALESCE(r.purpose,''), r.status, r.released_at, r.released_by, r.created_at,
		       ri.id, ri.item_id, COALESCE(ri.stock_no,''), COALESCE(ri.unit,''),
		       ri.name, ri.description, ri.quantity, COALESCE(ri.remarks,'')
		FROM ris_requests r
		LEFT JOIN users u ON u.id = r.user_id
		LEFT JOIN ris_request_items ri ON ri.request_id = r.id
		ORDER BY r.created_at DESC, ri.id`)
}

// list scans joined header+line rows and groups them per request,
// preserving the row order of the query.
func (r *postgresRepo) list(ctx context.Context, query string, args ...interface{}) ([]*Request, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []*Request
	byID := make(map[int64]*Request)
	for rows.Next() {
		req := &Request{}
		var lineID sql.NullInt64
		var itemID sql.NullInt64
		var stockNo, unit, name, description, remarks sql.NullString
		var quantity sql.NullInt64

		if err := rows.Scan(&req.ID, &req.UserID, &req.UserName, &req.Purpose, &req.Status,
			&req.ReleasedAt, &req.ReleasedBy, &req.CreatedAt,
			&lineID, &itemID, &stockNo, &unit, &name, &description, &quantity, &remarks); err != nil {
			return nil, err
		}

		existing, ok := byID[req.ID]
		if !ok {
			req.Items = []*RequestItem{}
			byID[req.ID] = req
			requests = append(requests, req)
			existing = req
		}

		if lineID.Valid {
			line := &RequestItem{
				ID:          lineID.Int64,
				RequestID:   existing.ID,
				StockNo:     stockNo.String,
				Unit:        unit.String,
				Name:        name.String,
				Description: description.String,
				Quantity:    int(quantity.Int64),
				Remarks:     remarks.String,
			}
			if itemID.Valid {
				id := itemID.Int64
				line.ItemID = &id
			}
			existing.Items = append(existing.Items, line)
		}
	}
	return requests, rows.Err()
}

func (r *postgresRepo) ListItems(ctx context.Context, requestID int64) ([]*RequestItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, request_id, item_id, COALESCE(stock_no,''), COALESCE(unit,''),
		       name, description, quantity, COALESCE(remarks,'')
		FROM ris_request_items
		WHERE request_id=$1
		ORDER BY id`, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*RequestItem
	for rows.Next() {
		line := &RequestItem{}
		var itemID sql.NullInt64
		if err := rows.Scan(&line.ID, &line.RequestID, &itemID, &line.StockNo, &line.Unit,
			&line.Name, &line.Description, &line.Quantity, &line.Remarks); err != nil {
			return nil, err
		}
		if itemID.Valid {
			id := itemID.Int64
			line.ItemID = &id
		}
		items = append(items, line)
	}
	return items, rows.Err()
}

func (r *postgresRepo) DeleteOwned(ctx context.Context, id, userID int64) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM ris_requests
		WHERE id=$1 AND user_id=$2 AND status=$3`, id, userID, StatusPending)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	return r.classifyMiss(ctx, id)
}

func (r *postgresRepo) MarkReleased(ctx context.Context, id, releasedBy int64) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE ris_requests
		SET status=$1, released_at=NOW(), released_by=$2
		WHERE id=$3 AND status=$4`,
		StatusReleased, releasedBy, id, StatusPending)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	return r.classifyMiss(ctx, id)
}

func (r *postgresRepo) Reopen(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE ris_requests
		SET status=$1, released_at=NULL, released_by=NULL
		WHERE id=$2 AND status=$3`,
		StatusPending, id, StatusReleased)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// classifyMiss distinguishes "no such request" from "request exists but is
// already released" after a conditional write matched nothing.
func (r *postgresRepo) classifyMiss(ctx context.Context, id int64) error {
	var status string
	err := r.db.QueryRowContext(ctx, `
		SELECT status FROM ris_requests WHERE id=$1`, id).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if status == StatusReleased {
		return ErrAlreadyReleased
	}
	return ErrNotFound
}
