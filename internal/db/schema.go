package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema. Every statement is idempotent so the
// bootstrap can run on every start.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id         INTEGER PRIMARY KEY,
    name       VARCHAR(150) NOT NULL,
    role       VARCHAR(50) NOT NULL DEFAULT 'staff',
    password   VARCHAR(255) NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS units (
    id         SERIAL PRIMARY KEY,
    name       VARCHAR(50) NOT NULL UNIQUE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS items (
    id                 SERIAL PRIMARY KEY,
    name               VARCHAR(255) NOT NULL,
    description        VARCHAR(255) NOT NULL DEFAULT '',
    beginning_stock    INTEGER NOT NULL DEFAULT 0,
    new_delivery_stock INTEGER NOT NULL DEFAULT 0,
    stock_no           VARCHAR(255),
    unit_id            INTEGER NOT NULL REFERENCES units(id),
    unit_cost          NUMERIC(12,2) NOT NULL DEFAULT 0.00,
    status             VARCHAR(20) NOT NULL DEFAULT 'IN_STOCK' CHECK (status IN ('IN_STOCK', 'OUT_OF_STOCK')),
    is_active          BOOLEAN NOT NULL DEFAULT TRUE,
    created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS items_stock_no_idx ON items(stock_no);

CREATE TABLE IF NOT EXISTS inventory_summary (
    id                SERIAL PRIMARY KEY,
    item_id           INTEGER NOT NULL UNIQUE REFERENCES items(id) ON DELETE CASCADE,
    beginning_stock   INTEGER NOT NULL DEFAULT 0,
    forwarded_balance INTEGER NOT NULL DEFAULT 0,
    total_in          INTEGER NOT NULL DEFAULT 0,
    total_out         INTEGER NOT NULL DEFAULT 0,
    actual_balance    INTEGER NOT NULL DEFAULT 0,
    updated_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS inventory_transactions (
    id         SERIAL PRIMARY KEY,
    item_id    INTEGER NOT NULL REFERENCES items(id) ON DELETE CASCADE,
    user_id    INTEGER NOT NULL REFERENCES users(id),
    type       VARCHAR(10) NOT NULL CHECK (type IN ('IN', 'OUT', 'FORWARD')),
    quantity   INTEGER NOT NULL,
    unit_cost  NUMERIC(12,2) NOT NULL DEFAULT 0.00,
    total_cost NUMERIC(14,2) NOT NULL DEFAULT 0.00,
    remarks    TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS inv_tx_item_idx ON inventory_transactions(item_id);

CREATE TABLE IF NOT EXISTS stock_cards (
    id             SERIAL PRIMARY KEY,
    item_id        INTEGER NOT NULL REFERENCES items(id) ON DELETE CASCADE,
    transaction_id INTEGER NOT NULL REFERENCES inventory_transactions(id) ON DELETE CASCADE,
    in_qty         INTEGER NOT NULL DEFAULT 0,
    out_qty        INTEGER NOT NULL DEFAULT 0,
    balance        INTEGER NOT NULL,
    created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS stock_card_item_idx ON stock_cards(item_id);

CREATE TABLE IF NOT EXISTS ris_requests (
    id          SERIAL PRIMARY KEY,
    user_id     INTEGER NOT NULL REFERENCES users(id),
    purpose     TEXT,
    status      VARCHAR(20) NOT NULL DEFAULT 'PENDING' CHECK (status IN ('PENDING', 'RELEASED')),
    released_at TIMESTAMPTZ,
    released_by INTEGER REFERENCES users(id),
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS ris_request_items (
    id          SERIAL PRIMARY KEY,
    request_id  INTEGER NOT NULL REFERENCES ris_requests(id) ON DELETE CASCADE,
    item_id     INTEGER REFERENCES items(id),
    stock_no    VARCHAR(255),
    unit        VARCHAR(50),
    name        VARCHAR(255) NOT NULL DEFAULT '',
    description VARCHAR(255) NOT NULL DEFAULT '',
    quantity    INTEGER NOT NULL DEFAULT 0,
    remarks     TEXT,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS ris_request_items_request_idx ON ris_request_items(request_id);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(database *sql.DB) error {
	if _, err := database.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
