package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection
type DB struct {
	*sql.DB
}

// New creates a new SQLite database connection
func New(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Wait for the single writer instead of failing fast
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return &DB{db}, nil
}

type txKey struct{}

// InTx runs fn inside one transaction. The transaction is carried on the
// context handed to fn, so every repository call made with that context
// joins it. A nested call joins the enclosing transaction.
func (db *DB) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return fn(ctx)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// querier is satisfied by both *sql.DB and *sql.Tx
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// conn resolves the transaction carried on ctx, falling back to the
// shared connection pool.
func (db *DB) conn(ctx context.Context) querier {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return db.DB
}

// RunMigrations creates the schema. A database that already has it is
// left untouched.
func (db *DB) RunMigrations() error {
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'customers'`).Scan(&n)
	if err != nil {
		return fmt.Errorf("failed to inspect schema: %w", err)
	}
	if n > 0 {
		return nil
	}

	migration := `
-- Customers table
CREATE TABLE customers (
    id TEXT PRIMARY KEY,
    human_id TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL,
    phone TEXT NOT NULL,
    email TEXT,
    notes TEXT,
    balance TEXT NOT NULL DEFAULT '0',
    total_spent TEXT NOT NULL DEFAULT '0',
    total_sessions INTEGER NOT NULL DEFAULT 0 CHECK(total_sessions >= 0),
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX idx_customer_phone ON customers(phone);

-- Bookable resources
CREATE TABLE resources (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    resource_type TEXT NOT NULL CHECK(resource_type IN ('desk', 'room', 'seat')),
    hourly_rate TEXT NOT NULL,
    is_available INTEGER NOT NULL DEFAULT 1,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX idx_resource_available ON resources(is_available);

-- Consumable inventory
CREATE TABLE inventory_items (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    category TEXT NOT NULL DEFAULT '',
    unit_price TEXT NOT NULL,
    quantity INTEGER NOT NULL DEFAULT 0 CHECK(quantity >= 0),
    min_stock INTEGER NOT NULL DEFAULT 0 CHECK(min_stock >= 0),
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

-- Subscriptions
CREATE TABLE subscriptions (
    id TEXT PRIMARY KEY,
    customer_id TEXT NOT NULL,
    plan TEXT NOT NULL CHECK(plan IN ('weekly', 'half-monthly', 'monthly')),
    price TEXT NOT NULL,
    start_date TIMESTAMP NOT NULL,
    end_date TIMESTAMP NOT NULL,
    status TEXT NOT NULL CHECK(status IN ('active', 'cancelled', 'expired')),
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (customer_id) REFERENCES customers(id)
);
CREATE INDEX idx_customer_subscriptions ON subscriptions(customer_id);
CREATE INDEX idx_subscription_status ON subscriptions(status);

-- Sessions table
CREATE TABLE sessions (
    id TEXT PRIMARY KEY,
    customer_id TEXT NOT NULL,
    resource_id TEXT NOT NULL,
    hourly_rate TEXT NOT NULL,
    started_at TIMESTAMP NOT NULL,
    ended_at TIMESTAMP,
    subscribed INTEGER NOT NULL DEFAULT 0,
    inventory_total TEXT NOT NULL DEFAULT '0',
    session_cost TEXT NOT NULL DEFAULT '0',
    total_amount TEXT NOT NULL DEFAULT '0',
    status TEXT NOT NULL CHECK(status IN ('active', 'completed')),
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (customer_id) REFERENCES customers(id),
    FOREIGN KEY (resource_id) REFERENCES resources(id)
);
CREATE INDEX idx_customer_sessions ON sessions(customer_id);
CREATE INDEX idx_resource_sessions ON sessions(resource_id);
CREATE INDEX idx_session_status ON sessions(status);

-- One coalesced line per (session, item) pair; unit_price is the
-- snapshot taken when the item was first attached
CREATE TABLE session_items (
    session_id TEXT NOT NULL,
    item_id TEXT NOT NULL,
    item_name TEXT NOT NULL,
    quantity INTEGER NOT NULL CHECK(quantity > 0),
    unit_price TEXT NOT NULL,
    added_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (session_id, item_id),
    FOREIGN KEY (session_id) REFERENCES sessions(id),
    FOREIGN KEY (item_id) REFERENCES inventory_items(id)
);

-- Invoices
CREATE TABLE invoices (
    id TEXT PRIMARY KEY,
    invoice_number TEXT NOT NULL UNIQUE,
    customer_id TEXT NOT NULL,
    session_id TEXT,
    total TEXT NOT NULL DEFAULT '0',
    paid_amount TEXT NOT NULL DEFAULT '0',
    status TEXT NOT NULL CHECK(status IN ('unpaid', 'partially_paid', 'paid', 'cancelled')),
    due_date TIMESTAMP NOT NULL,
    paid_date TIMESTAMP,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (customer_id) REFERENCES customers(id),
    FOREIGN KEY (session_id) REFERENCES sessions(id)
);
CREATE INDEX idx_customer_invoices ON invoices(customer_id);
CREATE INDEX idx_invoice_status ON invoices(status);

CREATE TABLE invoice_items (
    id TEXT PRIMARY KEY,
    invoice_id TEXT NOT NULL,
    description TEXT NOT NULL,
    quantity INTEGER NOT NULL CHECK(quantity > 0),
    rate TEXT NOT NULL,
    amount TEXT NOT NULL,
    FOREIGN KEY (invoice_id) REFERENCES invoices(id)
);
CREATE INDEX idx_invoice_items ON invoice_items(invoice_id);

-- Payment audit trail
CREATE TABLE payments (
    id TEXT PRIMARY KEY,
    invoice_id TEXT NOT NULL,
    amount TEXT NOT NULL,
    method TEXT NOT NULL CHECK(method IN ('cash', 'card', 'transfer')),
    notes TEXT NOT NULL DEFAULT '',
    paid_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (invoice_id) REFERENCES invoices(id)
);
CREATE INDEX idx_invoice_payments ON payments(invoice_id);
CREATE INDEX idx_payment_date ON payments(paid_at);

-- Opaque settings blob, single row
CREATE TABLE settings (
    id INTEGER PRIMARY KEY CHECK(id = 1),
    data TEXT NOT NULL
);
`

	_, err = db.Exec(migration)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
