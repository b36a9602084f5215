package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// NewTestDB creates a new in-memory SQLite database for testing
func NewTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(":memory:")
	require.NoError(t, err, "failed to create test database")

	// Each pooled connection would get its own empty in-memory database
	db.SetMaxOpenConns(1)

	err = db.RunMigrations()
	require.NoError(t, err, "failed to run migrations")

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// TestMigrations verifies that migrations run successfully
func TestMigrations(t *testing.T) {
	db := NewTestDB(t)

	tables := []string{
		"customers",
		"resources",
		"inventory_items",
		"subscriptions",
		"sessions",
		"session_items",
		"invoices",
		"invoice_items",
		"payments",
		"settings",
	}

	for _, table := range tables {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&count)
		require.NoError(t, err, "failed to query table %s", table)
		require.Equal(t, 1, count, "table %s not found", table)
	}
}

// TestForeignKeys verifies that foreign key constraints are enabled
func TestForeignKeys(t *testing.T) {
	db := NewTestDB(t)

	var enabled int
	err := db.QueryRow("PRAGMA foreign_keys").Scan(&enabled)
	require.NoError(t, err)
	require.Equal(t, 1, enabled, "foreign keys not enabled")
}

// TestSessionsTable verifies session constraints
func TestSessionsTable(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	_, err := db.ExecContext(ctx,
		`INSERT INTO customers (id, human_id, name, phone) VALUES (?, ?, ?, ?)`,
		"c1", "C-001", "Test Customer", "01000000000")
	require.NoError(t, err)

	_, err = db.ExecContext(ctx,
		`INSERT INTO resources (id, name, resource_type, hourly_rate) VALUES (?, ?, ?, ?)`,
		"r1", "Desk 1", "desk", "50")
	require.NoError(t, err)

	_, err = db.ExecContext(ctx,
		`INSERT INTO sessions (id, customer_id, resource_id, hourly_rate, started_at, status)
		 VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP, ?)`,
		"s1", "c1", "r1", "50", "active")
	require.NoError(t, err)

	// Unknown resource must be rejected
	_, err = db.ExecContext(ctx,
		`INSERT INTO sessions (id, customer_id, resource_id, hourly_rate, started_at, status)
		 VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP, ?)`,
		"s2", "c1", "missing", "50", "active")
	require.Error(t, err, "should fail with invalid resource_id")

	// Unknown status must be rejected
	_, err = db.ExecContext(ctx,
		`INSERT INTO sessions (id, customer_id, resource_id, hourly_rate, started_at, status)
		 VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP, ?)`,
		"s3", "c1", "r1", "50", "paused")
	require.Error(t, err, "should fail with invalid status")
}

// TestInventoryStockConstraint verifies stock can't go negative
func TestInventoryStockConstraint(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	_, err := db.ExecContext(ctx,
		`INSERT INTO inventory_items (id, name, unit_price, quantity) VALUES (?, ?, ?, ?)`,
		"i1", "Coffee", "10", 3)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx,
		`UPDATE inventory_items SET quantity = quantity - 5 WHERE id = ?`, "i1")
	require.Error(t, err, "should fail when stock would go negative")
}

// TestSessionItemsPrimaryKey verifies one line per (session, item) pair
func TestSessionItemsPrimaryKey(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	_, err := db.ExecContext(ctx,
		`INSERT INTO customers (id, human_id, name, phone) VALUES (?, ?, ?, ?)`,
		"c1", "C-001", "Test Customer", "01000000000")
	require.NoError(t, err)
	_, err = db.ExecContext(ctx,
		`INSERT INTO resources (id, name, resource_type, hourly_rate) VALUES (?, ?, ?, ?)`,
		"r1", "Desk 1", "desk", "50")
	require.NoError(t, err)
	_, err = db.ExecContext(ctx,
		`INSERT INTO inventory_items (id, name, unit_price, quantity) VALUES (?, ?, ?, ?)`,
		"i1", "Coffee", "10", 10)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx,
		`INSERT INTO sessions (id, customer_id, resource_id, hourly_rate, started_at, status)
		 VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP, ?)`,
		"s1", "c1", "r1", "50", "active")
	require.NoError(t, err)

	_, err = db.ExecContext(ctx,
		`INSERT INTO session_items (session_id, item_id, item_name, quantity, unit_price)
		 VALUES (?, ?, ?, ?, ?)`,
		"s1", "i1", "Coffee", 2, "10")
	require.NoError(t, err)

	_, err = db.ExecContext(ctx,
		`INSERT INTO session_items (session_id, item_id, item_name, quantity, unit_price)
		 VALUES (?, ?, ?, ?, ?)`,
		"s1", "i1", "Coffee", 1, "10")
	require.Error(t, err, "should fail on duplicate (session, item) pair")
}

// TestInTxRollsBack verifies a failed transaction leaves no partial state
func TestInTxRollsBack(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	err := db.InTx(ctx, func(ctx context.Context) error {
		_, err := db.conn(ctx).ExecContext(ctx,
			`INSERT INTO customers (id, human_id, name, phone) VALUES (?, ?, ?, ?)`,
			"c1", "C-001", "Test Customer", "01000000000")
		require.NoError(t, err)
		return context.Canceled
	})
	require.Error(t, err)

	var count int
	err = db.QueryRow(`SELECT COUNT(*) FROM customers`).Scan(&count)
	require.NoError(t, err)
	require.Equal(t, 0, count, "rolled back insert should not be visible")
}

// TestInTxJoinsNested verifies a nested InTx joins the outer transaction
func TestInTxJoinsNested(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	err := db.InTx(ctx, func(ctx context.Context) error {
		_, err := db.conn(ctx).ExecContext(ctx,
			`INSERT INTO customers (id, human_id, name, phone) VALUES (?, ?, ?, ?)`,
			"c1", "C-001", "Test Customer", "01000000000")
		require.NoError(t, err)

		return db.InTx(ctx, func(ctx context.Context) error {
			// The outer insert must be visible from the joined transaction
			var count int
			err := db.conn(ctx).QueryRowContext(ctx, `SELECT COUNT(*) FROM customers`).Scan(&count)
			require.NoError(t, err)
			require.Equal(t, 1, count)
			return nil
		})
	})
	require.NoError(t, err)
}
