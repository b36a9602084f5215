package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ofarouk/deskhub/internal/domain/inventory"
	"github.com/ofarouk/deskhub/internal/money"
	"github.com/ofarouk/deskhub/internal/repository"
)

// InventoryRepository provides SQLite persistence for stock items
type InventoryRepository struct {
	db *DB
}

// NewInventoryRepository creates a new InventoryRepository
func NewInventoryRepository(db *DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

const inventoryColumns = `
	id, name, category, unit_price, quantity, min_stock, created_at, updated_at
`

// Create inserts a new inventory item
func (r *InventoryRepository) Create(ctx context.Context, item *inventory.Item) error {
	query := `
		INSERT INTO inventory_items (id, name, category, unit_price, quantity, min_stock)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.conn(ctx).ExecContext(ctx, query,
		item.ID,
		item.Name,
		item.Category,
		item.UnitPrice.String(),
		item.Quantity,
		item.MinStock,
	)
	if err != nil {
		if isCheckViolation(err) {
			return repository.ErrInvalidInput
		}
		return fmt.Errorf("failed to create inventory item: %w", err)
	}

	return nil
}

// Get retrieves an item by ID
func (r *InventoryRepository) Get(ctx context.Context, id string) (*inventory.Item, error) {
	query := `SELECT ` + inventoryColumns + ` FROM inventory_items WHERE id = ?`
	return scanItem(r.db.conn(ctx).QueryRowContext(ctx, query, id))
}

// List returns all items ordered by name
func (r *InventoryRepository) List(ctx context.Context) ([]inventory.Item, error) {
	query := `SELECT ` + inventoryColumns + ` FROM inventory_items ORDER BY name ASC`

	rows, err := r.db.conn(ctx).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}
	defer rows.Close()

	var items []inventory.Item
	for rows.Next() {
		item, err := scanItemRows(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating inventory: %w", err)
	}

	return items, nil
}

// Update applies a partial update
func (r *InventoryRepository) Update(ctx context.Context, id string, patch inventory.Patch) error {
	var set setClause
	if patch.Name != nil {
		set.set("name", *patch.Name)
	}
	if patch.Category != nil {
		set.set("category", *patch.Category)
	}
	if patch.UnitPrice != nil {
		set.set("unit_price", patch.UnitPrice.String())
	}
	if patch.Quantity != nil {
		set.set("quantity", *patch.Quantity)
	}
	if patch.MinStock != nil {
		set.set("min_stock", *patch.MinStock)
	}
	return set.apply(ctx, r.db.conn(ctx), "inventory_items", id)
}

// Delete removes an item
func (r *InventoryRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.conn(ctx).ExecContext(ctx, `DELETE FROM inventory_items WHERE id = ?`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to delete inventory item: %w", err)
	}
	return requireRow(result)
}

// AdjustStock adds delta to on-hand quantity. The CHECK constraint
// rejects any adjustment that would drive the quantity negative.
func (r *InventoryRepository) AdjustStock(ctx context.Context, id string, delta int) error {
	query := `
		UPDATE inventory_items
		SET quantity = quantity + ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	result, err := r.db.conn(ctx).ExecContext(ctx, query, delta, id)
	if err != nil {
		if isCheckViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to adjust stock: %w", err)
	}
	return requireRow(result)
}

func scanItemFrom(s rowScanner) (*inventory.Item, error) {
	var item inventory.Item
	var price string

	err := s.Scan(
		&item.ID,
		&item.Name,
		&item.Category,
		&price,
		&item.Quantity,
		&item.MinStock,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if item.UnitPrice, err = money.Parse(price); err != nil {
		return nil, err
	}

	return &item, nil
}

func scanItem(row *sql.Row) (*inventory.Item, error) {
	item, err := scanItemFrom(row)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory item: %w", err)
	}
	return item, nil
}

func scanItemRows(rows *sql.Rows) (*inventory.Item, error) {
	item, err := scanItemFrom(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan inventory item: %w", err)
	}
	return item, nil
}
