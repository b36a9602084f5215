package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ofarouk/deskhub/internal/domain/customer"
	"github.com/ofarouk/deskhub/internal/money"
	"github.com/ofarouk/deskhub/internal/repository"
)

// CustomerRepository provides SQLite persistence for customers
type CustomerRepository struct {
	db *DB
}

// NewCustomerRepository creates a new CustomerRepository
func NewCustomerRepository(db *DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

const customerColumns = `
	id, human_id, name, phone, email, notes,
	balance, total_spent, total_sessions, created_at, updated_at
`

// Create inserts a new customer
func (r *CustomerRepository) Create(ctx context.Context, c *customer.Customer) error {
	query := `
		INSERT INTO customers (
			id, human_id, name, phone, email, notes,
			balance, total_spent, total_sessions
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.conn(ctx).ExecContext(ctx, query,
		c.ID,
		c.HumanID,
		c.Name,
		c.Phone,
		c.Email,
		c.Notes,
		c.Balance.String(),
		c.TotalSpent.String(),
		c.TotalSessions,
	)
	if err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}

	return nil
}

// Get retrieves a customer by ID
func (r *CustomerRepository) Get(ctx context.Context, id string) (*customer.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = ?`
	row := r.db.conn(ctx).QueryRowContext(ctx, query, id)
	return scanCustomer(row)
}

// List returns all customers, newest first
func (r *CustomerRepository) List(ctx context.Context) ([]customer.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers ORDER BY created_at DESC`

	rows, err := r.db.conn(ctx).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	var customers []customer.Customer
	for rows.Next() {
		c, err := scanCustomerRows(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating customers: %w", err)
	}

	return customers, nil
}

// Update applies a partial update
func (r *CustomerRepository) Update(ctx context.Context, id string, patch customer.Patch) error {
	var set setClause
	if patch.Name != nil {
		set.set("name", *patch.Name)
	}
	if patch.Phone != nil {
		set.set("phone", *patch.Phone)
	}
	if patch.Email != nil {
		set.set("email", *patch.Email)
	}
	if patch.Notes != nil {
		set.set("notes", *patch.Notes)
	}
	return set.apply(ctx, r.db.conn(ctx), "customers", id)
}

// Delete removes a customer
func (r *CustomerRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.conn(ctx).ExecContext(ctx, `DELETE FROM customers WHERE id = ?`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to delete customer: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// NextHumanID allocates the next display id (C-001, C-002, ...).
// Derived from the max existing suffix, not a row count, so the result
// can't collide with a live customer after deletes.
func (r *CustomerRepository) NextHumanID(ctx context.Context) (string, error) {
	query := `SELECT COALESCE(MAX(CAST(SUBSTR(human_id, 3) AS INTEGER)), 0) FROM customers`

	var max int
	if err := r.db.conn(ctx).QueryRowContext(ctx, query).Scan(&max); err != nil {
		return "", fmt.Errorf("failed to allocate customer id: %w", err)
	}
	return fmt.Sprintf("C-%03d", max+1), nil
}

// FindDuplicate returns a customer sharing the given name or phone,
// or nil if none exists
func (r *CustomerRepository) FindDuplicate(ctx context.Context, name, phone string) (*customer.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE name = ? OR phone = ? LIMIT 1`
	row := r.db.conn(ctx).QueryRowContext(ctx, query, name, phone)

	c, err := scanCustomer(row)
	if err == repository.ErrNotFound {
		return nil, nil
	}
	return c, err
}

// AdjustBalance adds delta to the customer's running debt
func (r *CustomerRepository) AdjustBalance(ctx context.Context, id string, delta decimal.Decimal) error {
	return r.adjustMoneyColumn(ctx, id, "balance", delta)
}

// AddSpend adds delta to the lifetime spend counter
func (r *CustomerRepository) AddSpend(ctx context.Context, id string, delta decimal.Decimal) error {
	return r.adjustMoneyColumn(ctx, id, "total_spent", delta)
}

// IncrementSessions bumps the total session counter
func (r *CustomerRepository) IncrementSessions(ctx context.Context, id string) error {
	query := `
		UPDATE customers
		SET total_sessions = total_sessions + 1, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	result, err := r.db.conn(ctx).ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to increment sessions: %w", err)
	}
	return requireRow(result)
}

// adjustMoneyColumn does a read-modify-write on a decimal text column.
// Callers run inside a transaction, so the read and write are atomic.
func (r *CustomerRepository) adjustMoneyColumn(ctx context.Context, id, column string, delta decimal.Decimal) error {
	q := r.db.conn(ctx)

	var raw string
	err := q.QueryRowContext(ctx, `SELECT `+column+` FROM customers WHERE id = ?`, id).Scan(&raw)
	if err == sql.ErrNoRows {
		return repository.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to read customer %s: %w", column, err)
	}

	current, err := money.Parse(raw)
	if err != nil {
		return err
	}

	query := fmt.Sprintf("UPDATE customers SET %s = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?", column)
	if _, err := q.ExecContext(ctx, query, current.Add(delta).String(), id); err != nil {
		return fmt.Errorf("failed to update customer %s: %w", column, err)
	}

	return nil
}

func requireRow(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCustomerFrom(s rowScanner) (*customer.Customer, error) {
	var c customer.Customer
	var email, notes sql.NullString
	var balance, totalSpent string

	err := s.Scan(
		&c.ID,
		&c.HumanID,
		&c.Name,
		&c.Phone,
		&email,
		&notes,
		&balance,
		&totalSpent,
		&c.TotalSessions,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if email.Valid {
		c.Email = &email.String
	}
	if notes.Valid {
		c.Notes = &notes.String
	}
	if c.Balance, err = money.Parse(balance); err != nil {
		return nil, err
	}
	if c.TotalSpent, err = money.Parse(totalSpent); err != nil {
		return nil, err
	}

	return &c, nil
}

func scanCustomer(row *sql.Row) (*customer.Customer, error) {
	c, err := scanCustomerFrom(row)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return c, nil
}

func scanCustomerRows(rows *sql.Rows) (*customer.Customer, error) {
	c, err := scanCustomerFrom(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan customer: %w", err)
	}
	return c, nil
}
