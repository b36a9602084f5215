package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ofarouk/deskhub/internal/domain/session"
	"github.com/ofarouk/deskhub/internal/money"
	"github.com/ofarouk/deskhub/internal/repository"
)

// SessionRepository provides SQLite persistence for sessions and their lines
type SessionRepository struct {
	db *DB
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db}
}

const sessionColumns = `
	id, customer_id, resource_id, hourly_rate, started_at, ended_at,
	subscribed, inventory_total, session_cost, total_amount, status, created_at
`

// Create inserts a new session
func (r *SessionRepository) Create(ctx context.Context, sess *session.Session) error {
	query := `
		INSERT INTO sessions (
			id, customer_id, resource_id, hourly_rate, started_at, ended_at,
			subscribed, inventory_total, session_cost, total_amount, status
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.conn(ctx).ExecContext(ctx, query,
		sess.ID,
		sess.CustomerID,
		sess.ResourceID,
		sess.HourlyRate.String(),
		sess.StartedAt,
		sess.EndedAt,
		sess.Subscribed,
		sess.InventoryTotal.String(),
		sess.SessionCost.String(),
		sess.TotalAmount.String(),
		string(sess.Status),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrNotFound
		}
		return fmt.Errorf("failed to create session: %w", err)
	}

	return nil
}

// Get retrieves a session by ID
func (r *SessionRepository) Get(ctx context.Context, id string) (*session.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = ?`

	sess, err := scanSessionFrom(r.db.conn(ctx).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return sess, nil
}

// ListActive returns all active sessions, newest first
func (r *SessionRepository) ListActive(ctx context.Context) ([]session.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE status = 'active'
		ORDER BY started_at DESC
	`
	return r.queryMany(ctx, query)
}

// ListActiveStartedBefore returns active sessions older than the cutoff,
// oldest first. Used by the stale-session sweep.
func (r *SessionRepository) ListActiveStartedBefore(ctx context.Context, cutoff time.Time) ([]session.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE status = 'active' AND started_at < ?
		ORDER BY started_at ASC
	`
	return r.queryMany(ctx, query, cutoff)
}

// HasActiveForCustomer reports whether the customer has an active session
func (r *SessionRepository) HasActiveForCustomer(ctx context.Context, customerID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM sessions WHERE customer_id = ? AND status = 'active')`

	var exists bool
	err := r.db.conn(ctx).QueryRowContext(ctx, query, customerID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check active session: %w", err)
	}
	return exists, nil
}

// Settle transitions an active session to completed with its final
// amounts. The status guard in the WHERE clause makes a second settle of
// the same session report ErrConflict instead of double-charging.
func (r *SessionRepository) Settle(ctx context.Context, id string, endedAt time.Time, sessionCost, totalAmount decimal.Decimal) error {
	query := `
		UPDATE sessions
		SET ended_at = ?, session_cost = ?, total_amount = ?, status = 'completed'
		WHERE id = ? AND status = 'active'
	`

	result, err := r.db.conn(ctx).ExecContext(ctx, query,
		endedAt, sessionCost.String(), totalAmount.String(), id)
	if err != nil {
		return fmt.Errorf("failed to settle session: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrConflict
	}

	return nil
}

// AddToInventoryTotal adjusts the running accumulator by a signed delta
func (r *SessionRepository) AddToInventoryTotal(ctx context.Context, id string, delta decimal.Decimal) error {
	q := r.db.conn(ctx)

	var raw string
	err := q.QueryRowContext(ctx, `SELECT inventory_total FROM sessions WHERE id = ?`, id).Scan(&raw)
	if err == sql.ErrNoRows {
		return repository.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to read inventory total: %w", err)
	}

	current, err := money.Parse(raw)
	if err != nil {
		return err
	}

	_, err = q.ExecContext(ctx,
		`UPDATE sessions SET inventory_total = ? WHERE id = ?`,
		current.Add(delta).String(), id)
	if err != nil {
		return fmt.Errorf("failed to update inventory total: %w", err)
	}

	return nil
}

// GetLine retrieves the coalesced line for a (session, item) pair
func (r *SessionRepository) GetLine(ctx context.Context, sessionID, itemID string) (*session.Line, error) {
	query := `
		SELECT session_id, item_id, item_name, quantity, unit_price, added_at
		FROM session_items
		WHERE session_id = ? AND item_id = ?
	`

	line, err := scanLineFrom(r.db.conn(ctx).QueryRowContext(ctx, query, sessionID, itemID))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session item: %w", err)
	}
	return line, nil
}

// ListLines returns a session's lines in attachment order
func (r *SessionRepository) ListLines(ctx context.Context, sessionID string) ([]session.Line, error) {
	query := `
		SELECT session_id, item_id, item_name, quantity, unit_price, added_at
		FROM session_items
		WHERE session_id = ?
		ORDER BY added_at ASC
	`

	rows, err := r.db.conn(ctx).QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list session items: %w", err)
	}
	defer rows.Close()

	var lines []session.Line
	for rows.Next() {
		line, err := scanLineFrom(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session item: %w", err)
		}
		lines = append(lines, *line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating session items: %w", err)
	}

	return lines, nil
}

// ReplaceLine deletes any existing line for the pair and inserts the
// given one, keeping a single authoritative price-snapshot row
func (r *SessionRepository) ReplaceLine(ctx context.Context, line *session.Line) error {
	q := r.db.conn(ctx)

	_, err := q.ExecContext(ctx,
		`DELETE FROM session_items WHERE session_id = ? AND item_id = ?`,
		line.SessionID, line.ItemID)
	if err != nil {
		return fmt.Errorf("failed to replace session item: %w", err)
	}

	query := `
		INSERT INTO session_items (session_id, item_id, item_name, quantity, unit_price, added_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err = q.ExecContext(ctx, query,
		line.SessionID,
		line.ItemID,
		line.ItemName,
		line.Quantity,
		line.UnitPrice.String(),
		line.AddedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrNotFound
		}
		return fmt.Errorf("failed to insert session item: %w", err)
	}

	return nil
}

// DeleteLine removes the line for a (session, item) pair
func (r *SessionRepository) DeleteLine(ctx context.Context, sessionID, itemID string) error {
	result, err := r.db.conn(ctx).ExecContext(ctx,
		`DELETE FROM session_items WHERE session_id = ? AND item_id = ?`,
		sessionID, itemID)
	if err != nil {
		return fmt.Errorf("failed to delete session item: %w", err)
	}
	return requireRow(result)
}

func (r *SessionRepository) queryMany(ctx context.Context, query string, args ...any) ([]session.Session, error) {
	rows, err := r.db.conn(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []session.Session
	for rows.Next() {
		sess, err := scanSessionFrom(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, *sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sessions: %w", err)
	}

	return sessions, nil
}

func scanSessionFrom(s rowScanner) (*session.Session, error) {
	var sess session.Session
	var endedAt sql.NullTime
	var rate, invTotal, cost, total, status string

	err := s.Scan(
		&sess.ID,
		&sess.CustomerID,
		&sess.ResourceID,
		&rate,
		&sess.StartedAt,
		&endedAt,
		&sess.Subscribed,
		&invTotal,
		&cost,
		&total,
		&status,
		&sess.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if endedAt.Valid {
		sess.EndedAt = &endedAt.Time
	}
	sess.Status = session.Status(status)
	if sess.HourlyRate, err = money.Parse(rate); err != nil {
		return nil, err
	}
	if sess.InventoryTotal, err = money.Parse(invTotal); err != nil {
		return nil, err
	}
	if sess.SessionCost, err = money.Parse(cost); err != nil {
		return nil, err
	}
	if sess.TotalAmount, err = money.Parse(total); err != nil {
		return nil, err
	}

	return &sess, nil
}

func scanLineFrom(s rowScanner) (*session.Line, error) {
	var line session.Line
	var price string

	err := s.Scan(
		&line.SessionID,
		&line.ItemID,
		&line.ItemName,
		&line.Quantity,
		&price,
		&line.AddedAt,
	)
	if err != nil {
		return nil, err
	}

	if line.UnitPrice, err = money.Parse(price); err != nil {
		return nil, err
	}

	return &line, nil
}
