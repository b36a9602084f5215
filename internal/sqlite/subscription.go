package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ofarouk/deskhub/internal/domain/subscription"
	"github.com/ofarouk/deskhub/internal/money"
	"github.com/ofarouk/deskhub/internal/repository"
)

// SubscriptionRepository provides SQLite persistence for subscriptions
type SubscriptionRepository struct {
	db *DB
}

// NewSubscriptionRepository creates a new SubscriptionRepository
func NewSubscriptionRepository(db *DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

const subscriptionColumns = `
	id, customer_id, plan, price, start_date, end_date, status, created_at
`

// Create inserts a new subscription
func (r *SubscriptionRepository) Create(ctx context.Context, sub *subscription.Subscription) error {
	query := `
		INSERT INTO subscriptions (id, customer_id, plan, price, start_date, end_date, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.conn(ctx).ExecContext(ctx, query,
		sub.ID,
		sub.CustomerID,
		string(sub.Plan),
		sub.Price.String(),
		sub.StartDate,
		sub.EndDate,
		string(sub.Status),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrNotFound
		}
		if isCheckViolation(err) {
			return repository.ErrInvalidInput
		}
		return fmt.Errorf("failed to create subscription: %w", err)
	}

	return nil
}

// Get retrieves a subscription by ID
func (r *SubscriptionRepository) Get(ctx context.Context, id string) (*subscription.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE id = ?`

	sub, err := scanSubscriptionFrom(r.db.conn(ctx).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	return sub, nil
}

// List returns all subscriptions, newest first
func (r *SubscriptionRepository) List(ctx context.Context) ([]subscription.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions ORDER BY created_at DESC`
	return r.queryMany(ctx, query)
}

// ListByCustomer returns a customer's subscriptions, newest first
func (r *SubscriptionRepository) ListByCustomer(ctx context.Context, customerID string) ([]subscription.Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM subscriptions
		WHERE customer_id = ?
		ORDER BY created_at DESC
	`
	return r.queryMany(ctx, query, customerID)
}

// SetStatus updates the lifecycle status
func (r *SubscriptionRepository) SetStatus(ctx context.Context, id string, status subscription.Status) error {
	query := `UPDATE subscriptions SET status = ? WHERE id = ?`

	result, err := r.db.conn(ctx).ExecContext(ctx, query, string(status), id)
	if err != nil {
		return fmt.Errorf("failed to set subscription status: %w", err)
	}
	return requireRow(result)
}

// Delete removes a subscription
func (r *SubscriptionRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.conn(ctx).ExecContext(ctx, `DELETE FROM subscriptions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete subscription: %w", err)
	}
	return requireRow(result)
}

// ExpireDue marks every active subscription whose end date has passed
// as expired, returning the number updated
func (r *SubscriptionRepository) ExpireDue(ctx context.Context, now time.Time) (int, error) {
	query := `UPDATE subscriptions SET status = 'expired' WHERE status = 'active' AND end_date <= ?`

	result, err := r.db.conn(ctx).ExecContext(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("failed to expire subscriptions: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return int(n), nil
}

// HasActiveOn reports whether the customer holds an active subscription
// covering the given instant
func (r *SubscriptionRepository) HasActiveOn(ctx context.Context, customerID string, at time.Time) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM subscriptions
			WHERE customer_id = ? AND status = 'active'
			  AND start_date <= ? AND end_date > ?
		)
	`

	var exists bool
	err := r.db.conn(ctx).QueryRowContext(ctx, query, customerID, at, at).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check subscription: %w", err)
	}
	return exists, nil
}

func (r *SubscriptionRepository) queryMany(ctx context.Context, query string, args ...any) ([]subscription.Subscription, error) {
	rows, err := r.db.conn(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []subscription.Subscription
	for rows.Next() {
		sub, err := scanSubscriptionFrom(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan subscription: %w", err)
		}
		subs = append(subs, *sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subscriptions: %w", err)
	}

	return subs, nil
}

func scanSubscriptionFrom(s rowScanner) (*subscription.Subscription, error) {
	var sub subscription.Subscription
	var plan, price, status string

	err := s.Scan(
		&sub.ID,
		&sub.CustomerID,
		&plan,
		&price,
		&sub.StartDate,
		&sub.EndDate,
		&status,
		&sub.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	sub.Plan = subscription.Plan(plan)
	sub.Status = subscription.Status(status)
	if sub.Price, err = money.Parse(price); err != nil {
		return nil, err
	}

	return &sub, nil
}
