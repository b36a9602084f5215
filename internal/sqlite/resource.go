package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ofarouk/deskhub/internal/domain/resource"
	"github.com/ofarouk/deskhub/internal/money"
	"github.com/ofarouk/deskhub/internal/repository"
)

// ResourceRepository provides SQLite persistence for bookable resources
type ResourceRepository struct {
	db *DB
}

// NewResourceRepository creates a new ResourceRepository
func NewResourceRepository(db *DB) *ResourceRepository {
	return &ResourceRepository{db: db}
}

const resourceColumns = `
	id, name, resource_type, hourly_rate, is_available, created_at, updated_at
`

// Create inserts a new resource
func (r *ResourceRepository) Create(ctx context.Context, res *resource.Resource) error {
	query := `
		INSERT INTO resources (id, name, resource_type, hourly_rate, is_available)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := r.db.conn(ctx).ExecContext(ctx, query,
		res.ID,
		res.Name,
		string(res.Type),
		res.HourlyRate.String(),
		res.Available,
	)
	if err != nil {
		if isCheckViolation(err) {
			return repository.ErrInvalidInput
		}
		return fmt.Errorf("failed to create resource: %w", err)
	}

	return nil
}

// Get retrieves a resource by ID
func (r *ResourceRepository) Get(ctx context.Context, id string) (*resource.Resource, error) {
	query := `SELECT ` + resourceColumns + ` FROM resources WHERE id = ?`
	res, err := scanResource(r.db.conn(ctx).QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}
	return res, nil
}

// List returns all resources ordered by name
func (r *ResourceRepository) List(ctx context.Context) ([]resource.Resource, error) {
	query := `SELECT ` + resourceColumns + ` FROM resources ORDER BY name ASC`

	rows, err := r.db.conn(ctx).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list resources: %w", err)
	}
	defer rows.Close()

	var resources []resource.Resource
	for rows.Next() {
		res, err := scanResourceRows(rows)
		if err != nil {
			return nil, err
		}
		resources = append(resources, *res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating resources: %w", err)
	}

	return resources, nil
}

// Update applies a partial update
func (r *ResourceRepository) Update(ctx context.Context, id string, patch resource.Patch) error {
	var set setClause
	if patch.Name != nil {
		set.set("name", *patch.Name)
	}
	if patch.Type != nil {
		set.set("resource_type", string(*patch.Type))
	}
	if patch.HourlyRate != nil {
		set.set("hourly_rate", patch.HourlyRate.String())
	}
	return set.apply(ctx, r.db.conn(ctx), "resources", id)
}

// Delete removes a resource
func (r *ResourceRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.conn(ctx).ExecContext(ctx, `DELETE FROM resources WHERE id = ?`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to delete resource: %w", err)
	}
	return requireRow(result)
}

// SetAvailable flips the availability flag
func (r *ResourceRepository) SetAvailable(ctx context.Context, id string, available bool) error {
	query := `
		UPDATE resources
		SET is_available = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	result, err := r.db.conn(ctx).ExecContext(ctx, query, available, id)
	if err != nil {
		return fmt.Errorf("failed to set resource availability: %w", err)
	}
	return requireRow(result)
}

func scanResourceFrom(s rowScanner) (*resource.Resource, error) {
	var res resource.Resource
	var resType, rate string

	err := s.Scan(
		&res.ID,
		&res.Name,
		&resType,
		&rate,
		&res.Available,
		&res.CreatedAt,
		&res.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	res.Type = resource.Type(resType)
	if res.HourlyRate, err = money.Parse(rate); err != nil {
		return nil, err
	}

	return &res, nil
}

func scanResource(row *sql.Row) (*resource.Resource, error) {
	res, err := scanResourceFrom(row)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get resource: %w", err)
	}
	return res, nil
}

func scanResourceRows(rows *sql.Rows) (*resource.Resource, error) {
	res, err := scanResourceFrom(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan resource: %w", err)
	}
	return res, nil
}
