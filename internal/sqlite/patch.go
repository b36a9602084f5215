package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/ofarouk/deskhub/internal/repository"
)

// setClause collects column assignments for a partial update so every
// entity updater shares one parameterized statement construction path.
type setClause struct {
	assignments []string
	args        []any
}

func (s *setClause) set(column string, value any) {
	s.assignments = append(s.assignments, column+" = ?")
	s.args = append(s.args, value)
}

func (s *setClause) empty() bool {
	return len(s.assignments) == 0
}

// apply issues a single UPDATE touching only the collected columns and
// stamps updated_at. Returns repository.ErrNotFound if no row matched.
func (s *setClause) apply(ctx context.Context, q querier, table, id string) error {
	if s.empty() {
		return nil
	}

	query := fmt.Sprintf(
		"UPDATE %s SET %s, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		table, strings.Join(s.assignments, ", "),
	)
	args := append(s.args, id)

	result, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", table, err)
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
