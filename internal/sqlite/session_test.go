package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ofarouk/deskhub/internal/domain/inventory"
	"github.com/ofarouk/deskhub/internal/domain/resource"
	"github.com/ofarouk/deskhub/internal/domain/session"
	"github.com/ofarouk/deskhub/internal/money"
	"github.com/ofarouk/deskhub/internal/repository"
)

// seedSessionFixtures inserts a customer, a resource, and a stock item.
func seedSessionFixtures(t *testing.T, db *DB) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, NewCustomerRepository(db).Create(ctx,
		newTestCustomer("c1", "C-001", "Omar", "01012345678")))

	now := time.Now().UTC()
	require.NoError(t, NewResourceRepository(db).Create(ctx, &resource.Resource{
		ID:         "r1",
		Name:       "Desk 1",
		Type:       resource.TypeDesk,
		HourlyRate: money.MustParse("50"),
		Available:  true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}))
	require.NoError(t, NewInventoryRepository(db).Create(ctx, &inventory.Item{
		ID:        "i1",
		Name:      "Coffee",
		UnitPrice: money.MustParse("10.00"),
		Quantity:  10,
		CreatedAt: now,
		UpdatedAt: now,
	}))
}

func newActiveSession(id string, startedAt time.Time) *session.Session {
	return &session.Session{
		ID:             id,
		CustomerID:     "c1",
		ResourceID:     "r1",
		HourlyRate:     money.MustParse("50"),
		StartedAt:      startedAt,
		InventoryTotal: money.Zero(),
		SessionCost:    money.Zero(),
		TotalAmount:    money.Zero(),
		Status:         session.StatusActive,
		CreatedAt:      startedAt,
	}
}

func TestSessionRepository_SettleGuard(t *testing.T) {
	db := NewTestDB(t)
	seedSessionFixtures(t, db)
	repo := NewSessionRepository(db)
	ctx := context.Background()

	start := time.Now().UTC().Add(-time.Hour)
	require.NoError(t, repo.Create(ctx, newActiveSession("s1", start)))

	end := time.Now().UTC()
	err := repo.Settle(ctx, "s1", end, money.MustParse("50.00"), money.MustParse("50.00"))
	require.NoError(t, err)

	got, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, session.StatusCompleted, got.Status)
	require.NotNil(t, got.EndedAt)
	require.True(t, got.TotalAmount.Equal(money.MustParse("50.00")))

	// A second settle must hit the status guard
	err = repo.Settle(ctx, "s1", end, money.Zero(), money.Zero())
	require.ErrorIs(t, err, repository.ErrConflict)
}

func TestSessionRepository_HasActiveForCustomer(t *testing.T) {
	db := NewTestDB(t)
	seedSessionFixtures(t, db)
	repo := NewSessionRepository(db)
	ctx := context.Background()

	active, err := repo.HasActiveForCustomer(ctx, "c1")
	require.NoError(t, err)
	require.False(t, active)

	require.NoError(t, repo.Create(ctx, newActiveSession("s1", time.Now().UTC())))

	active, err = repo.HasActiveForCustomer(ctx, "c1")
	require.NoError(t, err)
	require.True(t, active)
}

func TestSessionRepository_Lines(t *testing.T) {
	db := NewTestDB(t)
	seedSessionFixtures(t, db)
	repo := NewSessionRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newActiveSession("s1", time.Now().UTC())))

	line := &session.Line{
		SessionID: "s1",
		ItemID:    "i1",
		ItemName:  "Coffee",
		Quantity:  2,
		UnitPrice: money.MustParse("10.00"),
		AddedAt:   time.Now().UTC(),
	}
	require.NoError(t, repo.ReplaceLine(ctx, line))

	// Replacing merges into a single row for the pair
	line.Quantity = 5
	require.NoError(t, repo.ReplaceLine(ctx, line))

	lines, err := repo.ListLines(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	require.Equal(t, 5, lines[0].Quantity)
	require.True(t, lines[0].UnitPrice.Equal(money.MustParse("10.00")))

	got, err := repo.GetLine(ctx, "s1", "i1")
	require.NoError(t, err)
	require.Equal(t, 5, got.Quantity)

	require.NoError(t, repo.DeleteLine(ctx, "s1", "i1"))
	_, err = repo.GetLine(ctx, "s1", "i1")
	require.ErrorIs(t, err, repository.ErrNotFound)
	require.ErrorIs(t, repo.DeleteLine(ctx, "s1", "i1"), repository.ErrNotFound)
}

func TestSessionRepository_InventoryTotalAccumulates(t *testing.T) {
	db := NewTestDB(t)
	seedSessionFixtures(t, db)
	repo := NewSessionRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newActiveSession("s1", time.Now().UTC())))

	require.NoError(t, repo.AddToInventoryTotal(ctx, "s1", money.MustParse("20.00")))
	require.NoError(t, repo.AddToInventoryTotal(ctx, "s1", money.MustParse("-5.00")))

	got, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	require.True(t, got.InventoryTotal.Equal(money.MustParse("15.00")), "total is %s", got.InventoryTotal)
}

func TestSessionRepository_ListActiveStartedBefore(t *testing.T) {
	db := NewTestDB(t)
	seedSessionFixtures(t, db)
	repo := NewSessionRepository(db)
	ctx := context.Background()

	old := time.Now().UTC().Add(-13 * time.Hour)
	require.NoError(t, repo.Create(ctx, newActiveSession("s1", old)))

	stale, err := repo.ListActiveStartedBefore(ctx, time.Now().UTC().Add(-12*time.Hour))
	require.NoError(t, err)
	require.Len(t, stale, 1)
	require.Equal(t, "s1", stale[0].ID)

	stale, err = repo.ListActiveStartedBefore(ctx, time.Now().UTC().Add(-14*time.Hour))
	require.NoError(t, err)
	require.Empty(t, stale)
}
