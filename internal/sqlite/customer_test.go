package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ofarouk/deskhub/internal/domain/customer"
	"github.com/ofarouk/deskhub/internal/money"
	"github.com/ofarouk/deskhub/internal/repository"
)

func newTestCustomer(id, humanID, name, phone string) *customer.Customer {
	now := time.Now().UTC()
	return &customer.Customer{
		ID:         id,
		HumanID:    humanID,
		Name:       name,
		Phone:      phone,
		Balance:    money.Zero(),
		TotalSpent: money.Zero(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func TestCustomerRepository_CreateAndGet(t *testing.T) {
	db := NewTestDB(t)
	repo := NewCustomerRepository(db)
	ctx := context.Background()

	err := repo.Create(ctx, newTestCustomer("c1", "C-001", "Omar", "01012345678"))
	require.NoError(t, err)

	got, err := repo.Get(ctx, "c1")
	require.NoError(t, err)
	require.Equal(t, "Omar", got.Name)
	require.Equal(t, "C-001", got.HumanID)
	require.True(t, got.Balance.IsZero())
	require.Nil(t, got.Email)

	_, err = repo.Get(ctx, "missing")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCustomerRepository_UpdatePatch(t *testing.T) {
	db := NewTestDB(t)
	repo := NewCustomerRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newTestCustomer("c1", "C-001", "Omar", "01012345678")))

	name := "Omar F."
	email := "omar@example.com"
	err := repo.Update(ctx, "c1", customer.Patch{Name: &name, Email: &email})
	require.NoError(t, err)

	got, err := repo.Get(ctx, "c1")
	require.NoError(t, err)
	require.Equal(t, "Omar F.", got.Name)
	require.NotNil(t, got.Email)
	require.Equal(t, "omar@example.com", *got.Email)
	require.Equal(t, "01012345678", got.Phone, "unpatched field must survive")

	err = repo.Update(ctx, "missing", customer.Patch{Name: &name})
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCustomerRepository_NextHumanID(t *testing.T) {
	db := NewTestDB(t)
	repo := NewCustomerRepository(db)
	ctx := context.Background()

	id, err := repo.NextHumanID(ctx)
	require.NoError(t, err)
	require.Equal(t, "C-001", id)

	require.NoError(t, repo.Create(ctx, newTestCustomer("c1", "C-001", "A", "0100")))
	require.NoError(t, repo.Create(ctx, newTestCustomer("c2", "C-002", "B", "0101")))

	id, err = repo.NextHumanID(ctx)
	require.NoError(t, err)
	require.Equal(t, "C-003", id)

	// Deleting the highest holder frees its number; the next id can
	// never collide with a live customer
	require.NoError(t, repo.Delete(ctx, "c2"))
	id, err = repo.NextHumanID(ctx)
	require.NoError(t, err)
	require.Equal(t, "C-002", id)
}

func TestCustomerRepository_FindDuplicate(t *testing.T) {
	db := NewTestDB(t)
	repo := NewCustomerRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newTestCustomer("c1", "C-001", "Omar", "01012345678")))

	dup, err := repo.FindDuplicate(ctx, "Omar", "other")
	require.NoError(t, err)
	require.NotNil(t, dup)
	require.Equal(t, "c1", dup.ID)

	dup, err = repo.FindDuplicate(ctx, "Someone Else", "01012345678")
	require.NoError(t, err)
	require.NotNil(t, dup)

	dup, err = repo.FindDuplicate(ctx, "Someone Else", "other")
	require.NoError(t, err)
	require.Nil(t, dup)
}

func TestCustomerRepository_BalanceAndSpend(t *testing.T) {
	db := NewTestDB(t)
	repo := NewCustomerRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newTestCustomer("c1", "C-001", "Omar", "01012345678")))

	require.NoError(t, repo.AdjustBalance(ctx, "c1", money.MustParse("75.00")))
	require.NoError(t, repo.AdjustBalance(ctx, "c1", money.MustParse("-40.00")))
	require.NoError(t, repo.AddSpend(ctx, "c1", money.MustParse("40.00")))
	require.NoError(t, repo.IncrementSessions(ctx, "c1"))

	got, err := repo.Get(ctx, "c1")
	require.NoError(t, err)
	require.True(t, got.Balance.Equal(money.MustParse("35.00")), "balance is %s", got.Balance)
	require.True(t, got.TotalSpent.Equal(money.MustParse("40.00")))
	require.Equal(t, 1, got.TotalSessions)

	require.ErrorIs(t, repo.AdjustBalance(ctx, "missing", money.Zero()), repository.ErrNotFound)
}
