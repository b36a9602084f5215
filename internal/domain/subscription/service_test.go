package subscription_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ofarouk/deskhub/internal/domain/customer"
	"github.com/ofarouk/deskhub/internal/domain/subscription"
	"github.com/ofarouk/deskhub/internal/money"
	"github.com/ofarouk/deskhub/internal/sqlite"
)

type env struct {
	svc  *subscription.Service
	subs *sqlite.SubscriptionRepository
}

func newEnv(t *testing.T) *env {
	t.Helper()

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	customers := sqlite.NewCustomerRepository(db)
	subs := sqlite.NewSubscriptionRepository(db)

	require.NoError(t, customers.Create(context.Background(), &customer.Customer{
		ID: "c1", HumanID: "C-001", Name: "Omar", Phone: "0100",
		Balance: money.Zero(), TotalSpent: money.Zero(),
	}))

	return &env{
		svc:  subscription.NewService(db, subs, customers, logger),
		subs: subs,
	}
}

func TestSubscribe(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	sub, err := e.svc.Subscribe(ctx, "c1", subscription.PlanWeekly, money.MustParse("300"))
	require.NoError(t, err)
	require.Equal(t, subscription.StatusActive, sub.Status)
	require.Equal(t, 7*24*time.Hour, sub.EndDate.Sub(sub.StartDate))
	require.True(t, sub.Covers(time.Now().UTC()))

	// One active subscription at a time
	_, err = e.svc.Subscribe(ctx, "c1", subscription.PlanMonthly, money.MustParse("900"))
	require.ErrorIs(t, err, subscription.ErrAlreadySubscribed)
}

func TestSubscribe_Validation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.svc.Subscribe(ctx, "c1", "yearly", money.MustParse("300"))
	require.ErrorIs(t, err, subscription.ErrInvalidPlan)

	_, err = e.svc.Subscribe(ctx, "c1", subscription.PlanWeekly, money.MustParse("-1"))
	require.ErrorIs(t, err, subscription.ErrInvalidPrice)

	_, err = e.svc.Subscribe(ctx, "missing", subscription.PlanWeekly, money.MustParse("300"))
	require.ErrorIs(t, err, subscription.ErrCustomerNotFound)
}

func TestCancel(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	sub, err := e.svc.Subscribe(ctx, "c1", subscription.PlanWeekly, money.MustParse("300"))
	require.NoError(t, err)

	require.NoError(t, e.svc.Cancel(ctx, sub.ID))

	got, err := e.svc.Get(ctx, sub.ID)
	require.NoError(t, err)
	require.Equal(t, subscription.StatusCancelled, got.Status)
	require.False(t, got.Covers(time.Now().UTC()))

	require.ErrorIs(t, e.svc.Cancel(ctx, sub.ID), subscription.ErrNotActive)
	require.ErrorIs(t, e.svc.Cancel(ctx, "missing"), subscription.ErrNotFound)

	// Cancelling frees the customer to subscribe again
	_, err = e.svc.Subscribe(ctx, "c1", subscription.PlanMonthly, money.MustParse("900"))
	require.NoError(t, err)
}

func TestExpireDue(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	now := time.Now().UTC()
	require.NoError(t, e.subs.Create(ctx, &subscription.Subscription{
		ID: "sub1", CustomerID: "c1", Plan: subscription.PlanWeekly,
		Price:     money.MustParse("300"),
		StartDate: now.Add(-8 * 24 * time.Hour), EndDate: now.Add(-24 * time.Hour),
		Status: subscription.StatusActive, CreatedAt: now,
	}))

	n, err := e.svc.ExpireDue(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	got, err := e.svc.Get(ctx, "sub1")
	require.NoError(t, err)
	require.Equal(t, subscription.StatusExpired, got.Status)

	// Idempotent
	n, err = e.svc.ExpireDue(ctx)
	require.NoError(t, err)
	require.Zero(t, n)
}
