package repository

import (
	"context"
	"testing"
	"time"

	"github.com/fitcoach/fitcoach-api/internal/model"
	"github.com/fitcoach/fitcoach-api/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func strPtr(s string) *string { return &s }

func createOrder(t *testing.T, db *gorm.DB, id string, items ...*model.OrderItem) {
	t.Helper()
	ctx := context.Background()
	repo := NewOrderRepository(db)

	require.NoError(t, repo.Create(ctx, nil, &model.Order{
		ID:          id,
		UserID:      "user-1",
		OrderNumber: "FC-" + id,
		Status:      model.OrderStatusPending,
		Subtotal:    decimal.RequireFromString("49.99"),
		Total:       decimal.RequireFromString("49.99"),
		Currency:    "USD",
	}))
	if len(items) > 0 {
		for _, it := range items {
			it.OrderID = id
		}
		require.NoError(t, repo.CreateOrderItems(ctx, nil, items))
	}
}

func TestOrderStatusCompareAndSet(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	repo := NewOrderRepository(db)

	createOrder(t, db, "order-1", &model.OrderItem{ProgramID: strPtr("prog-1"), Name: "Strength", Price: decimal.RequireFromString("49.99"), Currency: "USD", Quantity: 1})

	ok, err := repo.MarkCompleted(ctx, nil, "order-1", &Completion{PaymentIntentID: "pi_1", CustomerID: "cus_1", Billing: model.BillingDetails{Name: "Ada", Country: "GB"}, CompletedAt: time.Now()})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.MarkCompleted(ctx, nil, "order-1", &Completion{PaymentIntentID: "pi_2"})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.MarkFailed(ctx, nil, "order-1")
	require.NoError(t, err)
	assert.False(t, ok)

	order, err := repo.FindByID(ctx, nil, "order-1")
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusCompleted, order.Status)
	require.NotNil(t, order.PaymentIntentID)
	assert.Equal(t, "pi_1", *order.PaymentIntentID)
	assert.Equal(t, "Ada", order.Billing.Name)
	require.Len(t, order.Items, 1)
	assert.True(t, decimal.RequireFromString("49.99").Equal(order.Items[0].Price))
}

func TestMarkUnknownOrder(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewOrderRepository(db)

	ok, err := repo.MarkFailed(context.Background(), nil, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	err = repo.AttachCheckoutSession(context.Background(), "missing", "cs_1")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestProgressGrantIsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	repo := NewProgressRepository(db)
	testutil.SeedCatalog(t, db)

	for i, want := range []bool{true, false} {
		created, err := repo.Grant(ctx, db, &model.ProgramProgress{UserID: "user-1", ProgramID: "prog-1", CurrentWeek: 1, CurrentDay: 1, StartedAt: time.Now()})
		require.NoError(t, err)
		assert.Equal(t, want, created, "attempt %d", i)
	}

	rows, err := repo.ListByUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].Program)
	assert.Equal(t, "Strength Foundations", rows[0].Program.Name)
}

func TestWebhookEventRecord(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	repo := NewWebhookEventRepository(db)

	recorded, err := repo.Record(ctx, db, "evt_1", "checkout.session.completed")
	require.NoError(t, err)
	assert.True(t, recorded)

	recorded, err = repo.Record(ctx, db, "evt_1", "checkout.session.completed")
	require.NoError(t, err)
	assert.False(t, recorded)

	var count int64
	require.NoError(t, db.Model(&model.WebhookEvent{}).Where("event_id = ?", "evt_1").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestEnrollmentIncrement(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	repo := NewProductRepository(db)
	testutil.SeedCatalog(t, db)

	require.NoError(t, repo.IncrementProgramEnrollment(ctx, db, "prog-1"))
	require.NoError(t, repo.IncrementProgramEnrollment(ctx, db, "prog-1"))
	require.NoError(t, repo.IncrementCoachingEnrollment(ctx, db, "coach-1"))

	program, err := repo.FindProgram(ctx, "prog-1")
	require.NoError(t, err)
	assert.Equal(t, 2, program.EnrollmentCount)

	pkg, err := repo.FindCoachingPackage(ctx, "coach-1")
	require.NoError(t, err)
	assert.Equal(t, 1, pkg.EnrollmentCount)
}

func TestSeedIsRepeatable(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	repo := NewProductRepository(db)

	require.NoError(t, repo.Seed(ctx))
	require.NoError(t, repo.Seed(ctx))

	programs, err := repo.ListPrograms(ctx)
	require.NoError(t, err)
	assert.Len(t, programs, 3)

	packages, err := repo.ListCoachingPackages(ctx)
	require.NoError(t, err)
	assert.Len(t, packages, 2)
}

func TestListCompletedCoachingItems(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	repo := NewOrderRepository(db)

	createOrder(t, db, "order-1", &model.OrderItem{CoachingPackageID: strPtr("coach-1"), Name: "Coaching", Price: decimal.NewFromInt(300), Currency: "USD", Quantity: 1})
	createOrder(t, db, "order-2", &model.OrderItem{CoachingPackageID: strPtr("coach-1"), Name: "Coaching", Price: decimal.NewFromInt(300), Currency: "USD", Quantity: 1})

	_, err := repo.MarkCompleted(ctx, nil, "order-1", &Completion{CompletedAt: time.Now()})
	require.NoError(t, err)

	rows, err := repo.ListCompletedCoachingItems(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "order-1", rows[0].OrderID)
	assert.Equal(t, "FC-order-1", rows[0].OrderNumber)
}
