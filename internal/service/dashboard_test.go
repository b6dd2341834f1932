package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardViews(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	paid := f.placeOrder(t, "user-1", program("prog-2", 1), coaching("coach-1", 2))
	f.placeOrder(t, "user-1", coaching("coach-1", 1)) // stays pending
	f.placeOrder(t, "user-2", program("prog-1", 1))
	require.NoError(t, f.deliver(t, completedEvent(t, "evt_1", orderMetadata(paid))))

	orders, err := f.dashboard.ListOrders(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, orders, 2)
	for _, o := range orders {
		assert.Equal(t, "user-1", o.UserID)
		assert.NotEmpty(t, o.Items)
	}

	progress, err := f.dashboard.ListProgramProgress(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, progress, 1)
	require.NotNil(t, progress[0].Program)
	assert.Equal(t, "Marathon Build", progress[0].Program.Name)

	bookings, err := f.dashboard.ListBookings(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, paid.ID, bookings[0].OrderID)
	assert.Equal(t, paid.OrderNumber, bookings[0].OrderNumber)
	assert.Equal(t, "coach-1", bookings[0].CoachingPackageID)
	assert.Equal(t, 2, bookings[0].Quantity)
	assert.NotEmpty(t, bookings[0].PurchasedAt)

	none, err := f.dashboard.ListBookings(ctx, "user-2")
	require.NoError(t, err)
	assert.Empty(t, none)
}
