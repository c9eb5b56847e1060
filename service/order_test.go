package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartshop/model"
	"smartshop/pkg/storage"
)

func newTestOrderLedger(t *testing.T) (*OrderLedger, *CartLedger, *storage.MemoryStore) {
	t.Helper()
	cart, store := newTestCart(t)
	return NewOrderLedger(store, cart), cart, store
}

func checkoutItems(t *testing.T, cart *CartLedger) []model.CartItemDetail {
	t.Helper()
	items, err := cart.ItemsWithDetails(context.Background())
	require.NoError(t, err)
	return items
}

func TestOrderLedger_CreateOrder_SequentialIDs(t *testing.T) {
	orders, cart, _ := newTestOrderLedger(t)
	ctx := context.Background()

	require.NoError(t, cart.AddItem(ctx, 1, 1))
	first, err := orders.CreateOrder(ctx, checkoutItems(t, cart), "地址一", 50, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.ID)

	require.NoError(t, cart.AddItem(ctx, 2, 1))
	second, err := orders.CreateOrder(ctx, checkoutItems(t, cart), "地址二", 25, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.ID)

	assert.NotEqual(t, first.OrderNo, second.OrderNo)
}

func TestOrderLedger_CreateOrder_ClearsCart(t *testing.T) {
	orders, cart, _ := newTestOrderLedger(t)
	ctx := context.Background()

	require.NoError(t, cart.AddItem(ctx, 1, 2))
	require.NoError(t, cart.AddItem(ctx, 2, 1))

	_, err := orders.CreateOrder(ctx, checkoutItems(t, cart), "某地址", 125, nil)
	require.NoError(t, err)

	count, err := cart.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count, "checkout empties the cart")
}

func TestOrderLedger_CreateOrder_SnapshotsItems(t *testing.T) {
	orders, cart, store := newTestOrderLedger(t)
	ctx := context.Background()

	require.NoError(t, cart.AddItem(ctx, 1, 2))
	created, err := orders.CreateOrder(ctx, checkoutItems(t, cart), "某地址", 100, nil)
	require.NoError(t, err)

	require.Len(t, created.Items, 1)
	assert.Equal(t, "无线蓝牙耳机", created.Items[0].ProductName)
	assert.InDelta(t, 50.0, created.Items[0].Price, 1e-9)
	assert.Equal(t, 2, created.Items[0].Quantity)

	// 之后改目录价格，已有订单不受影响
	repriced := make([]model.Product, len(testProducts))
	copy(repriced, testProducts)
	repriced[0].Price = 9999
	require.NoError(t, store.Set(ctx, storage.KeyProducts, repriced))

	persisted, err := orders.List(ctx)
	require.NoError(t, err)
	require.Len(t, persisted, 1)
	assert.InDelta(t, 50.0, persisted[0].Items[0].Price, 1e-9, "order items are frozen at creation time")
}

func TestOrderLedger_CreateOrder_AttachesUser(t *testing.T) {
	orders, cart, _ := newTestOrderLedger(t)
	ctx := context.Background()

	require.NoError(t, cart.AddItem(ctx, 1, 1))
	user := &model.User{ID: 7, Username: "alice"}
	created, err := orders.CreateOrder(ctx, checkoutItems(t, cart), "某地址", 50, user)
	require.NoError(t, err)
	assert.Equal(t, int64(7), created.UserID)
	assert.Equal(t, model.OrderStatusPending, created.Status)
	assert.False(t, created.OrderTime.IsZero())
}

func TestOrderLedger_CreateOrder_NoUser(t *testing.T) {
	orders, cart, _ := newTestOrderLedger(t)
	ctx := context.Background()

	require.NoError(t, cart.AddItem(ctx, 1, 1))
	created, err := orders.CreateOrder(ctx, checkoutItems(t, cart), "某地址", 50, nil)
	require.NoError(t, err)
	assert.Zero(t, created.UserID)
}

func TestOrderLedger_ListForUser(t *testing.T) {
	orders, cart, _ := newTestOrderLedger(t)
	ctx := context.Background()

	alice := &model.User{ID: 1}
	bob := &model.User{ID: 2}

	require.NoError(t, cart.AddItem(ctx, 1, 1))
	_, err := orders.CreateOrder(ctx, checkoutItems(t, cart), "a", 50, alice)
	require.NoError(t, err)

	require.NoError(t, cart.AddItem(ctx, 2, 1))
	_, err = orders.CreateOrder(ctx, checkoutItems(t, cart), "b", 25, bob)
	require.NoError(t, err)

	require.NoError(t, cart.AddItem(ctx, 3, 1))
	_, err = orders.CreateOrder(ctx, checkoutItems(t, cart), "c", 99, alice)
	require.NoError(t, err)

	got, err := orders.ListForUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID, "insertion order preserved")
	assert.Equal(t, int64(3), got[1].ID)

	none, err := orders.ListForUser(ctx, 42)
	require.NoError(t, err)
	assert.Empty(t, none)
}
