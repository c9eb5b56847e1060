package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"smartshop/model"
	"smartshop/pkg/storage"
)

// 测试用商品价格刻意凑成运费规则的边界值
var testProducts = []model.Product{
	{ID: 1, Name: "无线蓝牙耳机", Description: "降噪无线耳机", Price: 50, Category: model.CategoryElectronics},
	{ID: 2, Name: "运动跑步鞋", Description: "轻便透气", Price: 25, Category: model.CategorySports},
	{ID: 3, Name: "进口咖啡豆", Description: "口感浓郁醇厚", Price: 99, Category: model.CategoryFood},
	{ID: 4, Name: "智能台灯", Description: "可调光", Price: 100, Category: model.CategoryHome},
	{ID: 5, Name: "USB充电器", Description: "快充协议", Price: 39, Category: model.CategoryElectronics},
}

func newTestStore(t *testing.T) *storage.MemoryStore {
	t.Helper()
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(context.Background(), storage.KeyProducts, testProducts))
	return store
}

func newTestCart(t *testing.T) (*CartLedger, *storage.MemoryStore) {
	t.Helper()
	store := newTestStore(t)
	catalog := NewCatalog(store)
	return NewCartLedger(store, catalog), store
}
