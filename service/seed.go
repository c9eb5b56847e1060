package service

import (
	"context"

	"smartshop/model"
	"smartshop/pkg/storage"
)

// 演示账号和默认商品，首次启动时写入
var defaultUsers = []model.User{
	{
		ID:           1,
		Username:     "demo",
		Email:        "demo@example.com",
		Password:     "123456",
		RegisterTime: "2023-10-01",
		Level:        model.LevelGold,
	},
}

var defaultProducts = []model.Product{
	{
		ID:          1,
		Name:        "智能手机",
		Description: "最新款智能手机，配备高清摄像头和大容量电池",
		Price:       2999,
		Category:    model.CategoryElectronics,
		Image:       "images/products/product1.jpg",
		Stock:       50,
		Sales:       120,
	},
	{
		ID:          2,
		Name:        "无线蓝牙耳机",
		Description: "降噪无线蓝牙耳机，续航时间长达30小时",
		Price:       599,
		Category:    model.CategoryElectronics,
		Image:       "images/products/product2.jpg",
		Stock:       100,
		Sales:       85,
	},
	{
		ID:          3,
		Name:        "男士休闲衬衫",
		Description: "纯棉男士休闲衬衫，舒适透气，多色可选",
		Price:       199,
		Category:    model.CategoryClothing,
		Image:       "images/products/product3.jpg",
		Stock:       200,
		Sales:       156,
	},
	{
		ID:          4,
		Name:        "女士连衣裙",
		Description: "夏季新款女士连衣裙，优雅时尚",
		Price:       399,
		Category:    model.CategoryClothing,
		Image:       "images/products/product4.jpg",
		Stock:       150,
		Sales:       98,
	},
	{
		ID:          5,
		Name:        "JavaScript高级程序设计",
		Description: "前端开发经典书籍，深入讲解JavaScript",
		Price:       89,
		Category:    model.CategoryBooks,
		Image:       "images/products/product5.jpg",
		Stock:       80,
		Sales:       45,
	},
	{
		ID:          6,
		Name:        "智能台灯",
		Description: "可调光智能台灯，支持手机APP控制",
		Price:       159,
		Category:    model.CategoryHome,
		Image:       "images/products/product6.jpg",
		Stock:       120,
		Sales:       67,
	},
	{
		ID:          7,
		Name:        "运动跑步鞋",
		Description: "轻便透气运动跑步鞋，适合多种运动场景",
		Price:       499,
		Category:    model.CategorySports,
		Image:       "images/products/product7.jpg",
		Stock:       90,
		Sales:       78,
	},
	{
		ID:          8,
		Name:        "进口咖啡豆",
		Description: "精选进口咖啡豆，口感浓郁醇厚",
		Price:       129,
		Category:    model.CategoryFood,
		Image:       "images/products/product8.jpg",
		Stock:       300,
		Sales:       210,
	},
}

// Seed 初始化缺失的集合：默认用户、默认商品、空购物车和空订单表。
// 已存在的集合原样保留，重复调用无副作用。
func Seed(ctx context.Context, store storage.Store) error {
	var users []model.User
	ok, err := store.Get(ctx, storage.KeyUsers, &users)
	if err != nil {
		return err
	}
	if !ok {
		if err := store.Set(ctx, storage.KeyUsers, defaultUsers); err != nil {
			return err
		}
	}

	var products []model.Product
	ok, err = store.Get(ctx, storage.KeyProducts, &products)
	if err != nil {
		return err
	}
	if !ok {
		if err := store.Set(ctx, storage.KeyProducts, defaultProducts); err != nil {
			return err
		}
	}

	var cart []model.CartEntry
	ok, err = store.Get(ctx, storage.KeyCart, &cart)
	if err != nil {
		return err
	}
	if !ok {
		if err := store.Set(ctx, storage.KeyCart, []model.CartEntry{}); err != nil {
			return err
		}
	}

	var orders []model.Order
	ok, err = store.Get(ctx, storage.KeyOrders, &orders)
	if err != nil {
		return err
	}
	if !ok {
		if err := store.Set(ctx, storage.KeyOrders, []model.Order{}); err != nil {
			return err
		}
	}
	return nil
}
