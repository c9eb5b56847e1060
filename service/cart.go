package service

import (
	"context"
	"errors"
	"time"

	"smartshop/model"
	"smartshop/pkg/storage"
)

// 运费规则：空购物车不收运费，小计超过 99 免运费，否则固定 10
const (
	freeShippingThreshold = 99.0
	shippingFlatFee       = 10.0
)

// CartLedger 购物车。整个存储只有一份购物车，不按用户划分——
// 换账号登录看到的是同一份购物车，这是沿用原型的既定行为。
// 小计和联结结果里的价格总是实时回查目录，不在加购时冻结。
type CartLedger struct {
	store   storage.Store
	catalog *Catalog
}

func NewCartLedger(store storage.Store, catalog *Catalog) *CartLedger {
	return &CartLedger{store: store, catalog: catalog}
}

func (l *CartLedger) load(ctx context.Context) ([]model.CartEntry, error) {
	cart := []model.CartEntry{}
	if _, err := l.store.Get(ctx, storage.KeyCart, &cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (l *CartLedger) persist(ctx context.Context, cart []model.CartEntry) error {
	return l.store.Set(ctx, storage.KeyCart, cart)
}

// Entries 返回当前全部条目
func (l *CartLedger) Entries(ctx context.Context) ([]model.CartEntry, error) {
	return l.load(ctx)
}

// AddItem 加购。商品必须能在目录里解析到，否则返回 ErrProductNotFound。
// 同一商品已有条目时在其数量上累加，否则新建条目。数量小于 1 按 1 处理。
// 不做库存上限校验。
func (l *CartLedger) AddItem(ctx context.Context, productID int64, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}
	if _, err := l.catalog.FindByID(ctx, productID); err != nil {
		return err
	}

	cart, err := l.load(ctx)
	if err != nil {
		return err
	}

	found := false
	for i := range cart {
		if cart[i].ProductID == productID {
			cart[i].Quantity += quantity
			found = true
			break
		}
	}
	if !found {
		cart = append(cart, model.CartEntry{
			ProductID: productID,
			Quantity:  quantity,
			AddedTime: time.Now(),
		})
	}
	return l.persist(ctx, cart)
}

// SetQuantity 覆盖条目数量。数量小于等于 0 等价于 RemoveItem；
// 条目不存在返回 ErrItemNotInCart。
func (l *CartLedger) SetQuantity(ctx context.Context, productID int64, quantity int) error {
	if quantity <= 0 {
		return l.RemoveItem(ctx, productID)
	}

	cart, err := l.load(ctx)
	if err != nil {
		return err
	}
	for i := range cart {
		if cart[i].ProductID == productID {
			cart[i].Quantity = quantity
			return l.persist(ctx, cart)
		}
	}
	return ErrItemNotInCart
}

// RemoveItem 移除条目，条目不存在也算成功
func (l *CartLedger) RemoveItem(ctx context.Context, productID int64) error {
	cart, err := l.load(ctx)
	if err != nil {
		return err
	}
	kept := cart[:0]
	for _, entry := range cart {
		if entry.ProductID != productID {
			kept = append(kept, entry)
		}
	}
	return l.persist(ctx, kept)
}

// Clear 无条件清空购物车
func (l *CartLedger) Clear(ctx context.Context) error {
	return l.persist(ctx, []model.CartEntry{})
}

// Count 全部条目数量之和
func (l *CartLedger) Count(ctx context.Context) (int, error) {
	cart, err := l.load(ctx)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, entry := range cart {
		total += entry.Quantity
	}
	return total, nil
}

// Subtotal 按目录当前价格计算小计。解析不到的商品按 0 计入，
// 商品价格在加购之后变动会直接反映到这里。
func (l *CartLedger) Subtotal(ctx context.Context) (float64, error) {
	cart, err := l.load(ctx)
	if err != nil {
		return 0, err
	}
	var subtotal float64
	for _, entry := range cart {
		product, err := l.catalog.FindByID(ctx, entry.ProductID)
		if err != nil {
			if errors.Is(err, ErrProductNotFound) {
				continue
			}
			return 0, err
		}
		subtotal += product.Price * float64(entry.Quantity)
	}
	return subtotal, nil
}

// ItemsWithDetails 把每个条目和目录里的商品联结起来。
// 商品已不存在的条目被静默丢弃，作为孤儿数据清理策略。
func (l *CartLedger) ItemsWithDetails(ctx context.Context) ([]model.CartItemDetail, error) {
	cart, err := l.load(ctx)
	if err != nil {
		return nil, err
	}
	details := []model.CartItemDetail{}
	for _, entry := range cart {
		product, err := l.catalog.FindByID(ctx, entry.ProductID)
		if err != nil {
			if errors.Is(err, ErrProductNotFound) {
				continue
			}
			return nil, err
		}
		details = append(details, model.CartItemDetail{
			CartEntry: entry,
			Product:   *product,
		})
	}
	return details, nil
}

// Totals 结算金额：小计、运费和合计
func (l *CartLedger) Totals(ctx context.Context) (model.CartTotals, error) {
	subtotal, err := l.Subtotal(ctx)
	if err != nil {
		return model.CartTotals{}, err
	}
	var shipping float64
	if subtotal > 0 && subtotal <= freeShippingThreshold {
		shipping = shippingFlatFee
	}
	return model.CartTotals{
		Subtotal: subtotal,
		Shipping: shipping,
		Total:    subtotal + shipping,
	}, nil
}
