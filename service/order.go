package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"smartshop/model"
	"smartshop/pkg/storage"
)

// OrderLedger 订单账本，只追加不修改
type OrderLedger struct {
	store storage.Store
	cart  *CartLedger
}

func NewOrderLedger(store storage.Store, cart *CartLedger) *OrderLedger {
	return &OrderLedger{store: store, cart: cart}
}

func (l *OrderLedger) load(ctx context.Context) ([]model.Order, error) {
	orders := []model.Order{}
	if _, err := l.store.Get(ctx, storage.KeyOrders, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// CreateOrder 从购物车联结结果创建订单。商品名称和价格在此刻做快照，
// 之后目录变动不影响已有订单。下单用户由调用方显式传入，nil 表示未登录。
// 订单持久化成功后清空购物车；两步之间没有跨键事务，清空失败只记日志，
// 订单本身仍然有效。
func (l *OrderLedger) CreateOrder(ctx context.Context, items []model.CartItemDetail, shippingAddress string, totalAmount float64, user *model.User) (*model.Order, error) {
	orders, err := l.load(ctx)
	if err != nil {
		return nil, err
	}

	var maxID int64
	for _, o := range orders {
		if o.ID > maxID {
			maxID = o.ID
		}
	}

	var userID int64
	if user != nil {
		userID = user.ID
	}

	snapshots := make([]model.OrderItem, 0, len(items))
	for _, item := range items {
		snapshots = append(snapshots, model.OrderItem{
			ProductID:   item.ProductID,
			ProductName: item.Product.Name,
			Quantity:    item.Quantity,
			Price:       item.Product.Price,
		})
	}

	order := model.Order{
		ID:              maxID + 1,
		OrderNo:         uuid.New().String(),
		UserID:          userID,
		Items:           snapshots,
		ShippingAddress: shippingAddress,
		TotalAmount:     totalAmount,
		Status:          model.OrderStatusPending,
		OrderTime:       time.Now(),
	}

	orders = append(orders, order)
	if err := l.store.Set(ctx, storage.KeyOrders, orders); err != nil {
		return nil, err
	}

	if err := l.cart.Clear(ctx); err != nil {
		log.Printf("order %d created but cart not cleared: %v", order.ID, err)
	}
	return &order, nil
}

// List 返回全部订单，保持写入顺序
func (l *OrderLedger) List(ctx context.Context) ([]model.Order, error) {
	return l.load(ctx)
}

// ListForUser 按下单用户精确筛选，保持写入顺序
func (l *OrderLedger) ListForUser(ctx context.Context, userID int64) ([]model.Order, error) {
	orders, err := l.load(ctx)
	if err != nil {
		return nil, err
	}
	matched := []model.Order{}
	for _, o := range orders {
		if o.UserID == userID {
			matched = append(matched, o)
		}
	}
	return matched, nil
}
