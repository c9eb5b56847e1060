package model

import "time"

// 订单状态
const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
)

// Order 订单主记录，创建后不再修改
type Order struct {
	ID              int64       `json:"id"`
	OrderNo         string      `json:"orderNo"`
	UserID          int64       `json:"userId"` // 0 表示未登录下单
	Items           []OrderItem `json:"items"`
	ShippingAddress string      `json:"shippingAddress"`
	TotalAmount     float64     `json:"totalAmount"`
	Status          string      `json:"status"`
	OrderTime       time.Time   `json:"orderTime"`
}

// OrderItem 订单明细，下单时对商品名称和价格做快照
type OrderItem struct {
	ProductID   int64   `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}
