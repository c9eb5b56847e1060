package model

import "time"

// CartEntry 购物车条目，同一商品最多一条
type CartEntry struct {
	ProductID int64     `json:"productId"`
	Quantity  int       `json:"quantity"` // 始终 >= 1
	AddedTime time.Time `json:"addedTime"`
}

// CartItemDetail 购物车条目与商品详情的联结结果
type CartItemDetail struct {
	CartEntry
	Product Product `json:"product"`
}

// CartTotals 购物车结算金额
type CartTotals struct {
	Subtotal float64 `json:"subtotal"`
	Shipping float64 `json:"shipping"`
	Total    float64 `json:"total"`
}
