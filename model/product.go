package model

// 商品分类，对应前端筛选按钮
const (
	CategoryAll         = "all"
	CategoryElectronics = "electronics"
	CategoryClothing    = "clothing"
	CategoryBooks       = "books"
	CategoryHome        = "home"
	CategorySports      = "sports"
	CategoryFood        = "food"
)

// Product 商品记录，首次启动时写入后即只读
type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Stock       int     `json:"stock"`
	Sales       int     `json:"sales"`
}
