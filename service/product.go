package service

import (
	"context"
	"strings"

	"smartshop/model"
	"smartshop/pkg/storage"
)

// Catalog 商品目录。集合在首次启动时写入，运行期间只读。
type Catalog struct {
	store storage.Store
}

func NewCatalog(store storage.Store) *Catalog {
	return &Catalog{store: store}
}

func (c *Catalog) load(ctx context.Context) ([]model.Product, error) {
	products := []model.Product{}
	if _, err := c.store.Get(ctx, storage.KeyProducts, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// List 返回全部商品
func (c *Catalog) List(ctx context.Context) ([]model.Product, error) {
	return c.load(ctx)
}

// FindByID 按 ID 查找，找不到返回 ErrProductNotFound
func (c *Catalog) FindByID(ctx context.Context, id int64) (*model.Product, error) {
	products, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID == id {
			return &products[i], nil
		}
	}
	return nil, ErrProductNotFound
}

// ListByCategory 按分类精确筛选，"all" 返回全部
func (c *Catalog) ListByCategory(ctx context.Context, category string) ([]model.Product, error) {
	products, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	if category == model.CategoryAll {
		return products, nil
	}
	filtered := []model.Product{}
	for _, p := range products {
		if p.Category == category {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

// Search 对名称和描述做大小写不敏感的子串匹配。
// 空关键字是否放行由调用方把关，这里照常匹配全部。
func (c *Catalog) Search(ctx context.Context, keyword string) ([]model.Product, error) {
	products, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	lower := strings.ToLower(keyword)
	matched := []model.Product{}
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), lower) ||
			strings.Contains(strings.ToLower(p.Description), lower) {
			matched = append(matched, p)
		}
	}
	return matched, nil
}
