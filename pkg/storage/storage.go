package storage

import (
	"context"
	"errors"
	"fmt"
)

// 各集合的固定存储键
const (
	KeyUsers       = "users"
	KeyProducts    = "products"
	KeyCart        = "cart"
	KeyOrders      = "orders"
	KeyCurrentUser = "currentUser"
)

// ErrStorage 底层存储不可读或不可写，对当次操作视为致命错误，不做重试
var ErrStorage = errors.New("storage unavailable")

// Store 键值存储契约：每个键保存一个完整的 JSON 集合，
// 写入总是整体覆盖，键之间没有事务保证。
type Store interface {
	// Get 将键对应的 JSON 值解码到 out，键不存在时返回 (false, nil)
	Get(ctx context.Context, key string, out any) (bool, error)
	// Set 将 value 编码为 JSON 后整体覆盖写入
	Set(ctx context.Context, key string, value any) error
	// Remove 删除键，键不存在不算错误
	Remove(ctx context.Context, key string) error
}

func storageErr(op, key string, err error) error {
	return fmt.Errorf("%w: %s %q: %v", ErrStorage, op, key, err)
}
