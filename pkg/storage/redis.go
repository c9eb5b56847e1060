package storage

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"smartshop/pkg/config"
)

// redis 中的键统一加前缀，避免和同实例上的其他应用冲突
const redisKeyPrefix = "smartshop:"

// RedisStore 把每个集合存为一个 redis 字符串键
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore 连接 Redis 并做一次 Ping 探活
func NewRedisStore(cfg config.RedisConfig) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password, // 没有密码则留空
		DB:       cfg.Db,       // 默认 0
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, storageErr("connect", cfg.Address, err)
	}
	return &RedisStore{rdb: rdb}, nil
}

func (s *RedisStore) Get(ctx context.Context, key string, out any) (bool, error) {
	raw, err := s.rdb.Get(ctx, redisKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, storageErr("read", key, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, storageErr("decode", key, err)
	}
	return true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return storageErr("encode", key, err)
	}
	if err := s.rdb.Set(ctx, redisKeyPrefix+key, data, 0).Err(); err != nil {
		return storageErr("write", key, err)
	}
	return nil
}

func (s *RedisStore) Remove(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, redisKeyPrefix+key).Err(); err != nil {
		return storageErr("remove", key, err)
	}
	return nil
}
