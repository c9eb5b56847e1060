package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"smartshop/pkg/config"
)

// kvRecord 每行保存一个集合的 JSON 快照
type kvRecord struct {
	K string `gorm:"primaryKey;type:varchar(64)"`
	V string `gorm:"type:longtext"`
}

func (kvRecord) TableName() string {
	return "kv_records"
}

// MysqlStore 基于 MySQL 的键值存储，一个集合一行
type MysqlStore struct {
	db *gorm.DB
}

// NewMysqlStore 初始化 MySQL 连接并迁移键值表
func NewMysqlStore(cfg config.MysqlConfig) (*MysqlStore, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DbName,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, storageErr("connect", cfg.Host, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, storageErr("connect", cfg.Host, err)
	}

	// 设置连接池
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	if err := db.AutoMigrate(&kvRecord{}); err != nil {
		return nil, storageErr("migrate", kvRecord{}.TableName(), err)
	}
	return &MysqlStore{db: db}, nil
}

func (s *MysqlStore) Get(ctx context.Context, key string, out any) (bool, error) {
	var rec kvRecord
	err := s.db.WithContext(ctx).First(&rec, "k = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, storageErr("read", key, err)
	}
	if err := json.Unmarshal([]byte(rec.V), out); err != nil {
		return false, storageErr("decode", key, err)
	}
	return true, nil
}

func (s *MysqlStore) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return storageErr("encode", key, err)
	}
	rec := kvRecord{K: key, V: string(data)}
	if err := s.db.WithContext(ctx).Save(&rec).Error; err != nil {
		return storageErr("write", key, err)
	}
	return nil
}

func (s *MysqlStore) Remove(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Delete(&kvRecord{}, "k = ?", key).Error; err != nil {
		return storageErr("remove", key, err)
	}
	return nil
}
