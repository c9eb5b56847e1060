package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
)

// FileStore 以 <dir>/<key>.json 的形式持久化每个集合，
// 行为上等价于浏览器单个 profile 下的 localStorage。
type FileStore struct {
	dir string
}

// NewFileStore 创建数据目录（如不存在）并返回 FileStore
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, storageErr("mkdir", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

func (s *FileStore) Get(ctx context.Context, key string, out any) (bool, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, storageErr("read", key, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, storageErr("decode", key, err)
	}
	return true, nil
}

func (s *FileStore) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return storageErr("encode", key, err)
	}

	// 先写临时文件再改名，避免写一半的文件被下次读取
	tmp, err := os.CreateTemp(s.dir, key+".*.tmp")
	if err != nil {
		return storageErr("write", key, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return storageErr("write", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return storageErr("write", key, err)
	}
	if err := os.Rename(tmp.Name(), s.path(key)); err != nil {
		os.Remove(tmp.Name())
		return storageErr("write", key, err)
	}
	return nil
}

func (s *FileStore) Remove(ctx context.Context, key string) error {
	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return storageErr("remove", key, err)
	}
	return nil
}
