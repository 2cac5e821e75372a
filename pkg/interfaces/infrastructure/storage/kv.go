// Package storage 定义金库状态持久化所需的键值存储接口
package storage

import (
	"context"
	"errors"
)

// ErrStoreClosed 存储已关闭
var ErrStoreClosed = errors.New("storage: store closed")

// KVStore 有序键值存储
//
// 实现：
//   - internal/core/infrastructure/storage/badger（磁盘持久化）
//   - internal/core/infrastructure/storage/memory（BigCache 内存存储）
type KVStore interface {
	// Get 获取指定键的值，键不存在时返回 nil, nil
	Get(ctx context.Context, key []byte) ([]byte, error)

	// Set 设置键值对
	Set(ctx context.Context, key, value []byte) error

	// Delete 删除指定键，键不存在不报错
	Delete(ctx context.Context, key []byte) error

	// Exists 检查键是否存在
	Exists(ctx context.Context, key []byte) (bool, error)

	// SetMany 原子地写入多个键值对（map 键为字符串形式的 key）
	SetMany(ctx context.Context, entries map[string][]byte) error

	// PrefixScan 返回以 prefix 开头的全部键值对
	PrefixScan(ctx context.Context, prefix []byte) (map[string][]byte, error)

	// Close 关闭存储
	Close() error
}
