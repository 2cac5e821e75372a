// Package memory 提供基于BigCache的内存键值存储实现
//
// BigCache 本身不支持按前缀遍历，Store 额外维护键集合以支持 PrefixScan；
// 所有写操作在同一把写锁下完成，SetMany 因此对读方是原子的。
package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/allegro/bigcache/v3"

	memoryconfig "github.com/weisyn/custody/internal/config/storage/memory"
	"github.com/weisyn/custody/pkg/interfaces/infrastructure/log"
	storage "github.com/weisyn/custody/pkg/interfaces/infrastructure/storage"
)

// Store 基于BigCache的内存存储，实现 storage.KVStore
type Store struct {
	cache  *bigcache.BigCache
	logger log.Logger
	mutex  sync.RWMutex
	config *memoryconfig.Config
	closed bool                // 关闭状态标志
	keySet map[string]struct{} // 维护键集合以支持前缀扫描
}

var _ storage.KVStore = (*Store)(nil)

// New 创建一个新的BigCache内存存储实例
func New(config *memoryconfig.Config, logger log.Logger) (*Store, error) {
	bigCacheConfig := bigcache.DefaultConfig(config.GetLifeWindow())
	bigCacheConfig.Shards = 16
	bigCacheConfig.MaxEntriesInWindow = config.GetMaxEntries()
	bigCacheConfig.MaxEntrySize = config.GetMaxEntrySize()
	bigCacheConfig.HardMaxCacheSize = config.GetMaxMemoryMB()
	bigCacheConfig.CleanWindow = 0 // 条目不过期，不启动清理协程
	bigCacheConfig.Verbose = false
	bigCacheConfig.OnRemoveWithReason = func(key string, _ []byte, reason bigcache.RemoveReason) {
		// 只有容量淘汰会走到这里（Deleted 原因不记录）
		if reason != bigcache.Deleted {
			logger.Errorf("内存存储条目被淘汰: key=%s reason=%d", key, reason)
		}
	}

	cache, err := bigcache.New(context.Background(), bigCacheConfig)
	if err != nil {
		return nil, fmt.Errorf("创建BigCache实例失败: %w", err)
	}

	return &Store{
		cache:  cache,
		logger: logger,
		config: config,
		keySet: make(map[string]struct{}),
	}, nil
}

// Close 关闭缓存并释放资源
func (s *Store) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.closed {
		return nil
	}

	s.logger.Info("关闭内存存储")
	if err := s.cache.Close(); err != nil {
		return err
	}
	s.closed = true
	return nil
}

// Get 获取指定键的值，键不存在时返回 nil, nil
func (s *Store) Get(ctx context.Context, key []byte) ([]byte, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if s.closed {
		return nil, storage.ErrStoreClosed
	}
	return s.getLocked(string(key))
}

func (s *Store) getLocked(key string) ([]byte, error) {
	value, err := s.cache.Get(key)
	if err != nil {
		if errors.Is(err, bigcache.ErrEntryNotFound) {
			return nil, nil
		}
		s.logger.Warnf("获取内存键[%s]失败: %v", key, err)
		return nil, err
	}
	return value, nil
}

// Set 设置键值对
func (s *Store) Set(ctx context.Context, key, value []byte) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.closed {
		return storage.ErrStoreClosed
	}
	return s.setLocked(string(key), value)
}

func (s *Store) setLocked(key string, value []byte) error {
	// BigCache 不接受 nil 值，统一存为空切片
	if value == nil {
		value = []byte{}
	}
	if err := s.cache.Set(key, value); err != nil {
		return fmt.Errorf("设置内存键[%s]失败: %w", key, err)
	}
	s.keySet[key] = struct{}{}
	return nil
}

// Delete 删除指定键
func (s *Store) Delete(ctx context.Context, key []byte) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.closed {
		return storage.ErrStoreClosed
	}
	k := string(key)
	if err := s.cache.Delete(k); err != nil && !errors.Is(err, bigcache.ErrEntryNotFound) {
		return fmt.Errorf("删除内存键[%s]失败: %w", k, err)
	}
	delete(s.keySet, k)
	return nil
}

// Exists 检查键是否存在
func (s *Store) Exists(ctx context.Context, key []byte) (bool, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if s.closed {
		return false, storage.ErrStoreClosed
	}
	_, ok := s.keySet[string(key)]
	return ok, nil
}

// SetMany 在同一把写锁下写入多个键值对
//
// 写入前保存旧值，中途失败时回滚已写入的键。
func (s *Store) SetMany(ctx context.Context, entries map[string][]byte) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.closed {
		return storage.ErrStoreClosed
	}

	type previous struct {
		value  []byte
		exists bool
	}
	undo := make(map[string]previous, len(entries))
	for k := range entries {
		old, err := s.getLocked(k)
		if err != nil {
			return err
		}
		_, exists := s.keySet[k]
		undo[k] = previous{value: old, exists: exists}
	}

	for k, v := range entries {
		if err := s.setLocked(k, v); err != nil {
			for uk, prev := range undo {
				if prev.exists {
					_ = s.setLocked(uk, prev.value)
				} else {
					_ = s.cache.Delete(uk)
					delete(s.keySet, uk)
				}
			}
			return err
		}
	}
	return nil
}

// PrefixScan 返回以 prefix 开头的全部键值对
func (s *Store) PrefixScan(ctx context.Context, prefix []byte) (map[string][]byte, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if s.closed {
		return nil, storage.ErrStoreClosed
	}

	p := string(prefix)
	result := make(map[string][]byte)
	for _, key := range s.keysLocked(p) {
		value, err := s.getLocked(key)
		if err != nil {
			return nil, err
		}
		if value != nil {
			result[key] = value
		}
	}
	return result, nil
}

// Count 返回当前键数量
func (s *Store) Count() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.keySet)
}

// keysLocked 按字典序返回匹配前缀的键
func (s *Store) keysLocked(prefix string) []string {
	keys := make([]string, 0)
	for key := range s.keySet {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}
