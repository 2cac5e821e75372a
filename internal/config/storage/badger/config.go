// Package badger 回执账本与金库状态的 BadgerDB 持久化配置
package badger

import (
	"path/filepath"
	"time"

	configtypes "github.com/weisyn/custody/pkg/types"
	"github.com/weisyn/custody/pkg/utils"
)

// BadgerOptions BadgerDB 存储配置
//
// Path 为空时以内存模式打开（不落盘）。
type BadgerOptions struct {
	Path         string `json:"path"`
	SyncWrites   bool   `json:"sync_writes"`
	MemTableSize int64  `json:"mem_table_size"`

	// 值日志回收；GCInterval 为 0 时不启动定期回收
	GCInterval     time.Duration `json:"gc_interval"`
	GCDiscardRatio float64       `json:"gc_discard_ratio"`
}

// Config BadgerDB 配置
type Config struct {
	options *BadgerOptions
}

// New 以默认值为基础叠加用户存储配置
//
// 配置了 storage.data_root 时数据库位于 {data_root}/badger，否则为 ./data/badger。
func New(userConfig interface{}) *Config {
	opts := &BadgerOptions{
		Path:           utils.ResolveDataPath(defaultRelativePath),
		SyncWrites:     defaultSyncWrites,
		MemTableSize:   defaultMemTableSize,
		GCInterval:     defaultGCInterval,
		GCDiscardRatio: defaultGCDiscardRatio,
	}
	if u, ok := userConfig.(*configtypes.UserStorageConfig); ok && u != nil {
		if u.DataRoot != nil {
			opts.Path = utils.ResolveDataPath(filepath.Join(*u.DataRoot, "badger"))
		}
		if u.SyncWrites != nil {
			opts.SyncWrites = *u.SyncWrites
		}
	}
	return &Config{options: opts}
}

// NewFromOptions 从完整选项创建
func NewFromOptions(options *BadgerOptions) *Config {
	return &Config{options: options}
}

// GetOptions 完整选项
func (c *Config) GetOptions() *BadgerOptions { return c.options }

// GetPath 数据库目录；为空表示内存模式
func (c *Config) GetPath() string { return c.options.Path }

// IsSyncWritesEnabled 每次写入是否 fsync
func (c *Config) IsSyncWritesEnabled() bool { return c.options.SyncWrites }

// GetMemTableSize 内存表大小（字节）
func (c *Config) GetMemTableSize() int64 { return c.options.MemTableSize }

// GetGCInterval 值日志回收间隔
func (c *Config) GetGCInterval() time.Duration { return c.options.GCInterval }

// GetGCDiscardRatio 值日志回收阈值，超出 (0,1) 时取默认值
func (c *Config) GetGCDiscardRatio() float64 {
	r := c.options.GCDiscardRatio
	if r <= 0 || r >= 1 {
		return defaultGCDiscardRatio
	}
	return r
}
