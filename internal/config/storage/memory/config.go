package memory

import "time"

// MemoryOptions 内存存储配置选项
// 内存存储用于测试与 simulate 命令，数据不持久化
type MemoryOptions struct {
	MaxMemory    int64         `json:"max_memory"`     // 最大内存使用量（字节）
	MaxEntries   int           `json:"max_entries"`    // 窗口内最大条目数（用于预分配）
	LifeWindow   time.Duration `json:"life_window"`    // 条目生命周期
	MaxEntrySize int           `json:"max_entry_size"` // 单条目最大字节数（用于预分配）
}

// Config 内存存储配置实现
type Config struct {
	options *MemoryOptions
}

// New 创建内存存储配置实现
func New(userConfig interface{}) *Config {
	return &Config{
		options: createDefaultMemoryOptions(),
	}
}

// NewFromOptions 从MemoryOptions创建配置实现
func NewFromOptions(options *MemoryOptions) *Config {
	return &Config{options: options}
}

// createDefaultMemoryOptions 创建默认内存存储配置
func createDefaultMemoryOptions() *MemoryOptions {
	return &MemoryOptions{
		MaxMemory:    defaultMaxMemory,
		MaxEntries:   defaultMaxEntries,
		LifeWindow:   defaultLifeWindow,
		MaxEntrySize: defaultMaxEntrySize,
	}
}

// GetOptions 获取完整的内存存储配置选项
func (c *Config) GetOptions() *MemoryOptions {
	return c.options
}

// GetMaxMemoryMB 获取最大内存使用量（MB，BigCache 的 HardMaxCacheSize 单位）
func (c *Config) GetMaxMemoryMB() int {
	mb := int(c.options.MaxMemory >> 20)
	if mb <= 0 {
		return 1
	}
	return mb
}

// GetMaxEntries 获取窗口内最大条目数
func (c *Config) GetMaxEntries() int {
	return c.options.MaxEntries
}

// GetLifeWindow 获取条目生命周期
func (c *Config) GetLifeWindow() time.Duration {
	return c.options.LifeWindow
}

// GetMaxEntrySize 获取单条目最大字节数
func (c *Config) GetMaxEntrySize() int {
	return c.options.MaxEntrySize
}
