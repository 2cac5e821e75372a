package memory

import "time"

// 内存存储默认配置值
const (
	// defaultMaxMemory 默认最大内存使用量为64MB
	defaultMaxMemory = 64 << 20

	// defaultMaxEntries 默认窗口内最大条目数
	defaultMaxEntries = 10000

	// defaultLifeWindow 条目生命周期
	// 内存存储承载金库状态（回执余额、暂停标志），条目不得过期
	defaultLifeWindow = 100 * 365 * 24 * time.Hour

	// defaultMaxEntrySize 单条目最大字节数
	defaultMaxEntrySize = 1024
)
