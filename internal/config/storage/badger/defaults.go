package badger

import "time"

const (
	// defaultRelativePath 未配置 data_root 时的数据库目录
	defaultRelativePath = "./data/badger"

	// defaultSyncWrites 回执账本与暂停标志必须在操作返回前落盘
	defaultSyncWrites = true

	// defaultMemTableSize 金库状态只有少量键，16MB 足够
	defaultMemTableSize = 16 << 20

	defaultGCInterval     = 2 * time.Hour
	defaultGCDiscardRatio = 0.5
)
