package event

// 事件配置默认值
const (
	// defaultEnabled 默认启用事件系统
	// 金库通知（存入完成、场所回退、部分成交等）均经事件总线发布
	defaultEnabled = true

	// defaultMaxSubscribers 每个事件类型的最大订阅者数量
	defaultMaxSubscribers = 64

	// defaultHistorySize 事件历史保留条数
	// 用于 API 诊断和测试断言，0 表示不保留
	defaultHistorySize = 256
)
