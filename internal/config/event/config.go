package event

import (
	configtypes "github.com/weisyn/custody/pkg/types"
)

// EventOptions 事件系统配置选项
type EventOptions struct {
	Enabled        bool `json:"enabled"`         // 是否启用事件系统
	MaxSubscribers int  `json:"max_subscribers"` // 每个事件类型的最大订阅者数量
	HistorySize    int  `json:"history_size"`    // 事件历史保留条数
}

// Config 事件配置实现
type Config struct {
	options *EventOptions
}

// New 创建事件配置实现
func New(userConfig interface{}) *Config {
	// 1. 先创建完整的默认配置
	defaultOptions := createDefaultEventOptions()

	// 2. 如果有用户配置，应用用户配置覆盖默认值
	if cfg, ok := userConfig.(*configtypes.UserEventConfig); ok && cfg != nil {
		if cfg.Enabled != nil {
			defaultOptions.Enabled = *cfg.Enabled
		}
	}

	return &Config{
		options: defaultOptions,
	}
}

// createDefaultEventOptions 创建默认事件配置
func createDefaultEventOptions() *EventOptions {
	return &EventOptions{
		Enabled:        defaultEnabled,
		MaxSubscribers: defaultMaxSubscribers,
		HistorySize:    defaultHistorySize,
	}
}

// GetOptions 获取完整的事件配置选项
func (c *Config) GetOptions() *EventOptions {
	return c.options
}

// IsEnabled 是否启用事件系统
func (c *Config) IsEnabled() bool {
	return c.options.Enabled
}

// GetMaxSubscribers 获取最大订阅者数量
func (c *Config) GetMaxSubscribers() int {
	return c.options.MaxSubscribers
}

// GetHistorySize 获取事件历史保留条数
func (c *Config) GetHistorySize() int {
	return c.options.HistorySize
}

// ToBusConfig 转换为事件总线运行时配置
func (o *EventOptions) ToBusConfig() *configtypes.EventBusConfig {
	return &configtypes.EventBusConfig{
		Enabled:        o.Enabled,
		MaxSubscribers: o.MaxSubscribers,
		HistorySize:    o.HistorySize,
	}
}

// NewFromOptions 从完整选项创建配置
func NewFromOptions(options *EventOptions) *Config {
	return &Config{options: options}
}
