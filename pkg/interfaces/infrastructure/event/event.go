// Package event 定义事件总线接口
//
// 🎯 **事件总线 (Event Bus)**
//
// 金库通过事件总线发布观察性通知（存入完成、场所回退、取回完成、
// 收益提取、紧急清空、暂停变更）。通知仅供观察，不参与业务决策：
// 订阅者返回的任何结果都不会影响已完成的操作。
package event

import (
	"github.com/weisyn/custody/pkg/types"
)

// 兼容别名
type EventType = types.EventType

// Event 事件接口
type Event interface {
	// Type 返回事件类型
	Type() EventType
	// Data 返回事件数据
	Data() interface{}
}

// EventBus 事件总线接口
type EventBus interface {
	// Subscribe 订阅事件
	Subscribe(eventType EventType, handler interface{}) error
	// SubscribeAsync 异步订阅事件
	SubscribeAsync(eventType EventType, handler interface{}, transactional bool) error
	// SubscribeOnce 一次性订阅事件
	SubscribeOnce(eventType EventType, handler interface{}) error
	// Publish 发布事件
	Publish(eventType EventType, args ...interface{})
	// PublishEvent 发布Event接口类型事件
	PublishEvent(event Event)
	// Unsubscribe 取消订阅
	Unsubscribe(eventType EventType, handler interface{}) error
	// WaitAsync 等待所有异步处理完成
	WaitAsync()
	// HasCallback 检查是否有回调函数
	HasCallback(eventType EventType) bool
	// GetEventHistory 获取指定事件类型的历史记录（未启用历史时返回nil）
	GetEventHistory(eventType EventType) []interface{}
	// GetConfig 获取当前配置
	GetConfig() *types.EventBusConfig
}
