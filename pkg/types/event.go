// Package types provides event type definitions.
package types

import (
	"time"
)

// EventType 事件类型
type EventType string

// Priority 优先级常量
type Priority int

const (
	PriorityLow      Priority = 0
	PriorityNormal   Priority = 1
	PriorityHigh     Priority = 2
	PriorityCritical Priority = 3
)

// String 返回优先级名称
func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityNormal:
		return "normal"
	case PriorityHigh:
		return "high"
	case PriorityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// CustodyEvent 金库通知事件信封
//
// 所有金库通知均以该信封发布，Payload 为具体事件数据
// （DepositReceipt、VenueFallbackEvent、DrainReport 等）。
type CustodyEvent struct {
	ID        string      `json:"id"`
	EventType EventType   `json:"event_type"`
	Timestamp time.Time   `json:"timestamp"`
	Priority  Priority    `json:"priority"`
	Payload   interface{} `json:"payload"`
}

// Type 实现 pkg/interfaces/infrastructure/event.Event 接口
func (e *CustodyEvent) Type() EventType {
	return e.EventType
}

// Data 实现 pkg/interfaces/infrastructure/event.Event 接口
func (e *CustodyEvent) Data() interface{} {
	return e
}

// EventBusConfig 事件总线运行时配置
type EventBusConfig struct {
	Enabled        bool `json:"enabled"`
	MaxSubscribers int  `json:"max_subscribers"`
	HistorySize    int  `json:"history_size"`
}
