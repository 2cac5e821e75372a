// 基于asaskevich/EventBus的事件总线实现
// 在底层总线之上增加：启用开关、订阅者上限、有界事件历史、订阅者 panic 隔离

package event

import (
	"errors"
	"fmt"
	"sync"

	evbus "github.com/asaskevich/EventBus"

	eventconfig "github.com/weisyn/custody/internal/config/event"
	"github.com/weisyn/custody/pkg/interfaces/infrastructure/event"
	"github.com/weisyn/custody/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/custody/pkg/types"
)

// ErrTooManySubscribers 事件类型的订阅者数量已达上限
var ErrTooManySubscribers = errors.New("too many subscribers")

// EventBus 是基于asaskevich/EventBus的实现
//
// 🎯 **特性**：
// - 保持与asaskevich/EventBus的调用约定（handler 为任意函数）
// - 每个事件类型的订阅者数量受 MaxSubscribers 限制
// - 最近 HistorySize 条事件保留在内存中，供诊断接口查询
// - 同步订阅者 panic 被捕获并记录，不影响发布方
type EventBus struct {
	bus    evbus.Bus           // 底层事件总线
	config *eventconfig.Config // 配置
	logger log.Logger          // 日志记录器（可选）

	subMu       sync.Mutex
	subscribers map[event.EventType]int // 每个事件类型的订阅者数量

	historyMu    sync.RWMutex
	eventHistory map[event.EventType][]interface{}
}

// New 创建事件总线实例
// 所有事件总线实例必须通过此函数创建，确保配置被正确应用
func New(config *eventconfig.Config, logger log.Logger) *EventBus {
	return &EventBus{
		bus:          evbus.New(),
		config:       config,
		logger:       logger,
		subscribers:  make(map[event.EventType]int),
		eventHistory: make(map[event.EventType][]interface{}),
	}
}

// reserve 占用一个订阅名额
func (eb *EventBus) reserve(eventType event.EventType) error {
	eb.subMu.Lock()
	defer eb.subMu.Unlock()
	if limit := eb.config.GetMaxSubscribers(); limit > 0 && eb.subscribers[eventType] >= limit {
		return fmt.Errorf("%w: %s (max %d)", ErrTooManySubscribers, eventType, limit)
	}
	eb.subscribers[eventType]++
	return nil
}

// release 释放一个订阅名额
func (eb *EventBus) release(eventType event.EventType) {
	eb.subMu.Lock()
	defer eb.subMu.Unlock()
	if eb.subscribers[eventType] > 0 {
		eb.subscribers[eventType]--
	}
}

// subscribe 统一的订阅流程：占用名额 → 底层订阅 → 失败时归还名额
func (eb *EventBus) subscribe(eventType event.EventType, fn func() error) error {
	if !eb.config.IsEnabled() {
		return nil // 如果事件系统未启用，静默成功
	}
	if err := eb.reserve(eventType); err != nil {
		return err
	}
	if err := fn(); err != nil {
		eb.release(eventType)
		return err
	}
	return nil
}

// Subscribe 实现订阅
func (eb *EventBus) Subscribe(eventType event.EventType, handler interface{}) error {
	return eb.subscribe(eventType, func() error {
		return eb.bus.Subscribe(string(eventType), handler)
	})
}

// SubscribeAsync 实现异步订阅
func (eb *EventBus) SubscribeAsync(eventType event.EventType, handler interface{}, transactional bool) error {
	return eb.subscribe(eventType, func() error {
		return eb.bus.SubscribeAsync(string(eventType), handler, transactional)
	})
}

// SubscribeOnce 实现一次性订阅
// 一次性订阅在触发后由底层总线移除，不占用订阅名额
func (eb *EventBus) SubscribeOnce(eventType event.EventType, handler interface{}) error {
	if !eb.config.IsEnabled() {
		return nil
	}
	return eb.bus.SubscribeOnce(string(eventType), handler)
}

// Publish 实现发布
func (eb *EventBus) Publish(eventType event.EventType, args ...interface{}) {
	if !eb.config.IsEnabled() {
		return
	}
	eb.saveEventToHistory(eventType, args)
	eb.publish(eventType, args...)
}

// PublishEvent 发布Event接口类型事件
func (eb *EventBus) PublishEvent(e event.Event) {
	if e == nil {
		return
	}
	eb.Publish(e.Type(), e.Data())
}

// publish 调用底层总线，隔离同步订阅者的 panic
func (eb *EventBus) publish(eventType event.EventType, args ...interface{}) {
	defer func() {
		if r := recover(); r != nil && eb.logger != nil {
			eb.logger.Errorf("事件订阅者 panic: type=%s, panic=%v", eventType, r)
		}
	}()
	eb.bus.Publish(string(eventType), args...)
}

// saveEventToHistory 保存事件到有界历史
func (eb *EventBus) saveEventToHistory(eventType event.EventType, args []interface{}) {
	size := eb.config.GetHistorySize()
	if size <= 0 || len(args) == 0 {
		return
	}

	var record interface{} = args
	if len(args) == 1 {
		record = args[0]
	}

	eb.historyMu.Lock()
	defer eb.historyMu.Unlock()
	history := append(eb.eventHistory[eventType], record)
	if len(history) > size {
		history = history[len(history)-size:]
	}
	eb.eventHistory[eventType] = history
}

// GetEventHistory 获取指定类型的事件历史（按发布顺序）
func (eb *EventBus) GetEventHistory(eventType event.EventType) []interface{} {
	eb.historyMu.RLock()
	defer eb.historyMu.RUnlock()
	history := eb.eventHistory[eventType]
	if len(history) == 0 {
		return nil
	}
	out := make([]interface{}, len(history))
	copy(out, history)
	return out
}

// Unsubscribe 取消订阅
func (eb *EventBus) Unsubscribe(eventType event.EventType, handler interface{}) error {
	if !eb.config.IsEnabled() {
		return nil
	}
	if err := eb.bus.Unsubscribe(string(eventType), handler); err != nil {
		return err
	}
	eb.release(eventType)
	return nil
}

// WaitAsync 等待异步处理完成
func (eb *EventBus) WaitAsync() {
	if !eb.config.IsEnabled() {
		return
	}
	eb.bus.WaitAsync()
}

// HasCallback 检查是否有回调
func (eb *EventBus) HasCallback(eventType event.EventType) bool {
	if !eb.config.IsEnabled() {
		return false
	}
	return eb.bus.HasCallback(string(eventType))
}

// GetConfig 获取当前配置
func (eb *EventBus) GetConfig() *types.EventBusConfig {
	return eb.config.GetOptions().ToBusConfig()
}
