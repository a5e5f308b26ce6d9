// 基于asaskevich/EventBus的事件总线实现
// 在底层总线之上增加启用开关、订阅上限与有界的事件历史

package event

import (
	"fmt"
	"sync"
	"sync/atomic"

	evbus "github.com/asaskevich/EventBus"
	eventconfig "github.com/weisyn/rovclock/internal/config/event"
	"github.com/weisyn/rovclock/pkg/interfaces/infrastructure/event"
)

// EventBus 是基于asaskevich/EventBus的实现
type EventBus struct {
	bus     evbus.Bus                 // 底层事件总线
	options *eventconfig.EventOptions // 配置

	// 历史记录，每个事件类型最多保留 HistorySize 条
	historyMu    sync.RWMutex
	eventHistory map[event.EventType][]interface{}

	// 每个事件类型的订阅数
	subMu       sync.Mutex
	subscribers map[event.EventType]int

	published atomic.Uint64
}

// New 创建事件总线实例
// 所有事件总线实例必须通过此函数创建，确保配置被正确应用
func New(config *eventconfig.Config) *EventBus {
	return &EventBus{
		bus:          evbus.New(),
		options:      config.GetOptions(),
		eventHistory: make(map[event.EventType][]interface{}),
		subscribers:  make(map[event.EventType]int),
	}
}

// reserve 占用一个订阅名额
func (eb *EventBus) reserve(eventType event.EventType) error {
	eb.subMu.Lock()
	defer eb.subMu.Unlock()
	if max := eb.options.MaxSubscribers; max > 0 && eb.subscribers[eventType] >= max {
		return fmt.Errorf("事件 %s 订阅者已达上限 %d", eventType, max)
	}
	eb.subscribers[eventType]++
	return nil
}

func (eb *EventBus) release(eventType event.EventType) {
	eb.subMu.Lock()
	defer eb.subMu.Unlock()
	if eb.subscribers[eventType] > 0 {
		eb.subscribers[eventType]--
	}
}

func (eb *EventBus) subscribe(eventType event.EventType, fn func() error) error {
	if !eb.options.Enabled {
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

// SubscribeOnce 实现一次性订阅（触发后名额不回收，直到 Unsubscribe）
func (eb *EventBus) SubscribeOnce(eventType event.EventType, handler interface{}) error {
	return eb.subscribe(eventType, func() error {
		return eb.bus.SubscribeOnce(string(eventType), handler)
	})
}

// Publish 实现发布
func (eb *EventBus) Publish(eventType event.EventType, args ...interface{}) {
	if !eb.options.Enabled {
		return
	}
	eb.saveEventToHistory(eventType, args)
	eb.published.Add(1)
	eb.bus.Publish(string(eventType), args...)
}

// saveEventToHistory 保存事件负载（单参数时保存参数本身）
func (eb *EventBus) saveEventToHistory(eventType event.EventType, args []interface{}) {
	size := eb.options.HistorySize
	if size <= 0 {
		return
	}
	var payload interface{} = args
	if len(args) == 1 {
		payload = args[0]
	}

	eb.historyMu.Lock()
	defer eb.historyMu.Unlock()
	h := append(eb.eventHistory[eventType], payload)
	if len(h) > size {
		h = h[len(h)-size:]
	}
	eb.eventHistory[eventType] = h
}

// GetEventHistory 获取指定类型的事件历史（旧到新的副本）
func (eb *EventBus) GetEventHistory(eventType event.EventType) []interface{} {
	eb.historyMu.RLock()
	defer eb.historyMu.RUnlock()
	h := eb.eventHistory[eventType]
	out := make([]interface{}, len(h))
	copy(out, h)
	return out
}

// Unsubscribe 取消订阅
func (eb *EventBus) Unsubscribe(eventType event.EventType, handler interface{}) error {
	if !eb.options.Enabled {
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
	if !eb.options.Enabled {
		return
	}
	eb.bus.WaitAsync()
}

// HasCallback 检查是否有回调函数
func (eb *EventBus) HasCallback(eventType event.EventType) bool {
	if !eb.options.Enabled {
		return false
	}
	return eb.bus.HasCallback(string(eventType))
}

// PublishedCount 已发布的事件总数
func (eb *EventBus) PublishedCount() uint64 {
	return eb.published.Load()
}

var _ event.EventBus = (*EventBus)(nil)
