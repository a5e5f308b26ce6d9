// Package event 提供事件总线接口定义
//
// 时钟子系统通过事件总线通知：
// - 时间模式切换
// - 重导航时间注入
// - 主机时钟偏移告警
package event

import "github.com/weisyn/rovclock/pkg/types"

// EventType 兼容别名
type EventType = types.EventType

// Publisher 只需要发布能力的组件依赖这个接口
type Publisher interface {
	// Publish 发布事件
	Publish(eventType EventType, args ...interface{})
}

// EventBus 事件总线接口
// 注意：事件总线由DI容器自动管理生命周期
type EventBus interface {
	Publisher

	// Subscribe 订阅事件
	Subscribe(eventType EventType, handler interface{}) error
	// SubscribeAsync 异步订阅事件
	SubscribeAsync(eventType EventType, handler interface{}, transactional bool) error
	// SubscribeOnce 一次性订阅事件
	SubscribeOnce(eventType EventType, handler interface{}) error
	// Unsubscribe 取消订阅
	Unsubscribe(eventType EventType, handler interface{}) error
	// WaitAsync 等待所有异步处理完成
	WaitAsync()
	// HasCallback 检查是否有回调函数
	HasCallback(eventType EventType) bool
	// GetEventHistory 获取指定事件类型的历史记录
	GetEventHistory(eventType EventType) []interface{}
}
