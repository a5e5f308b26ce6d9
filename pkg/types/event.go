package types

// EventType 事件类型
type EventType string

// 时钟相关事件
const (
	// EventTypeClockModeChanged 时间模式切换，载荷为 ModeChangedEvent
	EventTypeClockModeChanged EventType = "clock.mode.changed"
	// EventTypeClockRenavSet 重导航时间被设置，载荷为 RenavSetEvent
	EventTypeClockRenavSet EventType = "clock.renav.set"
	// EventTypeClockOffsetAlarm 主机时钟偏移超出阈值，载荷为 OffsetAlarmEvent
	EventTypeClockOffsetAlarm EventType = "clock.offset.alarm"
)

// OffsetAlarmEvent 主机时钟偏移告警
type OffsetAlarmEvent struct {
	Server        string  `json:"server"`
	OffsetSeconds float64 `json:"offset_seconds"`
	Threshold     float64 `json:"threshold_seconds"`
}
