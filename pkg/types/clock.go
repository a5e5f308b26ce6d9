package types

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TimeMode 时间模式
//
// 数值与导航进程历史上的 ROV_TIME_MODE_* 保持一致，
// 日志与配置中出现的整数值可以直接对应。
type TimeMode int32

const (
	// TimeModeSystem 使用操作系统实时时钟（纳秒精度）
	TimeModeSystem TimeMode = 0
	// TimeModeRenav 使用操作员注入的重导航时间（毫秒精度，不自行走时）
	TimeModeRenav TimeMode = 1
	// TimeModeFastTime 使用 10Hz 快速时钟计数（毫秒精度）
	TimeModeFastTime TimeMode = 2
)

// String 返回模式名称
func (m TimeMode) String() string {
	switch m {
	case TimeModeSystem:
		return "system"
	case TimeModeRenav:
		return "renav"
	case TimeModeFastTime:
		return "fasttime"
	default:
		return fmt.Sprintf("TimeMode(%d)", int32(m))
	}
}

// Valid 检查是否为已定义的模式
func (m TimeMode) Valid() bool {
	return m == TimeModeSystem || m == TimeModeRenav || m == TimeModeFastTime
}

// MillisecondPrecision 重导航与快速时钟模式只有毫秒精度
func (m TimeMode) MillisecondPrecision() bool {
	return m == TimeModeRenav || m == TimeModeFastTime
}

// ParseTimeMode 解析模式名称（不区分大小写）
//
// 同时接受别名：normal=system，simulated=renav，accelerated=fasttime。
func ParseTimeMode(s string) (TimeMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "system", "normal", "0":
		return TimeModeSystem, nil
	case "renav", "simulated", "1":
		return TimeModeRenav, nil
	case "fasttime", "accelerated", "2":
		return TimeModeFastTime, nil
	default:
		return TimeModeSystem, fmt.Errorf("未知的时间模式: %q", s)
	}
}

// MarshalText 以名称形式序列化
func (m TimeMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText 从名称反序列化
func (m *TimeMode) UnmarshalText(text []byte) error {
	parsed, err := ParseTimeMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// FastTime 快速时钟计数，一个 tick 为 100ms
type FastTime uint64

// TimeStruct 按模式解析出的结构化时间
//
// 每次查询重新生成，不缓存。ClockSec/ClockNsec 只在 system 模式下有效，
// 其他模式为零。
type TimeStruct struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
	Hour  int `json:"hour"`
	Min   int `json:"min"`
	Sec   int `json:"sec"`  // 分钟内整数秒
	Msec  int `json:"msec"` // 毫秒

	ClockSec  int64 `json:"clock_sec"`  // clock_gettime 秒
	ClockNsec int64 `json:"clock_nsec"` // clock_gettime 纳秒

	SecDouble  float64 `json:"sec_double"`   // 0.0 ~ 59.999... 分钟内秒
	SecToday   float64 `json:"sec_today"`    // 0.0 ~ 86399.999... 当日秒
	SecRovTime float64 `json:"sec_rov_time"` // 1970-01-01 UTC 起的秒数

	Mode TimeMode `json:"mode"`
}

// ModeChangedEvent 时间模式切换事件
type ModeChangedEvent struct {
	ID   uuid.UUID `json:"id"`
	From TimeMode  `json:"from"`
	To   TimeMode  `json:"to"`
	At   time.Time `json:"at"` // 切换时的真实墙钟时间
}

// RenavSetEvent 重导航时间被设置的事件
type RenavSetEvent struct {
	ID     uuid.UUID `json:"id"`
	Value  float64   `json:"value"`
	Source string    `json:"source"` // epoch | fields | text
}
