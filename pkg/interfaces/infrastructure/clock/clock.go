// Package clock provides the process time-source interfaces.
package clock

import (
	"time"

	"github.com/weisyn/rovclock/pkg/types"
)

// Clock 提供统一的时间源接口（基础设施层接口）
//
// 设计目标：
// - 一致性：测量时间戳、日志与调度在同一进程内对"现在"取得一致
// - 可测试：支持可替换与Mock实现
// - 可切换：system / renav / fasttime 三种来源在同一接口之后
type Clock interface {
	// Now 获取当前时间
	Now() time.Time

	// Since 计算从指定时间到现在的持续时间
	Since(t time.Time) time.Duration

	// Unix 获取当前Unix时间戳（秒）
	Unix() int64

	// UnixNano 获取当前Unix时间戳（纳秒）
	UnixNano() int64
}

// ModeReader 只读的模式查询
type ModeReader interface {
	Mode() types.TimeMode
}

// TimeResolver 按模式解析结构化时间
//
// 所有方法都不阻塞；返回的 TimeStruct 每次重新计算。
type TimeResolver interface {
	ModeReader

	// TimeStruct 按当前模式解析
	TimeStruct() (types.TimeStruct, error)
	// TimeStructMode 按指定模式解析
	TimeStructMode(mode types.TimeMode) (types.TimeStruct, error)
	// GetTime 当前模式下的纪元秒
	GetTime() (float64, error)
	// DSLString 当前模式下的 DSL 时间字符串
	DSLString() (string, error)
}

// ModeController 模式与重导航时间的写入端（操作员命令使用）
type ModeController interface {
	TimeResolver

	SetMode(mode types.TimeMode) error
	SetTime(epochSeconds float64)
	SetTimeFields(year, month, day, hour, min int, sec float64)
	SetTimeString(text string) error
	RenavTime() float64
}

// FastTimeSource 快速时钟只读端
type FastTimeSource interface {
	Get() types.FastTime
}
