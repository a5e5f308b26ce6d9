package log

import (
	"sync/atomic"
	"time"

	"go.uber.org/zap/zapcore"

	"github.com/weisyn/rovclock/pkg/types"
	"github.com/weisyn/rovclock/pkg/utils/timeutil"
)

// TimeSource 日志时间戳来源，由模式时钟实现
//
// TryNow 不能写日志，否则日志时间戳会递归读取时钟。
type TimeSource interface {
	TryNow() (time.Time, error)
	Mode() types.TimeMode
}

type timeSourceBox struct {
	src TimeSource
}

// ClockAdapter 把模式时钟接到 zap 上
//
// 日志模块先于时钟模块创建，时钟就绪后再 Bind。
// 未绑定或读取失败时使用运行时时钟。
type ClockAdapter struct {
	src atomic.Pointer[timeSourceBox]
}

// NewClockAdapter 创建未绑定的适配器
func NewClockAdapter() *ClockAdapter {
	return &ClockAdapter{}
}

// Bind 绑定时间来源，传 nil 解除绑定
func (a *ClockAdapter) Bind(src TimeSource) {
	if src == nil {
		a.src.Store(nil)
		return
	}
	a.src.Store(&timeSourceBox{src: src})
}

// Now 实现 zapcore.Clock
func (a *ClockAdapter) Now() time.Time {
	if box := a.src.Load(); box != nil {
		if t, err := box.src.TryNow(); err == nil {
			return t
		}
	}
	return time.Now()
}

// NewTicker 实现 zapcore.Clock，周期性任务仍按真实时间
func (a *ClockAdapter) NewTicker(d time.Duration) *time.Ticker {
	return time.NewTicker(d)
}

// Mode 当前模式，未绑定时为 system
func (a *ClockAdapter) Mode() types.TimeMode {
	if box := a.src.Load(); box != nil {
		return box.src.Mode()
	}
	return types.TimeModeSystem
}

// TimeEncoder 按当前模式精度输出 DSL 时间布局
func (a *ClockAdapter) TimeEncoder() zapcore.TimeEncoder {
	return func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(timeutil.FormatDSLTime(t, a.Mode()))
	}
}

var _ zapcore.Clock = (*ClockAdapter)(nil)
