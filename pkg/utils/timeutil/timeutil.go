// Package timeutil provides time utility functions.
//
// 进程内的"现在"由注入的时钟提供（通常是模式时钟），
// 未注入时回退系统时钟。格式化与解析函数是纯函数，
// 不读取任何全局模式状态。
package timeutil

import (
	"sync/atomic"
	"time"

	infraClock "github.com/weisyn/rovclock/pkg/interfaces/infrastructure/clock"
)

type nowFunc func() time.Time

var nowProvider atomic.Pointer[nowFunc]

func init() {
	ResetClock()
}

// SetClock 设置时间提供者（由基础设施注入），传入 nil 时不做改变
func SetClock(c infraClock.Clock) {
	if c == nil {
		return
	}
	fn := nowFunc(c.Now)
	nowProvider.Store(&fn)
}

// ResetClock 恢复为系统时钟
func ResetClock() {
	fn := nowFunc(time.Now)
	nowProvider.Store(&fn)
}

// Now 返回当前时间（来自注入的时钟）
func Now() time.Time { return (*nowProvider.Load())() }

// NowUnix 返回当前Unix秒时间戳（uint64）
func NowUnix() uint64 { return uint64(Now().Unix()) }

// NowEpoch 返回当前纪元秒（含小数部分）
func NowEpoch() float64 {
	t := Now()
	return float64(t.Unix()) + float64(t.Nanosecond())*1e-9
}
