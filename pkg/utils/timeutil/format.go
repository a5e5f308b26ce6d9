package timeutil

import (
	"fmt"
	"math"
	"time"

	"github.com/weisyn/rovclock/pkg/types"
)

const (
	// SecondsPerDay 一天的秒数
	SecondsPerDay = 86400.0

	// DSLMillisLen 毫秒布局长度 YYYY/MM/DD HH:MM:SS.fff
	DSLMillisLen = 23
	// DSLNanosLen 纳秒布局长度 YYYY/MM/DD HH:MM:SS.fffffffff
	DSLNanosLen = 29
)

// FormatDSL 将结构化时间格式化为 DSL 时间字符串
//
// renav/fasttime 模式为毫秒精度，system 模式为纳秒精度。
// 布局固定为年在前："2024/07/04 13:45:30.500"（23 字节）与
// "2024/07/04 13:45:30.123456789"（29 字节）。
// 下游日志解析器依赖字段宽度与分隔符，不要改动布局。
func FormatDSL(ts types.TimeStruct) string {
	if ts.Mode.MillisecondPrecision() {
		return fmt.Sprintf("%04d/%02d/%02d %02d:%02d:%02d.%03d",
			ts.Year, ts.Month, ts.Day, ts.Hour, ts.Min, ts.Sec, ts.Msec)
	}
	return fmt.Sprintf("%04d/%02d/%02d %02d:%02d:%02d.%09d",
		ts.Year, ts.Month, ts.Day, ts.Hour, ts.Min, ts.Sec, ts.ClockNsec)
}

// FormatDSLTime 按模式精度格式化 time.Time（按 UTC 显示）
func FormatDSLTime(t time.Time, mode types.TimeMode) string {
	t = t.UTC()
	ts := types.TimeStruct{
		Year:      t.Year(),
		Month:     int(t.Month()),
		Day:       t.Day(),
		Hour:      t.Hour(),
		Min:       t.Minute(),
		Sec:       t.Second(),
		Msec:      t.Nanosecond() / int(time.Millisecond),
		ClockNsec: int64(t.Nanosecond()),
		Mode:      mode,
	}
	return FormatDSL(ts)
}

// FormatDSLEpoch 直接从纪元秒格式化 YYYY/MM/DD HH:MM:SS.sss
//
// 与当前模式无关，用于不应触碰全局模式状态的场景。
// 先四舍五入到毫秒再换算日历，避免出现 "60.000" 秒。
func FormatDSLEpoch(totalSecs float64) string {
	totalMs := int64(math.Floor(totalSecs*1000 + 0.5))
	sec := floorDiv(totalMs, 1000)
	ms := totalMs - sec*1000
	cal := CalendarFromEpoch(sec)
	return fmt.Sprintf("%04d/%02d/%02d %02d:%02d:%02d.%03d",
		cal.Year, cal.Month, cal.Day, cal.Hour, cal.Min, cal.Sec, ms)
}

// FormatHourMinute 只输出当日时分 HH:MM（截断）
func FormatHourMinute(t float64) string {
	secToday := secondsOfDay(t)
	hr := math.Floor(secToday / 3600.0)
	mins := math.Floor(math.Mod(secToday, 3600.0) / 60.0)
	return fmt.Sprintf("%02d:%02d", int(hr), int(mins))
}

// FormatHourMinuteSecond 只输出当日时分秒 HH:MM:SS（截断）
func FormatHourMinuteSecond(t float64) string {
	secToday := secondsOfDay(t)
	hr := math.Floor(secToday / 3600.0)
	mins := math.Floor(math.Mod(secToday, 3600.0) / 60.0)
	sec := math.Floor(math.Mod(secToday, 60.0))
	return fmt.Sprintf("%02d:%02d:%02d", int(hr), int(mins), int(sec))
}

// Diff 两个纪元秒之差
func Diff(t1, t0 float64) float64 {
	return t1 - t0
}

// secondsOfDay t 对 86400 取模，结果落在 [0,86400)
func secondsOfDay(t float64) float64 {
	s := math.Mod(t, SecondsPerDay)
	if s < 0 {
		s += SecondsPerDay
	}
	return s
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
