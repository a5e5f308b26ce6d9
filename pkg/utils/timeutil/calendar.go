package timeutil

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// MaxEpochSeconds 可格式化的纪元秒绝对值上限，按毫秒换算后仍在 int64 内
const MaxEpochSeconds = 1e15

// ErrEpochRange 纪元秒不是有限值或超出 MaxEpochSeconds
var ErrEpochRange = errors.New("epoch out of range")

// CheckEpoch 校验纪元秒可以安全地换算与格式化
func CheckEpoch(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) > MaxEpochSeconds {
		return fmt.Errorf("%w: %v", ErrEpochRange, v)
	}
	return nil
}

// Calendar UTC 日历字段
type Calendar struct {
	Year, Month, Day int
	Hour, Min, Sec   int
}

// CalendarFromEpoch 将整数纪元秒换算为 UTC 日历字段
//
// time 包的换算没有共享缓冲区，可以在多个 goroutine 中并发调用。
func CalendarFromEpoch(sec int64) Calendar {
	t := time.Unix(sec, 0).UTC()
	return Calendar{
		Year:  t.Year(),
		Month: int(t.Month()),
		Day:   t.Day(),
		Hour:  t.Hour(),
		Min:   t.Minute(),
		Sec:   t.Second(),
	}
}

// EpochFromCalendar 将日历字段换算为纪元秒，保留 sec 的小数部分
//
// 越界字段（如 month=13）由 time.Date 归一化。loc 为 nil 时按 UTC 处理。
func EpochFromCalendar(year, month, day, hour, minute int, sec float64, loc *time.Location) float64 {
	if loc == nil {
		loc = time.UTC
	}
	whole := math.Floor(sec)
	t := time.Date(year, time.Month(month), day, hour, minute, int(whole), 0, loc)
	return float64(t.Unix()) + (sec - whole)
}

// SplitEpoch 以 floor 拆分整数秒与 [0,1) 内的小数部分
//
// 负值与接近整秒的值也保持 sec+frac == v。
func SplitEpoch(v float64) (sec int64, frac float64) {
	whole := math.Floor(v)
	return int64(whole), v - whole
}

// SplitEpochMillis 拆分为整数秒与四舍五入后的毫秒，毫秒进位到秒
func SplitEpochMillis(v float64) (sec int64, msec int) {
	sec, frac := SplitEpoch(v)
	msec = int(math.Round(frac * 1000))
	if msec >= 1000 {
		sec++
		msec -= 1000
	}
	return sec, msec
}
