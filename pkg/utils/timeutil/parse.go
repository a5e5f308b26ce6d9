package timeutil

import (
	"errors"
	"fmt"
	"time"
)

// ErrMalformedTime 时间字符串格式错误
var ErrMalformedTime = errors.New("malformed time string")

// DSLFields 操作员输入的日历字段
type DSLFields struct {
	Year  int     `json:"year"`
	Month int     `json:"month"`
	Day   int     `json:"day"`
	Hour  int     `json:"hour"`
	Min   int     `json:"min"`
	Sec   float64 `json:"sec"`
}

// ParseDSLTime 解析 "月/日/年 时:分:秒" 格式（注意不是 ISO 顺序）
//
// 六个字段必须全部存在，秒可以带小数，例如 "07/04/2024 13:45:30.5"。
func ParseDSLTime(text string) (DSLFields, error) {
	var f DSLFields
	n, err := fmt.Sscanf(text, "%d/%d/%d %d:%d:%g", &f.Month, &f.Day, &f.Year, &f.Hour, &f.Min, &f.Sec)
	if n != 6 {
		if err != nil {
			return DSLFields{}, fmt.Errorf("%w: %q 只解析出 %d 个字段: %v", ErrMalformedTime, text, n, err)
		}
		return DSLFields{}, fmt.Errorf("%w: %q 只解析出 %d 个字段", ErrMalformedTime, text, n)
	}
	return f, nil
}

// Epoch 换算为纪元秒
func (f DSLFields) Epoch(loc *time.Location) float64 {
	return EpochFromCalendar(f.Year, f.Month, f.Day, f.Hour, f.Min, f.Sec, loc)
}
