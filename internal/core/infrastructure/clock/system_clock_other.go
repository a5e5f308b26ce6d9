//go:build !linux

package clock

import "time"

func (systemWallSource) ReadWall() (int64, int64, error) {
	now := time.Now()
	return now.Unix(), int64(now.Nanosecond()), nil
}

// Resolution 非 Linux 平台无法查询，报告纳秒
func (systemWallSource) Resolution() (time.Duration, error) {
	return time.Nanosecond, nil
}
