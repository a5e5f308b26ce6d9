//go:build linux

package clock

import (
	"time"

	"golang.org/x/sys/unix"
)

func (systemWallSource) ReadWall() (int64, int64, error) {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_REALTIME, &ts); err != nil {
		return 0, 0, err
	}
	sec, nsec := ts.Unix()
	return sec, nsec, nil
}

func (systemWallSource) Resolution() (time.Duration, error) {
	var ts unix.Timespec
	if err := unix.ClockGetres(unix.CLOCK_REALTIME, &ts); err != nil {
		return 0, err
	}
	return time.Duration(ts.Nano()), nil
}
