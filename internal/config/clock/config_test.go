package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weisyn/rovclock/pkg/types"
)

func TestNew_Defaults(t *testing.T) {
	opts := New(nil).GetOptions()

	assert.Equal(t, "system", opts.Mode)
	assert.Equal(t, "UTC", opts.CalendarZone)
	assert.Equal(t, 100*time.Millisecond, opts.FastTimeInterval)
	assert.False(t, opts.FastTimeEnabled)
	assert.False(t, opts.MonitorEnabled)
	assert.Equal(t, "time.google.com", opts.NTPServer)
	require.NoError(t, opts.Validate())

	mode, err := opts.TimeMode()
	require.NoError(t, err)
	assert.Equal(t, types.TimeModeSystem, mode)

	loc, err := opts.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestNew_UserConfig(t *testing.T) {
	opts := New(&types.UserClockConfig{
		Mode:               types.StringPtr("fasttime"),
		RenavStart:         types.StringPtr("07/04/2024 13:45:30.5"),
		FastTimeEnabled:    types.BoolPtr(true),
		FastTimeIntervalMs: types.Int64Ptr(0),
		MonitorEnabled:     types.BoolPtr(true),
		NTPServer:          types.StringPtr("pool.ntp.org"),
		MonitorIntervalMs:  types.Int64Ptr(30_000),
		OffsetThresholdMs:  types.Int64Ptr(50),
	}).GetOptions()

	assert.Equal(t, "fasttime", opts.Mode)
	assert.Equal(t, "07/04/2024 13:45:30.5", opts.RenavStart)
	assert.True(t, opts.FastTimeEnabled)
	assert.Equal(t, time.Duration(0), opts.FastTimeInterval)
	assert.True(t, opts.MonitorEnabled)
	assert.Equal(t, "pool.ntp.org", opts.NTPServer)
	assert.Equal(t, 30*time.Second, opts.MonitorInterval)
	assert.Equal(t, 50*time.Millisecond, opts.OffsetThreshold)
	require.NoError(t, opts.Validate())
}

func TestNew_EnvOverrides(t *testing.T) {
	t.Setenv("CLOCK_MODE", "renav")
	t.Setenv("CLOCK_FASTTIME_INTERVAL_MS", "10")
	t.Setenv("CLOCK_MONITOR_ENABLED", "true")
	t.Setenv("CLOCK_OFFSET_THRESHOLD_MS", "abc")

	opts := New(&types.UserClockConfig{Mode: types.StringPtr("fasttime")}).GetOptions()

	assert.Equal(t, "renav", opts.Mode, "环境变量优先于配置文件")
	assert.Equal(t, 10*time.Millisecond, opts.FastTimeInterval)
	assert.True(t, opts.MonitorEnabled)
	assert.Equal(t, 500*time.Millisecond, opts.OffsetThreshold, "无法解析的值被忽略")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(o *ClockOptions)
	}{
		{"未知模式", func(o *ClockOptions) { o.Mode = "warp" }},
		{"未知时区", func(o *ClockOptions) { o.CalendarZone = "Mars/Olympus" }},
		{"重导航起始时间格式错误", func(o *ClockOptions) { o.RenavStart = "07/04/2024 13:45" }},
		{"负的tick间隔", func(o *ClockOptions) { o.FastTimeInterval = -time.Millisecond }},
		{"监测开启但无服务器", func(o *ClockOptions) { o.MonitorEnabled = true; o.NTPServer = "" }},
		{"监测间隔为零", func(o *ClockOptions) { o.MonitorEnabled = true; o.MonitorInterval = 0 }},
		{"退避上限小于初值", func(o *ClockOptions) { o.BackoffMax = time.Second; o.BackoffInitial = time.Minute }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := New(nil).GetOptions()
			tt.mutate(opts)
			assert.ErrorIs(t, opts.Validate(), ErrInvalidOptions)
		})
	}
}
