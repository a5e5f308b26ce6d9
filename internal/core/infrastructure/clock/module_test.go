package clock

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"

	clockconfig "github.com/weisyn/rovclock/internal/config/clock"
	"github.com/weisyn/rovclock/internal/core/infrastructure/log"
	"github.com/weisyn/rovclock/pkg/types"
	"github.com/weisyn/rovclock/pkg/utils/timeutil"
)

func TestProvideServices(t *testing.T) {
	opts := clockconfig.New(nil).GetOptions()
	opts.Mode = "renav"
	opts.RenavStart = "07/04/2024 13:45:30.5"
	adapter := log.NewClockAdapter()
	reg := prometheus.NewRegistry()

	out, err := ProvideServices(ModuleParams{
		Options:      opts,
		ClockAdapter: adapter,
		Registerer:   reg,
	})
	require.NoError(t, err)
	t.Cleanup(timeutil.ResetClock)

	assert.Equal(t, types.TimeModeRenav, out.ModeClock.Mode())
	assert.Equal(t, julyFourth+0.5, out.Controller.RenavTime())
	assert.Nil(t, out.OffsetMonitor)

	s, err := out.Resolver.DSLString()
	require.NoError(t, err)
	assert.Equal(t, "2024/07/04 13:45:30.500", s)

	// 全局时间与日志时间戳都跟随模式时钟
	assert.Equal(t, int64(julyFourth), timeutil.Now().Unix())
	assert.Equal(t, types.TimeModeRenav, adapter.Mode())
	assert.Equal(t, int64(julyFourth), adapter.Now().Unix())

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 3)
}

func TestProvideServices_InvalidOptions(t *testing.T) {
	t.Run("配置为空", func(t *testing.T) {
		_, err := ProvideServices(ModuleParams{})
		assert.Error(t, err)
	})

	t.Run("未知模式", func(t *testing.T) {
		opts := clockconfig.New(nil).GetOptions()
		opts.Mode = "warp"
		_, err := ProvideServices(ModuleParams{Options: opts})
		assert.ErrorIs(t, err, clockconfig.ErrInvalidOptions)
	})

	t.Run("初始重导航时间格式错误", func(t *testing.T) {
		opts := clockconfig.New(nil).GetOptions()
		opts.RenavStart = "07/04/2024"
		_, err := ProvideServices(ModuleParams{Options: opts})
		assert.ErrorIs(t, err, clockconfig.ErrInvalidOptions)
	})
}

func TestStartClock(t *testing.T) {
	opts := clockconfig.New(nil).GetOptions()
	opts.Mode = "fasttime"
	opts.FastTimeEnabled = true
	opts.FastTimeInterval = time.Millisecond
	opts.MonitorEnabled = true
	adapter := log.NewClockAdapter()

	out, err := ProvideServices(ModuleParams{Options: opts, ClockAdapter: adapter})
	require.NoError(t, err)
	require.NotNil(t, out.OffsetMonitor)
	out.OffsetMonitor.SetQueryFunc(func(string) (time.Duration, error) { return 0, nil })

	lc := fxtest.NewLifecycle(t)
	StartClock(StartParams{
		Lifecycle:    lc,
		Options:      opts,
		FastTimer:    out.FastTimer,
		Monitor:      out.OffsetMonitor,
		ClockAdapter: adapter,
	})
	lc.RequireStart()

	require.Eventually(t, func() bool { return out.FastTime.Get() >= 3 }, time.Second, time.Millisecond)
	require.Eventually(t, func() bool { return out.OffsetMonitor.Health().Checks >= 1 }, time.Second, time.Millisecond)

	require.NoError(t, lc.Stop(context.Background()))
	assert.False(t, out.FastTimer.IsRunning())
	assert.Equal(t, types.TimeModeSystem, adapter.Mode(), "停止后解除绑定")
}
