package clock

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/weisyn/rovclock/pkg/types"
)

func TestFastTimer_TicksWithClock(t *testing.T) {
	writer, reader := NewFastTime()
	fc := clockwork.NewFakeClock()
	timer, err := NewFastTimer(writer, fc, 100*time.Millisecond, nil)
	require.NoError(t, err)

	require.NoError(t, timer.Start(context.Background()))
	defer timer.Stop()
	assert.True(t, timer.IsRunning())

	fc.BlockUntil(1)
	for i := 1; i <= 3; i++ {
		fc.Advance(100 * time.Millisecond)
		want := types.FastTime(i)
		require.Eventually(t, func() bool { return reader.Get() == want },
			time.Second, time.Millisecond)
	}
	assert.Equal(t, types.FastTime(3), timer.Ticks())
}

func TestFastTimer_FreeRun(t *testing.T) {
	writer, reader := NewFastTime()
	timer, err := NewFastTimer(writer, nil, 0, nil)
	require.NoError(t, err)

	require.NoError(t, timer.Start(context.Background()))
	require.Eventually(t, func() bool { return reader.Get() > 100 }, time.Second, time.Millisecond)
	timer.Stop()

	// 停止后不再推进
	stopped := reader.Get()
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, stopped, reader.Get())
	assert.False(t, timer.IsRunning())
}

func TestFastTimer_StartStop(t *testing.T) {
	t.Run("重复启动", func(t *testing.T) {
		writer, _ := NewFastTime()
		timer, err := NewFastTimer(writer, clockwork.NewFakeClock(), time.Second, nil)
		require.NoError(t, err)

		require.NoError(t, timer.Start(context.Background()))
		assert.ErrorIs(t, timer.Start(context.Background()), ErrTimerRunning)
		timer.Stop()
		timer.Stop()
		assert.False(t, timer.IsRunning())

		// 停止后可以再次启动
		require.NoError(t, timer.Start(context.Background()))
		timer.Stop()
	})

	t.Run("未启动时停止", func(t *testing.T) {
		writer, _ := NewFastTime()
		timer, err := NewFastTimer(writer, nil, time.Second, nil)
		require.NoError(t, err)
		timer.Stop()
	})

	t.Run("上下文取消后退出", func(t *testing.T) {
		writer, _ := NewFastTime()
		timer, err := NewFastTimer(writer, clockwork.NewFakeClock(), time.Second, nil)
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		require.NoError(t, timer.Start(ctx))
		cancel()
		require.Eventually(t, func() bool { return !timer.IsRunning() }, time.Second, time.Millisecond)
		timer.Stop()
	})
}

func TestNewFastTimer_Errors(t *testing.T) {
	t.Run("负的间隔", func(t *testing.T) {
		writer, _ := NewFastTime()
		_, err := NewFastTimer(writer, nil, -time.Millisecond, nil)
		assert.ErrorIs(t, err, ErrInvalidInterval)

		// 失败的构造不占用写端
		_, err = NewFastTimer(writer, nil, time.Millisecond, nil)
		assert.NoError(t, err)
	})

	t.Run("写端只能被一个驱动持有", func(t *testing.T) {
		writer, _ := NewFastTime()
		_, err := NewFastTimer(writer, nil, time.Millisecond, nil)
		require.NoError(t, err)
		_, err = NewFastTimer(writer, nil, time.Millisecond, nil)
		assert.ErrorIs(t, err, ErrWriterClaimed)
	})

	t.Run("写端为空", func(t *testing.T) {
		_, err := NewFastTimer(nil, nil, time.Millisecond, nil)
		assert.Error(t, err)
	})
}

func TestFastTimer_FreeRunWarns(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)

	writer, _ := NewFastTime()
	timer, err := NewFastTimer(writer, nil, 0, zap.New(core))
	require.NoError(t, err)
	require.NoError(t, timer.Start(context.Background()))
	timer.Stop()
	assert.Equal(t, 1, logs.FilterMessageSnippet("全速").Len())

	core, logs = observer.New(zapcore.WarnLevel)
	writer, _ = NewFastTime()
	timer, err = NewFastTimer(writer, clockwork.NewFakeClock(), 100*time.Millisecond, zap.New(core))
	require.NoError(t, err)
	require.NoError(t, timer.Start(context.Background()))
	timer.Stop()
	assert.Zero(t, logs.Len(), "按间隔运行时不告警")
}
