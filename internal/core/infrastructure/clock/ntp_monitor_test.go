package clock

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clockconfig "github.com/weisyn/rovclock/internal/config/clock"
	"github.com/weisyn/rovclock/pkg/types"
)

func newTestMonitor(t *testing.T, fc clockwork.Clock) *OffsetMonitor {
	t.Helper()
	opts := clockconfig.New(nil).GetOptions()
	opts.MonitorEnabled = true
	opts.NTPServer = "ntp.test"
	opts.MonitorInterval = time.Minute
	opts.OffsetThreshold = 500 * time.Millisecond
	opts.BackoffInitial = 5 * time.Second
	opts.BackoffMax = 20 * time.Second
	return NewOffsetMonitor(opts, fc, nil)
}

func TestOffsetMonitor_Backoff(t *testing.T) {
	m := newTestMonitor(t, clockwork.NewFakeClock())
	fail := true
	m.SetQueryFunc(func(server string) (time.Duration, error) {
		assert.Equal(t, "ntp.test", server)
		if fail {
			return 0, errors.New("i/o timeout")
		}
		return 10 * time.Millisecond, nil
	})

	assert.Equal(t, time.Minute, m.nextWait())
	for _, want := range []time.Duration{5 * time.Second, 10 * time.Second, 20 * time.Second, 20 * time.Second} {
		m.Check()
		assert.Equal(t, want, m.nextWait())
	}

	h := m.Health()
	assert.False(t, h.Healthy)
	assert.Equal(t, "i/o timeout", h.LastError)
	assert.Equal(t, uint64(4), h.Checks)

	// 成功后退避清零
	fail = false
	m.Check()
	assert.Equal(t, time.Minute, m.nextWait())
	h = m.Health()
	assert.True(t, h.Healthy)
	assert.Empty(t, h.LastError)
	assert.Equal(t, 10*time.Millisecond, h.Offset)
}

func TestOffsetMonitor_Alarm(t *testing.T) {
	fc := clockwork.NewFakeClockAt(time.Date(2024, 7, 4, 13, 45, 30, 0, time.UTC))
	m := newTestMonitor(t, fc)
	pub := &fakePublisher{}
	m.SetPublisher(pub)

	var offset time.Duration
	m.SetQueryFunc(func(string) (time.Duration, error) { return offset, nil })

	h := m.Health()
	assert.False(t, h.Healthy, "尚未同步")
	assert.True(t, h.LastSync.IsZero())

	offset = -time.Second
	m.Check()
	m.Check()
	alarms := pub.ofType(types.EventTypeClockOffsetAlarm)
	require.Len(t, alarms, 1, "持续超限只告警一次")
	alarm := alarms[0].(types.OffsetAlarmEvent)
	assert.Equal(t, "ntp.test", alarm.Server)
	assert.Equal(t, -1.0, alarm.OffsetSeconds)
	assert.Equal(t, 0.5, alarm.Threshold)

	h = m.Health()
	assert.False(t, h.Healthy)
	assert.True(t, h.LastSync.Equal(fc.Now()))

	// 恢复后再次超限会重新告警
	offset = 100 * time.Millisecond
	m.Check()
	assert.True(t, m.Health().Healthy)
	offset = 600 * time.Millisecond
	m.Check()
	assert.Len(t, pub.ofType(types.EventTypeClockOffsetAlarm), 2)
}

func TestOffsetMonitor_ZeroThresholdDisablesCheck(t *testing.T) {
	m := newTestMonitor(t, clockwork.NewFakeClock())
	m.threshold = 0
	m.SetQueryFunc(func(string) (time.Duration, error) { return time.Hour, nil })
	m.Check()
	assert.True(t, m.Health().Healthy)
}

func TestOffsetMonitor_Run(t *testing.T) {
	fc := clockwork.NewFakeClock()
	m := newTestMonitor(t, fc)

	var calls atomic.Int32
	m.SetQueryFunc(func(string) (time.Duration, error) {
		calls.Add(1)
		return 0, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)
	fc.BlockUntil(1)
	fc.Advance(time.Minute)
	require.Eventually(t, func() bool { return calls.Load() == 2 }, time.Second, time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run 未在取消后退出")
	}
}

func TestOffsetMonitor_RewireWhileRunning(t *testing.T) {
	fc := clockwork.NewFakeClock()
	m := newTestMonitor(t, fc)

	var first, second atomic.Int32
	m.SetQueryFunc(func(string) (time.Duration, error) {
		first.Add(1)
		return 0, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()
	defer func() {
		cancel()
		<-done
	}()

	require.Eventually(t, func() bool { return first.Load() == 1 }, time.Second, time.Millisecond)

	pub := &fakePublisher{}
	m.SetPublisher(pub)
	m.SetQueryFunc(func(string) (time.Duration, error) {
		second.Add(1)
		return time.Second, nil
	})

	fc.BlockUntil(1)
	fc.Advance(time.Minute)
	require.Eventually(t, func() bool { return second.Load() == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, int32(1), first.Load())
	require.Eventually(t, func() bool {
		return len(pub.ofType(types.EventTypeClockOffsetAlarm)) == 1
	}, time.Second, time.Millisecond, "新的发布者收到告警")
}
