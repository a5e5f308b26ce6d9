package clock

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weisyn/rovclock/pkg/types"
	"github.com/weisyn/rovclock/pkg/utils/timeutil"
)

// 2024-07-04 13:45:30 UTC
const julyFourth = 1720100730

type recordedEvent struct {
	eventType types.EventType
	payload   interface{}
}

type fakePublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (p *fakePublisher) Publish(eventType types.EventType, args ...interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{eventType: eventType, payload: args[0]})
}

func (p *fakePublisher) ofType(eventType types.EventType) []interface{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []interface{}
	for _, e := range p.events {
		if e.eventType == eventType {
			out = append(out, e.payload)
		}
	}
	return out
}

func newTestClock(t *testing.T) (*ModeClock, *MockWallSource, *FastTimeWriter) {
	t.Helper()
	wall := NewMockWallSource(time.Date(2024, 7, 4, 13, 45, 30, 123456789, time.UTC))
	writer, reader := NewFastTime()
	return NewModeClock(wall, reader, nil, nil), wall, writer
}

func TestModeClock_Defaults(t *testing.T) {
	mc := NewModeClock(nil, nil, nil, nil)
	assert.Equal(t, types.TimeModeSystem, mc.Mode())
	assert.Equal(t, 0.0, mc.RenavTime())
	assert.Equal(t, time.UTC, mc.Location())

	// 没有快速时钟读端时读数为 0
	ts, err := mc.TimeStructMode(types.TimeModeFastTime)
	require.NoError(t, err)
	assert.Equal(t, 1970, ts.Year)
	assert.Equal(t, 0.0, ts.SecRovTime)
}

func TestModeClock_SetMode(t *testing.T) {
	mc, _, _ := newTestClock(t)

	for _, mode := range []types.TimeMode{types.TimeModeRenav, types.TimeModeFastTime, types.TimeModeSystem} {
		require.NoError(t, mc.SetMode(mode))
		assert.Equal(t, mode, mc.Mode())
	}

	err := mc.SetMode(types.TimeMode(7))
	assert.ErrorIs(t, err, ErrInvalidMode)
	assert.Equal(t, types.TimeModeSystem, mc.Mode(), "非法模式不改变当前模式")

	_, err = mc.TimeStructMode(types.TimeMode(-1))
	assert.ErrorIs(t, err, ErrInvalidMode)
}

func TestModeClock_Renav(t *testing.T) {
	t.Run("文本写入", func(t *testing.T) {
		mc, _, _ := newTestClock(t)
		require.NoError(t, mc.SetTimeString("07/04/2024 13:45:30.5"))
		assert.Equal(t, julyFourth+0.5, mc.RenavTime())

		ts, err := mc.TimeStructMode(types.TimeModeRenav)
		require.NoError(t, err)
		assert.Equal(t, 2024, ts.Year)
		assert.Equal(t, 7, ts.Month)
		assert.Equal(t, 4, ts.Day)
		assert.Equal(t, 13, ts.Hour)
		assert.Equal(t, 45, ts.Min)
		assert.Equal(t, 30, ts.Sec)
		assert.Equal(t, 500, ts.Msec)
		assert.Equal(t, int64(0), ts.ClockSec, "非 system 模式不填写 clock 字段")
		assert.Equal(t, 30.5, ts.SecDouble)
		assert.Equal(t, 13*3600+45*60+30.5, ts.SecToday)
		assert.Equal(t, types.TimeModeRenav, ts.Mode)

		s, err := mc.DSLStringMode(types.TimeModeRenav)
		require.NoError(t, err)
		assert.Equal(t, "2024/07/04 13:45:30.500", s)
		assert.Len(t, s, timeutil.DSLMillisLen)
	})

	t.Run("格式错误时保持原值", func(t *testing.T) {
		mc, _, _ := newTestClock(t)
		mc.SetTime(42)
		err := mc.SetTimeString("07/04/2024 13:45")
		assert.ErrorIs(t, err, timeutil.ErrMalformedTime)
		assert.Equal(t, 42.0, mc.RenavTime())
	})

	t.Run("纪元秒写入按毫秒读取", func(t *testing.T) {
		mc, _, _ := newTestClock(t)
		mc.SetTime(julyFourth + 0.1234)
		got, err := mc.GetTimeMode(types.TimeModeRenav)
		require.NoError(t, err)
		assert.InDelta(t, julyFourth+0.123, got, 1e-6)
	})

	t.Run("毫秒进位", func(t *testing.T) {
		mc, _, _ := newTestClock(t)
		mc.SetTime(julyFourth + 0.9996)
		s, err := mc.DSLStringMode(types.TimeModeRenav)
		require.NoError(t, err)
		assert.Equal(t, "2024/07/04 13:45:31.000", s)
	})

	t.Run("日历字段写入", func(t *testing.T) {
		mc, _, _ := newTestClock(t)
		mc.SetTimeFields(2024, 13, 1, 0, 0, 0)
		assert.Equal(t, 1735689600.0, mc.RenavTime(), "month=13 归一化到次年一月")

		assert.Equal(t, julyFourth+0.25, mc.Compute(2024, 7, 4, 13, 45, 30.25))
		assert.Equal(t, 1735689600.0, mc.RenavTime(), "Compute 不写入")
	})

	t.Run("按时区换算", func(t *testing.T) {
		loc := time.FixedZone("UTC+1", 3600)
		mc := NewModeClock(NewMockWallSource(time.Unix(0, 0)), nil, loc, nil)
		require.NoError(t, mc.SetTimeString("07/04/2024 14:45:30"))
		assert.Equal(t, float64(julyFourth), mc.RenavTime())
	})

	t.Run("不自行走时", func(t *testing.T) {
		mc, wall, _ := newTestClock(t)
		mc.SetTime(julyFourth)
		require.NoError(t, mc.SetMode(types.TimeModeRenav))
		first, err := mc.GetTime()
		require.NoError(t, err)
		wall.Advance(time.Hour)
		second, err := mc.GetTime()
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}

func TestModeClock_FastTime(t *testing.T) {
	tests := []struct {
		ticks    int
		wantSec  float64
		wantMsec int
		wantDSL  string
	}{
		{0, 0, 0, "1970/01/01 00:00:00.000"},
		{7, 0.7, 700, "1970/01/01 00:00:00.700"},
		{125, 12.5, 500, "1970/01/01 00:00:12.500"},
		{36000, 3600, 0, "1970/01/01 01:00:00.000"},
	}
	for _, tt := range tests {
		mc, _, writer := newTestClock(t)
		for i := 0; i < tt.ticks; i++ {
			writer.Tick()
		}

		ts, err := mc.TimeStructMode(types.TimeModeFastTime)
		require.NoError(t, err)
		assert.InDelta(t, tt.wantSec, ts.SecRovTime, 1e-9, "ticks=%d", tt.ticks)
		assert.Equal(t, tt.wantMsec, ts.Msec, "ticks=%d", tt.ticks)

		s, err := mc.DSLStringMode(types.TimeModeFastTime)
		require.NoError(t, err)
		assert.Equal(t, tt.wantDSL, s)
	}
}

func TestModeClock_System(t *testing.T) {
	mc, wall, _ := newTestClock(t)

	ts, err := mc.TimeStruct()
	require.NoError(t, err)
	assert.Equal(t, int64(julyFourth), ts.ClockSec)
	assert.Equal(t, int64(123456789), ts.ClockNsec)
	assert.Equal(t, 123, ts.Msec)
	assert.Equal(t, 30, ts.Sec)
	assert.InDelta(t, 30.123456789, ts.SecDouble, 1e-9)
	assert.InDelta(t, julyFourth+0.123456789, ts.SecRovTime, 1e-6)
	assert.Equal(t, types.TimeModeSystem, ts.Mode)

	s, err := mc.DSLString()
	require.NoError(t, err)
	assert.Equal(t, "2024/07/04 13:45:30.123456789", s)
	assert.Len(t, s, timeutil.DSLNanosLen)

	wall.Advance(1500 * time.Millisecond)
	got, err := mc.GetTime()
	require.NoError(t, err)
	assert.InDelta(t, julyFourth+1.623456789, got, 1e-6)

	want := time.Date(2024, 7, 4, 13, 45, 31, 623456789, time.UTC)
	assert.True(t, want.Equal(mc.Now()), "got %v", mc.Now())
	assert.Equal(t, int64(julyFourth+1), mc.Unix())
}

func TestModeClock_ClockReadFailure(t *testing.T) {
	mc, wall, _ := newTestClock(t)
	wall.Fail(errors.New("EINVAL"))

	_, err := mc.TimeStruct()
	assert.ErrorIs(t, err, ErrClockRead)
	_, err = mc.GetTime()
	assert.ErrorIs(t, err, ErrClockRead)
	_, err = mc.DSLString()
	assert.ErrorIs(t, err, ErrClockRead)
	_, err = mc.TryNow()
	assert.ErrorIs(t, err, ErrClockRead)

	// 其他模式不受影响
	mc.SetTime(julyFourth)
	_, err = mc.TimeStructMode(types.TimeModeRenav)
	assert.NoError(t, err)

	// Now 回退到运行时时钟
	before := time.Now()
	now := mc.Now()
	assert.False(t, now.Before(before))

	wall.Fail(nil)
	_, err = mc.TryNow()
	assert.NoError(t, err)
}

func TestModeClock_Events(t *testing.T) {
	mc, wall, _ := newTestClock(t)
	pub := &fakePublisher{}
	mc.SetPublisher(pub)

	mc.SetTime(julyFourth)
	require.NoError(t, mc.SetTimeString("07/04/2024 13:45:30.5"))
	mc.SetTimeFields(2024, 7, 4, 13, 45, 30)

	renav := pub.ofType(types.EventTypeClockRenavSet)
	require.Len(t, renav, 3)
	assert.Equal(t, RenavSourceEpoch, renav[0].(types.RenavSetEvent).Source)
	assert.Equal(t, RenavSourceText, renav[1].(types.RenavSetEvent).Source)
	assert.Equal(t, julyFourth+0.5, renav[1].(types.RenavSetEvent).Value)
	assert.Equal(t, RenavSourceFields, renav[2].(types.RenavSetEvent).Source)

	require.NoError(t, mc.SetMode(types.TimeModeRenav))
	require.NoError(t, mc.SetMode(types.TimeModeRenav))
	changes := pub.ofType(types.EventTypeClockModeChanged)
	require.Len(t, changes, 1, "模式未变化时不发布")
	ev := changes[0].(types.ModeChangedEvent)
	assert.Equal(t, types.TimeModeSystem, ev.From)
	assert.Equal(t, types.TimeModeRenav, ev.To)
	assert.NotEqual(t, [16]byte{}, [16]byte(ev.ID))
	wantAt := time.Date(2024, 7, 4, 13, 45, 30, 123456789, time.UTC)
	assert.True(t, wantAt.Equal(ev.At), "切换时刻取实时时钟: %v", ev.At)

	wall.Advance(time.Second)
	require.NoError(t, mc.SetMode(types.TimeModeFastTime))
	changes = pub.ofType(types.EventTypeClockModeChanged)
	require.Len(t, changes, 2)
	ev = changes[1].(types.ModeChangedEvent)
	assert.True(t, wantAt.Add(time.Second).Equal(ev.At), "fasttime 计数不影响切换时刻: %v", ev.At)

	wall.Fail(errors.New("clock_gettime failed"))
	require.NoError(t, mc.SetMode(types.TimeModeSystem))
	changes = pub.ofType(types.EventTypeClockModeChanged)
	require.Len(t, changes, 3)
	assert.False(t, changes[2].(types.ModeChangedEvent).At.IsZero(), "读取失败时回退到运行时时钟")
	wall.Fail(nil)

	// 失败的写入不发布
	_ = mc.SetTimeString("bad")
	assert.Len(t, pub.ofType(types.EventTypeClockRenavSet), 3)

	mc.SetPublisher(nil)
	mc.SetTime(1)
	assert.Len(t, pub.ofType(types.EventTypeClockRenavSet), 3)
}

func TestModeClock_ConcurrentAccess(t *testing.T) {
	mc, _, writer := newTestClock(t)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 500; j++ {
				_ = mc.SetMode(types.TimeMode(j % 3))
				mc.SetTime(float64(i*1000 + j))
				writer.Tick()
				_, _ = mc.TimeStruct()
				_, _ = mc.DSLString()
			}
		}(i)
	}
	wg.Wait()
	assert.True(t, mc.Mode().Valid())
}
