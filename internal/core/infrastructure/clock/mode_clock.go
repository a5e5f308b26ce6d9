// Package clock 实现导航进程的模式时钟
//
// 🕒 **模式时钟 (Mode Clock)**
//
// 进程内"现在"的唯一来源，按模式在三种时间源之间切换：
// - system：操作系统实时时钟，纳秒精度
// - renav：操作员注入的重导航时间，毫秒精度，不自行走时
// - fasttime：10Hz 快速时钟计数，毫秒精度
//
// 模式与重导航时间都是原子单元，解析操作不加锁也不阻塞。
package clock

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	infraClock "github.com/weisyn/rovclock/pkg/interfaces/infrastructure/clock"
	"github.com/weisyn/rovclock/pkg/interfaces/infrastructure/event"
	"github.com/weisyn/rovclock/pkg/types"
	"github.com/weisyn/rovclock/pkg/utils/timeutil"
)

var (
	// ErrClockRead 读取操作系统实时时钟失败
	ErrClockRead = errors.New("clock read failed")
	// ErrInvalidMode 未定义的时间模式
	ErrInvalidMode = errors.New("invalid time mode")
)

// 重导航时间的注入来源
const (
	RenavSourceEpoch  = "epoch"
	RenavSourceFields = "fields"
	RenavSourceText   = "text"
)

// ModeClock 模式时钟
type ModeClock struct {
	state modeState

	wall     WallSource
	fast     infraClock.FastTimeSource
	location *time.Location
	logger   *zap.Logger

	publisher   atomic.Pointer[publisherBox]
	resReported atomic.Bool
}

type publisherBox struct {
	p event.Publisher
}

// NewModeClock 创建模式时钟，初始为 system 模式、重导航时间为 0
//
// wall 为 nil 时使用平台实时时钟；fast 为 nil 时快速时钟读数恒为 0；
// location 是日历字段换算重导航时间所用的时区，nil 为 UTC。
func NewModeClock(wall WallSource, fast infraClock.FastTimeSource, location *time.Location, logger *zap.Logger) *ModeClock {
	if wall == nil {
		wall = NewSystemWallSource()
	}
	if location == nil {
		location = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ModeClock{
		wall:     wall,
		fast:     fast,
		location: location,
		logger:   logger,
	}
}

// SetPublisher 挂接事件发布者，传 nil 取消
func (c *ModeClock) SetPublisher(p event.Publisher) {
	if p == nil {
		c.publisher.Store(nil)
		return
	}
	c.publisher.Store(&publisherBox{p: p})
}

func (c *ModeClock) publish(eventType types.EventType, payload interface{}) {
	box := c.publisher.Load()
	if box == nil {
		return
	}
	box.p.Publish(eventType, payload)
}

// ==================== 模式 ====================

// SetMode 切换时间模式
func (c *ModeClock) SetMode(mode types.TimeMode) error {
	if !mode.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidMode, int32(mode))
	}
	old := c.state.swapMode(mode)
	if old == mode {
		return nil
	}
	c.logger.Info("时间模式切换",
		zap.Stringer("from", old),
		zap.Stringer("to", mode))
	c.publish(types.EventTypeClockModeChanged, types.ModeChangedEvent{
		ID:   uuid.New(),
		From: old,
		To:   mode,
		At:   c.wallNow(),
	})
	return nil
}

// wallNow 实时时钟的当前时间，与模式无关，读取失败时取运行时时钟
func (c *ModeClock) wallNow() time.Time {
	sec, nsec, err := c.wall.ReadWall()
	if err != nil {
		return time.Now().UTC()
	}
	return time.Unix(sec, nsec).UTC()
}

// Mode 当前时间模式
func (c *ModeClock) Mode() types.TimeMode {
	return c.state.loadMode()
}

// ==================== 重导航时间 ====================

// SetTime 直接写入纪元秒
func (c *ModeClock) SetTime(epochSeconds float64) {
	c.storeRenav(epochSeconds, RenavSourceEpoch)
}

// SetTimeFields 按日历字段写入，秒可以带小数
//
// 越界字段由 time.Date 归一化，例如 month=13 为次年一月。
func (c *ModeClock) SetTimeFields(year, month, day, hour, minute int, sec float64) {
	c.storeRenav(c.Compute(year, month, day, hour, minute, sec), RenavSourceFields)
}

// SetTimeString 解析 "月/日/年 时:分:秒" 并写入
//
// 解析失败时重导航时间保持不变。
func (c *ModeClock) SetTimeString(text string) error {
	f, err := timeutil.ParseDSLTime(text)
	if err != nil {
		return fmt.Errorf("set renav time: %w", err)
	}
	c.storeRenav(f.Epoch(c.location), RenavSourceText)
	return nil
}

// Compute 日历字段换算为纪元秒，不写入
func (c *ModeClock) Compute(year, month, day, hour, minute int, sec float64) float64 {
	return timeutil.EpochFromCalendar(year, month, day, hour, minute, sec, c.location)
}

// RenavTime 当前重导航时间
func (c *ModeClock) RenavTime() float64 {
	return c.state.loadRenav()
}

// Location 日历字段换算时区
func (c *ModeClock) Location() *time.Location {
	return c.location
}

func (c *ModeClock) storeRenav(v float64, source string) {
	c.state.storeRenav(v)
	c.logger.Debug("重导航时间写入",
		zap.Float64("epoch", v),
		zap.String("source", source))
	c.publish(types.EventTypeClockRenavSet, types.RenavSetEvent{
		ID:     uuid.New(),
		Value:  v,
		Source: source,
	})
}

// ==================== 解析 ====================

// TimeStruct 按当前模式解析
func (c *ModeClock) TimeStruct() (types.TimeStruct, error) {
	return c.TimeStructMode(c.Mode())
}

// TimeStructMode 按指定模式解析
func (c *ModeClock) TimeStructMode(mode types.TimeMode) (types.TimeStruct, error) {
	ts, _, err := c.resolve(mode)
	return ts, err
}

// GetTime 当前模式下的纪元秒
func (c *ModeClock) GetTime() (float64, error) {
	return c.GetTimeMode(c.Mode())
}

// GetTimeMode 指定模式下的纪元秒
func (c *ModeClock) GetTimeMode(mode types.TimeMode) (float64, error) {
	ts, _, err := c.resolve(mode)
	if err != nil {
		return 0, err
	}
	return ts.SecRovTime, nil
}

// DSLString 当前模式下的 DSL 时间字符串
func (c *ModeClock) DSLString() (string, error) {
	return c.DSLStringMode(c.Mode())
}

// DSLStringMode 指定模式下的 DSL 时间字符串
func (c *ModeClock) DSLStringMode(mode types.TimeMode) (string, error) {
	ts, _, err := c.resolve(mode)
	if err != nil {
		return "", err
	}
	return timeutil.FormatDSL(ts), nil
}

// resolve 返回结构化时间以及同一时刻的 time.Time
func (c *ModeClock) resolve(mode types.TimeMode) (types.TimeStruct, time.Time, error) {
	switch mode {
	case types.TimeModeSystem:
		return c.resolveSystem()
	case types.TimeModeRenav:
		sec, msec := timeutil.SplitEpochMillis(c.state.loadRenav())
		return fromSecMillis(sec, msec, mode)
	case types.TimeModeFastTime:
		var ft types.FastTime
		if c.fast != nil {
			ft = c.fast.Get()
		}
		// 十分之一秒的余数换算成毫秒，与 tick 边界可能差一个 tick
		fts := ft / FastTimeHz
		msec := int((ft - fts*FastTimeHz) * 100)
		return fromSecMillis(int64(fts), msec, mode)
	default:
		return types.TimeStruct{}, time.Time{}, fmt.Errorf("%w: %d", ErrInvalidMode, int32(mode))
	}
}

func (c *ModeClock) resolveSystem() (types.TimeStruct, time.Time, error) {
	// 日志时间戳可能再次读取本时钟，这里不能用 sync.Once
	if c.resReported.CompareAndSwap(false, true) {
		c.reportResolution()
	}

	sec, nsec, err := c.wall.ReadWall()
	if err != nil {
		return types.TimeStruct{}, time.Time{}, fmt.Errorf("%w: %v", ErrClockRead, err)
	}
	frac := float64(nsec) / 1e9
	cal := timeutil.CalendarFromEpoch(sec)
	ts := types.TimeStruct{
		Year:       cal.Year,
		Month:      cal.Month,
		Day:        cal.Day,
		Hour:       cal.Hour,
		Min:        cal.Min,
		Sec:        cal.Sec,
		Msec:       int(nsec / 1e6),
		ClockSec:   sec,
		ClockNsec:  nsec,
		SecDouble:  float64(cal.Sec) + frac,
		SecToday:   float64(cal.Hour*3600+cal.Min*60+cal.Sec) + frac,
		SecRovTime: float64(sec) + frac,
		Mode:       types.TimeModeSystem,
	}
	return ts, time.Unix(sec, nsec).UTC(), nil
}

func (c *ModeClock) reportResolution() {
	res, err := c.wall.Resolution()
	if err != nil {
		c.logger.Warn("无法获取实时时钟分辨率", zap.Error(err))
		return
	}
	c.logger.Info("实时时钟分辨率", zap.Duration("resolution", res))
}

func fromSecMillis(sec int64, msec int, mode types.TimeMode) (types.TimeStruct, time.Time, error) {
	frac := float64(msec) / 1000
	cal := timeutil.CalendarFromEpoch(sec)
	ts := types.TimeStruct{
		Year:       cal.Year,
		Month:      cal.Month,
		Day:        cal.Day,
		Hour:       cal.Hour,
		Min:        cal.Min,
		Sec:        cal.Sec,
		Msec:       msec,
		SecDouble:  float64(cal.Sec) + frac,
		SecToday:   float64(cal.Hour*3600+cal.Min*60+cal.Sec) + frac,
		SecRovTime: float64(sec) + frac,
		Mode:       mode,
	}
	return ts, time.Unix(sec, int64(msec)*int64(time.Millisecond)).UTC(), nil
}

// ==================== infraClock.Clock ====================

// Now 当前模式下的时间
//
// 实时时钟读取失败时记录错误并回退到 Go 运行时时钟。
func (c *ModeClock) Now() time.Time {
	t, err := c.TryNow()
	if err != nil {
		c.logger.Error("模式时钟读取失败，回退到运行时时钟", zap.Error(err))
		return time.Now()
	}
	return t
}

// TryNow 当前模式下的时间，不记录日志
//
// 供日志时间戳使用，避免读取失败时的日志再次读取时钟。
func (c *ModeClock) TryNow() (time.Time, error) {
	_, t, err := c.resolve(c.Mode())
	return t, err
}

func (c *ModeClock) Since(t time.Time) time.Duration { return c.Now().Sub(t) }
func (c *ModeClock) Unix() int64                     { return c.Now().Unix() }
func (c *ModeClock) UnixNano() int64                 { return c.Now().UnixNano() }

var (
	_ infraClock.Clock          = (*ModeClock)(nil)
	_ infraClock.ModeController = (*ModeClock)(nil)
)
