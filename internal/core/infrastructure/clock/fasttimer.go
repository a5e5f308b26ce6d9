package clock

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/weisyn/rovclock/pkg/types"
)

var (
	// ErrInvalidInterval tick 间隔为负
	ErrInvalidInterval = errors.New("invalid fasttime interval")
	// ErrTimerRunning 驱动已在运行
	ErrTimerRunning = errors.New("fasttime timer already running")
)

// FastTimer 按真实时间推进快速时钟计数器的驱动
//
// interval 为每个 tick 的真实间隔：100ms 与真实时间同速，更小的值加速。
// interval 为 0 时全速运行，两次 tick 之间只让出调度。
type FastTimer struct {
	writer   *FastTimeWriter
	clock    clockwork.Clock
	interval time.Duration
	logger   *zap.Logger

	mu      sync.Mutex
	stopCh  chan struct{}
	done    chan struct{}
	running atomic.Bool
}

// NewFastTimer 创建驱动并独占写端
func NewFastTimer(writer *FastTimeWriter, clk clockwork.Clock, interval time.Duration, logger *zap.Logger) (*FastTimer, error) {
	if writer == nil {
		return nil, errors.New("fasttime writer is nil")
	}
	if interval < 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInterval, interval)
	}
	if err := writer.claim(); err != nil {
		return nil, err
	}
	if clk == nil {
		clk = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FastTimer{
		writer:   writer,
		clock:    clk,
		interval: interval,
		logger:   logger,
	}, nil
}

// Start 启动驱动 goroutine，ctx 取消或调用 Stop 时退出
func (t *FastTimer) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.running.CompareAndSwap(false, true) {
		return ErrTimerRunning
	}
	t.stopCh = make(chan struct{})
	t.done = make(chan struct{})

	if t.interval == 0 {
		t.logger.Warn("快速时钟驱动以全速模式启动，将持续占用一个 CPU 核心",
			zap.Uint64("ticks", uint64(t.Ticks())))
	} else {
		t.logger.Info("快速时钟驱动启动",
			zap.Duration("interval", t.interval),
			zap.Uint64("ticks", uint64(t.Ticks())))
	}

	go t.loop(ctx, t.stopCh, t.done)
	return nil
}

// Stop 停止驱动并等待 goroutine 退出，可重复调用
func (t *FastTimer) Stop() {
	t.mu.Lock()
	stopCh, done := t.stopCh, t.done
	t.stopCh, t.done = nil, nil
	t.mu.Unlock()

	if stopCh == nil {
		return
	}
	close(stopCh)
	<-done
	t.logger.Info("快速时钟驱动停止", zap.Uint64("ticks", uint64(t.Ticks())))
}

// IsRunning 是否在运行
func (t *FastTimer) IsRunning() bool { return t.running.Load() }

// Interval 每个 tick 的真实间隔
func (t *FastTimer) Interval() time.Duration { return t.interval }

// Ticks 当前计数
func (t *FastTimer) Ticks() types.FastTime { return t.writer.Reader().Get() }

func (t *FastTimer) loop(ctx context.Context, stopCh <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	defer t.running.Store(false)

	if t.interval == 0 {
		t.freeRun(ctx, stopCh)
		return
	}

	ticker := t.clock.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stopCh:
			return
		case <-ticker.Chan():
			t.writer.Tick()
		}
	}
}

func (t *FastTimer) freeRun(ctx context.Context, stopCh <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-stopCh:
			return
		default:
		}
		t.writer.Tick()
		runtime.Gosched()
	}
}
