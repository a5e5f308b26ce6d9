package clock

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/zap"

	clockconfig "github.com/weisyn/rovclock/internal/config/clock"
	"github.com/weisyn/rovclock/internal/core/infrastructure/log"
	infraClock "github.com/weisyn/rovclock/pkg/interfaces/infrastructure/clock"
	"github.com/weisyn/rovclock/pkg/interfaces/infrastructure/event"
	"github.com/weisyn/rovclock/pkg/utils/timeutil"
)

// ModuleParams 时钟模块的输入依赖
type ModuleParams struct {
	fx.In

	Options      *clockconfig.ClockOptions
	Logger       *zap.Logger           `optional:"true"`
	EventBus     event.EventBus        `optional:"true"`
	ClockAdapter *log.ClockAdapter     `optional:"true"`
	Registerer   prometheus.Registerer `optional:"true"`
}

// ModuleOutput 时钟模块的输出服务
type ModuleOutput struct {
	fx.Out

	ModeClock     *ModeClock
	Clock         infraClock.Clock
	Resolver      infraClock.TimeResolver
	Controller    infraClock.ModeController
	FastTime      infraClock.FastTimeSource
	FastTimer     *FastTimer
	OffsetMonitor *OffsetMonitor // 未启用监测时为 nil
}

// Module 返回时钟模块
//
// 提供：
// - *ModeClock 及其 Clock / TimeResolver / ModeController 接口
// - 快速时钟读端与驱动
// - 主机时钟偏移监测（按配置）
//
// 依赖：
// - *clockconfig.ClockOptions
// - *zap.Logger、event.EventBus、*log.ClockAdapter、prometheus.Registerer（均可选）
func Module() fx.Option {
	return fx.Module("clock",
		fx.Provide(ProvideServices),
		fx.Invoke(StartClock),
	)
}

// ProvideServices 按配置装配模式时钟
func ProvideServices(p ModuleParams) (ModuleOutput, error) {
	if p.Options == nil {
		return ModuleOutput{}, errors.New("时钟配置为空")
	}
	if err := p.Options.Validate(); err != nil {
		return ModuleOutput{}, err
	}
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("module", "clock"))

	mode, err := p.Options.TimeMode()
	if err != nil {
		return ModuleOutput{}, err
	}
	loc, err := p.Options.Location()
	if err != nil {
		return ModuleOutput{}, err
	}

	writer, reader := NewFastTime()
	timer, err := NewFastTimer(writer, clockwork.NewRealClock(), p.Options.FastTimeInterval, logger)
	if err != nil {
		return ModuleOutput{}, err
	}

	mc := NewModeClock(nil, reader, loc, logger)
	if p.EventBus != nil {
		mc.SetPublisher(p.EventBus)
	}
	if p.Options.RenavStart != "" {
		if err := mc.SetTimeString(p.Options.RenavStart); err != nil {
			return ModuleOutput{}, fmt.Errorf("初始重导航时间: %w", err)
		}
	}
	if err := mc.SetMode(mode); err != nil {
		return ModuleOutput{}, err
	}

	var monitor *OffsetMonitor
	if p.Options.MonitorEnabled {
		monitor = NewOffsetMonitor(p.Options, clockwork.NewRealClock(), logger)
		if p.EventBus != nil {
			monitor.SetPublisher(p.EventBus)
		}
	}

	if p.Registerer != nil {
		if err := RegisterClockMetrics(p.Registerer, NewClockCollector(mc, reader, monitor)); err != nil {
			return ModuleOutput{}, fmt.Errorf("注册时钟指标失败: %w", err)
		}
	}

	// 从此刻起日志时间戳与 timeutil.Now 都来自模式时钟
	timeutil.SetClock(mc)
	if p.ClockAdapter != nil {
		p.ClockAdapter.Bind(mc)
	}

	return ModuleOutput{
		ModeClock:     mc,
		Clock:         mc,
		Resolver:      mc,
		Controller:    mc,
		FastTime:      reader,
		FastTimer:     timer,
		OffsetMonitor: monitor,
	}, nil
}

// StartParams 生命周期绑定所需的依赖
type StartParams struct {
	fx.In

	Lifecycle    fx.Lifecycle
	Options      *clockconfig.ClockOptions
	FastTimer    *FastTimer
	Monitor      *OffsetMonitor    `optional:"true"`
	ClockAdapter *log.ClockAdapter `optional:"true"`
	Logger       *zap.Logger       `optional:"true"`
}

// StartClock 绑定快速时钟驱动与偏移监测的生命周期
func StartClock(p StartParams) {
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	// 创建长期运行的context，不受启动流程影响
	runCtx, cancel := context.WithCancel(context.Background())
	monitorDone := make(chan struct{})

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(context.Context) error {
			if p.Options.FastTimeEnabled {
				if err := p.FastTimer.Start(runCtx); err != nil {
					return err
				}
			}
			if p.Monitor == nil {
				close(monitorDone)
				return nil
			}
			go func() {
				defer close(monitorDone)
				if err := p.Monitor.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
					logger.Warn("偏移监测退出", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			p.FastTimer.Stop()
			cancel()
			select {
			case <-monitorDone:
			case <-ctx.Done():
				return ctx.Err()
			}
			if p.ClockAdapter != nil {
				p.ClockAdapter.Bind(nil)
			}
			timeutil.ResetClock()
			return nil
		},
	})
}
