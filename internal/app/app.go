// Package app 组装 rovclock 进程
//
// 按层加载 fx 模块：配置、日志、指标、事件、模式时钟、运维 HTTP API。
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/fx"

	"github.com/weisyn/rovclock/internal/core/infrastructure/clock"
	infraClock "github.com/weisyn/rovclock/pkg/interfaces/infrastructure/clock"
	logiface "github.com/weisyn/rovclock/pkg/interfaces/infrastructure/log"
)

// 启停超时
const (
	StartTimeout = 15 * time.Second
	StopTimeout  = 10 * time.Second
)

// App 是 rovclock 应用的对外接口
type App interface {
	// Start 启动所有模块
	Start(ctx context.Context) error
	// Stop 停止应用
	Stop(ctx context.Context) error
	// Wait 阻塞到收到退出信号后停止应用
	Wait() error
	// Controller 模式时钟的写入端
	Controller() infraClock.ModeController
	// FastTimer 快速时钟驱动
	FastTimer() *clock.FastTimer
}

type internalApp struct {
	fxApp      *fx.App
	controller infraClock.ModeController
	fastTimer  *clock.FastTimer
	logger     logiface.Logger
}

// New 创建应用（不启动）
func New(appOptions ...Option) (App, error) {
	opts := newOptions(appOptions...)
	cfg, err := opts.resolveAppConfig()
	if err != nil {
		return nil, fmt.Errorf("加载配置失败: %w", err)
	}
	opts.appConfig = cfg

	a := &internalApp{}
	fxOptions := append(NewBootstrap(opts).SetupModules(),
		// 禁用fx内部日志
		fx.NopLogger,
		fx.Populate(&a.controller, &a.fastTimer, &a.logger),
	)
	a.fxApp = fx.New(fxOptions...)
	if err := a.fxApp.Err(); err != nil {
		return nil, fmt.Errorf("创建应用失败: %w", err)
	}
	return a, nil
}

// Start 创建并启动应用
func Start(appOptions ...Option) (App, error) {
	a, err := New(appOptions...)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), StartTimeout)
	defer cancel()
	if err := a.Start(ctx); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *internalApp) Start(ctx context.Context) error {
	if err := a.fxApp.Start(ctx); err != nil {
		return fmt.Errorf("启动应用失败: %w", err)
	}
	a.logger.Infof("rovclock 已启动，时间模式: %s", a.controller.Mode())
	return nil
}

func (a *internalApp) Stop(ctx context.Context) error {
	a.logger.Info("正在停止应用")
	if err := a.fxApp.Stop(ctx); err != nil {
		return fmt.Errorf("停止应用失败: %w", err)
	}
	return nil
}

func (a *internalApp) Wait() error {
	sig := WaitForSignal()
	a.logger.Infof("收到信号 %v，正在优雅退出", sig)
	ctx, cancel := context.WithTimeout(context.Background(), StopTimeout)
	defer cancel()
	return a.Stop(ctx)
}

func (a *internalApp) Controller() infraClock.ModeController { return a.controller }
func (a *internalApp) FastTimer() *clock.FastTimer           { return a.fastTimer }

// WaitForSignal 等待退出信号
func WaitForSignal() os.Signal {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)
	return <-signals
}
