// Package log 提供日志管理功能
package log

import (
	"context"
	"fmt"

	logconfig "github.com/weisyn/rovclock/internal/config/log"
	"github.com/weisyn/rovclock/pkg/interfaces/config"
	infraClock "github.com/weisyn/rovclock/pkg/interfaces/infrastructure/clock"
	logInterface "github.com/weisyn/rovclock/pkg/interfaces/infrastructure/log"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ModuleParams 定义日志模块的依赖参数
type ModuleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Provider  config.Provider // 配置提供者
}

// ModuleOutput 定义日志模块的输出结构
type ModuleOutput struct {
	fx.Out

	Logger       logInterface.Logger // 日志记录器接口
	ZapLogger    *zap.Logger         // zap.Logger 具体类型（供需要 zap 特性的模块使用）
	ClockAdapter *ClockAdapter       // 时钟模块就绪后绑定模式时钟
}

// Module 返回日志模块
func Module() fx.Option {
	return fx.Module("log",
		// 提供日志服务
		fx.Provide(ProvideServices),
		// DSL 记录文件（未配置路径时为 nil）
		fx.Provide(ProvideDSLRecorder),
	)
}

// ProvideServices 提供日志服务
// 根据配置初始化日志记录器并返回
func ProvideServices(params ModuleParams) (ModuleOutput, error) {
	logConfig := logconfig.NewFromOptions(params.Provider.GetLog())
	adapter := NewClockAdapter()

	logger, err := New(logConfig, adapter)
	if err != nil {
		return ModuleOutput{}, fmt.Errorf("根据用户配置创建日志记录器失败: %w", err)
	}

	// 设置为全局记录器，替换掉init()时用默认配置创建的日志器
	SetLogger(logger)

	params.Lifecycle.Append(fx.Hook{
		OnStop: func(context.Context) error {
			// 控制台输出在部分平台上 Sync 会返回 EINVAL，忽略即可
			_ = logger.Sync()
			return nil
		},
	})

	return ModuleOutput{
		Logger:       logger,
		ZapLogger:    logger.GetZapLogger(),
		ClockAdapter: adapter,
	}, nil
}

// DSLRecorderParams DSL 记录器的依赖参数
type DSLRecorderParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Provider  config.Provider
	Resolver  infraClock.TimeResolver
}

// ProvideDSLRecorder 按配置打开 DSL 记录文件，dsl_file_path 为空时返回 nil
func ProvideDSLRecorder(params DSLRecorderParams) (*DSLRecorder, error) {
	options := params.Provider.GetLog()
	if options.DSLFilePath == "" {
		return nil, nil
	}
	recorder, err := NewDSLRecorder(options, params.Resolver)
	if err != nil {
		return nil, err
	}
	params.Lifecycle.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return recorder.Close()
		},
	})
	return recorder, nil
}

// NewModuleLogger 创建带 module 字段的 logger
func NewModuleLogger(baseLogger logInterface.Logger, module string) logInterface.Logger {
	if baseLogger == nil {
		return nil
	}
	return baseLogger.With("module", module)
}

// NewModuleZapLogger 创建带 module 字段的 zap logger
//
// baseLogger 为 nil 时返回 Nop logger，调用方不必再判空。
func NewModuleZapLogger(baseLogger *zap.Logger, module string) *zap.Logger {
	if baseLogger == nil {
		return zap.NewNop()
	}
	return baseLogger.With(zap.String("module", module))
}
