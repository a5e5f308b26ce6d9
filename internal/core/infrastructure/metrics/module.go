// Package metrics 提供进程内统一的 Prometheus 注册表
//
// 各模块把自己的采集器注册到这里，HTTP 模块通过 Gatherer 暴露 /metrics。
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// RegistryOutput 注册表的三种视图
type RegistryOutput struct {
	fx.Out

	Registry   *prometheus.Registry
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// Module 返回 metrics 模块的 fx.Option
//
// 提供：
// - *prometheus.Registry 及其 Registerer / Gatherer 接口
//
// 依赖：
// - *zap.Logger: 日志记录器（可选）
func Module() fx.Option {
	return fx.Module("metrics",
		fx.Provide(ProvideRegistry),
	)
}

// RegistryParams 注册表的输入依赖
type RegistryParams struct {
	fx.In

	Logger *zap.Logger `optional:"true"`
}

// ProvideRegistry 创建注册表
func ProvideRegistry(params RegistryParams) (RegistryOutput, error) {
	reg, err := NewRegistry()
	if err != nil {
		return RegistryOutput{}, err
	}
	if params.Logger != nil {
		params.Logger.With(zap.String("module", "metrics")).Debug("Prometheus 注册表已创建")
	}
	return RegistryOutput{
		Registry:   reg,
		Registerer: reg,
		Gatherer:   reg,
	}, nil
}

// NewRegistry 创建带 Go 运行时与进程采集器的独立注册表
func NewRegistry() (*prometheus.Registry, error) {
	reg := prometheus.NewRegistry()
	if err := reg.Register(collectors.NewGoCollector()); err != nil {
		return nil, err
	}
	if err := reg.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		return nil, err
	}
	return reg, nil
}
