package http

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/weisyn/rovclock/internal/api/http/handlers"
	"github.com/weisyn/rovclock/internal/core/infrastructure/clock"
	"github.com/weisyn/rovclock/pkg/interfaces/config"
	infraClock "github.com/weisyn/rovclock/pkg/interfaces/infrastructure/clock"
	"github.com/weisyn/rovclock/pkg/interfaces/infrastructure/log"
)

// ServerParams HTTP模块的输入依赖
type ServerParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Provider   config.Provider
	Logger     log.Logger  `optional:"true"`
	ZapLogger  *zap.Logger `optional:"true"`
	Controller infraClock.ModeController
	Monitor    *clock.OffsetMonitor  `optional:"true"`
	Gatherer   prometheus.Gatherer   `optional:"true"`
	Registerer prometheus.Registerer `optional:"true"`
}

// Module 返回HTTP模块
//
// HTTP 在配置中关闭时仍然创建 *Server（便于测试与嵌入），只是不监听端口。
func Module() fx.Option {
	return fx.Module("http",
		fx.Provide(ProvideServer),
		fx.Invoke(func(*Server) {}),
	)
}

// ProvideServer 创建服务器并绑定生命周期
func ProvideServer(p ServerParams) *Server {
	var zl *zap.Logger
	if p.ZapLogger != nil {
		zl = p.ZapLogger.With(zap.String("module", "http"))
	}

	// nil 指针不能直接放进接口，否则处理器会认为监测已启用
	var reporter handlers.HealthReporter
	if p.Monitor != nil {
		reporter = p.Monitor
	}

	opts := p.Provider.GetAPI()
	server := NewServer(ServerDeps{
		Options:    opts,
		Logger:     p.Logger,
		Clock:      handlers.NewClockHandler(zl, p.Controller, reporter),
		Health:     handlers.NewHealthHandler(p.Controller),
		Gatherer:   p.Gatherer,
		Registerer: p.Registerer,
	})

	if opts == nil || !opts.HTTP.Enabled {
		if p.Logger != nil {
			p.Logger.Info("HTTP API在配置中被禁用")
		}
		return server
	}

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(context.Context) error {
			return server.Start()
		},
		OnStop: func(ctx context.Context) error {
			return server.Stop(ctx)
		},
	})
	return server
}
