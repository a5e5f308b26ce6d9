package app

import (
	"go.uber.org/fx"

	httpapi "github.com/weisyn/rovclock/internal/api/http"
	"github.com/weisyn/rovclock/internal/config"
	"github.com/weisyn/rovclock/internal/core/infrastructure/clock"
	"github.com/weisyn/rovclock/internal/core/infrastructure/event"
	"github.com/weisyn/rovclock/internal/core/infrastructure/log"
	"github.com/weisyn/rovclock/internal/core/infrastructure/metrics"
	configiface "github.com/weisyn/rovclock/pkg/interfaces/config"
)

// Framework layers
const (
	// 基础设施层
	LayerInfrastructure = "infrastructure"
	// 时钟层
	LayerClock = "clock"
	// 应用层
	LayerApplication = "application"
)

// Bootstrap 应用引导程序
type Bootstrap struct {
	opts *options
}

// NewBootstrap 创建引导程序
func NewBootstrap(opts *options) *Bootstrap {
	return &Bootstrap{opts: opts}
}

// SetupInfrastructureLayer 设置基础设施层模块
func (b *Bootstrap) SetupInfrastructureLayer() []fx.Option {
	return []fx.Option{
		fx.Provide(func() configiface.AppOptions { return b.opts }),
		config.Module(),  // 1. 配置(不依赖其他)
		log.Module(),     // 2. 日志(依赖配置)
		metrics.Module(), // 3. 指标(依赖日志)
		event.Module(),   // 4. 事件(依赖配置)
	}
}

// SetupClockLayer 设置时钟模块
func (b *Bootstrap) SetupClockLayer() []fx.Option {
	return []fx.Option{
		clock.Module(), // 模式时钟(依赖配置、日志、事件、指标)
		fx.Invoke(WireDSLRecorder),
	}
}

// SetupApplicationLayer 设置应用层模块
func (b *Bootstrap) SetupApplicationLayer() []fx.Option {
	var modules []fx.Option
	if b.opts.enableAPI {
		modules = append(modules, httpapi.Module())
	}
	return modules
}

// SetupModules 设置所有应用模块
func (b *Bootstrap) SetupModules() []fx.Option {
	var allModules []fx.Option
	allModules = append(allModules, b.SetupInfrastructureLayer()...)
	allModules = append(allModules, b.SetupClockLayer()...)
	allModules = append(allModules, b.SetupApplicationLayer()...)
	allModules = append(allModules, b.opts.extra...)
	return allModules
}
