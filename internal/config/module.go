// Package config 提供应用配置管理功能
package config

import (
	"github.com/weisyn/rovclock/internal/config/api"
	"github.com/weisyn/rovclock/internal/config/clock"
	"github.com/weisyn/rovclock/internal/config/event"
	"github.com/weisyn/rovclock/internal/config/log"
	"github.com/weisyn/rovclock/pkg/interfaces/config"
	"github.com/weisyn/rovclock/pkg/types"
	"go.uber.org/fx"
)

// ConfigParams 定义配置模块的依赖参数
type ConfigParams struct {
	fx.In

	// 应用配置选项
	AppOptions config.AppOptions `optional:"true"`
}

// ConfigOutput 定义配置模块的输出结构
type ConfigOutput struct {
	fx.Out

	// 配置提供者
	Provider config.Provider
}

// Module 返回配置模块
func Module() fx.Option {
	return fx.Module("config",
		fx.Provide(
			ProvideConfigServices,
			// 提供具体的配置类型用于依赖注入
			func(provider config.Provider) *clock.ClockOptions {
				return provider.GetClock()
			},
			func(provider config.Provider) *log.LogOptions {
				return provider.GetLog()
			},
			func(provider config.Provider) *api.APIOptions {
				return provider.GetAPI()
			},
			func(provider config.Provider) *event.EventOptions {
				return provider.GetEvent()
			},
		),
	)
}

// ProvideConfigServices 提供配置服务，配置非法时启动失败
func ProvideConfigServices(params ConfigParams) (ConfigOutput, error) {
	// 从应用配置选项获取用户配置
	var appConfig *types.AppConfig
	if params.AppOptions != nil {
		appConfig = params.AppOptions.GetAppConfig()
	}

	provider := NewProvider(appConfig)
	if err := Validate(provider); err != nil {
		return ConfigOutput{}, err
	}

	return ConfigOutput{
		Provider: provider,
	}, nil
}
