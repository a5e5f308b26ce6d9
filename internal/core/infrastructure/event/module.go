// Package event 提供事件管理功能
package event

import (
	"context"

	"go.uber.org/fx"

	eventconfig "github.com/weisyn/rovclock/internal/config/event"
	"github.com/weisyn/rovclock/pkg/interfaces/config"
	eventInterface "github.com/weisyn/rovclock/pkg/interfaces/infrastructure/event"
	"github.com/weisyn/rovclock/pkg/interfaces/infrastructure/log"
)

// ModuleInput 事件模块输入依赖
type ModuleInput struct {
	fx.In

	Provider  config.Provider // 配置提供者
	Logger    log.Logger      `optional:"true"` // 日志记录器（可选）
	Lifecycle fx.Lifecycle    // 生命周期管理
}

// ModuleOutput 事件模块输出服务
type ModuleOutput struct {
	fx.Out

	EventBus  eventInterface.EventBus  // 基础事件总线
	Publisher eventInterface.Publisher // 只需要发布能力的组件使用
}

// Module 返回事件模块
func Module() fx.Option {
	return fx.Module("event",
		fx.Provide(ProvideEventBus),
	)
}

// ProvideEventBus 创建事件总线，停止时等待异步订阅者处理完毕
func ProvideEventBus(input ModuleInput) ModuleOutput {
	cfg := eventconfig.New(nil)
	if input.Provider != nil {
		cfg = eventconfig.NewFromOptions(input.Provider.GetEvent())
	}
	bus := New(cfg)

	input.Lifecycle.Append(fx.Hook{
		OnStop: func(context.Context) error {
			bus.WaitAsync()
			if input.Logger != nil {
				input.Logger.Infof("事件总线已停止，共发布 %d 个事件", bus.PublishedCount())
			}
			return nil
		},
	})

	return ModuleOutput{
		EventBus:  bus,
		Publisher: bus,
	}
}
