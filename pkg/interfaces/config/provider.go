// Package config provides configuration provider interfaces.
package config

import (
	apiconfig "github.com/weisyn/rovclock/internal/config/api"
	clockconfig "github.com/weisyn/rovclock/internal/config/clock"
	eventconfig "github.com/weisyn/rovclock/internal/config/event"
	logconfig "github.com/weisyn/rovclock/internal/config/log"
	"github.com/weisyn/rovclock/pkg/types"
)

// Provider 配置提供者接口
type Provider interface {
	// GetClock 获取时钟配置
	GetClock() *clockconfig.ClockOptions

	// GetLog 获取日志配置
	GetLog() *logconfig.LogOptions

	// GetAPI 获取运维API配置
	GetAPI() *apiconfig.APIOptions

	// GetEvent 获取事件总线配置
	GetEvent() *eventconfig.EventOptions

	// GetAppConfig 获取原始应用配置
	GetAppConfig() *types.AppConfig
}

// AppOptions 应用配置选项接口
// 提供获取应用配置的统一接口
type AppOptions interface {
	// GetAppConfig 获取应用配置
	GetAppConfig() *types.AppConfig
}
