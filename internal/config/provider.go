package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/weisyn/rovclock/internal/config/api"
	"github.com/weisyn/rovclock/internal/config/clock"
	"github.com/weisyn/rovclock/internal/config/event"
	"github.com/weisyn/rovclock/internal/config/log"
	"github.com/weisyn/rovclock/pkg/interfaces/config"
	"github.com/weisyn/rovclock/pkg/types"
)

// Provider 实现配置提供者接口
type Provider struct {
	appConfig *types.AppConfig
}

// NewProvider 创建配置提供者
func NewProvider(appConfig *types.AppConfig) config.Provider {
	return &Provider{
		appConfig: appConfig,
	}
}

// GetClock 获取时钟配置
func (p *Provider) GetClock() *clock.ClockOptions {
	// 直接传递用户时钟配置给clock.New，让它处理默认值、转换和环境变量覆盖
	var userClockConfig *types.UserClockConfig
	if p.appConfig != nil && p.appConfig.Clock != nil {
		userClockConfig = p.appConfig.Clock
	}
	return clock.New(userClockConfig).GetOptions()
}

// GetAPI 获取运维API配置
func (p *Provider) GetAPI() *api.APIOptions {
	var userAPIConfig *types.UserAPIConfig
	if p.appConfig != nil && p.appConfig.API != nil {
		userAPIConfig = p.appConfig.API
	}
	return api.New(userAPIConfig).GetOptions()
}

// GetLog 获取日志配置
func (p *Provider) GetLog() *log.LogOptions {
	var userLogConfig *types.UserLogConfig
	if p.appConfig != nil && p.appConfig.Log != nil {
		userLogConfig = p.appConfig.Log
	}
	return log.New(userLogConfig).GetOptions()
}

// GetEvent 获取事件配置
func (p *Provider) GetEvent() *event.EventOptions {
	var userEventConfig *types.UserEventConfig
	if p.appConfig != nil && p.appConfig.Event != nil {
		userEventConfig = p.appConfig.Event
	}
	return event.New(userEventConfig).GetOptions()
}

// GetAppConfig 获取原始应用配置（可能为 nil）
func (p *Provider) GetAppConfig() *types.AppConfig {
	return p.appConfig
}

// LoadAppConfig 从 JSON 文件加载应用配置
//
// 文件中未出现的字段保持 nil，由各子配置的 defaults.go 补齐。
func LoadAppConfig(path string) (*types.AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}
	return ParseAppConfig(data)
}

// ParseAppConfig 解析 JSON 应用配置
func ParseAppConfig(data []byte) (*types.AppConfig, error) {
	var cfg types.AppConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}
	return &cfg, nil
}

// Validate 校验各子配置
func Validate(p config.Provider) error {
	if err := p.GetClock().Validate(); err != nil {
		return fmt.Errorf("clock: %w", err)
	}
	if err := p.GetAPI().Validate(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := p.GetLog().Validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	return nil
}

// StaticAppOptions 以固定的 AppConfig 实现 config.AppOptions
type StaticAppOptions struct {
	Config *types.AppConfig
}

// GetAppConfig 获取应用配置
func (s StaticAppOptions) GetAppConfig() *types.AppConfig { return s.Config }
