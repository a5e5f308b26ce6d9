package event

import "github.com/weisyn/rovclock/pkg/types"

// EventOptions 事件系统配置选项
type EventOptions struct {
	Enabled        bool `json:"enabled"`         // 是否启用事件系统
	HistorySize    int  `json:"history_size"`    // 保留的事件历史条数
	MaxSubscribers int  `json:"max_subscribers"` // 单个事件类型的最大订阅者数量
}

// Config 事件配置实现
type Config struct {
	options *EventOptions
}

// New 创建事件配置实现
func New(userConfig *types.UserEventConfig) *Config {
	// 1. 先创建完整的默认配置
	defaultOptions := createDefaultEventOptions()

	// 2. 应用用户配置
	if userConfig != nil && userConfig.Enabled != nil {
		defaultOptions.Enabled = *userConfig.Enabled
	}

	return &Config{
		options: defaultOptions,
	}
}

// createDefaultEventOptions 创建默认事件配置
func createDefaultEventOptions() *EventOptions {
	return &EventOptions{
		Enabled:        defaultEnabled,
		HistorySize:    defaultHistorySize,
		MaxSubscribers: defaultMaxSubscribers,
	}
}

// GetOptions 获取完整的事件配置选项
func (c *Config) GetOptions() *EventOptions {
	return c.options
}

// IsEnabled 是否启用事件系统
func (c *Config) IsEnabled() bool {
	return c.options.Enabled
}

// NewFromOptions 包装已有的事件选项
func NewFromOptions(options *EventOptions) *Config {
	if options == nil {
		return New(nil)
	}
	return &Config{options: options}
}
