package api

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/weisyn/rovclock/pkg/types"
)

// APIOptions 运维API配置选项
type APIOptions struct {
	// HTTP API配置
	HTTP HTTPConfig `json:"http"`

	// Prometheus 指标路径，挂在 HTTP 服务上
	MetricsPath string `json:"metrics_path"`
}

// HTTPConfig HTTP API配置
type HTTPConfig struct {
	// 基础配置
	Enabled bool   `json:"enabled"` // 是否启用HTTP服务（总开关）
	Host    string `json:"host"`    // 监听地址
	Port    int    `json:"port"`    // 监听端口

	// 超时配置
	ReadTimeout     time.Duration `json:"read_timeout"`     // 读取超时时间
	WriteTimeout    time.Duration `json:"write_timeout"`    // 写入超时时间
	ShutdownTimeout time.Duration `json:"shutdown_timeout"` // 优雅关闭等待时间

	// 最大请求大小(字节)
	MaxRequestSize int64 `json:"max_request_size"`
}

// Addr 监听地址 host:port
func (h HTTPConfig) Addr() string {
	return net.JoinHostPort(h.Host, strconv.Itoa(h.Port))
}

// Config API配置实现
type Config struct {
	options *APIOptions
}

// New 创建API配置实现
func New(userConfig *types.UserAPIConfig) *Config {
	// 1. 先创建完整的默认配置
	defaultOptions := createDefaultAPIOptions()

	// 2. 如果有用户配置，则转换并覆盖默认配置
	if userConfig != nil {
		convertAndMergeUserConfig(defaultOptions, userConfig)
	}

	return &Config{
		options: defaultOptions,
	}
}

// createDefaultAPIOptions 创建默认API配置
func createDefaultAPIOptions() *APIOptions {
	return &APIOptions{
		HTTP: HTTPConfig{
			Enabled:         defaultHTTPEnabled,
			Host:            defaultHTTPHost,
			Port:            defaultHTTPPort,
			ReadTimeout:     defaultHTTPReadTimeout,
			WriteTimeout:    defaultHTTPWriteTimeout,
			ShutdownTimeout: defaultHTTPShutdownTimeout,
			MaxRequestSize:  defaultMaxRequestSize,
		},
		MetricsPath: defaultMetricsPath,
	}
}

// convertAndMergeUserConfig 将用户配置转换并合并到默认配置中
// 使用指针类型来准确区分"未设置"和"设置为零值"
func convertAndMergeUserConfig(defaultOpts *APIOptions, userConfig *types.UserAPIConfig) {
	// HTTPEnabled: 用户设置为false时为&false，这同样是明确意图
	if userConfig.HTTPEnabled != nil {
		defaultOpts.HTTP.Enabled = *userConfig.HTTPEnabled
	}
	if userConfig.HTTPHost != nil {
		defaultOpts.HTTP.Host = *userConfig.HTTPHost
	}
	if userConfig.HTTPPort != nil {
		defaultOpts.HTTP.Port = *userConfig.HTTPPort
	}
	if userConfig.MetricsPath != nil {
		defaultOpts.MetricsPath = *userConfig.MetricsPath
	}
}

// GetOptions 获取完整的API配置选项
func (c *Config) GetOptions() *APIOptions {
	return c.options
}

// GetHTTPConfig 获取HTTP配置
func (c *Config) GetHTTPConfig() *HTTPConfig {
	return &c.options.HTTP
}

// Validate 检查端口与路径
func (o *APIOptions) Validate() error {
	if o.HTTP.Enabled && (o.HTTP.Port < 0 || o.HTTP.Port > 65535) {
		return fmt.Errorf("http port out of range: %d", o.HTTP.Port)
	}
	if o.MetricsPath != "" && o.MetricsPath[0] != '/' {
		return fmt.Errorf("metrics_path must start with '/': %q", o.MetricsPath)
	}
	return nil
}
