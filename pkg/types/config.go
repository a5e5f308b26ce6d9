// Package types provides configuration type definitions.
package types

// AppConfig 应用程序根配置
// 只包含JSON配置文件解析所需的结构，不包含任何内部字段
// 默认值和完整配置结构在 internal/config/*/defaults.go 和 internal/config/*/config.go 中定义
type AppConfig struct {
	// 应用程序基本信息
	AppName *string `json:"app_name,omitempty"` // 应用名称
	DataDir *string `json:"data_dir,omitempty"` // 数据目录路径

	// 时钟配置 - 对应配置文件中的 clock 字段
	Clock *UserClockConfig `json:"clock,omitempty"`

	// 日志配置
	Log *UserLogConfig `json:"log,omitempty"`

	// 运维API配置
	API *UserAPIConfig `json:"api,omitempty"`

	// 事件总线配置
	Event *UserEventConfig `json:"event,omitempty"`
}

// UserClockConfig 用户时钟配置
// 只包含JSON配置文件中实际出现的字段
type UserClockConfig struct {
	Mode         *string `json:"mode,omitempty"`          // system | renav | fasttime
	RenavStart   *string `json:"renav_start,omitempty"`   // 启动时注入的重导航时间 "月/日/年 时:分:秒"
	CalendarZone *string `json:"calendar_zone,omitempty"` // 日历字段换算所用时区，默认 UTC

	FastTimeEnabled    *bool  `json:"fasttime_enabled,omitempty"`     // 是否启动快速时钟驱动
	FastTimeIntervalMs *int64 `json:"fasttime_interval_ms,omitempty"` // 每个 tick 的真实间隔（毫秒，0 表示全速）

	MonitorEnabled    *bool   `json:"monitor_enabled,omitempty"`     // 是否启用主机时钟偏移监测
	NTPServer         *string `json:"ntp_server,omitempty"`          // 偏移监测使用的NTP服务器
	MonitorIntervalMs *int64  `json:"monitor_interval_ms,omitempty"` // 偏移监测间隔
	OffsetThresholdMs *int64  `json:"offset_threshold_ms,omitempty"` // 偏移告警阈值
}

// UserLogConfig 用户日志配置
// 只包含JSON配置文件中实际出现的字段
type UserLogConfig struct {
	Level       *string `json:"level,omitempty"`         // 日志级别：debug, info, warn, error, fatal
	FilePath    *string `json:"file_path,omitempty"`     // 日志文件路径
	DSLFilePath *string `json:"dsl_file_path,omitempty"` // DSL 记录文件路径
	ModeClock   *bool   `json:"mode_clock,omitempty"`    // 日志时间戳是否取自模式时钟
}

// UserAPIConfig 用户API配置
type UserAPIConfig struct {
	HTTPEnabled *bool   `json:"http_enabled,omitempty"` // 是否启用HTTP服务（默认true）
	HTTPHost    *string `json:"http_host,omitempty"`    // HTTP监听地址
	HTTPPort    *int    `json:"http_port,omitempty"`    // HTTP监听端口
	MetricsPath *string `json:"metrics_path,omitempty"` // Prometheus 指标路径
}

// UserEventConfig 用户事件配置
type UserEventConfig struct {
	Enabled *bool `json:"enabled,omitempty"` // 是否启用事件总线
}

// 配置辅助函数
// 这些函数帮助创建指针类型的配置值，区分"未设置"和"设置为零值"

// BoolPtr 创建bool指针，用于明确表示用户设置了该值
func BoolPtr(v bool) *bool {
	return &v
}

// IntPtr 创建int指针，用于明确表示用户设置了该值
func IntPtr(v int) *int {
	return &v
}

// Int64Ptr 创建int64指针，用于明确表示用户设置了该值
func Int64Ptr(v int64) *int64 {
	return &v
}

// StringPtr 创建string指针，用于明确表示用户设置了该值
func StringPtr(v string) *string {
	return &v
}
