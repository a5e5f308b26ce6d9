package clock

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/weisyn/rovclock/pkg/types"
	"github.com/weisyn/rovclock/pkg/utils/timeutil"
)

// ErrInvalidOptions 时钟配置非法
var ErrInvalidOptions = errors.New("invalid clock options")

// ClockOptions 时钟配置
type ClockOptions struct {
	Mode         string `json:"mode"`          // system | renav | fasttime
	RenavStart   string `json:"renav_start"`   // 启动时注入的重导航时间，空表示不注入
	CalendarZone string `json:"calendar_zone"` // 日历字段换算时区（IANA 名称）

	// 快速时钟驱动
	FastTimeEnabled  bool          `json:"fasttime_enabled"`
	FastTimeInterval time.Duration `json:"fasttime_interval"` // 0 表示全速运行

	// 主机时钟偏移监测（只读，不校正主机时钟）
	MonitorEnabled  bool          `json:"monitor_enabled"`
	NTPServer       string        `json:"ntp_server"`
	MonitorInterval time.Duration `json:"monitor_interval"`
	OffsetThreshold time.Duration `json:"offset_threshold"` // 判定不健康的偏移阈值

	// 回退与重试
	BackoffInitial time.Duration `json:"backoff_initial"`
	BackoffMax     time.Duration `json:"backoff_max"`
}

// Config 提供访问选项
type Config struct {
	options *ClockOptions
}

// New 创建配置：默认值 → 用户配置 → 环境变量覆盖
// 环境变量：
//
//	CLOCK_MODE (system|renav|fasttime)
//	CLOCK_RENAV_START ("07/04/2024 13:45:30.5")
//	CLOCK_CALENDAR_ZONE
//	CLOCK_FASTTIME_ENABLED
//	CLOCK_FASTTIME_INTERVAL_MS
//	CLOCK_MONITOR_ENABLED
//	CLOCK_NTP_SERVER (如 time.google.com)
//	CLOCK_MONITOR_INTERVAL_MS
//	CLOCK_OFFSET_THRESHOLD_MS
//	CLOCK_BACKOFF_INITIAL_MS
//	CLOCK_BACKOFF_MAX_MS
func New(userConfig *types.UserClockConfig) *Config {
	opts := &ClockOptions{
		Mode:             defaultMode,
		CalendarZone:     defaultCalendarZone,
		FastTimeEnabled:  defaultFastTimeEnabled,
		FastTimeInterval: defaultFastTimeInterval,
		MonitorEnabled:   defaultMonitorEnabled,
		NTPServer:        defaultNTPServer,
		MonitorInterval:  defaultMonitorInterval,
		OffsetThreshold:  defaultOffsetThreshold,
		BackoffInitial:   defaultBackoffInitial,
		BackoffMax:       defaultBackoffMax,
	}

	if userConfig != nil {
		applyUserClockConfig(opts, userConfig)
	}
	applyEnvOverrides(opts)

	return &Config{options: opts}
}

func applyUserClockConfig(opts *ClockOptions, u *types.UserClockConfig) {
	if u.Mode != nil {
		opts.Mode = *u.Mode
	}
	if u.RenavStart != nil {
		opts.RenavStart = *u.RenavStart
	}
	if u.CalendarZone != nil {
		opts.CalendarZone = *u.CalendarZone
	}
	if u.FastTimeEnabled != nil {
		opts.FastTimeEnabled = *u.FastTimeEnabled
	}
	if u.FastTimeIntervalMs != nil {
		opts.FastTimeInterval = time.Duration(*u.FastTimeIntervalMs) * time.Millisecond
	}
	if u.MonitorEnabled != nil {
		opts.MonitorEnabled = *u.MonitorEnabled
	}
	if u.NTPServer != nil {
		opts.NTPServer = *u.NTPServer
	}
	if u.MonitorIntervalMs != nil {
		opts.MonitorInterval = time.Duration(*u.MonitorIntervalMs) * time.Millisecond
	}
	if u.OffsetThresholdMs != nil {
		opts.OffsetThreshold = time.Duration(*u.OffsetThresholdMs) * time.Millisecond
	}
}

func applyEnvOverrides(opts *ClockOptions) {
	if v := os.Getenv("CLOCK_MODE"); v != "" {
		opts.Mode = v
	}
	if v := os.Getenv("CLOCK_RENAV_START"); v != "" {
		opts.RenavStart = v
	}
	if v := os.Getenv("CLOCK_CALENDAR_ZONE"); v != "" {
		opts.CalendarZone = v
	}
	if v := os.Getenv("CLOCK_FASTTIME_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			opts.FastTimeEnabled = b
		}
	}
	envMillis("CLOCK_FASTTIME_INTERVAL_MS", &opts.FastTimeInterval)
	if v := os.Getenv("CLOCK_MONITOR_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			opts.MonitorEnabled = b
		}
	}
	if v := os.Getenv("CLOCK_NTP_SERVER"); v != "" {
		opts.NTPServer = v
	}
	envMillis("CLOCK_MONITOR_INTERVAL_MS", &opts.MonitorInterval)
	envMillis("CLOCK_OFFSET_THRESHOLD_MS", &opts.OffsetThreshold)
	envMillis("CLOCK_BACKOFF_INITIAL_MS", &opts.BackoffInitial)
	envMillis("CLOCK_BACKOFF_MAX_MS", &opts.BackoffMax)
}

func envMillis(key string, dst *time.Duration) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = time.Duration(n) * time.Millisecond
		}
	}
}

func (c *Config) GetOptions() *ClockOptions { return c.options }

// TimeMode 解析配置的模式
func (o *ClockOptions) TimeMode() (types.TimeMode, error) {
	return types.ParseTimeMode(o.Mode)
}

// Location 解析日历时区，空值为 UTC
func (o *ClockOptions) Location() (*time.Location, error) {
	if o.CalendarZone == "" || o.CalendarZone == "UTC" {
		return time.UTC, nil
	}
	return time.LoadLocation(o.CalendarZone)
}

// Validate 检查配置一致性
func (o *ClockOptions) Validate() error {
	if _, err := o.TimeMode(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	if _, err := o.Location(); err != nil {
		return fmt.Errorf("%w: calendar_zone %q: %v", ErrInvalidOptions, o.CalendarZone, err)
	}
	if o.RenavStart != "" {
		if _, err := timeutil.ParseDSLTime(o.RenavStart); err != nil {
			return fmt.Errorf("%w: renav_start: %v", ErrInvalidOptions, err)
		}
	}
	if o.FastTimeInterval < 0 {
		return fmt.Errorf("%w: fasttime_interval must not be negative", ErrInvalidOptions)
	}
	if o.MonitorEnabled {
		if o.NTPServer == "" {
			return fmt.Errorf("%w: ntp_server is required when the monitor is enabled", ErrInvalidOptions)
		}
		if o.MonitorInterval <= 0 {
			return fmt.Errorf("%w: monitor_interval must be positive", ErrInvalidOptions)
		}
	}
	if o.BackoffInitial <= 0 || o.BackoffMax < o.BackoffInitial {
		return fmt.Errorf("%w: backoff %v..%v", ErrInvalidOptions, o.BackoffInitial, o.BackoffMax)
	}
	return nil
}
