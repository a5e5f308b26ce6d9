// Package clock provides default configuration values for the mode clock.
package clock

import "time"

// 时钟配置默认值
const (
	// defaultMode 默认使用系统时钟
	defaultMode = "system"

	// defaultCalendarZone 日历字段按 UTC 换算
	// 原因：时间戳与主机时区设置无关，车辆日志可跨站点对齐
	defaultCalendarZone = "UTC"

	// defaultFastTimeEnabled 默认不启动快速时钟驱动
	defaultFastTimeEnabled = false

	// defaultMonitorEnabled 默认不监测主机时钟偏移
	// 原因：载具上常常没有外网，按需开启
	defaultMonitorEnabled = false

	// defaultNTPServer 默认NTP服务器设为"time.google.com"
	defaultNTPServer = "time.google.com"
)

var (
	// defaultFastTimeInterval 每个 tick 100ms，即与真实时间同速
	defaultFastTimeInterval = 100 * time.Millisecond

	// defaultMonitorInterval 默认监测间隔设为5分钟
	defaultMonitorInterval = 5 * time.Minute

	// defaultOffsetThreshold 默认偏移阈值设为500毫秒
	defaultOffsetThreshold = 500 * time.Millisecond

	// defaultBackoffInitial 默认初始退避时间设为5秒
	defaultBackoffInitial = 5 * time.Second

	// defaultBackoffMax 默认最大退避时间设为5分钟
	defaultBackoffMax = 5 * time.Minute
)
