package clock

import (
	"github.com/prometheus/client_golang/prometheus"

	infraClock "github.com/weisyn/rovclock/pkg/interfaces/infrastructure/clock"
)

type clockCollector struct {
	clock   *ModeClock
	fast    infraClock.FastTimeSource
	monitor *OffsetMonitor

	mode            *prometheus.Desc
	renavSeconds    *prometheus.Desc
	fastTimeTicks   *prometheus.Desc
	offsetSeconds   *prometheus.Desc
	lastSyncSeconds *prometheus.Desc
	healthy         *prometheus.Desc
}

// NewClockCollector 创建时钟指标采集器，monitor 可以为 nil
func NewClockCollector(clock *ModeClock, fast infraClock.FastTimeSource, monitor *OffsetMonitor) prometheus.Collector {
	return &clockCollector{
		clock:   clock,
		fast:    fast,
		monitor: monitor,
		mode: prometheus.NewDesc(
			"rovclock_time_mode",
			"Current time mode (0 system, 1 renav, 2 fasttime)",
			nil, nil,
		),
		renavSeconds: prometheus.NewDesc(
			"rovclock_renav_epoch_seconds",
			"Stored re-navigation time in epoch seconds",
			nil, nil,
		),
		fastTimeTicks: prometheus.NewDesc(
			"rovclock_fasttime_ticks_total",
			"Fast-time ticks since start, one tick is 100ms",
			nil, nil,
		),
		offsetSeconds: prometheus.NewDesc(
			"rovclock_host_offset_seconds",
			"Positive means local time is behind NTP time",
			nil, nil,
		),
		lastSyncSeconds: prometheus.NewDesc(
			"rovclock_host_offset_last_sync_unix",
			"Last successful offset measurement Unix timestamp",
			nil, nil,
		),
		healthy: prometheus.NewDesc(
			"rovclock_host_offset_healthy",
			"1 if host clock offset is healthy, otherwise 0",
			nil, nil,
		),
	}
}

func (c *clockCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.mode
	ch <- c.renavSeconds
	ch <- c.fastTimeTicks
	if c.monitor != nil {
		ch <- c.offsetSeconds
		ch <- c.lastSyncSeconds
		ch <- c.healthy
	}
}

func (c *clockCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.mode, prometheus.GaugeValue, float64(c.clock.Mode()))
	ch <- prometheus.MustNewConstMetric(c.renavSeconds, prometheus.GaugeValue, c.clock.RenavTime())

	var ticks float64
	if c.fast != nil {
		ticks = float64(c.fast.Get())
	}
	ch <- prometheus.MustNewConstMetric(c.fastTimeTicks, prometheus.CounterValue, ticks)

	if c.monitor == nil {
		return
	}
	h := c.monitor.Health()
	var lastSync float64
	if !h.LastSync.IsZero() {
		lastSync = float64(h.LastSync.Unix())
	}
	var healthy float64
	if h.Healthy {
		healthy = 1
	}
	ch <- prometheus.MustNewConstMetric(c.offsetSeconds, prometheus.GaugeValue, h.Offset.Seconds())
	ch <- prometheus.MustNewConstMetric(c.lastSyncSeconds, prometheus.GaugeValue, lastSync)
	ch <- prometheus.MustNewConstMetric(c.healthy, prometheus.GaugeValue, healthy)
}

// RegisterClockMetrics 在指定注册表中注册时钟指标采集器，reg 为 nil 时使用默认注册表
func RegisterClockMetrics(reg prometheus.Registerer, collector prometheus.Collector) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	return reg.Register(collector)
}
