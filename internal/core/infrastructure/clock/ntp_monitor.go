package clock

import (
	"context"
	"sync"
	"time"

	"github.com/beevik/ntp"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	clockconfig "github.com/weisyn/rovclock/internal/config/clock"
	"github.com/weisyn/rovclock/pkg/interfaces/infrastructure/event"
	"github.com/weisyn/rovclock/pkg/types"
)

// QueryFunc 查询主机时钟相对服务器的偏移，正值表示本地时钟落后
type QueryFunc func(server string) (time.Duration, error)

// MonitorHealth 偏移监测状态快照
type MonitorHealth struct {
	Healthy   bool          `json:"healthy"`
	Server    string        `json:"server"`
	Offset    time.Duration `json:"offset_ns"`
	Threshold time.Duration `json:"threshold_ns"`
	LastSync  time.Time     `json:"last_sync"`
	LastError string        `json:"last_error,omitempty"`
	Checks    uint64        `json:"checks"`
}

// OffsetMonitor 周期性测量主机时钟与NTP服务器的偏移
//
// 只观测不校正：system 模式的时间始终直接来自主机时钟。
// 查询失败时按指数退避重试，偏移超过阈值时发布告警事件。
type OffsetMonitor struct {
	server         string
	interval       time.Duration
	threshold      time.Duration
	backoffInitial time.Duration
	backoffMax     time.Duration

	clock     clockwork.Clock
	query     QueryFunc
	logger    *zap.Logger
	publisher event.Publisher

	mu        sync.RWMutex
	offset    time.Duration
	lastSync  time.Time
	lastError error
	backoff   time.Duration
	alarmed   bool
	checks    uint64
}

// NewOffsetMonitor 按时钟配置创建监测器
func NewOffsetMonitor(opts *clockconfig.ClockOptions, clk clockwork.Clock, logger *zap.Logger) *OffsetMonitor {
	if clk == nil {
		clk = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OffsetMonitor{
		server:         opts.NTPServer,
		interval:       opts.MonitorInterval,
		threshold:      opts.OffsetThreshold,
		backoffInitial: opts.BackoffInitial,
		backoffMax:     opts.BackoffMax,
		clock:          clk,
		query:          queryNTP,
		logger:         logger,
	}
}

// SetQueryFunc 替换查询函数，nil 恢复为 NTP 查询，可在 Run 期间调用
func (m *OffsetMonitor) SetQueryFunc(q QueryFunc) {
	if q == nil {
		q = queryNTP
	}
	m.mu.Lock()
	m.query = q
	m.mu.Unlock()
}

// SetPublisher 设置告警事件发布者，可在 Run 期间调用
func (m *OffsetMonitor) SetPublisher(p event.Publisher) {
	m.mu.Lock()
	m.publisher = p
	m.mu.Unlock()
}

// Run 立即测量一次，之后按间隔（失败时按退避）测量，直到 ctx 取消
func (m *OffsetMonitor) Run(ctx context.Context) error {
	m.logger.Info("主机时钟偏移监测启动",
		zap.String("server", m.server),
		zap.Duration("interval", m.interval),
		zap.Duration("threshold", m.threshold))

	for {
		m.Check()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-m.clock.After(m.nextWait()):
		}
	}
}

// Check 执行一次测量
func (m *OffsetMonitor) Check() {
	m.mu.RLock()
	query, publisher := m.query, m.publisher
	m.mu.RUnlock()

	offset, err := query(m.server)

	m.mu.Lock()
	m.checks++
	if err != nil {
		m.lastError = err
		if m.backoff == 0 {
			m.backoff = m.backoffInitial
		} else {
			m.backoff *= 2
		}
		if m.backoff > m.backoffMax {
			m.backoff = m.backoffMax
		}
		backoff := m.backoff
		m.mu.Unlock()

		m.logger.Warn("NTP 查询失败",
			zap.String("server", m.server),
			zap.Duration("retry_in", backoff),
			zap.Error(err))
		return
	}

	// 成功，清零退避
	m.offset = offset
	m.lastSync = m.clock.Now()
	m.lastError = nil
	m.backoff = 0
	over := m.exceeds(offset)
	raise := over && !m.alarmed
	m.alarmed = over
	m.mu.Unlock()

	m.logger.Debug("主机时钟偏移", zap.Duration("offset", offset))
	if !raise {
		return
	}
	m.logger.Warn("主机时钟偏移超过阈值",
		zap.Duration("offset", offset),
		zap.Duration("threshold", m.threshold))
	if publisher != nil {
		publisher.Publish(types.EventTypeClockOffsetAlarm, types.OffsetAlarmEvent{
			Server:        m.server,
			OffsetSeconds: offset.Seconds(),
			Threshold:     m.threshold.Seconds(),
		})
	}
}

// Health 返回当前健康状态与关键指标
// healthy: 至少同步过一次，最近一次查询无错误，且偏移量在阈值内
func (m *OffsetMonitor) Health() MonitorHealth {
	m.mu.RLock()
	defer m.mu.RUnlock()

	h := MonitorHealth{
		Server:    m.server,
		Offset:    m.offset,
		Threshold: m.threshold,
		LastSync:  m.lastSync,
		Checks:    m.checks,
	}
	if m.lastError != nil {
		h.LastError = m.lastError.Error()
	}
	h.Healthy = !m.lastSync.IsZero() && m.lastError == nil && !m.exceeds(m.offset)
	return h
}

// exceeds 阈值未配置时不启用该检查
func (m *OffsetMonitor) exceeds(offset time.Duration) bool {
	if m.threshold <= 0 {
		return false
	}
	return offset < -m.threshold || offset > m.threshold
}

func (m *OffsetMonitor) nextWait() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.backoff > 0 {
		return m.backoff
	}
	return m.interval
}

func queryNTP(server string) (time.Duration, error) {
	resp, err := ntp.Query(server)
	if err != nil {
		return 0, err
	}
	if err := resp.Validate(); err != nil {
		return 0, err
	}
	return resp.ClockOffset, nil
}
