package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apitypes "github.com/weisyn/rovclock/internal/api/http/types"
	"github.com/weisyn/rovclock/internal/core/infrastructure/clock"
	infraClock "github.com/weisyn/rovclock/pkg/interfaces/infrastructure/clock"
	"github.com/weisyn/rovclock/pkg/types"
	"github.com/weisyn/rovclock/pkg/utils/timeutil"
)

const timestampKey = "clock_timestamp"

// HealthReporter 偏移监测的健康快照
type HealthReporter interface {
	Health() clock.MonitorHealth
}

// ClockHandler 时钟操作端点
//
// 🕒 操作员通过这些端点查询当前时间、切换模式与注入重导航时间：
// - GET  /clock/now[?mode=]
// - GET  /clock/mode、PUT /clock/mode
// - PUT  /clock/renav
// - GET  /clock/format、GET /clock/diff
// - GET  /clock/health
type ClockHandler struct {
	logger     *zap.Logger
	controller infraClock.ModeController
	monitor    HealthReporter
}

// NewClockHandler 创建时钟处理器，monitor 可以为 nil
func NewClockHandler(logger *zap.Logger, controller infraClock.ModeController, monitor HealthReporter) *ClockHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClockHandler{
		logger:     logger,
		controller: controller,
		monitor:    monitor,
	}
}

// RegisterRoutes 注册时钟路由
func (h *ClockHandler) RegisterRoutes(r gin.IRouter) {
	g := r.Group("/clock")
	g.Use(h.stamp())
	{
		g.GET("/now", h.GetNow)
		g.GET("/mode", h.GetMode)
		g.PUT("/mode", h.SetMode)
		g.PUT("/renav", h.SetRenav)
		g.GET("/format", h.Format)
		g.GET("/diff", h.Diff)
		g.GET("/health", h.GetHealth)
	}
}

// stamp 在处理前记录响应时间戳
func (h *ClockHandler) stamp() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s, err := h.controller.DSLString(); err == nil {
			c.Set(timestampKey, s)
		}
		c.Next()
	}
}

// NowResponse 当前时间
type NowResponse struct {
	Mode types.TimeMode   `json:"mode"`
	DSL  string           `json:"dsl"`
	Time types.TimeStruct `json:"time"`
}

// GetNow 按当前模式（或 ?mode= 指定的模式）解析时间
func (h *ClockHandler) GetNow(c *gin.Context) {
	mode := h.controller.Mode()
	if q := c.Query("mode"); q != "" {
		parsed, err := types.ParseTimeMode(q)
		if err != nil {
			respondError(c, http.StatusBadRequest, apitypes.ErrInvalidMode, err.Error(), nil)
			return
		}
		mode = parsed
	}

	ts, err := h.controller.TimeStructMode(mode)
	if err != nil {
		respondClockError(c, err)
		return
	}
	respondOK(c, NowResponse{
		Mode: mode,
		DSL:  timeutil.FormatDSL(ts),
		Time: ts,
	})
}

// ModeResponse 模式查询与切换的结果
type ModeResponse struct {
	Mode     types.TimeMode  `json:"mode"`
	Previous *types.TimeMode `json:"previous,omitempty"`
}

// GetMode 查询当前模式
func (h *ClockHandler) GetMode(c *gin.Context) {
	respondOK(c, ModeResponse{Mode: h.controller.Mode()})
}

// SetModeRequest 模式切换请求
type SetModeRequest struct {
	Mode string `json:"mode" binding:"required"`
}

// SetMode 切换模式
func (h *ClockHandler) SetMode(c *gin.Context) {
	var req SetModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, apitypes.ErrInvalidArgument, err.Error(), nil)
		return
	}
	mode, err := types.ParseTimeMode(req.Mode)
	if err != nil {
		respondError(c, http.StatusBadRequest, apitypes.ErrInvalidMode, err.Error(), nil)
		return
	}

	previous := h.controller.Mode()
	if err := h.controller.SetMode(mode); err != nil {
		respondClockError(c, err)
		return
	}
	h.logger.Info("操作员切换时间模式",
		zap.Stringer("from", previous),
		zap.Stringer("to", mode),
		zap.String("client_ip", c.ClientIP()))
	respondOK(c, ModeResponse{Mode: mode, Previous: &previous})
}

// RenavFields 日历字段形式的重导航时间
type RenavFields struct {
	Year   int     `json:"year"`
	Month  int     `json:"month"`
	Day    int     `json:"day"`
	Hour   int     `json:"hour"`
	Minute int     `json:"min"`
	Sec    float64 `json:"sec"`
}

// SetRenavRequest 重导航时间请求，epoch / text / fields 三选一
type SetRenavRequest struct {
	Epoch  *float64     `json:"epoch,omitempty"`
	Text   *string      `json:"text,omitempty"`
	Fields *RenavFields `json:"fields,omitempty"`
}

func (r SetRenavRequest) sources() int {
	n := 0
	if r.Epoch != nil {
		n++
	}
	if r.Text != nil {
		n++
	}
	if r.Fields != nil {
		n++
	}
	return n
}

// RenavResponse 写入后的重导航时间
type RenavResponse struct {
	Epoch float64 `json:"epoch"`
	DSL   string  `json:"dsl"`
}

// SetRenav 注入重导航时间
func (h *ClockHandler) SetRenav(c *gin.Context) {
	var req SetRenavRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, apitypes.ErrInvalidArgument, err.Error(), nil)
		return
	}
	if req.sources() != 1 {
		respondError(c, http.StatusBadRequest, apitypes.ErrInvalidArgument,
			"exactly one of epoch, text or fields is required", nil)
		return
	}

	switch {
	case req.Epoch != nil:
		if err := timeutil.CheckEpoch(*req.Epoch); err != nil {
			respondError(c, http.StatusBadRequest, apitypes.ErrInvalidArgument, err.Error(), nil)
			return
		}
		h.controller.SetTime(*req.Epoch)
	case req.Text != nil:
		if err := h.controller.SetTimeString(*req.Text); err != nil {
			respondClockError(c, err)
			return
		}
	default:
		f := req.Fields
		h.controller.SetTimeFields(f.Year, f.Month, f.Day, f.Hour, f.Minute, f.Sec)
	}

	v := h.controller.RenavTime()
	h.logger.Info("操作员写入重导航时间", zap.Float64("epoch", v))
	respondOK(c, RenavResponse{Epoch: v, DSL: timeutil.FormatDSLEpoch(v)})
}

// FormatResponse 格式化结果
type FormatResponse struct {
	Epoch  float64 `json:"epoch"`
	Layout string  `json:"layout"`
	Text   string  `json:"text"`
}

// Format 将纪元秒格式化，layout 为 dsl（默认）、hm 或 hms
func (h *ClockHandler) Format(c *gin.Context) {
	epoch, ok := floatQuery(c, "epoch")
	if !ok {
		return
	}

	layout := c.DefaultQuery("layout", "dsl")
	var text string
	switch layout {
	case "dsl":
		text = timeutil.FormatDSLEpoch(epoch)
	case "hm":
		text = timeutil.FormatHourMinute(epoch)
	case "hms":
		text = timeutil.FormatHourMinuteSecond(epoch)
	default:
		respondError(c, http.StatusBadRequest, apitypes.ErrInvalidArgument,
			fmt.Sprintf("unknown layout %q", layout), nil)
		return
	}
	respondOK(c, FormatResponse{Epoch: epoch, Layout: layout, Text: text})
}

// Diff 返回 t1 - t0
func (h *ClockHandler) Diff(c *gin.Context) {
	t1, ok := floatQuery(c, "t1")
	if !ok {
		return
	}
	t0, ok := floatQuery(c, "t0")
	if !ok {
		return
	}
	respondOK(c, gin.H{"diff": timeutil.Diff(t1, t0)})
}

// GetHealth 主机时钟偏移监测状态，未启用监测时 enabled=false
func (h *ClockHandler) GetHealth(c *gin.Context) {
	if h.monitor == nil {
		respondOK(c, gin.H{"enabled": false})
		return
	}
	health := h.monitor.Health()
	if !health.Healthy {
		respondError(c, http.StatusServiceUnavailable, apitypes.ErrServiceUnavailable,
			"host clock offset unhealthy", health)
		return
	}
	respondOK(c, gin.H{"enabled": true, "monitor": health})
}

func floatQuery(c *gin.Context, name string) (float64, bool) {
	raw := c.Query(name)
	if raw == "" {
		respondError(c, http.StatusBadRequest, apitypes.ErrInvalidArgument,
			fmt.Sprintf("missing query parameter %q", name), nil)
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err == nil {
		err = timeutil.CheckEpoch(v)
	}
	if err != nil {
		respondError(c, http.StatusBadRequest, apitypes.ErrInvalidArgument,
			fmt.Sprintf("invalid %s: %v", name, err), nil)
		return 0, false
	}
	return v, true
}
