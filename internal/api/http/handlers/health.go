package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apitypes "github.com/weisyn/rovclock/internal/api/http/types"
	infraClock "github.com/weisyn/rovclock/pkg/interfaces/infrastructure/clock"
)

// HealthHandler 进程健康检查
//
// - /health/live: 存活检查（进程是否响应）
// - /health/ready: 就绪检查（当前模式能否解析出时间）
type HealthHandler struct {
	startTime time.Time
	resolver  infraClock.TimeResolver
}

// NewHealthHandler 创建健康检查处理器
func NewHealthHandler(resolver infraClock.TimeResolver) *HealthHandler {
	return &HealthHandler{
		startTime: time.Now(),
		resolver:  resolver,
	}
}

// RegisterRoutes 注册健康检查路由
func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	health := r.Group("/health")
	{
		health.GET("/live", h.GetLiveness)
		health.GET("/ready", h.GetReadiness)
	}
}

// GetLiveness 存活检查
func (h *HealthHandler) GetLiveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
		"uptime": time.Since(h.startTime).Round(time.Second).String(),
	})
}

// GetReadiness 就绪检查
func (h *HealthHandler) GetReadiness(c *gin.Context) {
	if _, err := h.resolver.TimeStruct(); err != nil {
		respondError(c, http.StatusServiceUnavailable, apitypes.ErrClockRead, err.Error(), nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"mode":   h.resolver.Mode(),
	})
}
