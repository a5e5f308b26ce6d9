// Package handlers provides HTTP API handlers for the rovclock operator API
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/weisyn/rovclock/internal/api/http/middleware"
	apitypes "github.com/weisyn/rovclock/internal/api/http/types"
	"github.com/weisyn/rovclock/internal/core/infrastructure/clock"
	"github.com/weisyn/rovclock/pkg/utils/timeutil"
)

// respondOK 写入统一成功响应，时间戳取自模式时钟
func respondOK(c *gin.Context, data interface{}) {
	resp := apitypes.NewSuccessResponse(data).
		WithRequestID(middleware.GetRequestID(c))
	if ts, ok := c.Get(timestampKey); ok {
		resp.WithTimestamp(ts.(string))
	}
	c.JSON(http.StatusOK, resp)
}

// respondError 写入统一错误响应
func respondError(c *gin.Context, status int, code, message string, details interface{}) {
	resp := apitypes.NewErrorResponse(code, message, details).
		WithRequestID(middleware.GetRequestID(c))
	c.AbortWithStatusJSON(status, resp)
}

// respondClockError 按错误类型映射状态码与错误码
func respondClockError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, clock.ErrInvalidMode):
		respondError(c, http.StatusBadRequest, apitypes.ErrInvalidMode, err.Error(), nil)
	case errors.Is(err, timeutil.ErrMalformedTime):
		respondError(c, http.StatusBadRequest, apitypes.ErrMalformedTime, err.Error(), nil)
	case errors.Is(err, clock.ErrClockRead):
		respondError(c, http.StatusServiceUnavailable, apitypes.ErrClockRead, err.Error(), nil)
	default:
		_ = c.Error(err)
		respondError(c, http.StatusInternalServerError, apitypes.ErrInternal, err.Error(), nil)
	}
}
