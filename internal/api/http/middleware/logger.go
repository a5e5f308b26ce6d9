package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	infralog "github.com/weisyn/rovclock/pkg/interfaces/infrastructure/log"
)

// Logger 日志中间件
// 记录所有API请求（复用系统统一日志接口，时间戳来自模式时钟）
type Logger struct {
	logger *zap.Logger
}

// NewLogger 创建日志中间件，logger 为 nil 时不记录
func NewLogger(logger infralog.Logger) *Logger {
	zl := zap.NewNop()
	if logger != nil && logger.GetZapLogger() != nil {
		zl = logger.GetZapLogger()
	}
	return &Logger{logger: zl}
}

// Middleware 返回Gin中间件
func (m *Logger) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 延迟按真实时间计算，与模式无关
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		fields := []zap.Field{
			zap.String("request_id", GetRequestID(c)),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", c.Request.URL.RawQuery),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		switch {
		case c.Writer.Status() >= 500:
			m.logger.Error("HTTP request", fields...)
		case c.Writer.Status() >= 400:
			m.logger.Warn("HTTP request", fields...)
		default:
			m.logger.Info("HTTP request", fields...)
		}
	}
}
