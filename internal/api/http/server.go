package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/weisyn/rovclock/internal/api/http/handlers"
	"github.com/weisyn/rovclock/internal/api/http/middleware"
	apiconfig "github.com/weisyn/rovclock/internal/config/api"
	"github.com/weisyn/rovclock/pkg/interfaces/infrastructure/log"
)

// Server 运维HTTP服务器
// 负责时钟操作端点、健康检查与 Prometheus 指标的暴露
type Server struct {
	router     *gin.Engine  // Gin路由引擎
	httpServer *http.Server // 标准HTTP服务器
	options    *apiconfig.APIOptions
	logger     log.Logger

	mu       sync.Mutex
	listener net.Listener
	serveErr chan error
}

// ServerDeps 服务器依赖
type ServerDeps struct {
	Options    *apiconfig.APIOptions
	Logger     log.Logger
	Clock      *handlers.ClockHandler
	Health     *handlers.HealthHandler
	Gatherer   prometheus.Gatherer   // 为 nil 时不暴露指标端点
	Registerer prometheus.Registerer // 为 nil 时不采集请求指标
}

// NewServer 创建HTTP服务器并注册路由，不监听端口
func NewServer(deps ServerDeps) *Server {
	// Release 模式下 gin 不输出调试信息，请求日志统一走 zap
	gin.SetMode(gin.ReleaseMode)
	gin.DefaultWriter = io.Discard
	gin.DefaultErrorWriter = io.Discard

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.NewRequestID().Middleware())
	router.Use(middleware.NewLogger(deps.Logger).Middleware())
	if deps.Registerer != nil {
		router.Use(middleware.NewMetrics(deps.Registerer).Middleware())
	}

	opts := deps.Options
	if opts == nil {
		opts = apiconfig.New(nil).GetOptions()
	}
	if opts.HTTP.MaxRequestSize > 0 {
		limit := opts.HTTP.MaxRequestSize
		router.Use(func(c *gin.Context) {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
			c.Next()
		})
	}

	if deps.Clock != nil {
		deps.Clock.RegisterRoutes(router)
	}
	if deps.Health != nil {
		deps.Health.RegisterRoutes(router)
	}
	if deps.Gatherer != nil {
		router.GET(opts.MetricsPath, gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	return &Server{
		router:  router,
		options: opts,
		logger:  deps.Logger,
	}
}

// Handler 路由处理器（测试使用）
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start 监听端口并在后台提供服务
// 端口占用等监听错误同步返回
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		return errors.New("HTTP服务器已启动")
	}

	addr := s.options.HTTP.Addr()
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("监听 %s 失败: %w", addr, err)
	}

	s.listener = ln
	s.serveErr = make(chan error, 1)
	s.httpServer = &http.Server{
		Handler:      s.router,
		ReadTimeout:  s.options.HTTP.ReadTimeout,
		WriteTimeout: s.options.HTTP.WriteTimeout,
	}

	go func(srv *http.Server, errCh chan<- error) {
		err := srv.Serve(ln)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logf("HTTP服务器异常退出: %v", err)
		}
		errCh <- err
	}(s.httpServer, s.serveErr)

	s.logf("HTTP服务器启动成功，监听地址: %s", ln.Addr())
	return nil
}

// Addr 实际监听地址，未启动时为空
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop 优雅关闭服务器，等待进行中的请求完成
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv, errCh := s.httpServer, s.serveErr
	s.httpServer, s.listener, s.serveErr = nil, nil, nil
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	s.logf("正在关闭HTTP服务器")

	stopCtx, cancel := context.WithTimeout(ctx, s.options.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(stopCtx); err != nil {
		return fmt.Errorf("HTTP服务器关闭失败: %w", err)
	}
	<-errCh
	return nil
}

func (s *Server) logf(format string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Infof(format, args...)
	}
}
