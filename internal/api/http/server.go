// Package http 提供金库 REST API
package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/weisyn/custody/internal/api/http/handlers"
	"github.com/weisyn/custody/internal/api/http/middleware"
	apiconfig "github.com/weisyn/custody/internal/config/api"
	custodyif "github.com/weisyn/custody/pkg/interfaces/custody"
	"github.com/weisyn/custody/pkg/interfaces/infrastructure/log"
)

// Server HTTP服务器
// 负责路由装配、监听与优雅关闭
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	options    *apiconfig.APIOptions
	logger     log.Logger

	mu       sync.Mutex
	listener net.Listener
}

// NewServer 创建HTTP服务器并装配路由
//
// sim 可为 nil；仅当配置开启 EnableSimRoutes 且 sim 非空时注册 /v1/sim。
func NewServer(options *apiconfig.APIOptions, vault custodyif.Vault, sim custodyif.Simulator, logger log.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.NewRequestID().Middleware())
	router.Use(middleware.NewLogger(logger).Middleware())
	router.Use(middleware.NewMetrics().Middleware())
	if options.HTTP.MaxRequestSize > 0 {
		router.Use(limitBody(options.HTTP.MaxRequestSize))
	}
	if options.HTTP.CORSEnabled {
		router.Use(cors(options.HTTP.CORSOrigins))
	}

	s := &Server{
		router:  router,
		options: options,
		logger:  logger,
	}
	s.setupRoutes(vault, sim)
	return s
}

// setupRoutes 设置HTTP路由
func (s *Server) setupRoutes(vault custodyif.Vault, sim custodyif.Simulator) {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, handlers.StandardAPIResponse{Success: true, Message: "ok"})
	})
	if s.options.EnableMetrics {
		s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	v1 := s.router.Group("/v1")
	vaultHandlers := handlers.NewVaultHandlers(vault, s.options.HTTP.CallerHeader, s.logger)
	vaultHandlers.RegisterRoutes(v1)

	if s.options.EnableSimRoutes && sim != nil {
		handlers.NewSimHandlers(vaultHandlers, sim).RegisterRoutes(v1)
		s.infof("已开启模拟环境管理路由 /v1/sim（仅控制者可调用）")
	}
}

// Handler 返回路由处理器（测试使用）
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start 监听配置地址并在后台提供服务
func (s *Server) Start() error {
	addr := s.options.Addr()
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("监听 %s 失败: %w", addr, err)
	}

	s.mu.Lock()
	s.listener = ln
	s.httpServer = &http.Server{
		Handler:      s.router,
		ReadTimeout:  s.options.HTTP.ReadTimeout,
		WriteTimeout: s.options.HTTP.WriteTimeout,
	}
	srv := s.httpServer
	s.mu.Unlock()

	go func() {
		// 正常关闭时返回 http.ErrServerClosed
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.errorf("HTTP服务器异常退出: %v", err)
		}
	}()
	s.infof("HTTP服务器已启动: %s", ln.Addr().String())
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

// Stop 优雅关闭
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv := s.httpServer
	s.mu.Unlock()
	if srv == nil {
		return nil
	}

	stopCtx, cancel := context.WithTimeout(ctx, s.options.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(stopCtx); err != nil {
		s.errorf("HTTP服务器关闭出错: %v", err)
		return err
	}
	s.infof("HTTP服务器已关闭")
	return nil
}

// limitBody 限制请求体大小
func limitBody(max int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, max)
		c.Next()
	}
}

// cors 最小 CORS 支持（金库 API 只有简单请求）
func cors(origins []string) gin.HandlerFunc {
	allowAll := false
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		if o == "*" {
			allowAll = true
		}
		allowed[o] = struct{}{}
	}
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if _, ok := allowed[origin]; ok || (allowAll && origin != "") {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Headers", "Content-Type, X-Caller, X-Request-ID")
			c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func (s *Server) infof(format string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Infof(format, args...)
	}
}

func (s *Server) errorf(format string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Errorf(format, args...)
	}
}
