package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/stationeryhub/internal/config"
)

const (
	readHeaderTimeout  = 10 * time.Second
	defaultIdleTimeout = 120 * time.Second
)

// HTTPService 把 gin 引擎挂到 http.Server 上，由 Runner 管理生命周期
type HTTPService struct {
	server *http.Server
}

// NewHTTPService 创建 HTTP 服务；读写超时取自 server 配置，0 表示不限制
func NewHTTPService(cfg config.ServerConfig, handler http.Handler) *HTTPService {
	idle := cfg.IdleTimeout
	if idle <= 0 {
		idle = defaultIdleTimeout
	}
	return &HTTPService{server: &http.Server{
		Addr:              net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       idle,
	}}
}

func (s *HTTPService) Name() string { return "http" }

// Addr 监听地址
func (s *HTTPService) Addr() string { return s.server.Addr }

// Start 阻塞直到 Stop 被调用；端口占用等监听错误立即返回
func (s *HTTPService) Start(ctx context.Context) error {
	if s == nil || s.server == nil {
		return errors.New("http server not initialized")
	}
	s.server.BaseContext = func(net.Listener) context.Context { return ctx }
	err := s.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Stop 优雅关闭，等待进行中的请求直到 ctx 超时
func (s *HTTPService) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
