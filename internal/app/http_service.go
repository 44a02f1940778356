package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/zulin-next/internal/config"
)

// HTTPService 租赁平台 API 服务封装
type HTTPService struct {
	name   string
	server *http.Server
}

// NewHTTPService 按服务配置创建 HTTP 服务，读写超时为 0 时不限制
func NewHTTPService(cfg config.ServerConfig, handler http.Handler) *HTTPService {
	server := &http.Server{
		Addr:    cfg.Host + ":" + cfg.Port,
		Handler: handler,
	}
	if cfg.ReadTimeoutSec > 0 {
		server.ReadTimeout = time.Duration(cfg.ReadTimeoutSec) * time.Second
	}
	if cfg.WriteTimeoutSec > 0 {
		server.WriteTimeout = time.Duration(cfg.WriteTimeoutSec) * time.Second
	}
	return &HTTPService{
		name:   "http",
		server: server,
	}
}

// Name 服务名称
func (s *HTTPService) Name() string {
	if s == nil || s.name == "" {
		return "http"
	}
	return s.name
}

// Start 启动服务
func (s *HTTPService) Start(ctx context.Context) error {
	if s == nil || s.server == nil {
		return errors.New("http server not initialized")
	}
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop 停止服务
func (s *HTTPService) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
