// Package server 提供 HTTP 服务的生命周期管理
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"brandhub/logging"
)

// Config 服务配置
type Config struct {
	Name string
	Host string
	Port int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// DefaultConfig 返回带合理默认值的配置
func DefaultConfig() Config {
	return Config{
		Name:            "brandhub",
		Host:            "0.0.0.0",
		Port:            8080,
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    15 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Server HTTP 服务包装，支持优雅关闭
type Server struct {
	cfg    Config
	http   *http.Server
	logger logging.Logger
}

// New 创建服务
func New(cfg Config, handler http.Handler) *Server {
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	return &Server{
		cfg: cfg,
		http: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		logger: logging.GetLogger(),
	}
}

// Run 启动并阻塞到 ctx 取消，随后优雅关闭
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "http server starting",
			logging.String("name", s.cfg.Name),
			logging.String("addr", s.http.Addr))
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	s.logger.Info(shutdownCtx, "http server shutting down", logging.String("name", s.cfg.Name))
	return s.http.Shutdown(shutdownCtx)
}
