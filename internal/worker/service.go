package worker

import (
	"context"
	"errors"
	"time"

	"github.com/zulin-next/internal/config"
	"github.com/zulin-next/internal/logger"
	"github.com/zulin-next/internal/queue"

	"github.com/hibiken/asynq"
)

const defaultOverdueScanInterval = time.Hour

// Service 异步队列服务
type Service struct {
	name     string
	server   *asynq.Server
	mux      *asynq.ServeMux
	consumer *Consumer
	rental   config.RentalConfig
}

// NewService 创建异步队列服务
func NewService(cfg *config.Config, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Queue.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(&cfg.Queue)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		name:     "worker",
		server:   server,
		mux:      mux,
		consumer: consumer,
		rental:   cfg.Rental,
	}, nil
}

// Name 服务名称
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start 启动服务
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if s.consumer != nil && s.consumer.OrderService != nil {
		go s.runOverdueScanLoop(ctx)
		go s.runExpiredOrderLoop(ctx)
	}
	return s.server.Run(s.mux)
}

// Stop 停止服务
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

// runOverdueScanLoop 周期性逾期巡检，间隔取配置 overdue_scan_interval_min
func (s *Service) runOverdueScanLoop(ctx context.Context) {
	interval := defaultOverdueScanInterval
	if s.rental.OverdueScanIntervalMin > 0 {
		interval = time.Duration(s.rental.OverdueScanIntervalMin) * time.Minute
	}
	runOnce := func() {
		flagged, err := s.consumer.OrderService.ScanOverdue(time.Now())
		if err != nil {
			logger.Warnw("worker_overdue_scan_loop_failed", "error", err)
			return
		}
		if flagged > 0 {
			logger.Infow("worker_overdue_scan_loop_done", "flagged", flagged)
		}
	}
	runOnce()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}

// runExpiredOrderLoop 兜底巡检超时未支付订单；延迟任务丢失时靠它收口
func (s *Service) runExpiredOrderLoop(ctx context.Context) {
	expireMinutes := s.rental.PaymentExpireMinutes
	if expireMinutes <= 0 {
		return
	}
	interval := time.Minute
	runOnce := func() {
		expireBefore := time.Now().Add(-time.Duration(expireMinutes) * time.Minute)
		count, err := s.consumer.OrderService.CancelExpiredOrders(expireBefore)
		if err != nil {
			logger.Warnw("worker_expired_order_loop_failed", "error", err)
			return
		}
		if count > 0 {
			logger.Infow("worker_expired_order_loop_done", "canceled", count)
		}
	}
	runOnce()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}
