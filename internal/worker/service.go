package worker

import (
	"context"
	"errors"
	"time"

	"github.com/stationeryhub/internal/config"
	"github.com/stationeryhub/internal/logger"
	"github.com/stationeryhub/internal/queue"

	"github.com/hibiken/asynq"
)

const sessionPurgeSpec = "@every 1h"

// Service 异步队列服务：消费任务，并在数据库会话存储下调度周期清理
type Service struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	scheduler *asynq.Scheduler
}

// NewService 创建异步队列服务
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	s := &Service{
		server: asynq.NewServer(opt, serverCfg),
		mux:    asynq.NewServeMux(),
	}
	consumer.Register(s.mux)

	if consumer.purger != nil {
		s.scheduler = asynq.NewScheduler(opt, &asynq.SchedulerOpts{Location: time.UTC})
		entryID, err := s.scheduler.Register(sessionPurgeSpec, queue.NewSessionPurgeTask(),
			asynq.Queue(queue.DefaultQueue),
			asynq.Unique(time.Hour),
		)
		if err != nil {
			return nil, err
		}
		logger.Infow("worker_session_purge_scheduled", "entry_id", entryID, "spec", sessionPurgeSpec)
	}
	return s, nil
}

// Name 服务名称
func (s *Service) Name() string {
	return "worker"
}

// Start 启动消费与调度，阻塞至 ctx 结束
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil {
		return errors.New("worker not initialized")
	}
	if err := s.server.Start(s.mux); err != nil {
		return err
	}
	if s.scheduler != nil {
		if err := s.scheduler.Start(); err != nil {
			s.server.Shutdown()
			return err
		}
	}
	<-ctx.Done()
	return nil
}

// Stop 先停调度再停消费
func (s *Service) Stop(context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	if s.scheduler != nil {
		s.scheduler.Shutdown()
	}
	s.server.Shutdown()
	return nil
}
