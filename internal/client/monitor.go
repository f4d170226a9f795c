package client

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Status 后端连通状态
type Status string

const (
	StatusChecking Status = "checking"
	StatusOnline   Status = "online"
	StatusOffline  Status = "offline"
)

const defaultPollInterval = 30 * time.Second

// Pinger 连通性探测
type Pinger interface {
	Ping(ctx context.Context) bool
}

// Monitor 按固定间隔探测后端并上报状态变化
type Monitor struct {
	pinger   Pinger
	interval time.Duration
	logger   *zap.SugaredLogger
}

// NewMonitor 创建监控器，interval<=0 时使用 30 秒
func NewMonitor(pinger Pinger, interval time.Duration, logger *zap.SugaredLogger) *Monitor {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Monitor{pinger: pinger, interval: interval, logger: logger}
}

// Check 执行一次探测：先上报 checking，再上报结果
func (m *Monitor) Check(ctx context.Context, report func(Status)) Status {
	if report != nil {
		report(StatusChecking)
	}
	status := StatusOffline
	if m.pinger != nil && m.pinger.Ping(ctx) {
		status = StatusOnline
	}
	if report != nil {
		report(status)
	}
	return status
}

// Run 立即探测一次，之后按间隔轮询，直到 ctx 结束
func (m *Monitor) Run(ctx context.Context, report func(Status)) error {
	last := m.Check(ctx, report)
	m.logger.Infow("backend_monitor_status", "status", last)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			status := m.Check(ctx, report)
			if status != last {
				m.logger.Infow("backend_monitor_status_changed", "from", last, "to", status)
				last = status
			}
		}
	}
}
