package worker

import (
	"context"
	"strings"

	"github.com/stationeryhub/internal/logger"
	"github.com/stationeryhub/internal/provider"
	"github.com/stationeryhub/internal/queue"

	"github.com/hibiken/asynq"
)

// sessionPurger 可清理过期会话快照的存储（session.driver=database）
type sessionPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
	purger sessionPurger
}

// NewConsumer 创建消费者；会话存储支持清理时一并处理周期清理任务
func NewConsumer(c *provider.Container) *Consumer {
	consumer := &Consumer{Container: c}
	if c != nil {
		if purger, ok := c.SessionPersister.(sessionPurger); ok {
			consumer.purger = purger
		}
	}
	return consumer
}

// Register 注册任务处理函数
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		return
	}
	mux.HandleFunc(queue.TaskOrderStatusNotify, c.handleOrderStatusNotify)
	mux.HandleFunc(queue.TaskSessionPurge, c.handleSessionPurge)
}

// handleOrderStatusNotify 订单状态通知，写入结构化日志供运营侧采集
func (c *Consumer) handleOrderStatusNotify(_ context.Context, task *asynq.Task) error {
	if c == nil || c.Container == nil || task == nil {
		return nil
	}
	payload, err := queue.ParseOrderStatusNotifyPayload(task)
	if err != nil {
		logger.Warnw("worker_order_status_notify_bad_payload", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		return nil
	}
	order, err := c.OrderRepo.GetByID(payload.OrderID)
	if err != nil {
		logger.Warnw("worker_order_status_notify_load_failed", "order_id", payload.OrderID, "error", err)
		return err
	}
	if order == nil {
		logger.Debugw("worker_order_status_notify_order_gone", "order_id", payload.OrderID)
		return nil
	}
	// 排队期间状态可能再次变更，以库中最新状态为准
	if queued := strings.TrimSpace(payload.Status); queued != "" && queued != order.Status {
		logger.Debugw("worker_order_status_notify_superseded", "order_id", order.ID, "queued", queued, "current", order.Status)
	}
	logger.Infow("worker_order_status_notified",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"status", order.Status,
		"name", order.Name,
		"phone", order.Phone,
		"delivery_area", order.DeliveryArea,
		"total_amount", order.TotalAmount.String(),
		"items", len(order.Items),
	)
	return nil
}

// handleSessionPurge 删除过期会话快照；Redis 存储依赖键过期，无需处理
func (c *Consumer) handleSessionPurge(ctx context.Context, _ *asynq.Task) error {
	if c == nil || c.purger == nil {
		return nil
	}
	removed, err := c.purger.PurgeExpired(ctx)
	if err != nil {
		logger.Warnw("worker_session_purge_failed", "error", err)
		return err
	}
	if removed > 0 {
		logger.Infow("worker_session_purged", "removed", removed)
	}
	return nil
}
