package queue

import (
	"encoding/json"
	"errors"

	"github.com/stationeryhub/internal/constants"

	"github.com/hibiken/asynq"
)

// 任务类型
const (
	TaskOrderStatusNotify = constants.TaskOrderStatusNotify // 订单创建或状态变更后的通知
	TaskSessionPurge      = constants.TaskSessionPurge      // 周期清理过期会话快照
)

// OrderStatusNotifyPayload 通知任务载荷；Status 为投递时的状态，消费时以库中最新状态为准
type OrderStatusNotifyPayload struct {
	OrderID uint   `json:"order_id"`
	Status  string `json:"status"`
}

// NewOrderStatusNotifyTask 构造通知任务
func NewOrderStatusNotifyTask(payload OrderStatusNotifyPayload) (*asynq.Task, error) {
	if payload.OrderID == 0 {
		return nil, errors.New("order id is required")
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderStatusNotify, body), nil
}

// ParseOrderStatusNotifyPayload 解析载荷；载荷损坏时返回 asynq.SkipRetry，避免无意义重试
func ParseOrderStatusNotifyPayload(task *asynq.Task) (OrderStatusNotifyPayload, error) {
	var payload OrderStatusNotifyPayload
	if task == nil {
		return payload, nil
	}
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return payload, errors.Join(err, asynq.SkipRetry)
	}
	return payload, nil
}

// NewSessionPurgeTask 构造会话清理任务，无载荷
func NewSessionPurgeTask() *asynq.Task {
	return asynq.NewTask(TaskSessionPurge, nil)
}
