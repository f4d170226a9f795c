package queue

import (
	"errors"
	"fmt"
	"time"

	"github.com/stationeryhub/internal/config"
	"github.com/stationeryhub/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// DefaultQueue 未配置 queues 时唯一的队列
	DefaultQueue = constants.QueueDefault

	defaultConcurrency   = 10
	notifyMaxRetry       = 5
	notifyTimeout        = 30 * time.Second
	notifyDedupRetention = 10 * time.Minute
)

// Client 投递异步任务；queue.enabled=false 时所有投递直接返回 nil
type Client struct {
	client *asynq.Client
}

// NewClient 创建队列客户端，cfg 为 nil 或未启用时返回空操作客户端
func NewClient(cfg *config.QueueConfig) (*Client, error) {
	if cfg == nil || !cfg.Enabled {
		return &Client{}, nil
	}
	return &Client{client: asynq.NewClient(redisOpt(cfg))}, nil
}

// Enabled 是否会真正投递
func (c *Client) Enabled() bool {
	return c != nil && c.client != nil
}

// Close 关闭 Redis 连接
func (c *Client) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}

// EnqueueOrderStatusNotify 投递订单状态通知。
// 同一订单同一状态在去重窗口内只投递一次，重复投递视为成功。
func (c *Client) EnqueueOrderStatusNotify(payload OrderStatusNotifyPayload) error {
	if !c.Enabled() {
		return nil
	}
	task, err := NewOrderStatusNotifyTask(payload)
	if err != nil {
		return err
	}
	_, err = c.client.Enqueue(task,
		asynq.Queue(DefaultQueue),
		asynq.MaxRetry(notifyMaxRetry),
		asynq.Timeout(notifyTimeout),
		asynq.TaskID(orderStatusTaskID(payload)),
		asynq.Retention(notifyDedupRetention),
	)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	return err
}

func orderStatusTaskID(payload OrderStatusNotifyPayload) string {
	return fmt.Sprintf("%s:%d:%s", TaskOrderStatusNotify, payload.OrderID, payload.Status)
}

// BuildServerConfig worker 端的连接与并发配置
func BuildServerConfig(cfg *config.QueueConfig) (asynq.RedisClientOpt, asynq.Config) {
	serverCfg := asynq.Config{
		Concurrency: defaultConcurrency,
		Queues:      map[string]int{DefaultQueue: 1},
	}
	if cfg != nil {
		if cfg.Concurrency > 0 {
			serverCfg.Concurrency = cfg.Concurrency
		}
		if len(cfg.Queues) > 0 {
			serverCfg.Queues = cfg.Queues
		}
	}
	return redisOpt(cfg), serverCfg
}

func redisOpt(cfg *config.QueueConfig) asynq.RedisClientOpt {
	var conn config.RedisConn
	if cfg != nil {
		conn = cfg.RedisConn
	}
	return asynq.RedisClientOpt{Addr: conn.Addr(), Password: conn.Password, DB: conn.DB}
}
