package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// StorageName 持久化记录的固定名称
const StorageName = "stationery-store"

// SnapshotVersion 持久化格式版本
const SnapshotVersion = 0

// ErrSnapshotNotFound 快照不存在
var ErrSnapshotNotFound = errors.New("store snapshot not found")

// State 持久化的状态字段
type State struct {
	Cart       []CartLine `json:"cart"`
	User       *User      `json:"user"`
	IsCartOpen bool       `json:"isCartOpen"`
}

// Snapshot 持久化记录
type Snapshot struct {
	State   State `json:"state"`
	Version int   `json:"version"`
}

// Total 快照内购物车总额
func (s Snapshot) Total() string {
	return sumLines(s.State.Cart).StringFixed(2)
}

// MarshalSnapshot 序列化快照
func MarshalSnapshot(snap Snapshot) ([]byte, error) {
	if snap.State.Cart == nil {
		snap.State.Cart = make([]CartLine, 0)
	}
	return json.Marshal(snap)
}

// UnmarshalSnapshot 反序列化快照
func UnmarshalSnapshot(raw []byte) (Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("decode store snapshot: %w", err)
	}
	return snap, nil
}

// Key 生成会话维度的持久化 key
func Key(sessionID string) string {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return StorageName
	}
	return StorageName + ":" + sessionID
}

// Persister 快照存储
type Persister interface {
	Save(ctx context.Context, key string, snap Snapshot) error
	// Load 不存在时返回 ErrSnapshotNotFound
	Load(ctx context.Context, key string) (Snapshot, error)
	Delete(ctx context.Context, key string) error
}

// ErrorHandler 订阅持久化失败时的回调
type ErrorHandler func(key string, err error)

// Load 从存储恢复 Store，不存在时返回空 Store
func Load(ctx context.Context, persister Persister, key string) (*Store, error) {
	if persister == nil {
		return New(), nil
	}
	snap, err := persister.Load(ctx, key)
	if err != nil {
		if errors.Is(err, ErrSnapshotNotFound) {
			return New(), nil
		}
		return nil, err
	}
	return New(WithSnapshot(snap)), nil
}

// Bind 订阅 Store，每次变更后写入存储
func Bind(ctx context.Context, s *Store, persister Persister, key string, onError ErrorHandler) func() {
	if s == nil || persister == nil {
		return func() {}
	}
	return s.Subscribe(func(snap Snapshot) {
		if err := persister.Save(ctx, key, snap); err != nil && onError != nil {
			onError(key, err)
		}
	})
}

// RedisPersister 基于 Redis 的快照存储
type RedisPersister struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedisPersister 创建 Redis 快照存储，ttl<=0 表示不过期
func NewRedisPersister(client redis.Cmdable, ttl time.Duration) *RedisPersister {
	return &RedisPersister{client: client, ttl: ttl}
}

// Save 写入快照
func (p *RedisPersister) Save(ctx context.Context, key string, snap Snapshot) error {
	raw, err := MarshalSnapshot(snap)
	if err != nil {
		return err
	}
	ttl := p.ttl
	if ttl < 0 {
		ttl = 0
	}
	return p.client.Set(ctx, key, raw, ttl).Err()
}

// Load 读取快照
func (p *RedisPersister) Load(ctx context.Context, key string) (Snapshot, error) {
	raw, err := p.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Snapshot{}, ErrSnapshotNotFound
		}
		return Snapshot{}, err
	}
	return UnmarshalSnapshot(raw)
}

// Delete 删除快照
func (p *RedisPersister) Delete(ctx context.Context, key string) error {
	return p.client.Del(ctx, key).Err()
}
