package repository

import (
	"context"
	"time"

	"github.com/stationeryhub/internal/models"
	"github.com/stationeryhub/internal/store"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StoreSessionRepository 购物车会话快照仓库，实现 store.Persister
type StoreSessionRepository struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

// NewStoreSessionRepository 创建会话快照仓库，ttl<=0 表示不过期
func NewStoreSessionRepository(db *gorm.DB, ttl time.Duration) *StoreSessionRepository {
	return &StoreSessionRepository{db: db, ttl: ttl, now: time.Now}
}

// Save 写入快照（按 key 覆盖）
func (r *StoreSessionRepository) Save(ctx context.Context, key string, snap store.Snapshot) error {
	raw, err := store.MarshalSnapshot(snap)
	if err != nil {
		return err
	}
	now := r.now()
	row := models.StoreSession{
		SessionKey: key,
		Payload:    string(raw),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if r.ttl > 0 {
		expires := now.Add(r.ttl)
		row.ExpiresAt = &expires
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "expires_at", "updated_at"}),
	}).Create(&row).Error
}

// Load 读取快照，过期视为不存在
func (r *StoreSessionRepository) Load(ctx context.Context, key string) (store.Snapshot, error) {
	row, err := takeOne[models.StoreSession](r.db.WithContext(ctx).Where("session_key = ?", key))
	if err != nil {
		return store.Snapshot{}, err
	}
	if row == nil || (row.ExpiresAt != nil && !row.ExpiresAt.After(r.now())) {
		return store.Snapshot{}, store.ErrSnapshotNotFound
	}
	return store.UnmarshalSnapshot([]byte(row.Payload))
}

// Delete 删除快照
func (r *StoreSessionRepository) Delete(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).Where("session_key = ?", key).Delete(&models.StoreSession{}).Error
}

// PurgeExpired 清理过期快照
func (r *StoreSessionRepository) PurgeExpired(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at <= ?", r.now()).
		Delete(&models.StoreSession{})
	return result.RowsAffected, result.Error
}
