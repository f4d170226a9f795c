package app

import (
	"path/filepath"
	"testing"

	"github.com/stationeryhub/internal/config"
	"github.com/stationeryhub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPrepareDatabaseCreatesAdminOnce(t *testing.T) {
	restoreGlobalDB(t)

	cfg := config.DatabaseConfig{
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "prepare.db"),
		Pool:   config.DatabasePoolConfig{MaxOpenConns: 1, MaxIdleConns: 1},
	}
	require.NoError(t, PrepareDatabase(cfg, AdminSeed{Username: "owner", Password: "Owner-pass-1"}))

	var admins []models.Admin
	require.NoError(t, models.DB.Find(&admins).Error)
	require.Len(t, admins, 1)
	assert.Equal(t, "owner", admins[0].Username)
	assert.True(t, admins[0].IsSuper)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admins[0].PasswordHash), []byte("Owner-pass-1")))

	// 再次启动不会覆盖已有管理员
	require.NoError(t, PrepareDatabase(cfg, AdminSeed{Username: "other"}))
	var count int64
	require.NoError(t, models.DB.Model(&models.Admin{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var areas int64
	require.NoError(t, models.DB.Model(&models.DeliveryArea{}).Count(&areas).Error)
	assert.Equal(t, int64(len(models.DefaultDeliveryAreas)), areas)
}

func TestPrepareDatabaseSkipAdmin(t *testing.T) {
	restoreGlobalDB(t)

	cfg := config.DatabaseConfig{Driver: "sqlite", DSN: filepath.Join(t.TempDir(), "skip.db")}
	require.NoError(t, PrepareDatabase(cfg, AdminSeed{Skip: true}))

	var count int64
	require.NoError(t, models.DB.Model(&models.Admin{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestPrepareDatabaseRejectsDriver(t *testing.T) {
	err := PrepareDatabase(config.DatabaseConfig{Driver: "oracle"}, AdminSeed{Skip: true})
	assert.ErrorContains(t, err, "unsupported database driver")
}

func restoreGlobalDB(t *testing.T) {
	prev := models.DB
	t.Cleanup(func() {
		if models.DB != nil && models.DB != prev {
			if sqlDB, err := models.DB.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		models.DB = prev
	})
}
