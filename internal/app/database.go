package app

import (
	"fmt"

	"github.com/stationeryhub/internal/config"
	"github.com/stationeryhub/internal/logger"
	"github.com/stationeryhub/internal/models"
)

// AdminSeed 首次启动时创建的管理员账号，Skip 为 true 时不创建
type AdminSeed struct {
	Username string
	Password string
	Skip     bool
}

// PrepareDatabase 连接数据库、迁移表结构并写入分类与配送区域
func PrepareDatabase(cfg config.DatabaseConfig, admin AdminSeed) error {
	if err := models.InitDB(cfg.Driver, cfg.DSN, models.DBPoolConfig(cfg.Pool)); err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	if err := models.AutoMigrate(); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if err := models.InitReferenceData(models.DB); err != nil {
		return fmt.Errorf("reference data: %w", err)
	}
	if admin.Skip {
		return nil
	}

	created, err := models.EnsureDefaultAdmin(models.DB, admin.Username, admin.Password)
	if err != nil {
		return fmt.Errorf("default admin: %w", err)
	}
	if created {
		logger.Warnw("default_admin_created",
			"username", admin.Username,
			"default_password", admin.Password == "" || admin.Password == models.DefaultAdminPassword,
		)
	}
	return nil
}
