package provider

import (
	"strings"

	"github.com/stationeryhub/internal/authz"
	"github.com/stationeryhub/internal/cache"
	"github.com/stationeryhub/internal/config"
	"github.com/stationeryhub/internal/logger"
	"github.com/stationeryhub/internal/models"
	"github.com/stationeryhub/internal/queue"
	"github.com/stationeryhub/internal/repository"
	"github.com/stationeryhub/internal/service"
	"github.com/stationeryhub/internal/store"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	AdminRepo         repository.AdminRepository
	UserRepo          repository.UserRepository
	OrderRepo         repository.OrderRepository
	ProductRepo       repository.ProductRepository
	PostRepo          repository.PostRepository
	CategoryRepo      repository.CategoryRepository
	DeliveryAreaRepo  repository.DeliveryAreaRepository
	AuthzAuditLogRepo repository.AuthzAuditLogRepository
	SessionPersister  store.Persister

	// Services
	AuthzService       *authz.Service
	AuthService        *service.AuthService
	UserAuthService    *service.UserAuthService
	CaptchaService     *service.CaptchaService
	UploadService      *service.UploadService
	ProductService     *service.ProductService
	PostService        *service.PostService
	SessionService     *service.SessionService
	OrderService       *service.OrderService
	AdminAccessService *service.AdminAccessService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端，失败时降级为不推送
	queueClient, err := queue.NewClient(&cfg.Queue)
	if err != nil {
		logger.Errorw("provider_init_queue_client_failed", "error", err)
		queueClient, _ = queue.NewClient(nil)
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.UserRepo = repository.NewUserRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.PostRepo = repository.NewPostRepository(db)
	c.CategoryRepo = repository.NewCategoryRepository(db)
	c.DeliveryAreaRepo = repository.NewDeliveryAreaRepository(db)
	c.AuthzAuditLogRepo = repository.NewAuthzAuditLogRepository(db)
	c.SessionPersister = newSessionPersister(c.Config.Session)
}

// newSessionPersister 按 session.driver 选择会话快照存储，Redis 不可用时回落到数据库
func newSessionPersister(cfg config.SessionConfig) store.Persister {
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	if driver != "database" && cache.Enabled() {
		return store.NewRedisPersister(cache.Client(), cfg.TTL())
	}
	if driver != "database" {
		logger.Warnw("provider_session_driver_fallback", "driver", driver, "fallback", "database")
	}
	return repository.NewStoreSessionRepository(models.DB, cfg.TTL())
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.CaptchaService = service.NewCaptchaService(c.Config.Captcha)
	c.AuthService = service.NewAuthService(c.Config, c.AdminRepo)
	c.UserAuthService = service.NewUserAuthService(c.Config, c.UserRepo)
	c.UploadService = service.NewUploadService(c.Config.Upload)
	c.ProductService = service.NewProductService(c.ProductRepo, c.CategoryRepo, c.Config.Catalog.CacheTTL)
	c.PostService = service.NewPostService(c.PostRepo)
	c.SessionService = service.NewSessionService(c.SessionPersister, c.ProductRepo)
	c.OrderService = service.NewOrderService(c.OrderRepo, c.ProductRepo, c.DeliveryAreaRepo, c.SessionService, c.QueueClient)
	c.AdminAccessService = service.NewAdminAccessService(c.AdminRepo, c.AuthzAuditLogRepo, c.AuthzService, c.AuthService)
}

// Close 释放队列与缓存连接
func (c *Container) Close() {
	if c == nil {
		return
	}
	if err := c.QueueClient.Close(); err != nil {
		logger.Warnw("provider_close_queue_client_failed", "error", err)
	}
	if err := cache.Close(); err != nil {
		logger.Warnw("provider_close_redis_failed", "error", err)
	}
}
