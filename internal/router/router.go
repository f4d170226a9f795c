package router

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/stationeryhub/internal/cache"
	"github.com/stationeryhub/internal/config"
	adminhandlers "github.com/stationeryhub/internal/http/handlers/admin"
	legacyhandlers "github.com/stationeryhub/internal/http/handlers/legacy"
	publichandlers "github.com/stationeryhub/internal/http/handlers/public"
	"github.com/stationeryhub/internal/http/response"
	"github.com/stationeryhub/internal/logger"
	"github.com/stationeryhub/internal/metrics"
	"github.com/stationeryhub/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.Z()
	r := gin.New()

	// 初始化 Handler（按前台/后台/旧版接口分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	legacyHandler := legacyhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "sh"
	}
	redisClient := cache.Client()
	loginRule := loginRateRule(redisPrefix, "login", cfg.Security.LoginRateLimit)
	adminLoginRule := loginRateRule(redisPrefix, "admin_login", cfg.Security.LoginRateLimit)

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	if cfg.Metrics.Enabled {
		r.Use(metrics.Middleware())
		metricsPath := strings.TrimSpace(cfg.Metrics.Path)
		if metricsPath == "" {
			metricsPath = "/metrics"
		}
		r.GET(metricsPath, gin.WrapH(metrics.Handler()))
	}
	r.Use(CORSMiddleware(cfg.CORS))
	r.Use(SessionMiddleware(cfg.Session))

	// 静态文件服务（上传的图片）
	r.Static("/uploads", c.UploadService.Dir())

	apiV1 := r.Group("/api/v1")
	{
		// 公开接口
		public := apiV1.Group("/public")
		{
			public.GET("/products", publicHandler.GetProducts)
			public.GET("/products/:id", publicHandler.GetProduct)
			public.GET("/categories", publicHandler.GetCategories)
			public.GET("/price-ranges", publicHandler.GetPriceRanges)
			public.GET("/posts", publicHandler.GetPosts)
			public.GET("/posts/:slug", publicHandler.GetPost)
			public.GET("/delivery-areas", publicHandler.GetDeliveryAreas)
			public.GET("/captcha/config", publicHandler.GetCaptchaConfig)
			public.GET("/captcha/image", publicHandler.GetImageCaptcha)
		}

		// 会话（购物车）接口，会话 ID 由 SessionMiddleware 注入
		session := apiV1.Group("/session")
		{
			session.GET("", publicHandler.GetSession)
			session.POST("/cart/items", publicHandler.AddCartItem)
			session.PUT("/cart/items/:product_id", publicHandler.UpdateCartItem)
			session.DELETE("/cart/items/:product_id", publicHandler.RemoveCartItem)
			session.DELETE("/cart", publicHandler.ClearCart)
			session.POST("/cart/toggle", publicHandler.ToggleCart)
			session.POST("/logout", publicHandler.Logout)
			session.POST("/checkout", publicHandler.Checkout)
		}

		// 顾客认证
		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", RateLimitMiddleware(redisClient, loginRule, KeyByIP), publicHandler.UserRegister)
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("username")), publicHandler.UserLogin)
		}

		// 顾客登录后接口
		user := apiV1.Group("")
		user.Use(UserJWTAuthMiddleware(cfg.UserJWT.SecretKey, c.UserRepo))
		{
			user.GET("/me", publicHandler.GetProfile)
			user.PUT("/me/password", publicHandler.ChangePassword)
			user.GET("/orders", publicHandler.GetMyOrders)
			user.GET("/orders/:id", publicHandler.GetMyOrder)
		}

		// 管理端
		admin := apiV1.Group("/admin")
		{
			admin.POST("/login", RateLimitMiddleware(redisClient, adminLoginRule, KeyByIPAndJSONField("username")), adminHandler.AdminLogin)

			authorized := admin.Group("")
			authorized.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.AdminRepo), AdminRBACMiddleware(c.AuthzService))
			{
				authorized.PUT("/password", adminHandler.UpdateAdminCredentials)
				authorized.GET("/categories", adminHandler.GetAdminCategories)

				// 商品与文章
				adminHandler.ProductResource().Register(authorized, "/products")
				adminHandler.PostResource().Register(authorized, "/posts")
				authorized.POST("/upload", adminHandler.UploadFile)

				// 订单
				authorized.GET("/orders", adminHandler.AdminListOrders)
				authorized.GET("/orders/:id", adminHandler.AdminGetOrder)
				authorized.PUT("/orders/:id/status", adminHandler.AdminUpdateOrderStatus)

				// 顾客管理
				authorized.GET("/users", adminHandler.GetAdminUsers)
				authorized.PUT("/users/:id/status", adminHandler.UpdateAdminUserStatus)

				// 权限管理
				authorized.GET("/authz/me", adminHandler.GetAuthzMe)
				authorized.GET("/authz/roles", adminHandler.ListAuthzRoles)
				authorized.GET("/authz/admins", adminHandler.ListAuthzAdmins)
				authorized.POST("/authz/admins", adminHandler.CreateAuthzAdmin)
				authorized.PUT("/authz/admins/:id/roles", adminHandler.SetAuthzAdminRoles)
				authorized.GET("/authz/audit-logs", adminHandler.ListAuthzAuditLogs)
				authorized.GET("/authz/permissions/catalog", func(ctx *gin.Context) {
					response.Success(ctx, buildAdminPermissionCatalog(r))
				})
			}
		}
	}

	// 旧版前端接口：原始 JSON、真实 HTTP 状态码
	r.GET("/product/get", legacyHandler.ListProducts)
	r.POST("/admin/login", LegacyRateLimitMiddleware(redisClient, adminLoginRule, KeyByIPAndJSONField("username")), legacyHandler.AdminLogin)
	r.HEAD("/admin/login", legacyHandler.ProbeLogin)

	legacy := r.Group("")
	legacy.Use(LegacyJWTAuthMiddleware(cfg.JWT.SecretKey, c.AdminRepo), LegacyAdminRBACMiddleware(c.AuthzService))
	{
		legacy.POST("/product/add", legacyHandler.AddProduct)
		legacy.PUT("/product/update/:id", legacyHandler.UpdateProduct)
		legacy.DELETE("/product/delete/:id", legacyHandler.DeleteProduct)
		legacy.GET("/admin/orders", legacyHandler.ListOrders)
		legacy.PUT("/admin/orders/:id/status", legacyHandler.UpdateOrderStatus)
		legacy.POST("/upload", legacyHandler.Upload)
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return r
}

func loginRateRule(prefix, name string, limit config.LoginRateLimitConfig) RateLimitRule {
	return RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:%s", prefix, name),
		WindowSeconds: limit.WindowSeconds,
		MaxRequests:   limit.MaxAttempts,
		BlockSeconds:  limit.BlockSeconds,
		MessageKey:    "error.login_rate_limited",
	}
}
