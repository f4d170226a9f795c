package router

import (
	"context"
	"strings"
	"time"

	"github.com/stationeryhub/internal/authz"
	"github.com/stationeryhub/internal/cache"
	handlershared "github.com/stationeryhub/internal/http/handlers/shared"
	"github.com/stationeryhub/internal/http/response"
	"github.com/stationeryhub/internal/logger"
	"github.com/stationeryhub/internal/repository"
	"github.com/stationeryhub/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var hs256Parser = jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

// bearerToken 取出 Authorization: Bearer <token>，失败时返回文案 key
func bearerToken(c *gin.Context) (string, string) {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" {
		return "", "error.token_missing"
	}
	scheme, token, ok := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	if !ok || scheme != "Bearer" || token == "" {
		return "", "error.token_invalid"
	}
	return token, ""
}

func parseClaims[T jwt.Claims](raw, secret string, claims T) bool {
	token, err := hs256Parser.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	return err == nil && token.Valid
}

func issuedAt(claims jwt.RegisteredClaims) time.Time {
	if claims.IssuedAt == nil {
		return time.Time{}
	}
	return claims.IssuedAt.Time
}

// loadAuthState 先读 Redis 快照，未命中时查库并回填
func loadAuthState[M any](ctx context.Context, subject cache.AuthSubject, id uint, fetch func(uint) (*M, error), build func(*M) *cache.AuthState) *cache.AuthState {
	if cached, hit, err := cache.GetAuthState(ctx, subject, id); err == nil && hit {
		return cached
	}
	row, err := fetch(id)
	if err != nil || row == nil {
		return nil
	}
	state := build(row)
	if err := cache.SetAuthState(ctx, subject, state); err != nil {
		logger.Debugw("auth_state_cache_failed", "subject", subject, "id", id, "error", err)
	}
	return state
}

// JWTAuthMiddleware 后台 /api/v1/admin 鉴权
func JWTAuthMiddleware(secretKey string, adminRepo repository.AdminRepository) gin.HandlerFunc {
	return adminJWTAuth(secretKey, adminRepo, abortEnvelope)
}

// LegacyJWTAuthMiddleware 旧版接口的管理员鉴权，错误体为 {"message": ...}
func LegacyJWTAuthMiddleware(secretKey string, adminRepo repository.AdminRepository) gin.HandlerFunc {
	return adminJWTAuth(secretKey, adminRepo, abortLegacy)
}

func adminJWTAuth(secretKey string, adminRepo repository.AdminRepository, abort abortFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secretKey == "" || adminRepo == nil {
			logger.Errorw("admin_jwt_middleware_misconfigured")
			abort(c, response.CodeUnauthorized, "error.token_invalid")
			return
		}
		raw, failKey := bearerToken(c)
		if failKey != "" {
			abort(c, response.CodeUnauthorized, failKey)
			return
		}
		claims := &service.JWTClaims{}
		if !parseClaims(raw, secretKey, claims) || claims.AdminID == 0 {
			abort(c, response.CodeUnauthorized, "error.token_invalid")
			return
		}
		state := loadAuthState(c.Request.Context(), cache.SubjectAdmin, claims.AdminID, adminRepo.GetByID, cache.AdminAuthState)
		if state == nil {
			abort(c, response.CodeUnauthorized, "error.token_invalid")
			return
		}
		if !state.Accepts(claims.TokenVersion, issuedAt(claims.RegisteredClaims)) {
			abort(c, response.CodeUnauthorized, "error.token_revoked")
			return
		}
		c.Set(handlershared.ContextKeyAdminID, claims.AdminID)
		c.Set(handlershared.ContextKeyUsername, claims.Username)
		c.Set(handlershared.ContextKeyAdminIsSuper, state.IsSuper)
		c.Next()
	}
}

// UserJWTAuthMiddleware 顾客账户接口鉴权；禁用账号的 Token 一律拒绝
func UserJWTAuthMiddleware(secretKey string, userRepo repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secretKey == "" || userRepo == nil {
			logger.Errorw("user_jwt_middleware_misconfigured")
			abortEnvelope(c, response.CodeUnauthorized, "error.token_invalid")
			return
		}
		raw, failKey := bearerToken(c)
		if failKey != "" {
			abortEnvelope(c, response.CodeUnauthorized, failKey)
			return
		}
		claims := &service.UserJWTClaims{}
		if !parseClaims(raw, secretKey, claims) || claims.UserID == 0 {
			abortEnvelope(c, response.CodeUnauthorized, "error.token_invalid")
			return
		}
		state := loadAuthState(c.Request.Context(), cache.SubjectUser, claims.UserID, userRepo.GetByID, cache.UserAuthState)
		switch {
		case state == nil:
			abortEnvelope(c, response.CodeUnauthorized, "error.token_invalid")
			return
		case !state.Active:
			abortEnvelope(c, response.CodeUnauthorized, "error.user_disabled")
			return
		case !state.Accepts(claims.TokenVersion, issuedAt(claims.RegisteredClaims)):
			abortEnvelope(c, response.CodeUnauthorized, "error.token_revoked")
			return
		}
		c.Set(handlershared.ContextKeyUserID, claims.UserID)
		c.Set(handlershared.ContextKeyUsername, claims.Username)
		c.Next()
	}
}

// AdminRBACMiddleware 按路由模板 + 方法做 RBAC 校验，超级管理员跳过
func AdminRBACMiddleware(authzService *authz.Service) gin.HandlerFunc {
	return adminRBAC(authzService, abortEnvelope)
}

// LegacyAdminRBACMiddleware 旧版接口 RBAC 校验
func LegacyAdminRBACMiddleware(authzService *authz.Service) gin.HandlerFunc {
	return adminRBAC(authzService, abortLegacy)
}

func adminRBAC(authzService *authz.Service, abort abortFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authzService == nil {
			logger.Errorw("admin_rbac_service_unavailable")
			abort(c, response.CodeUnauthorized, "error.unauthorized")
			return
		}
		if c.GetBool(handlershared.ContextKeyAdminIsSuper) {
			c.Next()
			return
		}
		adminID := c.GetUint(handlershared.ContextKeyAdminID)
		if adminID == 0 {
			abort(c, response.CodeUnauthorized, "error.unauthorized")
			return
		}
		resource := c.FullPath()
		if resource == "" {
			resource = c.Request.URL.Path
		}
		allowed, err := authzService.EnforceAdmin(adminID, resource, c.Request.Method)
		if err != nil {
			logger.Errorw("admin_rbac_enforce_failed", "admin_id", adminID, "resource", resource, "method", c.Request.Method, "error", err)
			abort(c, response.CodeUnauthorized, "error.unauthorized")
			return
		}
		if !allowed {
			logger.Warnw("admin_rbac_permission_denied", "admin_id", adminID, "resource", authz.NormalizeObject(resource), "method", c.Request.Method)
			abort(c, response.CodeForbidden, "error.forbidden")
			return
		}
		c.Next()
	}
}
