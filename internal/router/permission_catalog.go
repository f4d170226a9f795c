package router

import (
	"net/http"
	"sort"
	"strings"

	"github.com/stationeryhub/internal/authz"

	"github.com/gin-gonic/gin"
)

// legacyAdminPaths 旧版前端直接调用的受保护路由
var legacyAdminPaths = map[string]struct{}{
	"/product/add":             {},
	"/product/update/:id":      {},
	"/product/delete/:id":      {},
	"/admin/orders":            {},
	"/admin/orders/:id/status": {},
	"/upload":                  {},
}

// permissionItem 后台可分配的一项权限（方法 + 归一化后的路由模板）
type permissionItem struct {
	Module     string `json:"module"`
	Method     string `json:"method"`
	Object     string `json:"object"`
	Permission string `json:"permission"`
}

// buildAdminPermissionCatalog 从已注册路由中收集需要 RBAC 的接口。
// /api/v1/admin/x 与旧版 /x 归一化后可能重合，只保留一份。
func buildAdminPermissionCatalog(engine *gin.Engine) []permissionItem {
	items := make([]permissionItem, 0)
	if engine == nil {
		return items
	}
	seen := make(map[string]bool)
	for _, route := range engine.Routes() {
		if route.Method == http.MethodOptions || route.Method == http.MethodHead || !isAdminProtectedPath(route.Path) {
			continue
		}
		object := authz.NormalizeObject(route.Path)
		permission := route.Method + ":" + object
		if seen[permission] {
			continue
		}
		seen[permission] = true
		items = append(items, permissionItem{
			Module:     deriveAdminPermissionModule(object),
			Method:     route.Method,
			Object:     object,
			Permission: permission,
		})
	}
	sort.Slice(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Module != b.Module {
			return a.Module < b.Module
		}
		if a.Object != b.Object {
			return a.Object < b.Object
		}
		return a.Method < b.Method
	})
	return items
}

func isAdminProtectedPath(path string) bool {
	if _, ok := legacyAdminPaths[path]; ok {
		return true
	}
	return strings.HasPrefix(path, "/api/v1/admin/") && path != "/api/v1/admin/login"
}

// deriveAdminPermissionModule 权限分组：/admin/<module>/...，旧版 /product/* 归入 products
func deriveAdminPermissionModule(object string) string {
	segments := strings.Split(strings.Trim(object, "/"), "/")
	switch {
	case segments[0] == "":
		return "system"
	case segments[0] == "product":
		return "products"
	case segments[0] == "admin" && len(segments) > 1:
		return segments[1]
	default:
		return segments[0]
	}
}
