package authz

import (
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	svc, err := NewService(db)
	require.NoError(t, err)
	return svc
}

func TestEnforceAdminMatchesRouteParams(t *testing.T) {
	svc := newTestService(t)
	require.NoError(t, svc.GrantRolePolicy("stock keeper", "/admin/products/:id", "GET"))
	require.NoError(t, svc.SetAdminRoles(1, []string{"stock keeper"}))

	allow, err := svc.EnforceAdmin(1, "/api/v1/admin/products/42", "get")
	require.NoError(t, err)
	assert.True(t, allow)

	allow, err = svc.EnforceAdmin(1, "/api/v1/admin/products/42", "POST")
	require.NoError(t, err)
	assert.False(t, allow)

	allow, err = svc.EnforceAdmin(2, "/api/v1/admin/products/42", "GET")
	require.NoError(t, err)
	assert.False(t, allow)
}

func TestSetAdminRolesReplacesPrevious(t *testing.T) {
	svc := newTestService(t)
	require.NoError(t, svc.GrantRolePolicy("ops", "/admin/orders", "GET"))
	require.NoError(t, svc.GrantRolePolicy("writer", "/admin/posts", "GET"))

	require.NoError(t, svc.SetAdminRoles(2, []string{"ops"}))
	roles, err := svc.GetAdminRoles(2)
	require.NoError(t, err)
	assert.Equal(t, []string{"role:ops"}, roles)

	require.NoError(t, svc.SetAdminRoles(2, []string{"writer"}))
	roles, err = svc.GetAdminRoles(2)
	require.NoError(t, err)
	assert.Equal(t, []string{"role:writer"}, roles)

	allow, err := svc.EnforceAdmin(2, "/admin/orders", "GET")
	require.NoError(t, err)
	assert.False(t, allow)
	allow, err = svc.EnforceAdmin(2, "/admin/posts", "GET")
	require.NoError(t, err)
	assert.True(t, allow)

	assert.Error(t, svc.SetAdminRoles(0, []string{"ops"}))
}

func TestGetAdminPoliciesMergesRoles(t *testing.T) {
	svc := newTestService(t)
	require.NoError(t, svc.GrantRolePolicy("ops", "/admin/orders", "get"))
	require.NoError(t, svc.GrantRolePolicy("ops", "/api/v1/admin/orders/:id/status", "PUT"))
	require.NoError(t, svc.GrantRolePolicy("writer", "/admin/posts", "*"))
	require.NoError(t, svc.SetAdminRoles(5, []string{"ops", "writer"}))

	policies, err := svc.GetAdminPolicies(5)
	require.NoError(t, err)
	assert.Equal(t, []Policy{
		{Subject: "role:ops", Object: "/admin/orders/:id/status", Action: "PUT"},
		{Subject: "role:ops", Object: "/admin/orders", Action: "GET"},
		{Subject: "role:writer", Object: "/admin/posts", Action: "*"},
	}, policies)
}

func TestEnsureRoleRejectsReserved(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.EnsureRole("__anchor__")
	assert.Error(t, err)
	_, err = svc.EnsureRole("  ")
	assert.Error(t, err)

	name, err := svc.EnsureRole("role:buyer")
	require.NoError(t, err)
	assert.Equal(t, "role:buyer", name)
}

func TestNormalizeObject(t *testing.T) {
	cases := map[string]string{
		"/api/v1/admin/orders/:id": "/admin/orders/:id",
		"/admin/orders/:id":        "/admin/orders/:id",
		"admin/orders":             "/admin/orders",
		"/api/v1":                  "/",
		"":                         "/",
		"/product/add":             "/product/add",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeObject(in), in)
	}
}

func TestBootstrapBuiltinRoles(t *testing.T) {
	svc := newTestService(t)
	require.NoError(t, svc.BootstrapBuiltinRoles())
	require.NoError(t, svc.BootstrapBuiltinRoles())

	roles, err := svc.ListRoles()
	require.NoError(t, err)
	assert.Equal(t, []string{
		"role:catalog_editor",
		"role:content_editor",
		"role:order_support",
		"role:readonly_auditor",
	}, roles)

	require.NoError(t, svc.SetAdminRoles(3, []string{"catalog_editor"}))
	cases := []struct {
		object string
		action string
		want   bool
	}{
		{"/api/v1/admin/orders", "GET", true},
		{"/api/v1/admin/orders/:id/status", "PUT", false},
		{"/api/v1/admin/products/:id", "DELETE", true},
		{"/product/update/:id", "PUT", true},
		{"/admin/orders/:id/status", "PUT", false},
		{"/api/v1/admin/posts", "POST", false},
	}
	for _, tc := range cases {
		allow, err := svc.EnforceAdmin(3, tc.object, tc.action)
		require.NoError(t, err)
		assert.Equal(t, tc.want, allow, "%s %s", tc.action, tc.object)
	}

	exists, err := svc.HasRole("order_support")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestNilServiceUnavailable(t *testing.T) {
	var svc *Service
	_, err := svc.EnforceAdmin(1, "/admin/orders", "GET")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, svc.BootstrapBuiltinRoles(), ErrUnavailable)
}
