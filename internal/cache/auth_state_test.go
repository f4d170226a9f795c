package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stationeryhub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthStateAccepts(t *testing.T) {
	issued := time.Unix(1_700_000_100, 0)
	assert.True(t, (&AuthState{TokenVersion: 2}).Accepts(2, issued))
	assert.False(t, (&AuthState{TokenVersion: 3}).Accepts(2, issued))
	assert.True(t, (&AuthState{TokenVersion: 2, InvalidBefore: 1_700_000_100}).Accepts(2, issued))
	assert.False(t, (&AuthState{TokenVersion: 2, InvalidBefore: 1_700_000_101}).Accepts(2, issued))
	assert.False(t, (&AuthState{TokenVersion: 2, InvalidBefore: 1}).Accepts(2, time.Time{}))

	var missing *AuthState
	assert.False(t, missing.Accepts(0, issued))
}

func TestUserAuthStateStatus(t *testing.T) {
	revoked := time.Unix(1_700_000_000, 0)
	state := UserAuthState(&models.User{ID: 4, Status: " Active ", TokenVersion: 3, TokenInvalidBefore: &revoked})
	require.NotNil(t, state)
	assert.True(t, state.Active)
	assert.Equal(t, int64(1_700_000_000), state.InvalidBefore)

	assert.False(t, UserAuthState(&models.User{ID: 4, Status: "disabled"}).Active)
	assert.Nil(t, UserAuthState(nil))
	assert.True(t, AdminAuthState(&models.Admin{ID: 1, IsSuper: true}).IsSuper)
}

func TestAuthStateRoundTripThroughRedis(t *testing.T) {
	mock := useMock(t)

	state := &AuthState{ID: 7, TokenVersion: 2, Active: true}
	mock.ExpectSet("test:auth:user:7", []byte(`{"id":7,"token_version":2,"invalid_before":0,"active":true}`), authStateTTL).SetVal("OK")
	require.NoError(t, SetAuthState(context.Background(), SubjectUser, state))

	mock.ExpectGet("test:auth:admin:9").RedisNil()
	got, hit, err := GetAuthState(context.Background(), SubjectAdmin, 9)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Nil(t, got)

	mock.ExpectDel("test:auth:user:7").SetVal(1)
	require.NoError(t, DelAuthState(context.Background(), SubjectUser, 7))
	assert.NoError(t, mock.ExpectationsWereMet())
}
