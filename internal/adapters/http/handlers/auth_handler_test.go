package handlers

import (
	"net/http"
	"testing"

	"madhav-couriers/internal/adapters/http/middleware"
	"madhav-couriers/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthHandler_Login(t *testing.T) {
	f := newFixture(t)

	resp, env := f.do(t, http.MethodPost, "/api/auth/login", LoginRequest{Username: "admin", Password: testPassword}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, env.Error)
	assert.True(t, env.Success)

	var data struct {
		Token string           `json:"token"`
		Admin domain.Principal `json:"admin"`
	}
	decode(t, env.Data, &data)
	assert.NotEmpty(t, data.Token)
	assert.Equal(t, "admin", data.Admin.Username)
	assert.Equal(t, domain.RoleAdmin, data.Admin.Role)

	var cookie *http.Cookie
	for _, ck := range resp.Cookies() {
		if ck.Name == middleware.AccessTokenCookie {
			cookie = ck
		}
	}
	require.NotNil(t, cookie)
	assert.Equal(t, data.Token, cookie.Value)
	assert.True(t, cookie.HttpOnly)
}

func TestAuthHandler_LoginFailures(t *testing.T) {
	f := newFixture(t)

	resp, env := f.do(t, http.MethodPost, "/api/auth/login", LoginRequest{Username: "admin", Password: "wrong-password"}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.False(t, env.Success)
	assert.Equal(t, "Invalid username or password", env.Error)

	resp, _ = f.do(t, http.MethodPost, "/api/auth/login", LoginRequest{Username: "nobody", Password: testPassword}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, env = f.do(t, http.MethodPost, "/api/auth/login", LoginRequest{}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(env.Details), "username")
}

func TestAuthHandler_LockoutAfterRepeatedFailures(t *testing.T) {
	f := newFixture(t)

	for i := 0; i < f.cfg.Lockout.MaxAttempts; i++ {
		resp, _ := f.do(t, http.MethodPost, "/api/auth/login", LoginRequest{Username: "admin", Password: "wrong-password"}, "")
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}

	// the right password no longer helps while the lock holds
	resp, env := f.do(t, http.MethodPost, "/api/auth/login", LoginRequest{Username: "admin", Password: testPassword}, "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Contains(t, env.Error, "locked")
}

func TestAuthHandler_VerifyAndMe(t *testing.T) {
	f := newFixture(t)
	token := f.token(t, "manager")

	resp, env := f.do(t, http.MethodGet, "/api/auth/verify", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var verified struct {
		Valid bool             `json:"valid"`
		Admin domain.Principal `json:"admin"`
	}
	decode(t, env.Data, &verified)
	assert.True(t, verified.Valid)
	assert.Equal(t, domain.RoleManager, verified.Admin.Role)

	resp, env = f.do(t, http.MethodGet, "/api/auth/me", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var me domain.Principal
	decode(t, env.Data, &me)
	assert.Equal(t, "a-manager", me.ID)
	assert.Equal(t, "manager@madhavcouriers.in", me.Email)
	assert.NotNil(t, me.LastLogin)

	resp, _ = f.do(t, http.MethodGet, "/api/auth/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthHandler_Logout(t *testing.T) {
	f := newFixture(t)

	resp, env := f.do(t, http.MethodPost, "/api/auth/logout", nil, f.token(t, "admin"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, env.Success)

	var cookie *http.Cookie
	for _, ck := range resp.Cookies() {
		if ck.Name == middleware.AccessTokenCookie {
			cookie = ck
		}
	}
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
}
