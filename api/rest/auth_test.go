package rest_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin_AutoRegister(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/api/auth/login", map[string]string{
		"username": "alice",
		"password": "pass1234",
	})
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeBody(t, w)
	assert.NotEmpty(t, resp["token"])
	assert.NotZero(t, resp["account_id"])
}

func TestLogin_WrongPassword(t *testing.T) {
	s := newTestServer(t)
	s.login(t, "bob")

	w := s.do(http.MethodPost, "/api/auth/login", map[string]string{
		"username": "bob",
		"password": "wrong-pass",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogin_SecondTimeSucceeds(t *testing.T) {
	s := newTestServer(t)
	s.login(t, "carol")
	s.login(t, "carol")
}

func TestLogin_BadRequest(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodPost, "/api/auth/login", map[string]string{"username": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogout_InvalidatesSession(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "dave")

	w := s.do(http.MethodPost, "/api/auth/logout", nil, "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodPost, "/api/auth/logout", nil, "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRefresh_IssuesWorkingToken(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "erin")

	w := s.do(http.MethodPost, "/api/auth/refresh", nil, "Authorization", "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeBody(t, w)
	newToken, _ := resp["token"].(string)
	require.NotEmpty(t, newToken)

	w = s.do(http.MethodGet, "/api/player", nil, "Authorization", "Bearer "+newToken)
	assert.Equal(t, http.StatusNotFound, w.Code, "authed but no character yet")
}

func TestProtectedRoute_RequiresToken(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodGet, "/api/player", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodGet, "/api/player", nil, "Authorization", "Bearer garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
