package rest_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/kuraoka/signalquest/api/rest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdmin_RequiresKey(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/api/admin/metrics", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodGet, "/api/admin/metrics", nil, "X-Admin-Key", "wrong")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminAuth_EmptyKeyDisablesSurface(t *testing.T) {
	r := gin.New()
	r.GET("/admin/ping", rest.AdminAuth(""), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"pong": true})
	})

	s := &testServer{r: r}
	w := s.do(http.MethodGet, "/admin/ping", nil, "X-Admin-Key", "anything")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestAdminMetrics(t *testing.T) {
	s := newTestServer(t)
	s.onboard(t, "alice", "Rook")
	s.onboard(t, "bob", "Pawn")

	w := s.do(http.MethodGet, "/api/admin/metrics", nil, "X-Admin-Key", testAdminKey)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeBody(t, w)
	assert.Equal(t, float64(2), resp["accounts"])
	assert.Equal(t, float64(2), resp["characters"])
}

func TestAdminListPlayers(t *testing.T) {
	s := newTestServer(t)
	s.onboard(t, "alice", "Rook")
	s.onboard(t, "bob", "Pawn")

	w := s.do(http.MethodGet, "/api/admin/players", nil, "X-Admin-Key", testAdminKey)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeBody(t, w)
	players := resp["players"].([]interface{})
	assert.Len(t, players, 2)
}

func TestAdminPruneEncounters_EmptyCollection(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/api/admin/encounters/prune", nil, "X-Admin-Key", testAdminKey)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeBody(t, w)
	assert.Equal(t, float64(0), resp["removed"])
}

func TestRanking_ReflectsExperience(t *testing.T) {
	s := newTestServer(t)
	tokenA := s.onboard(t, "alice", "Rook")
	s.onboard(t, "bob", "Pawn")

	// Rook earns experience; Pawn stays at zero.
	for i := 0; i < 3; i++ {
		s.battleResult(t, tokenA, map[string]interface{}{
			"fingerprint": "aa:bb:cc:dd:ee:ff",
			"won":         true,
		})
	}

	w := s.do(http.MethodGet, "/api/ranking", nil, "Authorization", "Bearer "+tokenA)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeBody(t, w)
	rows := resp["ranking"].([]interface{})
	require.Len(t, rows, 2)

	first := rows[0].(map[string]interface{})
	assert.Equal(t, "Rook", first["name"])
	assert.Equal(t, float64(1), first["rank"])
	assert.Equal(t, float64(75), first["experience"])
}
