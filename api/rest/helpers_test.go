package rest_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kuraoka/signalquest/api/rest"
	"github.com/kuraoka/signalquest/audit"
	"github.com/kuraoka/signalquest/cache"
	"github.com/kuraoka/signalquest/config"
	mw "github.com/kuraoka/signalquest/middleware"
	"github.com/kuraoka/signalquest/scheduler"
	"github.com/kuraoka/signalquest/store"
	"github.com/kuraoka/signalquest/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testAdminKey = "test-admin-key"

type testServer struct {
	r     *gin.Engine
	db    *gorm.DB
	cache cache.Cache
}

var testGameConfig = config.GameConfig{
	TrainingBaseExp:    10,
	BattleVictoryExp:   25,
	BattleDefeatExp:    5,
	BattleStatusPoints: 3,
	EncounterTTLDays:   30,
}

// newTestServer wires the full route table against an in-memory DB and a
// local cache, mirroring the production wiring.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db := testutil.SetupTestDB(t)
	c := testutil.SetupTestCache(t)
	logger := zap.NewNop()

	sec := config.SecurityConfig{
		JWTSecret: "test-secret",
		JWTTTLH:   72 * time.Hour,
	}

	auditSvc := audit.New(db, logger)
	t.Cleanup(func() { auditSvc.Stop(nil) })
	sched := scheduler.New(logger)
	t.Cleanup(sched.Stop)

	players := store.NewPlayerStore(db)
	encounters := store.NewEncounterStore(db)

	authH := rest.NewAuthHandler(db, c, sec)
	playerH := rest.NewPlayerHandler(players, auditSvc)
	trainingH := rest.NewTrainingHandler(players, testGameConfig, auditSvc)
	battleH := rest.NewBattleHandler(players, testGameConfig, auditSvc)
	scanH := rest.NewScanHandler(encounters, logger)
	missionH := rest.NewMissionHandler(players, auditSvc)
	rankH := rest.NewRankingHandler(db, c, logger)
	adminH := rest.NewAdminHandler(db, encounters, sched, 30*24*time.Hour)

	r := gin.New()
	api := r.Group("/api")
	api.POST("/auth/login", authH.Login)
	api.POST("/auth/logout", mw.Auth(sec, c), authH.Logout)
	api.POST("/auth/refresh", mw.Auth(sec, c), authH.Refresh)

	authed := api.Group("")
	authed.Use(mw.Auth(sec, c))
	authed.GET("/player", playerH.Get)
	authed.POST("/player", playerH.Create)
	authed.DELETE("/player", playerH.Reset)
	authed.POST("/player/skills", playerH.SpendSkills)
	authed.POST("/training/result", trainingH.SubmitResult)
	authed.POST("/battle/result", battleH.SubmitResult)
	authed.POST("/scan", scanH.Submit)
	authed.GET("/encounters", scanH.List)
	authed.POST("/encounters/:fingerprint/challenge", scanH.Challenge)
	authed.GET("/missions", missionH.List)
	authed.POST("/missions/event", missionH.SubmitEvent)
	authed.GET("/ranking", rankH.List)

	adminG := api.Group("/admin")
	adminG.Use(rest.AdminAuth(testAdminKey))
	adminG.GET("/metrics", adminH.Metrics)
	adminG.GET("/players", adminH.ListPlayers)
	adminG.POST("/encounters/prune", adminH.PruneEncounters)

	return &testServer{r: r, db: db, cache: c}
}

func (s *testServer) do(method, path string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	s.r.ServeHTTP(w, req)
	return w
}

// login registers (or re-authenticates) the username and returns a bearer token.
func (s *testServer) login(t *testing.T, username string) string {
	t.Helper()
	w := s.do(http.MethodPost, "/api/auth/login", map[string]string{
		"username": username,
		"password": "pass1234",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	token, _ := resp["token"].(string)
	require.NotEmpty(t, token)
	return token
}

// onboard logs in and creates a character, returning the token.
func (s *testServer) onboard(t *testing.T, username, charName string) string {
	t.Helper()
	token := s.login(t, username)
	w := s.do(http.MethodPost, "/api/player", map[string]string{"name": charName},
		"Authorization", "Bearer "+token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return token
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}
