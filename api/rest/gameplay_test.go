package rest_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func missionStatus(t *testing.T, resp map[string]interface{}, missionID string) (string, float64) {
	t.Helper()
	missions, ok := resp["missions"].([]interface{})
	require.True(t, ok, "response carries a mission projection")
	for _, raw := range missions {
		entry := raw.(map[string]interface{})
		def := entry["definition"].(map[string]interface{})
		if def["id"] != missionID {
			continue
		}
		state := entry["state"].(map[string]interface{})
		progress, _ := state["progress"].(float64)
		return state["status"].(string), progress
	}
	t.Fatalf("mission %s not in projection", missionID)
	return "", 0
}

func (s *testServer) trainingResult(t *testing.T, token string, body map[string]interface{}) map[string]interface{} {
	t.Helper()
	w := s.do(http.MethodPost, "/api/training/result", body, "Authorization", "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decodeBody(t, w)
}

func (s *testServer) battleResult(t *testing.T, token string, body map[string]interface{}) map[string]interface{} {
	t.Helper()
	w := s.do(http.MethodPost, "/api/battle/result", body, "Authorization", "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decodeBody(t, w)
}

func (s *testServer) missionEvent(t *testing.T, token, eventType string) map[string]interface{} {
	t.Helper()
	w := s.do(http.MethodPost, "/api/missions/event", map[string]string{"type": eventType},
		"Authorization", "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decodeBody(t, w)
}

func TestTrainingResult_WinGrantsExpAndVariantPoint(t *testing.T) {
	s := newTestServer(t)
	token := s.onboard(t, "alice", "Rook")

	resp := s.trainingResult(t, token, map[string]interface{}{
		"game_id":    "grip-crusher",
		"difficulty": "hard",
		"score":      88,
		"won":        true,
	})

	char := resp["character"].(map[string]interface{})
	assert.Equal(t, float64(30), char["experience"], "base 10 x hard step 3")

	ledger := char["skill_ledger"].(map[string]interface{})
	assert.Equal(t, float64(1), ledger["power"])

	scores := char["high_scores"].(map[string]interface{})
	byDiff := scores["grip-crusher"].(map[string]interface{})
	entry := byDiff["hard"].(map[string]interface{})
	assert.Equal(t, float64(88), entry["score"])
}

func TestTrainingResult_LossRecordsScoreOnly(t *testing.T) {
	s := newTestServer(t)
	token := s.onboard(t, "alice", "Rook")

	resp := s.trainingResult(t, token, map[string]interface{}{
		"game_id":    "memory-grid",
		"difficulty": "easy",
		"score":      12,
		"won":        false,
	})

	char := resp["character"].(map[string]interface{})
	assert.Equal(t, float64(0), char["experience"], "losses grant nothing")

	scores := char["high_scores"].(map[string]interface{})
	require.Contains(t, scores, "memory-grid", "high scores record wins and losses alike")
}

func TestTrainingResult_RejectsUnknownDifficulty(t *testing.T) {
	s := newTestServer(t)
	token := s.onboard(t, "alice", "Rook")

	w := s.do(http.MethodPost, "/api/training/result", map[string]interface{}{
		"game_id":    "grip-crusher",
		"difficulty": "impossible",
		"won":        true,
	}, "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBattleResult_VictoryAndDefeatBookkeeping(t *testing.T) {
	s := newTestServer(t)
	token := s.onboard(t, "alice", "Rook")

	resp := s.battleResult(t, token, map[string]interface{}{
		"fingerprint": "aa:bb:cc:dd:ee:ff",
		"won":         true,
	})
	char := resp["character"].(map[string]interface{})
	assert.Equal(t, float64(1), char["victories"])
	assert.Equal(t, float64(25), char["experience"])
	assert.Equal(t, float64(3), char["status_points"])

	resp = s.battleResult(t, token, map[string]interface{}{
		"fingerprint": "aa:bb:cc:dd:ee:ff",
		"won":         false,
	})
	char = resp["character"].(map[string]interface{})
	assert.Equal(t, float64(1), char["defeats"])
	assert.Equal(t, float64(30), char["experience"], "defeats still teach a little")
	assert.Equal(t, float64(3), char["status_points"], "no status points for losing")
}

func TestMissionChain_EndToEndOverHTTP(t *testing.T) {
	s := newTestServer(t)
	token := s.onboard(t, "alice", "Rook")

	// Sound the horn: scout-enemies completes, legendary-trial opens.
	resp := s.missionEvent(t, token, "horn_sounded")
	status, _ := missionStatus(t, resp, "scout-enemies")
	assert.Equal(t, "DONE", status)
	status, _ = missionStatus(t, resp, "legendary-trial")
	assert.Equal(t, "ACTIVE", status)

	// A legendary training win completes the trial.
	trainResp := s.trainingResult(t, token, map[string]interface{}{
		"game_id":    "reaction-run",
		"difficulty": "legendary",
		"elapsed_ms": 900,
		"won":        true,
	})
	status, _ = missionStatus(t, trainResp, "legendary-trial")
	assert.Equal(t, "DONE", status)
	status, _ = missionStatus(t, trainResp, "purge-beggars")
	assert.Equal(t, "ACTIVE", status)

	// Five beggar victories purge the gangs.
	var battleResp map[string]interface{}
	for i := 0; i < 5; i++ {
		battleResp = s.battleResult(t, token, map[string]interface{}{
			"fingerprint":    "aa:bb:cc:dd:ee:ff",
			"won":            true,
			"opponent_title": "Beggar",
		})
	}
	status, progress := missionStatus(t, battleResp, "purge-beggars")
	assert.Equal(t, "DONE", status)
	assert.Equal(t, float64(5), progress)
	status, _ = missionStatus(t, battleResp, "find-dragon")
	assert.Equal(t, "ACTIVE", status)

	// Sight the dragon, then take the potion from the paladins.
	resp = s.missionEvent(t, token, "dragon_sighted")
	status, _ = missionStatus(t, resp, "find-dragon")
	assert.Equal(t, "DONE", status)

	resp = s.missionEvent(t, token, "sapphire_potion_found")
	status, _ = missionStatus(t, resp, "hunt-paladins")
	assert.Equal(t, "DONE", status)
	status, _ = missionStatus(t, resp, "slay-dragon")
	assert.Equal(t, "ACTIVE", status)

	// Beating a Dragon-titled opponent finishes the chain.
	battleResp = s.battleResult(t, token, map[string]interface{}{
		"fingerprint":    "11:22:33:44:55:66",
		"won":            true,
		"opponent_title": "Dragon",
	})
	status, _ = missionStatus(t, battleResp, "slay-dragon")
	assert.Equal(t, "DONE", status)
}

func TestMissionEvent_RejectsUnknownType(t *testing.T) {
	s := newTestServer(t)
	token := s.onboard(t, "alice", "Rook")

	w := s.do(http.MethodPost, "/api/missions/event", map[string]string{"type": "meteor_strike"},
		"Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMissionList(t *testing.T) {
	s := newTestServer(t)
	token := s.onboard(t, "alice", "Rook")

	w := s.do(http.MethodGet, "/api/missions", nil, "Authorization", "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeBody(t, w)
	missions := resp["missions"].([]interface{})
	assert.Len(t, missions, 6)
}
