package rest

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kuraoka/signalquest/audit"
	"github.com/kuraoka/signalquest/config"
	"github.com/kuraoka/signalquest/game/mission"
	"github.com/kuraoka/signalquest/game/progression"
	mw "github.com/kuraoka/signalquest/middleware"
	"github.com/kuraoka/signalquest/model"
	"github.com/kuraoka/signalquest/store"
)

// Training game ids known to the server. Unknown ids are still accepted
// (high scores and experience work for any game); they just train no
// specific attribute.
var trainedAttribute = map[string]model.AttributeType{
	"grip-crusher":    model.AttributePower,
	"reaction-run":    model.AttributeAgility,
	"endurance-march": model.AttributeEndurance,
	"memory-grid":     model.AttributeFocus,
}

// Timed games rank by lower elapsed time; everything else by higher score.
var timedGames = map[string]bool{
	"reaction-run":    true,
	"endurance-march": true,
}

var difficultyStep = map[string]int{
	"easy":      1,
	"normal":    2,
	"hard":      3,
	"legendary": 5,
}

// TrainingHandler handles mini-game outcome REST endpoints.
type TrainingHandler struct {
	players *store.PlayerStore
	game    config.GameConfig
	audit   *audit.Service
}

// NewTrainingHandler creates a TrainingHandler.
func NewTrainingHandler(players *store.PlayerStore, game config.GameConfig, auditSvc *audit.Service) *TrainingHandler {
	return &TrainingHandler{players: players, game: game, audit: auditSvc}
}

type trainingResultRequest struct {
	GameID     string `json:"game_id" binding:"required,max=64"`
	Difficulty string `json:"difficulty" binding:"required,oneof=easy normal hard legendary"`
	Score      int    `json:"score" binding:"min=0"`
	ElapsedMs  int64  `json:"elapsed_ms" binding:"min=0"`
	Won        bool   `json:"won"`
}

// SubmitResult handles POST /api/training/result.
// The client reports the literal outcome of a finished mini-game round; the
// server derives experience, variant skill points, high scores and mission
// effects from it.
func (h *TrainingHandler) SubmitResult(c *gin.Context) {
	accountID := mw.GetAccountID(c)

	var req trainingResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.players.Update(c.Request.Context(), accountID, func(ch model.Character) (model.Character, error) {
		entry := model.HighScore{
			Score:      req.Score,
			ElapsedMs:  req.ElapsedMs,
			Difficulty: req.Difficulty,
			AchievedAt: time.Now(),
		}
		better := progression.Better(progression.HigherScore)
		if timedGames[req.GameID] {
			better = progression.LowerElapsed
		}
		ch = progression.UpdateTrainingHighScore(ch, req.GameID, req.Difficulty, entry, better)

		var ev mission.Event
		if req.Won {
			exp := int64(h.game.TrainingBaseExp * difficultyStep[req.Difficulty])
			ch = progression.GainExperience(ch, exp)
			if attr, ok := trainedAttribute[req.GameID]; ok {
				ch = progression.AddVariantSkillPoints(ch, attr, 1)
			}
			if req.Difficulty == "legendary" {
				ev = mission.LegendaryTrainingWin{GameID: req.GameID}
			}
		}
		return mission.Process(ch, ev), nil
	})
	if errors.Is(err, store.ErrNoCharacter) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no character"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}

	h.audit.Log(audit.Entry{
		TraceID:    mw.GetTraceID(c),
		AccountID:  &accountID,
		PlayerName: updated.Name,
		Action:     "training_result",
		Request:    req,
		IP:         c.ClientIP(),
	})
	c.JSON(http.StatusOK, profileResponse(*updated))
}
