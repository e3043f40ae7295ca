package rest

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kuraoka/signalquest/audit"
	"github.com/kuraoka/signalquest/config"
	"github.com/kuraoka/signalquest/game/mission"
	"github.com/kuraoka/signalquest/game/progression"
	mw "github.com/kuraoka/signalquest/middleware"
	"github.com/kuraoka/signalquest/model"
	"github.com/kuraoka/signalquest/store"
)

// BattleHandler handles battle outcome REST endpoints.
type BattleHandler struct {
	players *store.PlayerStore
	game    config.GameConfig
	audit   *audit.Service
}

// NewBattleHandler creates a BattleHandler.
func NewBattleHandler(players *store.PlayerStore, game config.GameConfig, auditSvc *audit.Service) *BattleHandler {
	return &BattleHandler{players: players, game: game, audit: auditSvc}
}

type battleResultRequest struct {
	Fingerprint       string `json:"fingerprint" binding:"required,max=64"`
	Won               bool   `json:"won"`
	OpponentArchetype string `json:"opponent_archetype" binding:"max=32"`
	OpponentTitle     string `json:"opponent_title" binding:"max=64"`
}

// SubmitResult handles POST /api/battle/result.
// The battle itself runs client-side; the server records the outcome,
// grants rewards and feeds the mission engine.
func (h *BattleHandler) SubmitResult(c *gin.Context) {
	accountID := mw.GetAccountID(c)

	var req battleResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.players.Update(c.Request.Context(), accountID, func(ch model.Character) (model.Character, error) {
		if !req.Won {
			ch = progression.RecordDefeat(ch)
			ch = progression.GainExperience(ch, int64(h.game.BattleDefeatExp))
			return mission.Process(ch, nil), nil
		}

		ch = progression.RecordVictory(ch)
		ch = progression.GainExperience(ch, int64(h.game.BattleVictoryExp))
		ch = progression.GainStatusPoints(ch, h.game.BattleStatusPoints)
		ch = mission.Process(ch, mission.BattleVictory{
			Archetype: req.OpponentArchetype,
			Title:     req.OpponentTitle,
		})
		// Felling the dragon is its own mission milestone.
		if strings.EqualFold(req.OpponentTitle, "Dragon") {
			ch = mission.Process(ch, mission.DragonSlain{})
		}
		return ch, nil
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
		Action:     "battle_result",
		Request:    req,
		IP:         c.ClientIP(),
	})
	c.JSON(http.StatusOK, profileResponse(*updated))
}
