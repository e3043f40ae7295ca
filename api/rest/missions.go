package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kuraoka/signalquest/audit"
	"github.com/kuraoka/signalquest/game/mission"
	mw "github.com/kuraoka/signalquest/middleware"
	"github.com/kuraoka/signalquest/model"
	"github.com/kuraoka/signalquest/store"
)

// MissionHandler handles mission REST endpoints.
type MissionHandler struct {
	players *store.PlayerStore
	audit   *audit.Service
}

// NewMissionHandler creates a MissionHandler.
func NewMissionHandler(players *store.PlayerStore, auditSvc *audit.Service) *MissionHandler {
	return &MissionHandler{players: players, audit: auditSvc}
}

// List handles GET /api/missions.
func (h *MissionHandler) List(c *gin.Context) {
	accountID := mw.GetAccountID(c)
	updated, err := h.players.Update(c.Request.Context(), accountID, func(ch model.Character) (model.Character, error) {
		return mission.Process(ch, nil), nil
	})
	if errors.Is(err, store.ErrNoCharacter) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no character"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"missions": mission.EntriesFor(*updated)})
}

type missionEventRequest struct {
	Type string `json:"type" binding:"required,oneof=horn_sounded dragon_sighted sapphire_potion_found dragon_slain"`
}

// narrativeEvents maps the event names the client's story glue may post.
// Battle and training events are derived server-side from their own
// endpoints and are deliberately not accepted here.
var narrativeEvents = map[string]mission.Event{
	"horn_sounded":          mission.HornSounded{},
	"dragon_sighted":        mission.DragonSighted{},
	"sapphire_potion_found": mission.SapphirePotionFound{},
	"dragon_slain":          mission.DragonSlain{},
}

// SubmitEvent handles POST /api/missions/event.
func (h *MissionHandler) SubmitEvent(c *gin.Context) {
	accountID := mw.GetAccountID(c)

	var req missionEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ev := narrativeEvents[req.Type]

	updated, err := h.players.Update(c.Request.Context(), accountID, func(ch model.Character) (model.Character, error) {
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
		Action:     "mission_event",
		Request:    req,
		IP:         c.ClientIP(),
	})
	c.JSON(http.StatusOK, gin.H{"missions": mission.EntriesFor(*updated)})
}
