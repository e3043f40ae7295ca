package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kuraoka/signalquest/audit"
	"github.com/kuraoka/signalquest/game/mission"
	"github.com/kuraoka/signalquest/game/progression"
	mw "github.com/kuraoka/signalquest/middleware"
	"github.com/kuraoka/signalquest/model"
	"github.com/kuraoka/signalquest/store"
	"gorm.io/gorm"
)

// PlayerHandler handles character lifecycle and skill REST endpoints.
type PlayerHandler struct {
	players *store.PlayerStore
	audit   *audit.Service
}

// NewPlayerHandler creates a PlayerHandler.
func NewPlayerHandler(players *store.PlayerStore, auditSvc *audit.Service) *PlayerHandler {
	return &PlayerHandler{players: players, audit: auditSvc}
}

// profileResponse renders a character with its derived fields and mission
// projection.
func profileResponse(c model.Character) gin.H {
	return gin.H{
		"character":     c,
		"combat_rating": c.Attributes.CombatRating(),
		"missions":      mission.EntriesFor(c),
	}
}

// Get handles GET /api/player.
// Mission state is bootstrapped and swept on every read, so the profile a
// client sees is always current.
func (h *PlayerHandler) Get(c *gin.Context) {
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
	c.JSON(http.StatusOK, profileResponse(*updated))
}

type createPlayerRequest struct {
	Name string `json:"name" binding:"required,min=2,max=32"`
}

// Create handles POST /api/player (onboarding).
func (h *PlayerHandler) Create(c *gin.Context) {
	accountID := mw.GetAccountID(c)

	var req createPlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	existing, err := h.players.Load(c.Request.Context(), accountID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	if existing != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "character already exists"})
		return
	}

	ch := model.Character{
		AccountID: accountID,
		Name:      req.Name,
		Level:     1,
	}
	// Bootstrap missions and open the first one before the record is saved.
	ch = mission.Process(ch, nil)

	if err := h.players.Create(c.Request.Context(), &ch); err != nil {
		if isUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "name already taken"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}

	h.audit.Log(audit.Entry{
		TraceID:    mw.GetTraceID(c),
		AccountID:  &accountID,
		PlayerName: ch.Name,
		Action:     "player_create",
		Request:    req,
		IP:         c.ClientIP(),
	})
	c.JSON(http.StatusCreated, profileResponse(ch))
}

type spendSkillsRequest struct {
	Attribute model.AttributeType `json:"attribute" binding:"required,oneof=power agility endurance focus"`
	Amount    int                 `json:"amount" binding:"required,min=1"`
}

// SpendSkills handles POST /api/player/skills.
// Insufficient points degrade to a no-op; the response flags whether the
// spend applied.
func (h *PlayerHandler) SpendSkills(c *gin.Context) {
	accountID := mw.GetAccountID(c)

	var req spendSkillsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	applied := false
	updated, err := h.players.Update(c.Request.Context(), accountID, func(ch model.Character) (model.Character, error) {
		next := progression.SpendSkillPoints(ch, req.Attribute, req.Amount)
		applied = next.Attributes != ch.Attributes
		return next, nil
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
		Action:     "skills_spend",
		Request:    req,
		Response:   gin.H{"applied": applied},
		IP:         c.ClientIP(),
	})
	c.JSON(http.StatusOK, gin.H{
		"applied":       applied,
		"character":     updated,
		"combat_rating": updated.Attributes.CombatRating(),
	})
}

// Reset handles DELETE /api/player (explicit character reset).
func (h *PlayerHandler) Reset(c *gin.Context) {
	accountID := mw.GetAccountID(c)
	if err := h.players.Delete(c.Request.Context(), accountID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no character"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	h.audit.Log(audit.Entry{
		TraceID:   mw.GetTraceID(c),
		AccountID: &accountID,
		Action:    "player_reset",
		IP:        c.ClientIP(),
	})
	c.JSON(http.StatusOK, gin.H{"reset": true})
}
