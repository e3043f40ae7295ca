package rest

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kuraoka/signalquest/model"
	"github.com/kuraoka/signalquest/scheduler"
	"github.com/kuraoka/signalquest/store"
	"gorm.io/gorm"
)

// AdminAuth guards operator endpoints with a static header key.
// An empty configured key disables the admin surface entirely.
func AdminAuth(adminKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if adminKey == "" {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "admin api disabled"})
			return
		}
		if c.GetHeader("X-Admin-Key") != adminKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "bad admin key"})
			return
		}
		c.Next()
	}
}

// AdminHandler exposes operator endpoints.
type AdminHandler struct {
	db         *gorm.DB
	encounters *store.EncounterStore
	sched      *scheduler.Scheduler
	pruneAge   time.Duration
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(db *gorm.DB, encounters *store.EncounterStore, sched *scheduler.Scheduler, pruneAge time.Duration) *AdminHandler {
	return &AdminHandler{db: db, encounters: encounters, sched: sched, pruneAge: pruneAge}
}

// Metrics handles GET /api/admin/metrics.
func (h *AdminHandler) Metrics(c *gin.Context) {
	ctx := c.Request.Context()
	var accounts, characters, encounters, auditLogs int64
	h.db.WithContext(ctx).Model(&model.Account{}).Count(&accounts)
	h.db.WithContext(ctx).Model(&model.Character{}).Count(&characters)
	h.db.WithContext(ctx).Model(&model.Encounter{}).Count(&encounters)
	h.db.WithContext(ctx).Model(&model.AuditLog{}).Count(&auditLogs)

	c.JSON(http.StatusOK, gin.H{
		"accounts":   accounts,
		"characters": characters,
		"encounters": encounters,
		"audit_logs": auditLogs,
		"tasks":      h.sched.ListTickers(),
	})
}

// ListPlayers handles GET /api/admin/players.
func (h *AdminHandler) ListPlayers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "50"))
	if size < 1 || size > 200 {
		size = 50
	}

	var chars []model.Character
	err := h.db.WithContext(c.Request.Context()).
		Order("experience DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&chars).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"page": page, "players": chars})
}

// PruneEncounters handles POST /api/admin/encounters/prune.
// Runs the same stale-encounter sweep the scheduler runs, on demand.
func (h *AdminHandler) PruneEncounters(c *gin.Context) {
	removed, err := h.encounters.PruneStale(c.Request.Context(), time.Now().Add(-h.pruneAge))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}
