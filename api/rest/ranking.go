package rest

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kuraoka/signalquest/cache"
	"github.com/kuraoka/signalquest/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	rankingZKey    = "ranking:exp"
	rankingMaxSize = 100
)

// RankingHandler serves the experience leaderboard. The board lives in the
// cache as a sorted set and is refreshed from the DB on a schedule.
type RankingHandler struct {
	db     *gorm.DB
	cache  cache.Cache
	logger *zap.Logger
}

// NewRankingHandler creates a RankingHandler.
func NewRankingHandler(db *gorm.DB, c cache.Cache, logger *zap.Logger) *RankingHandler {
	return &RankingHandler{db: db, cache: c, logger: logger}
}

type rankingRow struct {
	Rank       int    `json:"rank"`
	Name       string `json:"name"`
	Level      int    `json:"level"`
	Experience int64  `json:"experience"`
}

// Refresh rebuilds the cached leaderboard from the characters table.
// Called by the scheduler and once at startup.
func (h *RankingHandler) Refresh(ctx context.Context) {
	var chars []model.Character
	err := h.db.WithContext(ctx).
		Order("experience DESC").
		Limit(rankingMaxSize).
		Find(&chars).Error
	if err != nil {
		h.logger.Error("ranking refresh query failed", zap.Error(err))
		return
	}
	for _, ch := range chars {
		if err := h.cache.ZAdd(ctx, rankingZKey, float64(ch.Experience), ch.Name); err != nil {
			h.logger.Error("ranking zadd failed", zap.Error(err), zap.String("name", ch.Name))
			return
		}
	}
	h.logger.Debug("ranking refreshed", zap.Int("entries", len(chars)))
}

// List handles GET /api/ranking.
func (h *RankingHandler) List(c *gin.Context) {
	limit := int64(20)
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil && n > 0 && n <= rankingMaxSize {
			limit = n
		}
	}

	ctx := c.Request.Context()
	names, err := h.cache.ZRevRange(ctx, rankingZKey, 0, limit-1)
	if err != nil || len(names) == 0 {
		// Cold cache, fall back to the DB and warm it up.
		h.Refresh(ctx)
		names, _ = h.cache.ZRevRange(ctx, rankingZKey, 0, limit-1)
	}

	rows := make([]rankingRow, 0, len(names))
	for i, name := range names {
		row := rankingRow{Rank: i + 1, Name: name}
		if score, err := h.cache.ZScore(ctx, rankingZKey, name); err == nil {
			row.Experience = int64(score)
		}
		var ch model.Character
		if err := h.db.WithContext(ctx).Where("name = ?", name).First(&ch).Error; err == nil {
			row.Level = ch.Level
		}
		rows = append(rows, row)
	}
	c.JSON(http.StatusOK, gin.H{"ranking": rows})
}
