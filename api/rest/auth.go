package rest

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kuraoka/signalquest/cache"
	"github.com/kuraoka/signalquest/config"
	mw "github.com/kuraoka/signalquest/middleware"
	"github.com/kuraoka/signalquest/model"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	bcryptCost     = 12
	sessionPrefix  = "session:"
	sessionTimeout = 2 * time.Second
)

// AuthHandler serves login, logout and token refresh.
type AuthHandler struct {
	db       *gorm.DB
	sessions cache.Cache
	sec      config.SecurityConfig
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(db *gorm.DB, c cache.Cache, sec config.SecurityConfig) *AuthHandler {
	return &AuthHandler{db: db, sessions: c, sec: sec}
}

type credentials struct {
	Username string `json:"username" binding:"required,min=2,max=32"`
	Password string `json:"password" binding:"required,min=4,max=64"`
}

// Login handles POST /api/auth/login. Unknown usernames are registered on
// the spot, so the mobile client needs no separate signup call.
func (h *AuthHandler) Login(c *gin.Context) {
	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var acc model.Account
	switch err := h.db.Where("username = ?", req.Username).First(&acc).Error; {
	case errors.Is(err, gorm.ErrRecordNotFound):
		created, ok := h.register(c, req)
		if !ok {
			return
		}
		acc = created
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	default:
		if bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(req.Password)) != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		if acc.Status == model.AccountBanned {
			c.JSON(http.StatusForbidden, gin.H{"error": "account banned"})
			return
		}
	}

	token, err := h.openSession(c.Request.Context(), acc.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token error"})
		return
	}

	// Best-effort login bookkeeping.
	now := time.Now()
	_ = h.db.Model(&acc).Updates(map[string]interface{}{
		"last_login_at": now,
		"last_login_ip": c.ClientIP(),
	})

	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"account_id": acc.ID,
	})
}

// register creates a fresh account for a first-time username. Responds
// with an error and returns ok=false when the account cannot be created.
func (h *AuthHandler) register(c *gin.Context, req credentials) (model.Account, bool) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return model.Account{}, false
	}
	acc := model.Account{
		Username:     req.Username,
		PasswordHash: string(hash),
		Status:       model.AccountActive,
	}
	if err := h.db.Create(&acc).Error; err != nil {
		// A concurrent login for the same fresh username can win the insert.
		if isUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "username already taken"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		}
		return model.Account{}, false
	}
	return acc, true
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing token"})
		return
	}
	h.closeSession(c.Request.Context(), token)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Refresh handles POST /api/auth/refresh. The presented token's session
// is closed and a fresh token is issued.
func (h *AuthHandler) Refresh(c *gin.Context) {
	accountID := mw.GetAccountID(c)
	if accountID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	old := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	h.closeSession(c.Request.Context(), old)

	token, err := h.openSession(c.Request.Context(), accountID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// openSession issues a token and registers it in the session cache. The
// cache entry is what Auth checks, so deleting it kills the token.
func (h *AuthHandler) openSession(parent context.Context, accountID int64) (string, error) {
	token, err := mw.GenerateToken(accountID, h.sec.JWTSecret, h.sec.JWTTTLH)
	if err != nil {
		return "", err
	}
	ctx, cancel := context.WithTimeout(parent, sessionTimeout)
	defer cancel()
	_ = h.sessions.Set(ctx, sessionPrefix+token, strconv.FormatInt(accountID, 10), h.sec.JWTTTLH)
	return token, nil
}

func (h *AuthHandler) closeSession(parent context.Context, token string) {
	ctx, cancel := context.WithTimeout(parent, sessionTimeout)
	defer cancel()
	_ = h.sessions.Del(ctx, sessionPrefix+token)
}

// isUniqueViolation detects duplicate-key errors across the supported
// database drivers, which phrase them differently.
func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") ||
		strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "already exists")
}
