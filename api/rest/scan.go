package rest

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kuraoka/signalquest/game/encounter"
	"github.com/kuraoka/signalquest/scan"
	"github.com/kuraoka/signalquest/store"
	"go.uber.org/zap"
)

// ScanHandler handles radio scan submission and encounter REST endpoints.
type ScanHandler struct {
	encounters *store.EncounterStore
	logger     *zap.Logger
}

// NewScanHandler creates a ScanHandler.
func NewScanHandler(encounters *store.EncounterStore, logger *zap.Logger) *ScanHandler {
	return &ScanHandler{encounters: encounters, logger: logger}
}

// Submit handles POST /api/scan.
// The client posts whatever its bounded scan produced; empty or partial
// snapshots are normal. The reconciled collection replaces the stored one.
func (h *ScanHandler) Submit(c *gin.Context) {
	var snapshot scan.Snapshot
	if err := c.ShouldBindJSON(&snapshot); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	existing, err := h.encounters.LoadAll(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}

	merged := encounter.Reconcile(snapshot, existing, time.Now())
	if err := h.encounters.ReplaceAll(ctx, merged); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}

	h.logger.Info("scan reconciled",
		zap.Int("wifi", len(snapshot.WifiDevices)),
		zap.Int("bluetooth", len(snapshot.BluetoothDevices)),
		zap.Int("encounters", len(merged)),
	)
	c.JSON(http.StatusOK, gin.H{"encounters": merged})
}

// List handles GET /api/encounters.
func (h *ScanHandler) List(c *gin.Context) {
	encounters, err := h.encounters.LoadAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"encounters": encounters})
}

// Challenge handles POST /api/encounters/:fingerprint/challenge.
func (h *ScanHandler) Challenge(c *gin.Context) {
	fp := encounter.Fingerprint(c.Param("fingerprint"))
	found, err := h.encounters.SetChallenged(c.Request.Context(), fp, true)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown encounter"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"challenged": true, "fingerprint": fp})
}
