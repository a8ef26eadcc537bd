package handlers

import (
	"fmt"
	"io"
	"net/http"

	"theeyouspace/services/sheetsync"
	"theeyouspace/store"
	"theeyouspace/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxUploadBytes = 5 << 20 // 5MB

// SlotAdminHandler serves the API-key-protected slot management endpoints:
// CSV upload, status, clear, and manual sheet sync.
type SlotAdminHandler struct {
	Slots  *store.SlotStore
	Syncer *sheetsync.Syncer
}

func NewSlotAdminHandler(slots *store.SlotStore, syncer *sheetsync.Syncer) *SlotAdminHandler {
	return &SlotAdminHandler{Slots: slots, Syncer: syncer}
}

// Upload loads slots from an uploaded CSV file in the "slots" field.
func (h *SlotAdminHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("slots")
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "No file uploaded", `send a CSV file in the "slots" field`)
		return
	}
	defer file.Close()

	// Read one byte past the cap so an oversized file is detectable rather
	// than silently truncated into a shorter valid CSV.
	raw, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Failed to read upload", err.Error())
		return
	}
	if len(raw) > maxUploadBytes {
		utils.JSONError(c, http.StatusRequestEntityTooLarge, "Upload too large",
			fmt.Sprintf("CSV uploads are limited to %dMB", maxUploadBytes>>20))
		return
	}

	parsed, err := sheetsync.ParseCSV(string(raw))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Failed to parse upload", err.Error())
		return
	}
	if len(parsed.Slots) == 0 {
		utils.JSONError(c, http.StatusBadRequest,
			fmt.Sprintf("No valid slots found in %q", header.Filename),
			fmt.Sprintf("%v", parsed.Errors))
		return
	}

	count := h.Slots.Reconcile(parsed.Slots, "upload:"+header.Filename)

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     fmt.Sprintf("Loaded %d slots successfully", count),
		"count":       count,
		"warnings":    parsed.Warnings,
		"parseErrors": parsed.Errors,
		"status":      h.Slots.StatusSummary(),
	})
}

// Status reports the current slot store summary.
func (h *SlotAdminHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "status": h.Slots.StatusSummary()})
}

// Clear wipes all slots. Booked state is gone with them; use only to reset.
func (h *SlotAdminHandler) Clear(c *gin.Context) {
	h.Slots.Reconcile(nil, "admin-clear")
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "All slots cleared"})
}

// Sync forces an immediate re-sync from the configured sheet.
func (h *SlotAdminHandler) Sync(c *gin.Context) {
	if !h.Syncer.Configured() {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"skipped": true,
			"message": "GOOGLE_SHEET_URL not set — using dev slots",
		})
		return
	}

	result, err := h.Syncer.SyncOnce(c.Request.Context())
	if err != nil {
		utils.GetLogger().Warn("Manual sheet sync failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     fmt.Sprintf("Synced %d slots from sheet", result.Count),
		"count":       result.Count,
		"warnings":    result.Warnings,
		"parseErrors": result.Errors,
	})
}
