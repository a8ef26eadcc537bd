package handlers

import (
	"net/http"

	"theeyouspace/services/export"
	"theeyouspace/store"
	"theeyouspace/utils"

	"github.com/gin-gonic/gin"
)

// ExportHandler serves the bookings ledger as a CSV download.
type ExportHandler struct {
	Ledger *store.BookingLedger
}

func NewExportHandler(ledger *store.BookingLedger) *ExportHandler {
	return &ExportHandler{Ledger: ledger}
}

func (h *ExportHandler) ExportBookings(c *gin.Context) {
	bookings := h.Ledger.All()
	csvContent := export.BookingsCSV(bookings)

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", "attachment; filename=bookings.csv")
	c.String(http.StatusOK, export.BOM+csvContent)

	utils.GetLogger().Sugar().Infof("CSV export successful - %d bookings exported", len(bookings))
}
