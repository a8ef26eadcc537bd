package handlers

import (
	"net/http"

	"theeyouspace/models"
	"theeyouspace/services/payment"
	"theeyouspace/store"
	"theeyouspace/utils"

	"github.com/gin-gonic/gin"
)

// BookingHandler serves the public booking flow: slot listing, pricing, and
// order creation.
type BookingHandler struct {
	Slots   *store.SlotStore
	Payment *payment.Service
}

func NewBookingHandler(slots *store.SlotStore, paymentSvc *payment.Service) *BookingHandler {
	return &BookingHandler{Slots: slots, Payment: paymentSvc}
}

type flatSlot struct {
	ID           string `json:"id"`
	Professional string `json:"professional"`
	Date         string `json:"date"`
	Time         string `json:"time"`
}

// GetSlots returns the available slots as a flat list plus a
// grouped-by-professional view for easier frontend rendering.
func (h *BookingHandler) GetSlots(c *gin.Context) {
	available := h.Slots.ListAvailable()

	flat := make([]flatSlot, 0, len(available))
	grouped := make(map[string][]flatSlot)
	for _, s := range available {
		pro := s.Professional
		if pro == "" {
			pro = models.GeneralGroup
		}
		fs := flatSlot{ID: s.ID, Professional: pro, Date: s.Date, Time: s.Time}
		flat = append(flat, fs)
		grouped[pro] = append(grouped[pro], fs)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"slots":   flat,
		"grouped": grouped,
	})
}

// GetPricing returns the price snapshot for a session type.
func (h *BookingHandler) GetPricing(c *gin.Context) {
	sessionType := c.Query("sessionType")
	if sessionType != models.SessionTypeNormal && sessionType != models.SessionTypePriority {
		utils.JSONError(c, http.StatusBadRequest, "Invalid session type", `must be "normal" or "priority"`)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"pricing": payment.GetPricing(sessionType),
	})
}

// CreateOrder validates the booking request and creates a payment order.
func (h *BookingHandler) CreateOrder(c *gin.Context) {
	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid booking request", err.Error())
		return
	}

	booking, order, err := h.Payment.CreateOrder(c.Request.Context(), req)
	if err != nil {
		respondPaymentError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"booking": booking,
		"order":   order,
	})
}

// respondPaymentError maps payment-service error codes to HTTP statuses.
func respondPaymentError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch payment.ErrorCode(err) {
	case payment.CodeValidation, payment.CodeSecurity:
		status = http.StatusBadRequest
	case payment.CodeNotFound:
		status = http.StatusNotFound
	case payment.CodeGateway:
		status = http.StatusBadGateway
	}
	c.JSON(status, gin.H{"success": false, "error": err.Error()})
}
