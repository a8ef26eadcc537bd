package handlers

import (
	"io"
	"net/http"

	"theeyouspace/models"
	"theeyouspace/services/payment"
	"theeyouspace/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PaymentHandler serves the verification callback, failure reports, and the
// gateway webhook.
type PaymentHandler struct {
	Payment *payment.Service
}

func NewPaymentHandler(paymentSvc *payment.Service) *PaymentHandler {
	return &PaymentHandler{Payment: paymentSvc}
}

// VerifyPayment confirms a booking after checkout.
func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	var req models.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid verification request", err.Error())
		return
	}

	booking, err := h.Payment.VerifyPayment(c.Request.Context(), req)
	if err != nil {
		respondPaymentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "booking": booking})
}

// PaymentFailure records a failed checkout attempt.
func (h *PaymentHandler) PaymentFailure(c *gin.Context) {
	var req struct {
		OrderID string `json:"orderId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid failure report", err.Error())
		return
	}

	booking, err := h.Payment.HandleFailure(req.OrderID)
	if err != nil {
		respondPaymentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"booking": booking,
		"message": "Payment failure recorded",
	})
}

// Webhook handles gateway events. It acknowledges receipt even when
// internal processing fails, so the gateway does not retry-storm us; only a
// signature mismatch is rejected.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		utils.GetLogger().Warn("Failed to read webhook body", zap.Error(err))
		c.JSON(http.StatusOK, gin.H{"success": true, "error": "Logged for review"})
		return
	}

	signature := c.GetHeader("X-Razorpay-Signature")
	if err := h.Payment.HandleWebhook(c.Request.Context(), body, signature); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid webhook signature"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
