package payment

import (
	"context"
	"encoding/json"
	"time"

	"theeyouspace/models"
	"theeyouspace/services/writeback"
	"theeyouspace/store"
	"theeyouspace/utils"

	"go.uber.org/zap"
)

// SheetWriteback is the slice of the write-back adapter the service needs.
type SheetWriteback interface {
	RemoveSlot(ctx context.Context, professional, date, timeStr string) writeback.Result
}

// Mailer sends the booking confirmation.
type Mailer interface {
	SendBookingConfirmation(b models.Booking) error
}

// Service drives a booking from payment-order creation through
// confirmation. Repeated confirmation signals for the same payment (the
// frontend callback and the webhook may both report it) are idempotent.
type Service struct {
	Ledger    *store.BookingLedger
	Slots     *store.SlotStore
	Gateway   Gateway
	Writeback SheetWriteback
	Mailer    Mailer

	logger *zap.Logger
}

func NewService(ledger *store.BookingLedger, slots *store.SlotStore, gateway Gateway, wb SheetWriteback, mailer Mailer) *Service {
	return &Service{
		Ledger:    ledger,
		Slots:     slots,
		Gateway:   gateway,
		Writeback: wb,
		Mailer:    mailer,
		logger:    utils.GetLogger(),
	}
}

// CreateOrder validates the request, checks slot availability, snapshots
// pricing, and creates a gateway order for it.
//
// No hold is placed on the slot here: two customers can both receive a
// valid order for the same slot, and only one reservation wins at
// verification time. The losing customer ends up paid but unbooked, which
// verification surfaces in the logs for manual reconciliation.
func (s *Service) CreateOrder(ctx context.Context, req models.CreateOrderRequest) (models.Booking, models.OrderResponse, error) {
	if req.SessionType != models.SessionTypeNormal && req.SessionType != models.SessionTypePriority {
		return models.Booking{}, models.OrderResponse{}, newError(CodeValidation, "invalid session type %q", req.SessionType)
	}
	if req.PaymentMethod != models.PaymentMethodCard && req.PaymentMethod != models.PaymentMethodUPI {
		return models.Booking{}, models.OrderResponse{}, newError(CodeValidation, "invalid payment method %q", req.PaymentMethod)
	}
	if req.SelectedSlot.Date == "" || req.SelectedSlot.Time == "" {
		return models.Booking{}, models.OrderResponse{}, newError(CodeValidation, "selected slot must carry date and time")
	}

	slot, found := s.Slots.FindByKey(req.SelectedSlot.Professional, req.SelectedSlot.Date, req.SelectedSlot.Time)
	if !found || !slot.Available {
		return models.Booking{}, models.OrderResponse{}, newError(CodeValidation, "selected slot is no longer available")
	}

	pricing := GetPricing(req.SessionType)

	booking := s.Ledger.Create(models.Booking{
		SessionType:   req.SessionType,
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		SelectedSlot:  req.SelectedSlot,
		Pricing:       pricing,
		PaymentMethod: req.PaymentMethod,
	})

	s.logger.Info("Booking created",
		zap.String("booking", booking.ID),
		zap.String("sessionType", req.SessionType),
		zap.Int64("totalPaise", pricing.TotalAmount),
	)

	order, err := s.Gateway.CreateOrder(ctx, pricing.TotalAmount, pricing.Currency, booking.ID, map[string]interface{}{
		"bookingId":   booking.ID,
		"sessionType": req.SessionType,
		"name":        req.Name,
		"email":       req.Email,
		"prefix":      "TYS",
	})
	if err != nil {
		return models.Booking{}, models.OrderResponse{}, newError(CodeGateway, "failed to create payment order: %v", err)
	}

	s.Ledger.SetOrderID(booking.ID, order.ID)
	booking.RazorpayOrderID = order.ID

	return booking, models.OrderResponse{
		ID:       order.ID,
		Amount:   order.Amount,
		Currency: order.Currency,
		Key:      s.Gateway.KeyID(),
	}, nil
}

// VerifyPayment is the frontend-callback verification path.
func (s *Service) VerifyPayment(ctx context.Context, req models.VerifyPaymentRequest) (models.Booking, error) {
	return s.verify(ctx, req.OrderID, req.PaymentID, req.Signature, false)
}

// verify runs the full verification chain. signatureVerified marks calls
// arriving through the webhook, whose raw-body HMAC already authenticated
// the event (the per-payment signature check would always fail there).
func (s *Service) verify(ctx context.Context, orderID, paymentID, signature string, signatureVerified bool) (models.Booking, error) {
	booking, found := s.Ledger.FindByOrderID(orderID)
	if !found {
		return models.Booking{}, newError(CodeNotFound, "booking not found for order %s", orderID)
	}

	// Idempotency: repeated signals return the confirmed record untouched.
	if booking.PaymentStatus == models.PaymentStatusSuccess {
		s.logger.Info("Payment already processed", zap.String("booking", booking.ID))
		return booking, nil
	}

	if !signatureVerified && !s.Gateway.VerifySignature(orderID, paymentID, signature) {
		s.logger.Warn("Invalid payment signature",
			zap.String("booking", booking.ID),
			zap.String("order", orderID),
			zap.String("payment", paymentID),
		)
		return models.Booking{}, newError(CodeSecurity, "invalid payment signature")
	}

	// Never trust the caller-supplied status: re-fetch from the gateway.
	gwPayment, err := s.Gateway.FetchPayment(ctx, paymentID)
	if err != nil {
		return models.Booking{}, newError(CodeGateway, "failed to fetch payment details: %v", err)
	}
	if gwPayment.Status != "captured" && gwPayment.Status != "authorized" {
		return models.Booking{}, newError(CodeSecurity, "payment not successful (status %q)", gwPayment.Status)
	}

	// Guards against a manipulated client-side amount.
	if gwPayment.Amount != booking.Pricing.TotalAmount {
		s.logger.Error("Payment amount mismatch",
			zap.String("booking", booking.ID),
			zap.Int64("expected", booking.Pricing.TotalAmount),
			zap.Int64("got", gwPayment.Amount),
		)
		return models.Booking{}, newError(CodeSecurity, "payment amount verification failed")
	}

	confirmed, firstConfirm, found := s.Ledger.ConfirmPayment(orderID, paymentID)
	if !found {
		return models.Booking{}, newError(CodeNotFound, "booking not found for order %s", orderID)
	}
	if !firstConfirm {
		// A concurrent verification won the transition; its side effects
		// are already in flight.
		return confirmed, nil
	}

	s.confirmSideEffects(confirmed)
	return confirmed, nil
}

// confirmSideEffects reserves the slot and fires the detached follow-ups.
// Runs exactly once per booking, on the call that won the confirm
// transition.
func (s *Service) confirmSideEffects(booking models.Booking) {
	slot := booking.SelectedSlot
	if s.Slots.ReserveByKey(slot.Professional, slot.Date, slot.Time, booking.ID) {
		s.logger.Info("Slot reserved", zap.String("booking", booking.ID))
	} else {
		// Two orders passed the availability check for the same slot and
		// this one lost the reservation. The payment stays confirmed;
		// operators resolve the double booking from this log line.
		s.logger.Warn("Slot unavailable at reservation time — paid booking without a slot",
			zap.String("booking", booking.ID),
			zap.String("professional", slot.Professional),
			zap.String("date", slot.Date),
			zap.String("time", slot.Time),
		)
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		res := s.Writeback.RemoveSlot(ctx, slot.Professional, slot.Date, slot.Time)
		if !res.Removed {
			s.logger.Warn("Sheet write-back skipped",
				zap.String("booking", booking.ID),
				zap.String("reason", res.Reason),
			)
		}
	}()

	go func() {
		if err := s.Mailer.SendBookingConfirmation(booking); err != nil {
			s.logger.Error("Failed to send confirmation email",
				zap.String("booking", booking.ID),
				zap.Error(err),
			)
		}
	}()
}

// HandleFailure records a payment failure reported by the frontend. The
// booking stays pending so the customer can retry with a fresh order.
func (s *Service) HandleFailure(orderID string) (models.Booking, error) {
	booking, found := s.Ledger.MarkFailed(orderID)
	if !found {
		return models.Booking{}, newError(CodeNotFound, "booking not found for order %s", orderID)
	}
	s.logger.Info("Payment failure recorded", zap.String("booking", booking.ID))
	return booking, nil
}

type webhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string `json:"id"`
				OrderID string `json:"order_id"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// HandleWebhook verifies the webhook HMAC and, for payment-success events,
// replays the verification path. Internal processing failures are logged
// and swallowed: the frontend callback may already have confirmed the same
// payment, and the endpoint must always acknowledge to avoid retry storms.
// Only a signature mismatch is returned to the caller.
func (s *Service) HandleWebhook(ctx context.Context, body []byte, signature string) error {
	if !s.Gateway.VerifyWebhookSignature(body, signature) {
		s.logger.Warn("Invalid webhook signature")
		return newError(CodeSecurity, "invalid webhook signature")
	}

	var event webhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		s.logger.Warn("Malformed webhook payload", zap.Error(err))
		return nil
	}

	s.logger.Info("Webhook received", zap.String("event", event.Event))

	if event.Event != "payment.captured" && event.Event != "payment.authorized" {
		return nil
	}

	entity := event.Payload.Payment.Entity
	if entity.OrderID == "" || entity.ID == "" {
		// An empty order id would match a booking whose gateway order
		// creation failed and was never stamped.
		s.logger.Warn("Webhook event missing order or payment id", zap.String("event", event.Event))
		return nil
	}
	if _, err := s.verify(ctx, entity.OrderID, entity.ID, "", true); err != nil {
		s.logger.Info("Webhook verification note",
			zap.String("order", entity.OrderID),
			zap.String("detail", err.Error()),
		)
	}
	return nil
}
