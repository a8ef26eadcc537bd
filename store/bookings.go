package store

import (
	"fmt"
	"sync"
	"time"

	"theeyouspace/models"
)

// BookingLedger tracks bookings from order creation through confirmation.
// It is append-only: bookings are mutated by verification or failure
// reports but never deleted.
type BookingLedger struct {
	mu       sync.Mutex
	bookings []*models.Booking
	nextID   int
}

func NewBookingLedger() *BookingLedger {
	return &BookingLedger{nextID: 1}
}

// Create appends a new pending booking and assigns it a sequence-generated
// identifier.
func (l *BookingLedger) Create(b models.Booking) models.Booking {
	l.mu.Lock()
	defer l.mu.Unlock()

	b.ID = fmt.Sprintf("TYS-%06d", l.nextID)
	l.nextID++
	now := time.Now()
	b.CreatedAt = now
	b.UpdatedAt = now
	if b.PaymentStatus == "" {
		b.PaymentStatus = models.PaymentStatusPending
	}
	if b.BookingStatus == "" {
		b.BookingStatus = models.BookingStatusPending
	}

	stored := b
	l.bookings = append(l.bookings, &stored)
	return b
}

// FindByID returns a copy of the booking with the given identifier.
func (l *BookingLedger) FindByID(id string) (models.Booking, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, b := range l.bookings {
		if b.ID == id {
			return *b, true
		}
	}
	return models.Booking{}, false
}

// FindByOrderID returns a copy of the booking for a gateway order id.
func (l *BookingLedger) FindByOrderID(orderID string) (models.Booking, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	b := l.findByOrderIDLocked(orderID)
	if b == nil {
		return models.Booking{}, false
	}
	return *b, true
}

func (l *BookingLedger) findByOrderIDLocked(orderID string) *models.Booking {
	for _, b := range l.bookings {
		if b.RazorpayOrderID == orderID {
			return b
		}
	}
	return nil
}

// FindByEmail returns all bookings made with the given email.
func (l *BookingLedger) FindByEmail(email string) []models.Booking {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []models.Booking
	for _, b := range l.bookings {
		if b.Email == email {
			out = append(out, *b)
		}
	}
	return out
}

// All returns a copy of every booking in creation order.
func (l *BookingLedger) All() []models.Booking {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]models.Booking, len(l.bookings))
	for i, b := range l.bookings {
		out[i] = *b
	}
	return out
}

// SetOrderID stamps the gateway order id on a freshly created booking.
func (l *BookingLedger) SetOrderID(bookingID, orderID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, b := range l.bookings {
		if b.ID == bookingID {
			b.RazorpayOrderID = orderID
			b.UpdatedAt = time.Now()
			return true
		}
	}
	return false
}

// ConfirmPayment transitions the booking for orderID to payment success and
// booking confirmed, recording the payment id. The already-confirmed check
// and the mutation share one critical section, so of any number of
// concurrent calls exactly one observes firstConfirm=true; the rest get the
// already-confirmed record back. Side effects (slot reservation, email,
// write-back) belong to the firstConfirm caller only.
func (l *BookingLedger) ConfirmPayment(orderID, paymentID string) (models.Booking, bool, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	b := l.findByOrderIDLocked(orderID)
	if b == nil {
		return models.Booking{}, false, false
	}
	if b.PaymentStatus == models.PaymentStatusSuccess {
		return *b, false, true
	}

	b.RazorpayPaymentID = paymentID
	b.PaymentStatus = models.PaymentStatusSuccess
	b.BookingStatus = models.BookingStatusConfirmed
	b.UpdatedAt = time.Now()
	return *b, true, true
}

// MarkFailed records a payment failure. The booking status stays pending so
// the customer can retry with a fresh order.
func (l *BookingLedger) MarkFailed(orderID string) (models.Booking, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	b := l.findByOrderIDLocked(orderID)
	if b == nil {
		return models.Booking{}, false
	}
	b.PaymentStatus = models.PaymentStatusFailed
	b.UpdatedAt = time.Now()
	return *b, true
}
