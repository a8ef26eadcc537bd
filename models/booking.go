package models

import "time"

// Session types.
const (
	SessionTypeNormal   = "normal"
	SessionTypePriority = "priority"
)

// Payment statuses.
const (
	PaymentStatusPending  = "pending"
	PaymentStatusSuccess  = "success"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

// Booking statuses.
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
)

// Payment methods.
const (
	PaymentMethodCard = "card"
	PaymentMethodUPI  = "upi"
)

// Pricing is the snapshot captured at order-creation time. It is never
// recomputed afterwards, so a price-table change cannot invalidate an
// in-flight payment.
type Pricing struct {
	BaseAmount    int64  `json:"baseAmount"`    // paise
	PlatformFee   int64  `json:"platformFee"`   // paise
	TotalAmount   int64  `json:"totalAmount"`   // paise, charged via Razorpay
	DisplayAmount int64  `json:"displayAmount"` // rupees, shown to the customer
	Currency      string `json:"currency"`
}

// SelectedSlot references a slot by value (date/time/professional display
// strings), not by slot ID, since slot IDs change on every sheet sync.
type SelectedSlot struct {
	Professional string `json:"professional,omitempty"`
	Date         string `json:"date"`
	Time         string `json:"time"`
}

// Booking is one customer's request for a slot plus its payment and
// confirmation lifecycle record. Bookings are append-only; they are mutated
// by verification or failure reports but never deleted.
type Booking struct {
	ID                string       `json:"id"`
	SessionType       string       `json:"sessionType"`
	Name              string       `json:"name"`
	Email             string       `json:"email"`
	Phone             string       `json:"phone,omitempty"`
	SelectedSlot      SelectedSlot `json:"selectedSlot"`
	Pricing           Pricing      `json:"pricing"`
	PaymentMethod     string       `json:"paymentMethod"`
	RazorpayOrderID   string       `json:"razorpayOrderId,omitempty"`
	RazorpayPaymentID string       `json:"razorpayPaymentId,omitempty"`
	PaymentStatus     string       `json:"paymentStatus"`
	BookingStatus     string       `json:"bookingStatus"`
	CreatedAt         time.Time    `json:"createdAt"`
	UpdatedAt         time.Time    `json:"updatedAt"`
}

// CreateOrderRequest is the booking-creation contract consumed from the
// HTTP layer.
type CreateOrderRequest struct {
	SessionType   string       `json:"sessionType" binding:"required"`
	Name          string       `json:"name" binding:"required"`
	Email         string       `json:"email" binding:"required,email"`
	Phone         string       `json:"phone"`
	SelectedSlot  SelectedSlot `json:"selectedSlot" binding:"required"`
	PaymentMethod string       `json:"paymentMethod" binding:"required"`
}

// OrderResponse carries the gateway order details the frontend needs to
// open the checkout.
type OrderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Key      string `json:"key"`
}

// VerifyPaymentRequest is the payment-verification contract.
type VerifyPaymentRequest struct {
	OrderID   string `json:"orderId" binding:"required"`
	PaymentID string `json:"paymentId" binding:"required"`
	Signature string `json:"signature" binding:"required"`
}
