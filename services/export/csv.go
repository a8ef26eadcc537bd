package export

import (
	"fmt"
	"strings"
	"time"

	"theeyouspace/models"
)

// BOM makes spreadsheet apps detect UTF-8 in the downloaded file.
const BOM = "\uFEFF"

var headers = []string{
	"Booking ID",
	"Session Type",
	"Name",
	"Email",
	"Phone",
	"Date",
	"Time",
	"Base Amount (INR)",
	"Platform Fee (INR)",
	"Total Amount (INR)",
	"Payment Method",
	"Payment Status",
	"Booking Status",
	"Razorpay Order ID",
	"Razorpay Payment ID",
	"Created At",
	"Updated At",
}

// BookingsCSV renders the ledger as comma-separated text with the fixed
// 17-column header. Amounts stored in paise are rendered in rupees with two
// decimals; fields containing commas or quotes are quoted with internal
// quotes doubled. The BOM prefix is added by the HTTP layer.
func BookingsCSV(bookings []models.Booking) string {
	lines := make([]string, 0, len(bookings)+1)
	lines = append(lines, strings.Join(headers, ","))

	for _, b := range bookings {
		row := []string{
			b.ID,
			b.SessionType,
			b.Name,
			b.Email,
			b.Phone,
			b.SelectedSlot.Date,
			b.SelectedSlot.Time,
			paiseToRupees(b.Pricing.BaseAmount),
			paiseToRupees(b.Pricing.PlatformFee),
			paiseToRupees(b.Pricing.TotalAmount),
			b.PaymentMethod,
			b.PaymentStatus,
			b.BookingStatus,
			b.RazorpayOrderID,
			b.RazorpayPaymentID,
			b.CreatedAt.Format(time.RFC3339),
			b.UpdatedAt.Format(time.RFC3339),
		}
		for i, field := range row {
			row[i] = escapeField(field)
		}
		lines = append(lines, strings.Join(row, ","))
	}

	return strings.Join(lines, "\n")
}

func paiseToRupees(paise int64) string {
	return fmt.Sprintf("%.2f", float64(paise)/100)
}

func escapeField(field string) string {
	if strings.ContainsAny(field, ",\"") {
		return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
	}
	return field
}
