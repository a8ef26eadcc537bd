package notification

import (
	"fmt"

	"theeyouspace/models"
	"theeyouspace/utils"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// EmailService sends the booking confirmation over SMTP. Sending is best
// effort: a failure is logged and must never revert a confirmed booking.
type EmailService struct {
	dialer *gomail.Dialer
	from   string
	user   string
	logger *zap.Logger
}

func NewEmailService(host string, port int, user, pass, from string) *EmailService {
	s := &EmailService{
		user:   user,
		from:   from,
		logger: utils.GetLogger(),
	}
	if from == "" && user != "" {
		s.from = fmt.Sprintf("Thee You Space <%s>", user)
	}
	if host != "" && user != "" {
		s.dialer = gomail.NewDialer(host, port, user, pass)
	}
	return s
}

// SendBookingConfirmation emails the customer their session details after
// payment verification.
func (s *EmailService) SendBookingConfirmation(b models.Booking) error {
	if s.dialer == nil {
		s.logger.Info("SMTP not configured — skipping confirmation email", zap.String("booking", b.ID))
		return nil
	}
	if b.Email == "" {
		s.logger.Warn("No email address on booking — skipping confirmation", zap.String("booking", b.ID))
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", b.Email)
	m.SetHeader("Subject", "Your session is confirmed — Thee You Space")
	m.SetBody("text/html", confirmationHTML(b, s.user))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send confirmation to %s: %w", b.Email, err)
	}

	s.logger.Info("Confirmation email sent",
		zap.String("booking", b.ID),
		zap.String("to", b.Email),
	)
	return nil
}

func confirmationHTML(b models.Booking, contact string) string {
	sessionLabel := "Regular Session"
	if b.SessionType == models.SessionTypePriority {
		sessionLabel = "Priority Session"
	}

	professionalRow := ""
	if b.SelectedSlot.Professional != "" && b.SelectedSlot.Professional != models.GeneralGroup {
		professionalRow = detailRow("Professional", b.SelectedSlot.Professional)
	}

	return fmt.Sprintf(`
  <div style="font-family: Georgia, serif; max-width: 600px; margin: 0 auto; padding: 2rem; background-color: #FDFBF7; color: #2A2520;">
    <div style="margin-bottom: 2rem;">
      <h1 style="font-size: 1.75rem; font-weight: 400; margin: 0 0 0.25rem;">Your session is confirmed</h1>
      <p style="margin: 0; font-size: 0.9rem; color: #8a7d70;">Booking ID: %s</p>
    </div>
    <p style="font-size: 1.05rem; line-height: 1.75; color: #5A5248;">
      Hi %s,<br><br>
      We're looking forward to meeting you. Here are your session details:
    </p>
    <div style="background-color: #FFFFFF; padding: 1.5rem; border-radius: 12px; border: 1px solid #E8E0D6;">
      <table style="width: 100%%; border-collapse: collapse;">
        %s%s%s%s
      </table>
    </div>
    <p style="font-size: 0.95rem; line-height: 1.75; color: #5A5248;">
      If you need to reschedule or have any questions, reply to this email or reach us at
      <a href="mailto:%s" style="color: #7a6e6b;">%s</a>.
    </p>
    <p style="font-size: 0.95rem; line-height: 1.75; color: #5A5248; margin: 0;">
      Take care,<br><strong>Thee You Space</strong><br>
      <em style="font-size: 0.85rem; color: #8a7d70;">where You Open Up</em>
    </p>
  </div>`,
		b.ID,
		b.Name,
		detailRow("Session type", sessionLabel),
		professionalRow,
		detailRow("Date", b.SelectedSlot.Date)+detailRow("Time", b.SelectedSlot.Time),
		detailRow("Amount paid", fmt.Sprintf("₹%d", b.Pricing.DisplayAmount)),
		contact, contact,
	)
}

func detailRow(label, value string) string {
	return fmt.Sprintf(`<tr>
      <td style="padding: 0.45rem 0; font-size: 0.95rem; color: #8a7d70; width: 140px;">%s</td>
      <td style="padding: 0.45rem 0; font-size: 0.95rem; color: #2A2520; font-weight: 500;">%s</td>
    </tr>`, label, value)
}
