package notifications

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"smart_wallet/internal/repositories"
	"smart_wallet/pkg/utils"
)

// EmailSender delivers notifications over SMTP, resolving recipient
// addresses through the user repository. Without SMTP_HOST configured it
// degrades to log-only delivery so the ledger never depends on a mail server.
type EmailSender struct {
	users repositories.UserRepository
	log   *logrus.Entry
}

func NewEmailSender(users repositories.UserRepository) *EmailSender {
	return &EmailSender{
		users: users,
		log:   utils.Logger.WithField("component", "email"),
	}
}

func (s *EmailSender) DeliverNotification(userID, subject, body string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to resolve recipient: %w", err)
	}
	if user == nil || user.Email == "" {
		return fmt.Errorf("no email address for user %s", userID)
	}

	if os.Getenv("SMTP_HOST") == "" {
		s.log.WithFields(logrus.Fields{
			"to":      user.Email,
			"subject": subject,
		}).Info("SMTP not configured, logging notification instead")
		return nil
	}

	return utils.SendEmail(user.Email, subject, notificationEmailBody(user.Username, body))
}

func (s *EmailSender) DeliverPaymentEvent(event PaymentEvent) error {
	if event.Email == "" {
		return fmt.Errorf("no email address on payment event for user %s", event.UserID)
	}

	subject := "Payment processed"
	body := paymentEmailBody(event)

	if os.Getenv("SMTP_HOST") == "" {
		s.log.WithFields(logrus.Fields{
			"to":     event.Email,
			"amount": event.Amount.StringFixed(2),
		}).Info("SMTP not configured, logging payment event instead")
		return nil
	}

	return utils.SendEmail(event.Email, subject, body)
}

func notificationEmailBody(username, message string) string {
	return fmt.Sprintf(`
	<html>
	<body style="font-family: 'Segoe UI', Roboto, Arial, sans-serif; color: #333;">
		<p>Hi %s,</p>
		<p>%s</p>
		<p style="color: #777; font-size: 12px;">&copy; %d Smart Wallet</p>
	</body>
	</html>`, username, message, time.Now().Year())
}

func paymentEmailBody(event PaymentEvent) string {
	return fmt.Sprintf(`
	<html>
	<body style="font-family: 'Segoe UI', Roboto, Arial, sans-serif; color: #333;">
		<p>Hi there,</p>
		<p>Your payment of <b>%s EUR</b> was processed on %s.</p>
		<p>You can review this charge in your wallet history on <b>Smart Wallet</b>.</p>
		<p style="color: #777; font-size: 12px;">&copy; %d Smart Wallet</p>
	</body>
	</html>`, event.Amount.StringFixed(2), event.PaymentTime.Format("3:04 PM, Jan 2 2006"), time.Now().Year())
}
