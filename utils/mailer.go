package utils

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"

	"github.com/aquadrop/commission_backend/models"
)

// SendWithdrawalOutcomeEmail notifies an earner that an operator processed
// their withdrawal request. SMTP settings come from the environment; if
// they are missing the caller is expected to log and continue, settlement
// itself never depends on email delivery.
func SendWithdrawalOutcomeEmail(toEmail, fullName string, request models.WithdrawalRequest) error {
	smtpHost := os.Getenv("SMTP_HOST")
	smtpUser := os.Getenv("SMTP_USER")
	smtpPass := os.Getenv("SMTP_PASS")
	fromEmail := os.Getenv("SMTP_FROM")
	if fromEmail == "" {
		fromEmail = smtpUser
	}

	smtpPort := 587
	if portStr := os.Getenv("SMTP_PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil {
			smtpPort = port
		}
	}

	if smtpHost == "" || smtpUser == "" {
		return fmt.Errorf("SMTP configuration is incomplete")
	}

	var subject, outcomeLine string
	switch request.Status {
	case models.WithdrawalStatusApproved:
		subject = "Your withdrawal request was approved"
		outcomeLine = fmt.Sprintf("Your withdrawal request %s for $%.2f has been approved and is on its way.",
			request.Reference, request.TotalAmount)
	case models.WithdrawalStatusRejected:
		subject = "Your withdrawal request was rejected"
		outcomeLine = fmt.Sprintf("Your withdrawal request %s for $%.2f was rejected. The amount has been returned to your pending balance.",
			request.Reference, request.TotalAmount)
	default:
		return fmt.Errorf("withdrawal request %s is not settled", request.Reference)
	}

	body := fmt.Sprintf(`
		<html>
		<body>
			<h2>Withdrawal Update</h2>
			<p>Hello %s,</p>
			<p>%s</p>
			<p>If you have any questions, reply to this email and our support team will help.</p>
			<p>Thank you,<br>The AquaDrop Team</p>
		</body>
		</html>
	`, fullName, outcomeLine)

	m := gomail.NewMessage()
	m.SetHeader("From", fromEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPass)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}

	return nil
}
