package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"os"
)

// Mailer delivers one-time passwords to users. Kept as an interface so
// services can be tested without a mail server.
type Mailer interface {
	SendOTP(ctx context.Context, to string, otp int) error
}

type smtpMailer struct {
	host string
	port string
	from string
	pass string
}

// NewSMTPMailer reads SMTP settings from the environment
// (SMTP_HOST, SMTP_PORT, SMTP_FROM, SMTP_PASSWORD).
func NewSMTPMailer() Mailer {
	return &smtpMailer{
		host: os.Getenv("SMTP_HOST"),
		port: os.Getenv("SMTP_PORT"),
		from: os.Getenv("SMTP_FROM"),
		pass: os.Getenv("SMTP_PASSWORD"),
	}
}

func (m *smtpMailer) SendOTP(_ context.Context, to string, otp int) error {
	if m.host == "" {
		return fmt.Errorf("smtp not configured")
	}

	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: Your verification code\r\n\r\nYour one-time password is %06d. It is valid for a single use.\r\n",
		m.from, to, otp))

	auth := smtp.PlainAuth("", m.from, m.pass, m.host)
	addr := m.host + ":" + m.port
	if err := smtp.SendMail(addr, auth, m.from, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}
	return nil
}
