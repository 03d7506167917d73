package services

import (
	"errors"
	"fmt"
	"net/smtp"
)

// SMTPConfig holds outbound mail settings. An empty Host disables mail.
type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// Mailer sends plain-text mail over SMTP. Delivery is best-effort; callers
// run it in a goroutine and log failures.
type Mailer struct {
	config SMTPConfig
}

func NewMailer(config SMTPConfig) *Mailer {
	return &Mailer{config: config}
}

// Send delivers a plain-text message to a single recipient.
func (m *Mailer) Send(to, subject, body string) error {
	if m.config.Host == "" || m.config.Port == "" ||
		m.config.Username == "" || m.config.Password == "" {
		return errors.New("SMTP not fully configured")
	}

	auth := smtp.PlainAuth("", m.config.Username, m.config.Password, m.config.Host)

	from := m.config.From
	if from == "" {
		from = m.config.Username
	}

	message := fmt.Sprintf("From: %s\nTo: %s\nSubject: %s\n\n%s", from, to, subject, body)

	addr := fmt.Sprintf("%s:%s", m.config.Host, m.config.Port)
	if err := smtp.SendMail(addr, auth, from, []string{to}, []byte(message)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
