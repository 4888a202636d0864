package mailer

import (
	"crypto/tls"
	"fmt"
	"net/smtp"

	"go.uber.org/zap"
)

// Mailer delivers outbound mail. Delivery is best-effort: callers must never
// let a send failure roll back the state transition that triggered it.
type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer sends HTML mail over implicit TLS (port 465).
type SMTPMailer struct {
	host     string
	port     string
	username string
	password string
	sender   string
}

// NewSMTPMailer creates a mailer bound to one SMTP account.
func NewSMTPMailer(host, port, username, password, sender string) *SMTPMailer {
	return &SMTPMailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		sender:   sender,
	}
}

// Send delivers one message synchronously.
func (m *SMTPMailer) Send(to, subject, body string) error {
	msg := []byte(
		fmt.Sprintf("From: %s <%s>\r\n", m.sender, m.username) +
			fmt.Sprintf("To: %s\r\n", to) +
			fmt.Sprintf("Subject: %s\r\n", subject) +
			"MIME-Version: 1.0\r\n" +
			"Content-Type: text/html; charset=\"utf-8\"\r\n" +
			"\r\n" +
			body,
	)

	addr := m.host + ":" + m.port
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: m.host})
	if err != nil {
		return fmt.Errorf("dial smtp: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, m.host)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	defer client.Quit()

	auth := smtp.PlainAuth("", m.username, m.password, m.host)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}
	if err := client.Mail(m.username); err != nil {
		return fmt.Errorf("smtp mail: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("smtp rcpt: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("smtp write: %w", err)
	}
	return w.Close()
}

// LogMailer logs mail instead of sending it. Used in development and when no
// SMTP host is configured.
type LogMailer struct {
	log *zap.Logger
}

// NewLogMailer creates a mailer that only logs.
func NewLogMailer(log *zap.Logger) *LogMailer {
	return &LogMailer{log: log}
}

// Send logs the message and succeeds.
func (m *LogMailer) Send(to, subject, body string) error {
	m.log.Info("mail (log only)", zap.String("to", to), zap.String("subject", subject))
	return nil
}
