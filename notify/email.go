package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// EmailNotifier delivers alerts over plain SMTP.
type EmailNotifier struct {
	host string
	port string
	from string
	auth smtp.Auth
}

func NewEmailNotifier(host, port, from, username, password string) *EmailNotifier {
	var auth smtp.Auth
	if username != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}
	return &EmailNotifier{host: host, port: port, from: from, auth: auth}
}

func (e *EmailNotifier) Send(ctx context.Context, contact, subject, body string) error {
	if e.host == "" {
		return fmt.Errorf("smtp host not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", e.from)
	fmt.Fprintf(&msg, "To: %s\r\n", contact)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("\r\n")
	msg.WriteString(body)

	addr := e.host + ":" + e.port
	if err := smtp.SendMail(addr, e.auth, e.from, []string{contact}, []byte(msg.String())); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
