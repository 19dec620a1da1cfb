package email

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/passport/internal/core/ports"
)

// SMTPSender delivers mail over a plain SMTP relay. The message id it
// returns is generated locally; SMTP has no delivery receipt.
type SMTPSender struct {
	addr string
	auth smtp.Auth
	from string
}

func NewSMTPSender(addr, username, password, from string) ports.EmailSender {
	var auth smtp.Auth
	if username != "" {
		host := addr
		if idx := strings.IndexByte(addr, ':'); idx >= 0 {
			host = addr[:idx]
		}
		auth = smtp.PlainAuth("", username, password, host)
	}
	return &SMTPSender{addr: addr, auth: auth, from: from}
}

func (s *SMTPSender) Send(ctx context.Context, email ports.Email) (string, error) {
	messageID := uuid.New().String()

	var msg strings.Builder
	boundary := "passport-" + messageID
	fmt.Fprintf(&msg, "From: %s\r\n", s.from)
	fmt.Fprintf(&msg, "To: %s\r\n", email.To)
	fmt.Fprintf(&msg, "Subject: %s\r\n", email.Subject)
	fmt.Fprintf(&msg, "Message-ID: <%s>\r\n", messageID)
	fmt.Fprintf(&msg, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&msg, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", boundary)
	fmt.Fprintf(&msg, "--%s\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n", boundary, email.Text)
	fmt.Fprintf(&msg, "--%s\r\nContent-Type: text/html; charset=utf-8\r\n\r\n%s\r\n", boundary, email.HTML)
	fmt.Fprintf(&msg, "--%s--\r\n", boundary)

	if err := smtp.SendMail(s.addr, s.auth, s.from, []string{email.To}, []byte(msg.String())); err != nil {
		return "", fmt.Errorf("failed to send email: %w", err)
	}

	return messageID, nil
}
