package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/quangdo/shopcart-api/internal/adapter/queue"
	"github.com/quangdo/shopcart-api/internal/usecase"
)

// SMTPMailer delivers order emails through a plain SMTP relay. Callers treat
// every send as best-effort; this type only reports errors, it never retries.
type SMTPMailer struct {
	addr     string // host:port
	auth     smtp.Auth
	from     string
	opsEmail string
}

func NewSMTPMailer(host string, port int, username, password, from, opsEmail string) *SMTPMailer {
	var auth smtp.Auth
	if username != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}
	return &SMTPMailer{
		addr:     fmt.Sprintf("%s:%d", host, port),
		auth:     auth,
		from:     from,
		opsEmail: opsEmail,
	}
}

func (m *SMTPMailer) SendOrderConfirmation(ctx context.Context, msg usecase.OrderCreatedMsg) error {
	subject := fmt.Sprintf("Order %s confirmed", msg.OrderNumber)
	body := fmt.Sprintf(
		"Thanks for your order!\r\n\r\nOrder number: %s\r\nItems: %d\r\nTotal: %s\r\n\r\nWe'll let you know when it ships.\r\n",
		msg.OrderNumber, msg.ItemCount, formatAmount(msg.TotalCents, msg.Currency))

	if err := m.send(ctx, msg.Email, subject, body); err != nil {
		return err
	}

	// ops copy; piggybacks on the same best-effort contract
	if m.opsEmail != "" {
		opsBody := fmt.Sprintf("New order %s from user %s: %s\r\n",
			msg.OrderNumber, msg.UserID, formatAmount(msg.TotalCents, msg.Currency))
		return m.send(ctx, m.opsEmail, "New order "+msg.OrderNumber, opsBody)
	}
	return nil
}

func (m *SMTPMailer) SendOrderStatusUpdate(ctx context.Context, msg usecase.OrderStatusMsg) error {
	subject := fmt.Sprintf("Order %s is now %s", msg.OrderNumber, msg.Status)
	var b strings.Builder
	fmt.Fprintf(&b, "Your order %s is now %s.\r\n", msg.OrderNumber, msg.Status)
	if msg.TrackingNumber != "" {
		fmt.Fprintf(&b, "Tracking number: %s\r\n", msg.TrackingNumber)
	}
	if msg.CancelReason != "" {
		fmt.Fprintf(&b, "Reason: %s\r\n", msg.CancelReason)
	}
	return m.send(ctx, msg.Email, subject, b.String())
}

func (m *SMTPMailer) send(ctx context.Context, to, subject, body string) error {
	if to == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s",
		m.from, to, subject, body)
	return smtp.SendMail(m.addr, m.auth, m.from, []string{to}, []byte(msg))
}

func formatAmount(cents int64, currency string) string {
	return fmt.Sprintf("%d.%02d %s", cents/100, cents%100, currency)
}

var _ queue.Mailer = (*SMTPMailer)(nil)
