// Package mailer sends transactional email over SMTP.
package mailer

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"
)

var ErrDisabled = errors.New("mailer: smtp is not configured")

type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTP(host string, port int, user, pass string) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, user, pass),
		from:   user,
	}
}

// Send delivers an HTML email.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)
	return m.dialer.DialAndSend(msg)
}

// Disabled is used when SMTP_HOST is empty. It logs and reports ErrDisabled.
type Disabled struct {
	Log zerolog.Logger
}

func (d Disabled) Send(_ context.Context, to, subject, _ string) error {
	d.Log.Warn().Str("to", to).Str("subject", subject).Msg("email not sent, smtp disabled")
	return ErrDisabled
}

// New picks the SMTP mailer when host is set.
func New(host string, port int, user, pass string, log zerolog.Logger) Mailer {
	if host == "" {
		return Disabled{Log: log}
	}
	return NewSMTP(host, port, user, pass)
}
