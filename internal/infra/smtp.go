package infra

import (
	"fmt"
	"net/smtp"

	"batchtrace/internal/config"

	"github.com/jordan-wright/email"
)

// Mailer sends plain-text notification mail. The production implementation
// talks SMTP; tests substitute a recording stub.
type Mailer interface {
	Send(to []string, subject, body string) error
}

type smtpMailer struct {
	host string
	port int
	user string
	pass string
	from string
}

func NewSMTPMailer(cfg *config.Config) Mailer {
	return &smtpMailer{
		host: cfg.SMTPHost,
		port: cfg.SMTPPort,
		user: cfg.SMTPUser,
		pass: cfg.SMTPPassword,
		from: cfg.SMTPFrom,
	}
}

func (m *smtpMailer) Send(to []string, subject, body string) error {
	e := email.NewEmail()
	e.From = m.from
	e.To = to
	e.Subject = subject
	e.Text = []byte(body)

	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.pass, m.host)
	}
	return e.Send(addr, auth)
}
