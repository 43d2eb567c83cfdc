package email

import (
	"academy_backend/internal/config"

	"gopkg.in/gomail.v2"
)

type SMTPProvider struct {
	cfg *config.Config
}

func NewSMTPProvider(cfg *config.Config) Provider {
	return &SMTPProvider{cfg: cfg}
}

func (p *SMTPProvider) Send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(p.cfg.Email.FromEmail, p.cfg.Email.FromName))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(
		p.cfg.Email.SMTPHost,
		p.cfg.Email.SMTPPort,
		p.cfg.Email.SMTPUsername,
		p.cfg.Email.SMTPPassword,
	)

	return d.DialAndSend(m)
}

// NewProvider returns the SMTP provider when email is enabled, or a
// noop provider otherwise.
func NewProvider(cfg *config.Config) Provider {
	if !cfg.Email.Enabled {
		return NewNoopProvider()
	}
	return NewSMTPProvider(cfg)
}
