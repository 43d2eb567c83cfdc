package email

// Provider sends transactional mail to athletes.
type Provider interface {
	Send(to, subject, body string) error
}

// NoopProvider is used when email is disabled in config and in tests.
type NoopProvider struct{}

func NewNoopProvider() Provider {
	return &NoopProvider{}
}

func (p *NoopProvider) Send(to, subject, body string) error {
	return nil
}
