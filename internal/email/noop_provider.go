package email

import (
	"workout_scheduler/internal/logger"
)

// NoopProvider рендерит шаблон и пишет письмо в лог вместо отправки
type NoopProvider struct {
	renderer TemplateRenderer
}

func NewNoopProvider(renderer TemplateRenderer) *NoopProvider {
	return &NoopProvider{renderer: renderer}
}

func (p *NoopProvider) Send(email *Email) error {
	logger.Info("email delivery disabled, message dropped",
		"to", email.To,
		"subject", email.Subject,
	)
	return nil
}

func (p *NoopProvider) SendWithTemplate(templateName string, data TemplateData, email *Email) error {
	body, err := p.renderer.Render(templateName, data)
	if err != nil {
		return err
	}
	email.HTMLBody = body
	return p.Send(email)
}

func (p *NoopProvider) SendTemplate(to []string, subject string, templateName string, data TemplateData) error {
	return p.SendWithTemplate(templateName, data, &Email{To: to, Subject: subject})
}

func (p *NoopProvider) Validate() error { return nil }

func (p *NoopProvider) Close() error { return nil }
