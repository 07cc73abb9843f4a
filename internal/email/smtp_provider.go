package email

import (
	"crypto/tls"
	"errors"
	"fmt"
	"io"

	"gopkg.in/gomail.v2"

	"workout_scheduler/internal/logger"
)

// SMTPProvider отправляет письма через gomail
type SMTPProvider struct {
	config   *SMTPConfig
	renderer TemplateRenderer
	dialer   *gomail.Dialer
}

func NewSMTPProvider(cfg *SMTPConfig, renderer TemplateRenderer) *SMTPProvider {
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	if !cfg.UseTLS {
		dialer.TLSConfig = &tls.Config{ServerName: cfg.Host, InsecureSkipVerify: true}
	}
	return &SMTPProvider{
		config:   cfg,
		renderer: renderer,
		dialer:   dialer,
	}
}

func (p *SMTPProvider) Validate() error {
	if p.config.Host == "" {
		return errors.New("smtp host is required")
	}
	if p.config.Port <= 0 {
		return errors.New("smtp port must be positive")
	}
	if p.config.FromEmail == "" {
		return errors.New("from email is required")
	}
	return nil
}

func (p *SMTPProvider) Send(email *Email) error {
	if len(email.To) == 0 {
		return errors.New("email has no recipients")
	}

	m := p.buildMessage(email)
	if err := p.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (p *SMTPProvider) buildMessage(email *Email) *gomail.Message {
	m := gomail.NewMessage()

	from := email.From
	if from == "" {
		from = m.FormatAddress(p.config.FromEmail, p.config.FromName)
	}
	m.SetHeader("From", from)
	m.SetHeader("To", email.To...)
	if len(email.Cc) > 0 {
		m.SetHeader("Cc", email.Cc...)
	}
	if len(email.Bcc) > 0 {
		m.SetHeader("Bcc", email.Bcc...)
	}
	m.SetHeader("Subject", email.Subject)

	switch {
	case email.HTMLBody != "" && email.Body != "":
		m.SetBody("text/plain", email.Body)
		m.AddAlternative("text/html", email.HTMLBody)
	case email.HTMLBody != "":
		m.SetBody("text/html", email.HTMLBody)
	default:
		m.SetBody("text/plain", email.Body)
	}

	for _, att := range email.Attachments {
		content := att.Content
		m.Attach(att.Name,
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(content)
				return err
			}),
			gomail.SetHeader(map[string][]string{"Content-Type": {att.ContentType}}),
		)
	}
	return m
}

func (p *SMTPProvider) SendWithTemplate(templateName string, data TemplateData, email *Email) error {
	body, err := p.renderer.Render(templateName, data)
	if err != nil {
		return err
	}
	email.HTMLBody = body
	return p.Send(email)
}

func (p *SMTPProvider) SendTemplate(to []string, subject string, templateName string, data TemplateData) error {
	err := p.SendWithTemplate(templateName, data, &Email{To: to, Subject: subject})
	logger.MailLog(templateName, to, err)
	return err
}

// Close - gomail открывает соединение на каждую отправку, держать нечего
func (p *SMTPProvider) Close() error {
	return nil
}
