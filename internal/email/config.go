package email

import (
	"time"

	"workout_scheduler/internal/config"
)

// SMTPConfig содержит конфигурацию SMTP сервера
type SMTPConfig struct {
	Host         string
	Port         int
	Username     string
	Password     string
	FromEmail    string
	FromName     string
	UseTLS       bool
	Timeout      time.Duration
	TemplatesDir string
}

// DefaultConfig возвращает конфигурацию по умолчанию
func DefaultConfig() *SMTPConfig {
	return &SMTPConfig{
		Host:    "localhost",
		Port:    587,
		UseTLS:  true,
		Timeout: 30 * time.Second,
	}
}

// ConfigFromApp переносит секцию email из конфигурации приложения
func ConfigFromApp(cfg *config.Config) *SMTPConfig {
	c := DefaultConfig()
	c.Host = cfg.Email.SMTPHost
	if cfg.Email.SMTPPort != 0 {
		c.Port = cfg.Email.SMTPPort
	}
	c.Username = cfg.Email.SMTPUsername
	c.Password = cfg.Email.SMTPPassword
	c.FromEmail = cfg.Email.FromEmail
	c.FromName = cfg.Email.FromName
	c.UseTLS = cfg.Email.UseTLS
	c.TemplatesDir = cfg.Email.TemplatesDir
	return c
}

// NewProvider - SMTP, либо NoopProvider если почта выключена
func NewProvider(cfg *config.Config) (Provider, error) {
	templates, err := NewDefaultTemplateManager(cfg.Email.TemplatesDir)
	if err != nil {
		return nil, err
	}
	if !cfg.Email.Enabled {
		return NewNoopProvider(templates), nil
	}
	provider := NewSMTPProvider(ConfigFromApp(cfg), templates)
	if err := provider.Validate(); err != nil {
		return nil, err
	}
	return provider, nil
}
