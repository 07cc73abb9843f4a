package helpers

import (
	"fmt"
	"sync"

	"workout_scheduler/internal/email"
)

// MockEmailProvider запоминает письма вместо отправки; подставляется в роутер интеграционных тестов.
type MockEmailProvider struct {
	mu   sync.Mutex
	Sent []SentTemplate
	Err  error
}

type SentTemplate struct {
	To       []string
	Subject  string
	Template string
	Data     email.TemplateData
}

func (m *MockEmailProvider) Send(*email.Email) error { return m.Err }
func (m *MockEmailProvider) SendWithTemplate(templateName string, data email.TemplateData, emailMsg *email.Email) error {
	return m.SendTemplate(emailMsg.To, emailMsg.Subject, templateName, data)
}
func (m *MockEmailProvider) SendTemplate(to []string, subject string, templateName string, data email.TemplateData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, SentTemplate{To: to, Subject: subject, Template: templateName, Data: data})
	return nil
}
func (m *MockEmailProvider) Validate() error { return nil }
func (m *MockEmailProvider) Close() error    { return nil }

// Last - последнее отправленное письмо
func (m *MockEmailProvider) Last() (SentTemplate, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Sent) == 0 {
		return SentTemplate{}, false
	}
	return m.Sent[len(m.Sent)-1], true
}

// LastCode - код подтверждения из последнего письма
func (m *MockEmailProvider) LastCode() (string, bool) {
	sent, ok := m.Last()
	if !ok {
		return "", false
	}
	code, ok := sent.Data["Code"]
	if !ok {
		return "", false
	}
	return fmt.Sprint(code), true
}
