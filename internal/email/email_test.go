package email

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workout_scheduler/internal/config"
)

func TestDefaultTemplates_ConfirmationCode(t *testing.T) {
	tm, err := NewDefaultTemplateManager("")
	require.NoError(t, err)
	assert.Contains(t, tm.TemplateNames(), TemplateConfirmationCode)

	body, err := tm.Render(TemplateConfirmationCode, TemplateData{
		"Username":       "athlete",
		"Code":           54321,
		"ExpiresInHours": 2,
	})
	require.NoError(t, err)
	assert.Contains(t, body, "Hi athlete,")
	assert.Contains(t, body, "<strong>54321</strong>")
	assert.Contains(t, body, "expires in 2 hours")
}

func TestTemplates_MissingKeyFails(t *testing.T) {
	tm, err := NewDefaultTemplateManager("")
	require.NoError(t, err)

	_, err = tm.Render(TemplateConfirmationCode, TemplateData{"Username": "athlete"})
	assert.Error(t, err)

	_, err = tm.Render("unknown", TemplateData{})
	assert.ErrorContains(t, err, "template not found")
}

func TestTemplates_OverrideDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "confirmation_code.html"), []byte("code={{.Code}}"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o600))

	tm, err := NewDefaultTemplateManager(dir)
	require.NoError(t, err)

	body, err := tm.Render(TemplateConfirmationCode, TemplateData{"Code": 12345})
	require.NoError(t, err)
	assert.Equal(t, "code=12345", body)
	assert.Equal(t, []string{TemplateConfirmationCode}, tm.TemplateNames())
}

func TestNewProvider(t *testing.T) {
	cfg := config.Default()
	cfg.Email.Enabled = false

	provider, err := NewProvider(cfg)
	require.NoError(t, err)
	require.IsType(t, &NoopProvider{}, provider)
	assert.NoError(t, provider.SendTemplate([]string{"a@example.com"}, SubjectConfirmation, TemplateConfirmationCode, TemplateData{
		"Username": "a", "Code": 11111, "ExpiresInHours": 2,
	}))

	cfg.Email.Enabled = true
	cfg.Email.SMTPHost = "smtp.example.com"
	_, err = NewProvider(cfg)
	assert.ErrorContains(t, err, "from email is required")

	cfg.Email.FromEmail = "no-reply@example.com"
	provider, err = NewProvider(cfg)
	require.NoError(t, err)
	assert.IsType(t, &SMTPProvider{}, provider)
}

func TestSMTPProvider_RequiresRecipients(t *testing.T) {
	tm, err := NewDefaultTemplateManager("")
	require.NoError(t, err)
	p := NewSMTPProvider(&SMTPConfig{Host: "localhost", Port: 25, FromEmail: "x@example.com"}, tm)

	assert.ErrorContains(t, p.Send(&Email{Subject: "hi"}), "no recipients")
}
