package email

// Attachment - вложение письма
type Attachment struct {
	Name        string
	Content     []byte
	ContentType string
}

// Email - сообщение; HTMLBody имеет приоритет над Body
type Email struct {
	From        string
	To          []string
	Cc          []string
	Bcc         []string
	Subject     string
	Body        string
	HTMLBody    string
	Attachments []Attachment
}

// TemplateData - данные для шаблонов писем
type TemplateData map[string]interface{}
