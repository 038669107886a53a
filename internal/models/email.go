package models

// Типы шаблонов письма по умолчанию.
const (
	EmailTemplateCard    = "scheda"
	EmailTemplateReceipt = "ricevuta"
)

// EmailRequest тело запроса отправки письма.
type EmailRequest struct {
	RecipientEmail string `json:"recipientEmail" validate:"required,mail,max=255"`
	RecipientName  string `json:"recipientName" validate:"required,max=255"`
	Subject        string `json:"subject" validate:"required,max=255"`
	CustomMessage  bool   `json:"customMessage"`
	HTMLContent    string `json:"htmlContent"`
	TextContent    string `json:"textContent"`
	PDFBase64      string `json:"pdfBase64"`
	FileName       string `json:"fileName" validate:"max=255"`
	Template       string `json:"template" validate:"omitempty,oneof=scheda ricevuta"`
	IsScheda       bool   `json:"isScheda"`
	NumeroRicevuta string `json:"ricevutaNumber" validate:"max=50"`
}

// TemplateName возвращает шаблон письма: scheda или ricevuta.
func (r EmailRequest) TemplateName() string {
	if r.Template == EmailTemplateCard || r.IsScheda {
		return EmailTemplateCard
	}
	return EmailTemplateReceipt
}

// EmailResult ответ отправки письма.
type EmailResult struct {
	MessageID string `json:"messageId"`
	Message   string `json:"message"`
}

// Attachment вложение письма.
type Attachment struct {
	FileName    string
	ContentType string
	Data        []byte
}

// Email готовое к отправке письмо.
type Email struct {
	MessageID   string
	To          string
	ToName      string
	Subject     string
	Text        string
	HTML        string
	Attachments []Attachment
}
