package smtp

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"mime"
	"mime/multipart"
	"net/mail"
	"net/textproto"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/club-manager/internal/models"
)

const base64LineLen = 76

// BuildMessage собирает письмо multipart/mixed: текст и HTML как
// multipart/alternative, затем вложения в base64. Пустой email.MessageID
// заменяется сгенерированным.
func BuildMessage(from mail.Address, email models.Email, now time.Time) ([]byte, error) {
	const op = "smtp.BuildMessage"
	var buf bytes.Buffer

	to := mail.Address{Name: email.ToName, Address: email.To}
	id := email.MessageID
	if id == "" {
		id = MessageID(from.Address)
	}
	mixed := multipart.NewWriter(&buf)

	headers := []string{
		"From: " + from.String(),
		"To: " + to.String(),
		"Subject: " + mime.QEncoding.Encode("utf-8", email.Subject),
		"Date: " + now.Format(time.RFC1123Z),
		"Message-ID: " + id,
		"MIME-Version: 1.0",
		"Content-Type: multipart/mixed; boundary=" + mixed.Boundary(),
	}
	buf.WriteString(strings.Join(headers, "\r\n"))
	buf.WriteString("\r\n\r\n")

	var alt bytes.Buffer
	altWriter := multipart.NewWriter(&alt)
	if err := writeTextPart(altWriter, "text/plain", email.Text); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if email.HTML != "" {
		if err := writeTextPart(altWriter, "text/html", email.HTML); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}
	if err := altWriter.Close(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	altPart, err := mixed.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"multipart/alternative; boundary=" + altWriter.Boundary()},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if _, err := altPart.Write(alt.Bytes()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, a := range email.Attachments {
		if err := writeAttachment(mixed, a); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}
	if err := mixed.Close(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return buf.Bytes(), nil
}

func writeTextPart(w *multipart.Writer, contentType, body string) error {
	part, err := w.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {contentType + "; charset=UTF-8"},
		"Content-Transfer-Encoding": {"base64"},
	})
	if err != nil {
		return err
	}
	return writeBase64(part, []byte(body))
}

func writeAttachment(w *multipart.Writer, a models.Attachment) error {
	contentType := a.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": a.FileName})
	part, err := w.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {contentType},
		"Content-Transfer-Encoding": {"base64"},
		"Content-Disposition":       {disposition},
	})
	if err != nil {
		return err
	}
	return writeBase64(part, a.Data)
}

func writeBase64(w interface{ Write([]byte) (int, error) }, data []byte) error {
	encoded := base64.StdEncoding.EncodeToString(data)
	for len(encoded) > base64LineLen {
		if _, err := w.Write([]byte(encoded[:base64LineLen] + "\r\n")); err != nil {
			return err
		}
		encoded = encoded[base64LineLen:]
	}
	_, err := w.Write([]byte(encoded + "\r\n"))
	return err
}

// MessageID возвращает уникальный Message-ID в домене отправителя.
func MessageID(from string) string {
	domain := "localhost"
	if at := strings.LastIndex(from, "@"); at >= 0 && at < len(from)-1 {
		domain = from[at+1:]
	}
	return "<" + uuid.NewString() + "@" + domain + ">"
}
