// Package smtp отправляет письма клуба через SMTP-сервер со STARTTLS.
package smtp

import (
	"context"
	"io"
)

// Client команды SMTP-сессии, нужные для отправки письма.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}

// TransportInterface открывает авторизованную SMTP-сессию.
type TransportInterface interface {
	Connect(ctx context.Context) (Client, error)
	GetSMTPUser() string
	GetFromName() string
}
