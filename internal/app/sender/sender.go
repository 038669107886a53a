// Package sender собирает процесс, который читает очередь напоминаний
// и отправляет письма членам клуба.
package sender

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/club-manager/internal/cache"
	"github.com/magabrotheeeer/club-manager/internal/config"
	"github.com/magabrotheeeer/club-manager/internal/lib/metrics"
	"github.com/magabrotheeeer/club-manager/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/club-manager/internal/lib/sl"
	"github.com/magabrotheeeer/club-manager/internal/lib/smtp"
	"github.com/magabrotheeeer/club-manager/internal/services/mail"
	senderservice "github.com/magabrotheeeer/club-manager/internal/services/sender"
	"github.com/magabrotheeeer/club-manager/internal/services/settings"
	"github.com/magabrotheeeer/club-manager/internal/storage"
)

// App приложение отправки напоминаний.
type App struct {
	db            *storage.Storage
	cache         *cache.Cache
	conn          *amqp.Connection
	ch            *amqp.Channel
	senderService *senderservice.Service
	logger        *slog.Logger
}

// New подключает базу, кеш и брокер. Настройки клуба берутся из базы,
// чтобы письма подписывались тем же именем, что и квитанции.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("cache not initialized: %w", err)
	}

	conn, err := rabbitmq.Connect(ctx, cfg.RabbitMQURL, cfg.Retries, cfg.RetryDelay)
	if err != nil {
		_ = cacheRedis.Close()
		_ = db.Close()
		return nil, err
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
	if err != nil {
		_ = conn.Close()
		_ = cacheRedis.Close()
		_ = db.Close()
		return nil, err
	}

	business := metrics.NewBusiness(prometheus.DefaultRegisterer)
	settingsService := settings.New(db, cacheRedis, cfg.CacheTTL, logger)
	mailService := mail.New(smtp.NewTransport(cfg.SMTP, logger), settingsService, business.EmailsSent, logger)

	return &App{
		db:            db,
		cache:         cacheRedis,
		conn:          conn,
		ch:            ch,
		senderService: senderservice.New(mailService, logger),
		logger:        logger,
	}, nil
}

// Run читает очередь напоминаний до отмены ctx.
func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumerMessage(ctx, a.logger, a.ch, rabbitmq.CertificateQueue, a.senderService.CertificateHandler(ctx))
	if err != nil {
		a.logger.Error("failed to start certificate queue consumer", sl.Err(err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("Sender service shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", sl.Err(err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", sl.Err(err))
	}
	if err := a.cache.Close(); err != nil {
		a.logger.Error("failed to close cache", sl.Err(err))
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close storage", sl.Err(err))
	}
	return nil
}
