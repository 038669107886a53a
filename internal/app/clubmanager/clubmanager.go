// Package clubmanager собирает HTTP API клуба: хранилище, кэш, сервисы и маршруты.
package clubmanager

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/magabrotheeeer/club-manager/internal/cache"
	"github.com/magabrotheeeer/club-manager/internal/config"
	"github.com/magabrotheeeer/club-manager/internal/http/middlewarectx"
	"github.com/magabrotheeeer/club-manager/internal/lib/jwt"
	"github.com/magabrotheeeer/club-manager/internal/lib/metrics"
	"github.com/magabrotheeeer/club-manager/internal/lib/sl"
	"github.com/magabrotheeeer/club-manager/internal/lib/smtp"
	"github.com/magabrotheeeer/club-manager/internal/migrations"
	"github.com/magabrotheeeer/club-manager/internal/services/activity"
	"github.com/magabrotheeeer/club-manager/internal/services/auth"
	"github.com/magabrotheeeer/club-manager/internal/services/entityreceipt"
	"github.com/magabrotheeeer/club-manager/internal/services/expense"
	"github.com/magabrotheeeer/club-manager/internal/services/mail"
	"github.com/magabrotheeeer/club-manager/internal/services/member"
	"github.com/magabrotheeeer/club-manager/internal/services/membership"
	"github.com/magabrotheeeer/club-manager/internal/services/params"
	"github.com/magabrotheeeer/club-manager/internal/services/primanota"
	"github.com/magabrotheeeer/club-manager/internal/services/receipt"
	"github.com/magabrotheeeer/club-manager/internal/services/settings"
	"github.com/magabrotheeeer/club-manager/internal/storage"
)

// Services набор сервисов, из которых строятся маршруты.
type Services struct {
	Auth          *auth.Service
	Members       *member.Service
	Memberships   *membership.Service
	Receipts      *receipt.Service
	Activities    *activity.Service
	PrimaNota     *primanota.Service
	EntityReceipt *entityreceipt.Service
	Expenses      *expense.Service
	Params        *params.Service
	Settings      *settings.Service
	Mail          *mail.Service
}

// App HTTP-приложение клуба.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *storage.Storage
	cache  *cache.Cache
}

// New подключает PostgreSQL и Redis, применяет миграции, создаёт
// учётную запись администратора и регистрирует маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("cache not initialized: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	business := metrics.NewBusiness(registry)
	httpMetrics := middlewarectx.NewMetrics(registry)

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	settingsService := settings.New(db, cacheRedis, cfg.CacheTTL, logger)

	svc := Services{
		Auth:          auth.New(db, jwtMaker, logger),
		Members:       member.New(db, cacheRedis, cfg.CacheTTL, logger),
		Memberships:   membership.New(db, logger),
		Receipts:      receipt.New(db, business.ReceiptsCreated, logger),
		Activities:    activity.New(db, cacheRedis, cfg.CacheTTL, logger),
		PrimaNota:     primanota.New(db, logger),
		EntityReceipt: entityreceipt.New(db, logger),
		Expenses:      expense.New(db, logger),
		Params:        params.New(db, logger),
		Settings:      settingsService,
		Mail:          mail.New(smtp.NewTransport(cfg.SMTP, logger), settingsService, business.EmailsSent, logger),
	}

	created, err := svc.Auth.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword)
	if err != nil {
		_ = cacheRedis.Close()
		_ = db.Close()
		return nil, fmt.Errorf("ensure admin: %w", err)
	}
	if created {
		logger.Info("admin account created", slog.String("username", cfg.AdminUsername))
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, Deps{
		Config:      cfg,
		Services:    svc,
		JWT:         jwtMaker,
		Registry:    registry,
		HTTPMetrics: httpMetrics,
		Storage:     db,
		Cache:       cacheRedis,
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  cacheRedis,
	}, nil
}

// Run обслуживает запросы до отмены ctx, затем останавливает сервер
// и закрывает соединения.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

func (a *App) close() {
	if err := a.cache.Close(); err != nil {
		a.logger.Error("failed to close cache", sl.Err(err))
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close storage", sl.Err(err))
	}
}
