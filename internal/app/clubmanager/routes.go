package clubmanager

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	// Регистрация описания Swagger для /docs.
	_ "github.com/magabrotheeeer/club-manager/docs"
	"github.com/magabrotheeeer/club-manager/internal/config"
	"github.com/magabrotheeeer/club-manager/internal/http/handlers/abbonamento"
	"github.com/magabrotheeeer/club-manager/internal/http/handlers/activities"
	"github.com/magabrotheeeer/club-manager/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/club-manager/internal/http/handlers/email"
	"github.com/magabrotheeeer/club-manager/internal/http/handlers/enti"
	"github.com/magabrotheeeer/club-manager/internal/http/handlers/health"
	"github.com/magabrotheeeer/club-manager/internal/http/handlers/params"
	"github.com/magabrotheeeer/club-manager/internal/http/handlers/primanota"
	"github.com/magabrotheeeer/club-manager/internal/http/handlers/ricevuta"
	"github.com/magabrotheeeer/club-manager/internal/http/handlers/settings"
	"github.com/magabrotheeeer/club-manager/internal/http/handlers/socio"
	"github.com/magabrotheeeer/club-manager/internal/http/handlers/spese"
	"github.com/magabrotheeeer/club-manager/internal/http/middlewarectx"
)

// Deps зависимости маршрутов.
type Deps struct {
	Config      *config.Config
	Services    Services
	JWT         middlewarectx.TokenParser
	Registry    *prometheus.Registry
	HTTPMetrics *middlewarectx.Metrics
	Storage     health.Pinger
	Cache       health.Pinger
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, d Deps) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middlewarectx.CORS(d.Config.AllowedOrigin),
		d.HTTPMetrics.Middleware,
	)

	soci := socio.New(logger, d.Services.Members)
	abbonamenti := abbonamento.New(logger, d.Services.Memberships)
	ricevute := ricevuta.New(logger, d.Services.Receipts)
	attivita := activities.New(logger, d.Services.Activities)
	primaNota := primanota.New(logger, d.Services.PrimaNota)
	entiHandler := enti.New(logger, d.Services.EntityReceipt)
	speseHandler := spese.New(logger, d.Services.Expenses)
	paramsHandler := params.New(logger, d.Services.Params)
	settingsHandler := settings.New(logger, d.Services.Settings)
	limiter := middlewarectx.NewRateLimiter(d.Config.RPS, d.Config.Burst)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/login", login.New(logger, d.Services.Auth).ServeHTTP)
		r.Get("/health", health.New(logger, map[string]health.Pinger{
			"postgres": d.Storage,
			"redis":    d.Cache,
		}).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(d.JWT, logger))

			r.Route("/socio", func(r chi.Router) {
				r.Get("/", soci.List)
				r.Post("/", soci.Create)
				r.Get("/tipi", soci.Types)
				r.Get("/mail", soci.Contacts)
				r.Get("/control", soci.CheckType)
				r.Get("/{id}", soci.Get)
				r.Put("/{id}", soci.Update)
			})

			r.Route("/abbonamento", func(r chi.Router) {
				r.Post("/", abbonamenti.Save)
				r.Get("/current/{socioId}", abbonamenti.Current)
				r.Get("/socio/{socioId}", abbonamenti.ListByMember)
				r.Get("/tessera", abbonamenti.FindCard)
				r.Get("/tessera/check/{type}", abbonamenti.CheckCards)
				r.Post("/tessera/load", abbonamenti.LoadMissingCards)
				r.Get("/{id}", abbonamenti.Get)
				r.Put("/{id}/tessera", abbonamenti.UpdateCard)
			})

			r.Route("/ricevuta", func(r chi.Router) {
				r.Post("/", ricevute.Create)
				r.Get("/range", ricevute.Range)
				r.Get("/build/{socioId}/{ricevutaId}", ricevute.Build)
				r.Get("/socio/{socioId}", ricevute.ByMember)
				r.Get("/scheda/{socioId}", ricevute.Scheda)
				r.Put("/{id}", ricevute.Update)
				r.Delete("/{id}", ricevute.Delete)
			})

			r.Route("/activities", func(r chi.Router) {
				r.Get("/", attivita.List)
				r.Post("/", attivita.Save)
				r.Get("/codes", attivita.Codes)
				r.Get("/federazioni", attivita.Federations)
				r.Post("/federazioni", attivita.CreateFederation)
				r.Get("/sezioni", attivita.Sections)
				r.Post("/sezioni", attivita.CreateSection)
				r.Get("/federazione/{id}", attivita.ByFederation)
				r.Get("/federazione/{id}/full", attivita.FederationFull)
				r.Get("/sezione/{id}", attivita.BySection)
				r.Get("/{id}", attivita.Get)
				r.Delete("/{id}", attivita.Delete)
			})

			r.Route("/primanota", func(r chi.Router) {
				r.Get("/statistic/{type}", primaNota.Statistic)
				r.Get("/{type}", primaNota.Ledger)
				r.Get("/{type}/print", primaNota.Print)
			})

			r.Route("/enti", func(r chi.Router) {
				r.Get("/", entiHandler.List)
				r.Post("/", entiHandler.Create)
				r.Get("/primanota", entiHandler.Ledger)
				r.Get("/{id}", entiHandler.Get)
				r.Put("/{id}", entiHandler.Update)
				r.Delete("/{id}", entiHandler.Delete)
			})

			r.Route("/spese", func(r chi.Router) {
				r.Get("/", speseHandler.List)
				r.Post("/", speseHandler.Create)
				r.Delete("/{id}", speseHandler.Delete)
			})

			r.Route("/params", func(r chi.Router) {
				r.Get("/", paramsHandler.List)
				r.Post("/", paramsHandler.Create)
				r.Get("/anno-sportivo", paramsHandler.CurrentSportYear)
				r.Post("/anno-sportivo", paramsHandler.CreateSportYear)
				r.Get("/anni-sportivi", paramsHandler.SportYears)
				r.Get("/mesi", paramsHandler.Months)
				r.Put("/{id}", paramsHandler.Update)
				r.Delete("/{id}", paramsHandler.Deactivate)
			})

			r.Route("/settings", func(r chi.Router) {
				r.Get("/", settingsHandler.Get)
				r.Put("/", settingsHandler.Save)
				r.Post("/reset", settingsHandler.Reset)
			})

			r.With(limiter.Middleware(logger)).
				Post("/send-email", email.New(logger, d.Services.Mail).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
