package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/globetrotter-app/globetrotter-backend/api/controllers"
	"github.com/globetrotter-app/globetrotter-backend/api/middleware"
	"github.com/globetrotter-app/globetrotter-backend/internal/auth"
	"github.com/globetrotter-app/globetrotter-backend/internal/chat"
	"github.com/globetrotter-app/globetrotter-backend/internal/expenses"
	"github.com/globetrotter-app/globetrotter-backend/internal/invites"
	"github.com/globetrotter-app/globetrotter-backend/internal/memberships"
	"github.com/globetrotter-app/globetrotter-backend/internal/sharing"
	"github.com/globetrotter-app/globetrotter-backend/internal/trips"
	"github.com/globetrotter-app/globetrotter-backend/pkg/auth/session"
	"github.com/globetrotter-app/globetrotter-backend/pkg/config"
	"github.com/globetrotter-app/globetrotter-backend/pkg/db"
	"github.com/globetrotter-app/globetrotter-backend/pkg/logger"
	"github.com/globetrotter-app/globetrotter-backend/pkg/redis"
)

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(context.Context, string, string) (string, string, error)
	Revoke(context.Context, string) error
}

// Services groups the domain services the router dispatches to.
type Services struct {
	Auth        auth.Service
	Trips       trips.Service
	Memberships memberships.Service
	Invites     invites.Service
	Sharing     sharing.Service
	Chat        chat.Service
	Expenses    expenses.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	sessions sessionManager,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	r.Handle("/metrics", promhttp.Handler())

	// Public surfaces: the feed and share-token reads need no identity at
	// all, slug reads use whatever identity is presented.
	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
		r.Get("/trips", controllers.PublicTripsFeed(svcs.Trips, logg))
		r.Get("/trips/shared/{token}", controllers.PublicTripByShareToken(svcs.Trips, logg))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/register", controllers.AuthRegister(svcs.Auth, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(svcs.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(svcs.Auth, logg))
		r.With(middleware.Auth(cfg.JWT, sessions, logg)).Post("/logout", controllers.AuthLogout(svcs.Auth, logg))
	})

	// The websocket endpoint authenticates via query parameter during the
	// handshake, so it sits outside the bearer-token group.
	r.Get("/api/v1/chat/ws", controllers.ChatWS(controllers.ChatWSParams{
		Service:  svcs.Chat,
		JWT:      cfg.JWT,
		Chat:     cfg.Chat,
		Sessions: sessions,
		Logger:   logg,
	}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalAuth(cfg.JWT, sessions, logg))
			r.Get("/trips/{slug}", controllers.TripsGet(svcs.Trips, logg))
			r.Get("/trips/{slug}/chat", controllers.ChatHistory(svcs.Chat, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, sessions, logg))
			r.Get("/ping", controllers.PrivatePing())

			r.Route("/trips", func(r chi.Router) {
				r.Post("/", controllers.TripsCreate(svcs.Trips, logg))
				r.Get("/", controllers.TripsList(svcs.Trips, logg))

				r.Route("/{slug}", func(r chi.Router) {
					r.Put("/", controllers.TripsUpdate(svcs.Trips, logg))
					r.Delete("/", controllers.TripsDelete(svcs.Trips, logg))

					r.Post("/join", controllers.MembersJoin(svcs.Memberships, logg))
					r.Get("/members", controllers.MembersList(svcs.Memberships, logg))

					r.Post("/invites", controllers.InvitesCreate(svcs.Invites, logg))
					r.Get("/invites", controllers.InvitesList(svcs.Invites, logg))

					r.Get("/share", controllers.ShareSettingsGet(svcs.Sharing, logg))
					r.Put("/share", controllers.ShareSettingsUpdate(svcs.Sharing, logg))

					r.Post("/chat", controllers.ChatSend(svcs.Chat, logg))

					r.Post("/expenses", controllers.ExpensesAdd(svcs.Expenses, logg))
					r.Get("/expenses", controllers.ExpensesList(svcs.Expenses, logg))
					r.Get("/expenses/summary", controllers.ExpensesSummary(svcs.Expenses, logg))
				})
			})
		})
	})

	return r
}
