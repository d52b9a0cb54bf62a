package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/globetrotter-app/globetrotter-backend/api/routes"
	"github.com/globetrotter-app/globetrotter-backend/internal/auth"
	"github.com/globetrotter-app/globetrotter-backend/internal/chat"
	"github.com/globetrotter-app/globetrotter-backend/internal/expenses"
	"github.com/globetrotter-app/globetrotter-backend/internal/invites"
	"github.com/globetrotter-app/globetrotter-backend/internal/memberships"
	"github.com/globetrotter-app/globetrotter-backend/internal/sharing"
	"github.com/globetrotter-app/globetrotter-backend/internal/trips"
	"github.com/globetrotter-app/globetrotter-backend/internal/users"
	"github.com/globetrotter-app/globetrotter-backend/pkg/auth/session"
	"github.com/globetrotter-app/globetrotter-backend/pkg/config"
	"github.com/globetrotter-app/globetrotter-backend/pkg/db"
	"github.com/globetrotter-app/globetrotter-backend/pkg/logger"
	"github.com/globetrotter-app/globetrotter-backend/pkg/metrics"
	"github.com/globetrotter-app/globetrotter-backend/pkg/migrate"
	"github.com/globetrotter-app/globetrotter-backend/pkg/redis"
)

const shutdownGrace = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	svcs, hub, err := buildServices(cfg, logg, dbClient, sessionManager)
	if err != nil {
		logg.Error(context.Background(), "failed to build services", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, sessionManager, svcs),
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-runCtx.Done():
		logg.Info(ctx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "api server shutdown error", err)
		}
		// Closing the hub tears down every live chat socket so writePump
		// goroutines exit before the process does.
		hub.Close()
	}
}

func buildServices(
	cfg *config.Config,
	logg *logger.Logger,
	dbClient *db.Client,
	sessionManager *session.Manager,
) (routes.Services, *chat.Hub, error) {
	gormDB := dbClient.DB()

	userRepo := users.NewRepository(gormDB)
	tripRepo := trips.NewRepository(gormDB)
	membershipRepo := memberships.NewRepository(gormDB)
	inviteRepo := invites.NewRepository(gormDB)
	messageRepo := chat.NewRepository(gormDB)
	expenseRepo := expenses.NewRepository(gormDB)

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		return routes.Services{}, nil, err
	}

	tripService, err := trips.NewService(tripRepo, membershipRepo)
	if err != nil {
		return routes.Services{}, nil, err
	}

	membershipService, err := memberships.NewService(membershipRepo, tripRepo, inviteRepo, userRepo)
	if err != nil {
		return routes.Services{}, nil, err
	}

	inviteService, err := invites.NewService(inviteRepo, tripRepo, userRepo, membershipRepo)
	if err != nil {
		return routes.Services{}, nil, err
	}

	sharingService, err := sharing.NewService(tripRepo, cfg.Share)
	if err != nil {
		return routes.Services{}, nil, err
	}

	hub := chat.NewHub(metrics.NewChatMetrics(prometheus.DefaultRegisterer))
	chatService, err := chat.NewService(messageRepo, tripRepo, membershipRepo, inviteRepo, membershipService, hub, logg, cfg.Chat)
	if err != nil {
		return routes.Services{}, nil, err
	}

	expenseService, err := expenses.NewService(expenseRepo, tripRepo, membershipRepo)
	if err != nil {
		return routes.Services{}, nil, err
	}

	return routes.Services{
		Auth:        authService,
		Trips:       tripService,
		Memberships: membershipService,
		Invites:     inviteService,
		Sharing:     sharingService,
		Chat:        chatService,
		Expenses:    expenseService,
	}, hub, nil
}
