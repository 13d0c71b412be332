package app

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmcordova/accounts-backend/config"
	"github.com/jmcordova/accounts-backend/database"
	"github.com/jmcordova/accounts-backend/handlers"
	"github.com/jmcordova/accounts-backend/middleware/ratelimit"
	"github.com/jmcordova/accounts-backend/server"
	"github.com/jmcordova/accounts-backend/services/auth"
	"github.com/jmcordova/accounts-backend/services/hashing"
	"github.com/jmcordova/accounts-backend/services/logging"
	"github.com/jmcordova/accounts-backend/services/mail"
	"github.com/jmcordova/accounts-backend/services/token"
	"github.com/jmcordova/accounts-backend/store"
	"go.uber.org/fx"
)

// App wires every component through fx and owns the process
// lifecycle.
type App struct {
	fx     *fx.App
	logger *logging.Service
}

// New assembles the full application. A nil cfg loads configuration
// from the environment.
func New(cfg *config.Config) *App {
	a := &App{}

	a.fx = fx.New(
		fx.NopLogger,
		config.NewProvider(cfg),
		logging.Module,
		fx.Provide(func() *database.ModelsOption {
			return database.WithModels(store.Models()...)
		}),
		database.Module,
		store.Module,
		hashing.Module,
		token.Module,
		mail.Module,
		auth.Module,
		ratelimit.Module,
		handlers.Module,
		server.Module,
		fx.Invoke(func(srv *server.Server, h *handlers.AuthHandler, tokens *token.Service, cfg *config.Config, rlStore ratelimit.Store) {
			handlers.RegisterRoutes(srv.Echo(), h, tokens, cfg, rlStore)
		}),
		fx.Populate(&a.logger),
	)

	return a
}

func (a *App) Start(ctx context.Context) error {
	return a.fx.Start(ctx)
}

func (a *App) Stop(ctx context.Context) error {
	return a.fx.Stop(ctx)
}

// Run starts the app and blocks until SIGINT or SIGTERM, then shuts
// down gracefully.
func (a *App) Run() {
	if err := a.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	if a.logger != nil {
		a.logger.Info("received shutdown signal, stopping gracefully")
	} else {
		log.Printf("Received signal %v, shutting down gracefully...", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := a.Stop(ctx); err != nil {
		if a.logger != nil {
			a.logger.Error("failed to stop application gracefully")
		} else {
			log.Printf("Failed to stop application gracefully: %v", err)
		}
	}
}
