package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"geo-quiz-service/internal/app"
	"geo-quiz-service/internal/catalog"
	"geo-quiz-service/internal/config"
	"geo-quiz-service/internal/infra/geodata"
	"geo-quiz-service/internal/infra/memory"
	redissession "geo-quiz-service/internal/infra/redis"
	"geo-quiz-service/internal/question"
	transport "geo-quiz-service/internal/transport/http"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg, logger); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	b, err := connectBackends(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.close()

	shapes := geodata.NewShapes(cfg.Data.GeoJSON)
	cat := catalog.New()

	// The catalog is usable while empty; rounds started before the feeds land
	// get Unknown answers until it fills.
	populateCtx, stopPopulate := context.WithCancel(ctx)
	defer stopPopulate()
	go keepCatalogFresh(populateCtx, cat, newFeeds(cfg, b, shapes, logger), config.TTLDuration(cfg.Data.Refresh, 0), logger)

	var store app.SessionRepository
	if b.redis != nil {
		store = redissession.NewSessionStore(b.redis, config.TTLDuration(cfg.Redis.TTL, 10*time.Minute), logger)
	} else {
		store = memory.NewSessionStore()
	}

	service := app.NewQuizService(store, question.New(cat, cfg.Quiz.Templates), cat,
		app.WithServiceRules(cfg.Rules()),
		app.WithTickPeriod(config.TTLDuration(cfg.Quiz.Tick, time.Second)),
		app.WithLocator(shapes),
		app.WithServiceLogger(logger),
	)

	checks := map[string]transport.Checker{}
	if b.redis != nil {
		checks["redis"] = transport.CheckFunc(func(ctx context.Context) error { return b.redis.Ping(ctx).Err() })
	}
	if b.pool != nil {
		checks["postgres"] = transport.CheckFunc(b.pool.Ping)
	}

	server := &http.Server{
		Addr: ":" + finalPort,
		Handler: transport.NewRouter(transport.RouterConfig{
			Service:        service,
			Countries:      cat,
			Checks:         checks,
			AllowedOrigins: cfg.Server.AllowedOrigins,
			Logger:         logger,
		}),
		ReadHeaderTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info().Str("port", finalPort).Msg("starting quiz service")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("failed to start server")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		logger.Info().Msg("shutting down server...")
	case <-ctx.Done():
		logger.Info().Msg("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
