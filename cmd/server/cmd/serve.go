package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/eventbook/server/internal/api"
	"github.com/eventbook/server/internal/auth"
	"github.com/eventbook/server/internal/config"
	"github.com/eventbook/server/internal/domain/users"
	"github.com/eventbook/server/internal/metrics"
	"github.com/eventbook/server/internal/storage/mongodb"
)

var (
	// Server flags (override config/env)
	serverHost string
	serverPort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the eventbook HTTP server",
	Long: `Start the eventbook HTTP server and begin accepting GraphQL requests.

The server will:
- Load configuration from environment variables
- Connect to MongoDB
- Bootstrap a seed user if BOOTSTRAP_* env vars are set
- Serve /graphql, /healthz, /readyz, and /metrics
- Handle graceful shutdown on SIGINT/SIGTERM

Examples:
  # Start with default configuration (from env vars)
  server serve

  # Start on a specific host and port
  server serve --host 127.0.0.1 --port 9090

  # Start with debug logging
  server serve --log-level debug`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

func init() {
	serveCmd.Flags().StringVar(&serverHost, "host", "", "server host address (default: 0.0.0.0)")
	serveCmd.Flags().IntVar(&serverPort, "port", 0, "server port (default: 8080)")
}

func runServer() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	// Override config with flags if provided
	if serverHost != "" {
		cfg.Server.Host = serverHost
	}
	if serverPort != 0 {
		cfg.Server.Port = serverPort
	}

	logger := config.NewLogger(cfg.Logging)
	logger.Info().Msg("starting eventbook server")

	metrics.Init(Version, GitCommit, BuildDate)
	logger.Info().Str("version", Version).Msg("metrics initialized")

	connectCtx, connectCancel := context.WithTimeout(context.Background(), cfg.Mongo.ConnectTimeout)
	store, err := mongodb.Connect(connectCtx, cfg.Mongo)
	connectCancel()
	if err != nil {
		return fmt.Errorf("mongodb connection failed: %w", err)
	}
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer closeCancel()
		if err := store.Close(closeCtx); err != nil {
			logger.Error().Err(err).Msg("mongodb disconnect error")
		}
	}()

	bootstrapCtx, bootstrapCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := bootstrapSeedUser(bootstrapCtx, cfg, store, logger); err != nil {
		logger.Error().Err(err).Msg("seed user bootstrap failed")
	}
	bootstrapCancel()

	handler, err := api.NewRouter(logger, store)
	if err != nil {
		return fmt.Errorf("router setup failed: %w", err)
	}

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           handler,
		ReadTimeout:       10 * time.Second, // Total time to read request
		WriteTimeout:      30 * time.Second, // Total time to write response
		ReadHeaderTimeout: 5 * time.Second,  // Time to read headers
		MaxHeaderBytes:    1 << 20,          // 1 MB max header size
	}

	go func() {
		logger.Info().Str("addr", server.Addr).Msg("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	return gracefulShutdown(server, logger)
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}

	// Override logging from flags if provided
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if logFormat != "" {
		cfg.Logging.Format = logFormat
	}

	return cfg, nil
}

// bootstrapSeedUser creates an initial user so that createEvent has a
// creator to link against on a fresh database. Registration is skipped
// when the email is already taken.
func bootstrapSeedUser(ctx context.Context, cfg config.Config, store *mongodb.Store, logger zerolog.Logger) error {
	bootstrap := cfg.Bootstrap
	if bootstrap.Email == "" || bootstrap.Password == "" {
		logger.Warn().Msg("bootstrap env vars not fully set; skipping")
		return nil
	}

	svc := users.NewService(store.Users(), auth.NewPasswordHasher(), logger)
	user, err := svc.Register(ctx, bootstrap.Email, bootstrap.Password)
	if errors.Is(err, users.ErrEmailTaken) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("create seed user: %w", err)
	}

	// Redact email in production to avoid PII leaks
	if cfg.Environment == "production" {
		logger.Info().Str("user_id", user.ID).Msg("bootstrapped seed user")
	} else {
		logger.Info().Str("user_id", user.ID).Str("email", bootstrap.Email).Msg("bootstrapped seed user")
	}
	return nil
}

func gracefulShutdown(server *http.Server, logger zerolog.Logger) error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logger.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("shutdown error")
		return err
	}

	logger.Info().Msg("server stopped")
	return nil
}
