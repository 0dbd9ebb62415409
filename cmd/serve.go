package cmd

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/BorisDmv/my-blog/internal/assistant"
	"github.com/BorisDmv/my-blog/internal/config"
	"github.com/BorisDmv/my-blog/internal/db"
	"github.com/BorisDmv/my-blog/internal/handlers"
	appmiddleware "github.com/BorisDmv/my-blog/internal/middleware"
	"github.com/BorisDmv/my-blog/internal/session"
	"github.com/BorisDmv/my-blog/internal/views"
)

var serveCMD = &cobra.Command{
	Use:   "serve",
	Short: "run the blog http server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func init() {
	addServeFlags(serveCMD)
	rootCMD.AddCommand(serveCMD)
}

func addServeFlags(cmd *cobra.Command) {
	cmd.Flags().String("port", "3000", "listen port, overrides PORT")
	cmd.Flags().String("post-dir", "./post", "post directory, overrides POST_DIR")
}

func runServe(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	secret := []byte(cfg.SessionSecret)
	if len(secret) == 0 {
		if secret, err = session.RandomSecret(); err != nil {
			return err
		}
		logger.Warn("SESSION_SECRET is not set, sessions will not survive a restart")
	}
	sessions, err := session.NewManager(session.Options{
		Secret: secret,
		MaxAge: cfg.SessionMaxAge,
		Secure: cfg.CookieSecure,
	})
	if err != nil {
		return errors.Wrap(err, "create session manager")
	}

	renderer, err := views.New()
	if err != nil {
		return errors.Wrap(err, "load views")
	}

	drafter := assistant.NewClient(assistant.Options{
		APIKey:  cfg.GroqAPIKey,
		BaseURL: cfg.GroqBaseURL,
		Model:   cfg.GroqModel,
		Timeout: cfg.GenerateTimeout,
	})
	go pingProvider(ctx, drafter, logger)

	loginLimiter := appmiddleware.NewRateLimiter(5, time.Minute, logger)
	go loginLimiter.Run(ctx)

	h := handlers.New(handlers.Deps{
		Store:           store,
		Sessions:        sessions,
		Credentials:     config.NewCredentials(cfg.AdminUsername, cfg.AdminPassword, cfg.EnvFile),
		Drafter:         drafter,
		Views:           renderer,
		Logger:          logger,
		GenerateTimeout: cfg.GenerateTimeout,
	})
	router := handlers.NewRouter(h, handlers.RouterOptions{
		CorsAllowedOrigins: cfg.CorsAllowedOrigins,
		LoginLimiter:       loginLimiter,
		Logger:             logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.GenerateTimeout + 15*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server running", zap.String("addr", "http://localhost:"+cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return errors.Wrap(err, "server error")
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
	return nil
}

// openStore picks Postgres when DATABASE_URL is set and the post directory
// otherwise.
func openStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (db.PostStore, func(), error) {
	if cfg.DatabaseURL != "" {
		store, err := db.NewPGStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, errors.Wrap(err, "db connect failed")
		}
		if err := store.EnsureSchema(ctx); err != nil {
			store.Close()
			return nil, nil, err
		}
		logger.Info("using postgres post store")
		return store, store.Close, nil
	}

	store, err := db.NewFileStore(cfg.PostDir, logger)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("using file post store", zap.String("dir", store.Dir()))
	return store, func() {}, nil
}

func pingProvider(ctx context.Context, c *assistant.Client, logger *zap.Logger) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := c.Ping(ctx); err != nil {
		logger.Warn("text generation provider unavailable", zap.Error(err))
		return
	}
	logger.Info("text generation provider connected")
}
