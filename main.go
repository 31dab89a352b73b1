package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/docgen"
	"go.uber.org/zap"
)

type Blog struct {
	store *Store
	cfg   Config
	log   *zap.Logger
}

func NewBlog(store *Store, cfg Config, log *zap.Logger) *Blog {
	return &Blog{
		store: store,
		cfg:   cfg,
		log:   log,
	}
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		return err
	}

	log, err := newLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer log.Sync()

	if cfg.PrintRoutes {
		blog := NewBlog(nil, cfg, log)
		fmt.Println(docgen.MarkdownRoutesDoc(blog.Routes(), docgen.MarkdownOpts{
			ProjectPath: "portfolio",
			Intro:       "Portfolio API routes.",
		}))
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := openDB(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	store := NewStore(db, cfg.DatabaseDriver)
	defer store.Close()

	if err = migrateDB(ctx, db, cfg.DatabaseDriver); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}

	if cfg.CreateUser != "" {
		return createUserCommand(ctx, store, cfg.CreateUser)
	}

	if err = seedDB(ctx, store, cfg, log); err != nil {
		return fmt.Errorf("seeding database: %w", err)
	}

	go purgeSessions(ctx, store, log, time.Hour)

	blog := NewBlog(store, cfg, log)
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           blog.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("addr", cfg.Addr), zap.String("db_driver", cfg.DatabaseDriver))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// purgeSessions deletes expired sessions now and then every interval until
// ctx is done.
func purgeSessions(ctx context.Context, store *Store, log *zap.Logger, interval time.Duration) {
	if err := store.cleanupExpiredSessions(ctx); err != nil {
		log.Warn("cleaning up expired sessions", zap.Error(err))
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := store.cleanupExpiredSessions(ctx); err != nil {
				log.Warn("cleaning up expired sessions", zap.Error(err))
			}
		}
	}
}
