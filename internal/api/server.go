package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/zapponejosh/tibcal-api/internal/calendar"
	"github.com/zapponejosh/tibcal-api/internal/config"
	"github.com/zapponejosh/tibcal-api/internal/database"
	"github.com/zapponejosh/tibcal-api/internal/metrics"
)

// Serve builds the month table, opens the export store and serves HTTP until
// ctx is cancelled, then drains in-flight requests for cfg.ShutdownTimeout.
func Serve(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	m := metrics.New()

	start := time.Now()
	table, err := calendar.Build(calendar.BuildOptions{Logger: log})
	if err != nil {
		return fmt.Errorf("build month table: %w", err)
	}
	m.RecordTable(table.Len(), time.Since(start))

	for _, f := range calendar.Failed(calendar.Verify(table)) {
		log.Warn("fixed-point check failed",
			slog.String("kind", f.Kind),
			slog.String("input", f.Input),
			slog.String("want", f.Want),
			slog.String("got", f.Got),
		)
	}

	db, err := database.Open(database.DefaultConfig(cfg.ExportDatabasePath), log)
	if err != nil {
		return fmt.Errorf("open export store: %w", err)
	}
	defer db.Close()

	if _, err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate export store: %w", err)
	}

	handlers := NewHandlers(table, db, cfg, m)
	srv := &http.Server{
		Addr:              net.JoinHostPort("", strconv.Itoa(cfg.Port)),
		Handler:           SetupRoutes(handlers, cfg, m, log),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down", slog.Duration("timeout", cfg.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
