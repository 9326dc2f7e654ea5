package database

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"loyaltybot/core/logger"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// RunMigrations applies pending migrations from the given directory.
func RunMigrations(cfg Config, migrationsDir string) error {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		url.QueryEscape(cfg.User), url.QueryEscape(cfg.Password),
		cfg.Host, cfg.Port, cfg.Name, cfg.SSLMode,
	)

	m, err := migrate.New("file://"+migrationsDir, dsn)
	if err != nil {
		return fmt.Errorf("migrate init: %w", err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil || dbErr != nil {
			logger.MIG.Warn("close failed",
				slog.String("event", "migrate.close"),
				slog.Any("source_err", srcErr),
				slog.Any("db_err", dbErr),
			)
		}
	}()

	start := time.Now()
	err = m.Up()
	switch {
	case err == nil:
		logger.MIG.Info("migrations applied",
			slog.String("event", "migrate.up"),
			slog.Duration("duration", logger.RoundMS(time.Since(start))),
		)
	case errors.Is(err, migrate.ErrNoChange):
		logger.MIG.Info("no pending migrations",
			slog.String("event", "migrate.up"),
		)
	default:
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}
