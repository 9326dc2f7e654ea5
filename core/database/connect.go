package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"loyaltybot/core/logger"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

const connectTimeout = 10 * time.Second

// Connect opens a PostgreSQL connection pool and verifies it with a ping.
func Connect(ctx context.Context, cfg Config) (*sqlx.DB, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	start := time.Now()
	db, err := sqlx.ConnectContext(ctx, "postgres", cfg.DSN())
	if err != nil {
		logger.DB.Error("connection failed",
			slog.String("event", "db.connect"),
			slog.String("host", cfg.Host),
			slog.String("database", cfg.Name),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("database connect: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxConnections)
	db.SetConnMaxLifetime(30 * time.Minute)

	logger.DB.Info("connected",
		slog.String("event", "db.connect"),
		slog.String("host", cfg.Host),
		slog.String("database", cfg.Name),
		slog.Int("max_conns", cfg.MaxConnections),
		slog.Duration("duration", logger.RoundMS(time.Since(start))),
	)
	return db, nil
}
