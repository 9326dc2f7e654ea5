// Package archive duplicates completed registrations into PostgreSQL so
// the spreadsheet is not the only copy.
package archive

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"loyaltybot/core/logger"
	"loyaltybot/registration"

	"github.com/jmoiron/sqlx"
)

// Store writes registrations to the registrations table.
type Store struct {
	db *sqlx.DB
}

var _ registration.Archiver = (*Store)(nil)

// NewStore wraps an open database handle.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

const insertQuery = `
	INSERT INTO registrations (user_id, username, city, name, phone, submitted_at)
	VALUES ($1, $2, $3, $4, $5, $6)`

// Archive inserts one registration row.
func (s *Store) Archive(ctx context.Context, rec registration.Record) error {
	start := time.Now()
	_, err := s.db.ExecContext(ctx, insertQuery,
		rec.UserID, rec.Username, rec.City, rec.Name, rec.Phone, rec.SubmittedAt,
	)
	if err != nil {
		return fmt.Errorf("archive insert: %w", err)
	}

	logger.SVCArchive.Debug("registration archived",
		slog.String("event", "archive.insert"),
		slog.Int64("user_id", rec.UserID),
		slog.Duration("duration", logger.RoundMS(time.Since(start))),
	)
	return nil
}

// Count returns the number of archived registrations.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM registrations`); err != nil {
		return 0, fmt.Errorf("archive count: %w", err)
	}
	return n, nil
}
