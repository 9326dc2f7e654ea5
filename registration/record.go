// Package registration implements the city -> name -> phone registration
// dialogue and fans completed registrations out to the staff channel, the
// spreadsheet and the optional archive.
package registration

import (
	"context"
	"time"
)

// Record is one completed registration.
type Record struct {
	City        string
	Name        string
	Phone       string
	Username    string
	UserID      int64
	SubmittedAt time.Time
}

// Directory provides the list of cities open for registration and their
// pickup addresses.
type Directory interface {
	FetchDirectory(ctx context.Context) (cities []string, addresses map[string]string, err error)
}

// RecordStore persists completed registrations.
type RecordStore interface {
	EnsureHeader(ctx context.Context) error
	Append(ctx context.Context, rec Record) error
}

// StaffNotifier delivers a registration summary to the staff channel.
type StaffNotifier interface {
	NotifyStaff(ctx context.Context, rec Record, address string) error
}

// Archiver duplicates completed registrations into secondary storage.
type Archiver interface {
	Archive(ctx context.Context, rec Record) error
}
