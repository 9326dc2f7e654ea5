package sheets

import (
	"context"
	"errors"

	"loyaltybot/registration"
)

// ErrUnavailable is returned by the degraded implementations when the
// spreadsheet backend was never configured.
var ErrUnavailable = errors.New("sheets: backend not configured")

// Unavailable is a stand-in Directory and RecordStore used when
// credentials or the spreadsheet id are missing. The bot keeps serving
// conversations; saves fail and are logged by the caller.
type Unavailable struct{}

var (
	_ registration.Directory   = Unavailable{}
	_ registration.RecordStore = Unavailable{}
)

func (Unavailable) FetchDirectory(context.Context) ([]string, map[string]string, error) {
	return nil, nil, ErrUnavailable
}

func (Unavailable) EnsureHeader(context.Context) error {
	return ErrUnavailable
}

func (Unavailable) Append(context.Context, registration.Record) error {
	return ErrUnavailable
}
