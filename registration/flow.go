package registration

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"loyaltybot/core/logger"
	"loyaltybot/core/telegram/state"
)

// Flow drives the registration dialogue for all users. It owns the
// session state transitions; handlers only translate Telegram updates
// into Flow calls and Flow results into messages.
type Flow struct {
	states    state.Manager
	directory Directory
	store     RecordStore
	notifier  StaffNotifier
	archiver  Archiver

	// completeMu serializes the final step per user so a double-sent phone
	// message cannot produce two rows.
	completeMu sync.Mutex
	completing map[int64]*sync.Mutex
}

// NewFlow wires the dialogue to its collaborators. The archiver may be nil.
func NewFlow(states state.Manager, directory Directory, store RecordStore, notifier StaffNotifier, archiver Archiver) *Flow {
	return &Flow{
		states:     states,
		directory:  directory,
		store:      store,
		notifier:   notifier,
		archiver:   archiver,
		completing: make(map[int64]*sync.Mutex),
	}
}

// Begin starts (or restarts) the dialogue for the user and returns the
// cities open for registration. Any previous progress is discarded.
func (f *Flow) Begin(ctx context.Context, userID int64) ([]string, error) {
	cities, _, err := f.directory.FetchDirectory(ctx)
	if err != nil {
		logger.Error(ctx, "flow", "directory.fetch_failed",
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
		return nil, ErrDirectoryUnavailable
	}
	if len(cities) == 0 {
		return nil, ErrDirectoryUnavailable
	}

	f.states.Clear(userID)
	f.states.SetState(userID, StateAwaitingCity)

	logger.Info(ctx, "flow", "dialogue.started",
		slog.Int64("user_id", userID),
		slog.Int("cities", len(cities)),
	)
	return cities, nil
}

// SelectCity records the chosen city and advances to the name step. The
// city is validated against a fresh directory read so a stale keyboard
// cannot register a removed city.
func (f *Flow) SelectCity(ctx context.Context, userID int64, city string) (address string, err error) {
	if f.states.GetState(userID) != StateAwaitingCity {
		return "", ErrWrongStep
	}

	city = strings.TrimSpace(city)
	_, addresses, err := f.directory.FetchDirectory(ctx)
	if err != nil {
		logger.Error(ctx, "flow", "directory.fetch_failed",
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
		return "", ErrDirectoryUnavailable
	}
	address, ok := addresses[city]
	if !ok {
		logger.Warn(ctx, "flow", "city.rejected",
			slog.Int64("user_id", userID),
			slog.String("city", logger.Sanitize(city)),
		)
		return "", ErrUnknownCity
	}

	f.states.SetTemp(userID, tempCity, city)
	f.states.SetTemp(userID, tempAddress, address)
	f.states.SetState(userID, StateAwaitingName)
	return address, nil
}

// SubmitName validates and records the name, advancing to the phone step.
func (f *Flow) SubmitName(ctx context.Context, userID int64, name string) error {
	if f.states.GetState(userID) != StateAwaitingName {
		return ErrWrongStep
	}

	name, err := ValidateName(name)
	if err != nil {
		return err
	}

	f.states.SetTemp(userID, tempName, name)
	f.states.SetState(userID, StateAwaitingPhone)
	return nil
}

// SubmitPhone validates the phone number, assembles the completed record
// and clears the session. A phone received via Telegram contact sharing is
// trusted and skips the format check. The record has not been delivered
// anywhere yet; the caller follows up with Complete.
func (f *Flow) SubmitPhone(ctx context.Context, userID int64, username, phone string, trusted bool) (Record, string, error) {
	mu := f.userCompletion(userID)
	mu.Lock()
	defer mu.Unlock()

	if f.states.GetState(userID) != StateAwaitingPhone {
		return Record{}, "", ErrWrongStep
	}

	if trusted {
		phone = strings.TrimSpace(phone)
	} else {
		var err error
		phone, err = ValidatePhone(phone)
		if err != nil {
			return Record{}, "", err
		}
	}

	city, _ := f.states.GetTempString(userID, tempCity)
	address, _ := f.states.GetTempString(userID, tempAddress)
	name, _ := f.states.GetTempString(userID, tempName)

	rec := Record{
		City:        city,
		Name:        name,
		Phone:       phone,
		Username:    username,
		UserID:      userID,
		SubmittedAt: time.Now(),
	}

	f.states.Clear(userID)
	return rec, address, nil
}

// Complete fans the record out: staff notification, spreadsheet append,
// optional archive. The steps are independent; one failing does not stop
// the others. The returned error is the store failure, the only one that
// loses data.
func (f *Flow) Complete(ctx context.Context, rec Record, address string) error {
	if f.notifier != nil {
		if err := f.notifier.NotifyStaff(ctx, rec, address); err != nil {
			logger.Error(ctx, "flow", "staff.notify_failed",
				slog.Int64("user_id", rec.UserID),
				slog.String("err", err.Error()),
			)
		}
	}

	saveErr := f.store.Append(ctx, rec)
	if saveErr != nil {
		logger.Error(ctx, "flow", "record.save_failed",
			slog.Int64("user_id", rec.UserID),
			slog.String("err", saveErr.Error()),
		)
	}

	if f.archiver != nil {
		if err := f.archiver.Archive(ctx, rec); err != nil {
			logger.Error(ctx, "flow", "record.archive_failed",
				slog.Int64("user_id", rec.UserID),
				slog.String("err", err.Error()),
			)
		}
	}

	if saveErr == nil {
		logger.Info(ctx, "flow", "dialogue.completed",
			slog.Int64("user_id", rec.UserID),
			slog.String("city", rec.City),
		)
	}
	return saveErr
}

func (f *Flow) userCompletion(userID int64) *sync.Mutex {
	f.completeMu.Lock()
	defer f.completeMu.Unlock()
	mu, ok := f.completing[userID]
	if !ok {
		mu = &sync.Mutex{}
		f.completing[userID] = mu
	}
	return mu
}
