package registration

import (
	"context"
	"errors"
	"testing"

	"loyaltybot/core/telegram/state"
)

type fakeDirectory struct {
	cities    []string
	addresses map[string]string
	err       error
	calls     int
}

func (d *fakeDirectory) FetchDirectory(context.Context) ([]string, map[string]string, error) {
	d.calls++
	return d.cities, d.addresses, d.err
}

type fakeStore struct {
	appended []Record
	err      error
}

func (s *fakeStore) EnsureHeader(context.Context) error { return s.err }

func (s *fakeStore) Append(_ context.Context, rec Record) error {
	if s.err != nil {
		return s.err
	}
	s.appended = append(s.appended, rec)
	return nil
}

type fakeNotifier struct {
	notified []Record
	err      error
}

func (n *fakeNotifier) NotifyStaff(_ context.Context, rec Record, _ string) error {
	if n.err != nil {
		return n.err
	}
	n.notified = append(n.notified, rec)
	return nil
}

type fakeArchiver struct {
	archived []Record
	err      error
}

func (a *fakeArchiver) Archive(_ context.Context, rec Record) error {
	if a.err != nil {
		return a.err
	}
	a.archived = append(a.archived, rec)
	return nil
}

func testDirectory() *fakeDirectory {
	return &fakeDirectory{
		cities: []string{"Тула", "Калуга"},
		addresses: map[string]string{
			"Тула":   "ул. Ленина, 1",
			"Калуга": "пр. Мира, 5",
		},
	}
}

func newTestFlow(dir Directory, store RecordStore, notifier StaffNotifier, archiver Archiver) (*Flow, state.Manager) {
	sm := state.NewMemoryManager()
	return NewFlow(sm, dir, store, notifier, archiver), sm
}

func TestFlowHappyPath(t *testing.T) {
	ctx := context.Background()
	dir := testDirectory()
	store := &fakeStore{}
	notifier := &fakeNotifier{}
	flow, sm := newTestFlow(dir, store, notifier, nil)

	const userID = int64(42)

	cities, err := flow.Begin(ctx, userID)
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if len(cities) != 2 || cities[0] != "Тула" {
		t.Fatalf("Begin returned %v", cities)
	}
	if sm.GetState(userID) != StateAwaitingCity {
		t.Fatalf("state after Begin = %q", sm.GetState(userID))
	}

	address, err := flow.SelectCity(ctx, userID, "Тула")
	if err != nil {
		t.Fatalf("SelectCity: %v", err)
	}
	if address != "ул. Ленина, 1" {
		t.Fatalf("SelectCity address = %q", address)
	}
	if sm.GetState(userID) != StateAwaitingName {
		t.Fatalf("state after SelectCity = %q", sm.GetState(userID))
	}

	if err := flow.SubmitName(ctx, userID, "  Анна  "); err != nil {
		t.Fatalf("SubmitName: %v", err)
	}
	if sm.GetState(userID) != StateAwaitingPhone {
		t.Fatalf("state after SubmitName = %q", sm.GetState(userID))
	}

	rec, addr, err := flow.SubmitPhone(ctx, userID, "ann", "+79991234567", false)
	if err != nil {
		t.Fatalf("SubmitPhone: %v", err)
	}
	if rec.City != "Тула" || rec.Name != "Анна" || rec.Phone != "+79991234567" {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.Username != "ann" || rec.UserID != userID {
		t.Fatalf("unexpected record identity: %+v", rec)
	}
	if rec.SubmittedAt.IsZero() {
		t.Fatal("SubmittedAt not set")
	}
	if addr != "ул. Ленина, 1" {
		t.Fatalf("SubmitPhone address = %q", addr)
	}
	if sm.InProgress(userID) {
		t.Fatal("session not cleared after SubmitPhone")
	}

	if err := flow.Complete(ctx, rec, addr); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if len(store.appended) != 1 {
		t.Fatalf("appended %d records, want 1", len(store.appended))
	}
	if len(notifier.notified) != 1 {
		t.Fatalf("notified %d times, want 1", len(notifier.notified))
	}
}

func TestFlowStepsCannotBeSkipped(t *testing.T) {
	ctx := context.Background()
	flow, _ := newTestFlow(testDirectory(), &fakeStore{}, &fakeNotifier{}, nil)
	const userID = int64(7)

	if _, err := flow.SelectCity(ctx, userID, "Тула"); !errors.Is(err, ErrWrongStep) {
		t.Fatalf("SelectCity before Begin: got %v, want ErrWrongStep", err)
	}
	if err := flow.SubmitName(ctx, userID, "Анна"); !errors.Is(err, ErrWrongStep) {
		t.Fatalf("SubmitName before Begin: got %v, want ErrWrongStep", err)
	}
	if _, _, err := flow.SubmitPhone(ctx, userID, "", "+79991234567", false); !errors.Is(err, ErrWrongStep) {
		t.Fatalf("SubmitPhone before Begin: got %v, want ErrWrongStep", err)
	}

	if _, err := flow.Begin(ctx, userID); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := flow.SubmitName(ctx, userID, "Анна"); !errors.Is(err, ErrWrongStep) {
		t.Fatalf("SubmitName before SelectCity: got %v, want ErrWrongStep", err)
	}
}

func TestFlowStaleCityRejected(t *testing.T) {
	ctx := context.Background()
	dir := testDirectory()
	flow, sm := newTestFlow(dir, &fakeStore{}, &fakeNotifier{}, nil)
	const userID = int64(9)

	if _, err := flow.Begin(ctx, userID); err != nil {
		t.Fatalf("Begin: %v", err)
	}

	// The city disappears from the directory between the keyboard render
	// and the button press.
	dir.cities = []string{"Калуга"}
	delete(dir.addresses, "Тула")

	if _, err := flow.SelectCity(ctx, userID, "Тула"); !errors.Is(err, ErrUnknownCity) {
		t.Fatalf("stale city: got %v, want ErrUnknownCity", err)
	}
	if sm.GetState(userID) != StateAwaitingCity {
		t.Fatalf("state after rejection = %q, want %q", sm.GetState(userID), StateAwaitingCity)
	}
}

func TestFlowBeginDirectoryUnavailable(t *testing.T) {
	ctx := context.Background()
	const userID = int64(1)

	broken := &fakeDirectory{err: errors.New("api down")}
	flow, sm := newTestFlow(broken, &fakeStore{}, &fakeNotifier{}, nil)
	if _, err := flow.Begin(ctx, userID); !errors.Is(err, ErrDirectoryUnavailable) {
		t.Fatalf("Begin with failing directory: got %v", err)
	}
	if sm.InProgress(userID) {
		t.Fatal("dialogue started despite directory failure")
	}

	empty := &fakeDirectory{}
	flow, sm = newTestFlow(empty, &fakeStore{}, &fakeNotifier{}, nil)
	if _, err := flow.Begin(ctx, userID); !errors.Is(err, ErrDirectoryUnavailable) {
		t.Fatalf("Begin with empty directory: got %v", err)
	}
	if sm.InProgress(userID) {
		t.Fatal("dialogue started despite empty directory")
	}
}

func TestFlowValidationKeepsStep(t *testing.T) {
	ctx := context.Background()
	flow, sm := newTestFlow(testDirectory(), &fakeStore{}, &fakeNotifier{}, nil)
	const userID = int64(3)

	if _, err := flow.Begin(ctx, userID); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if _, err := flow.SelectCity(ctx, userID, "Тула"); err != nil {
		t.Fatalf("SelectCity: %v", err)
	}

	if err := flow.SubmitName(ctx, userID, "A"); !errors.Is(err, ErrNameTooShort) {
		t.Fatalf("short name: got %v", err)
	}
	if sm.GetState(userID) != StateAwaitingName {
		t.Fatalf("state after rejected name = %q", sm.GetState(userID))
	}

	if err := flow.SubmitName(ctx, userID, "Анна"); err != nil {
		t.Fatalf("SubmitName: %v", err)
	}
	if _, _, err := flow.SubmitPhone(ctx, userID, "", "123", false); !errors.Is(err, ErrBadPhone) {
		t.Fatalf("bad phone: got %v", err)
	}
	if sm.GetState(userID) != StateAwaitingPhone {
		t.Fatalf("state after rejected phone = %q", sm.GetState(userID))
	}
}

func TestFlowTrustedPhoneSkipsValidation(t *testing.T) {
	ctx := context.Background()
	flow, _ := newTestFlow(testDirectory(), &fakeStore{}, &fakeNotifier{}, nil)
	const userID = int64(5)

	if _, err := flow.Begin(ctx, userID); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if _, err := flow.SelectCity(ctx, userID, "Калуга"); err != nil {
		t.Fatalf("SelectCity: %v", err)
	}
	if err := flow.SubmitName(ctx, userID, "Иван"); err != nil {
		t.Fatalf("SubmitName: %v", err)
	}

	// Telegram reports shared contacts without a plus and may exceed the
	// manual-entry length limit; they are accepted as-is.
	rec, _, err := flow.SubmitPhone(ctx, userID, "ivan", "001234567890123456", true)
	if err != nil {
		t.Fatalf("SubmitPhone trusted: %v", err)
	}
	if rec.Phone != "001234567890123456" {
		t.Fatalf("trusted phone = %q", rec.Phone)
	}
}

func TestFlowCompleteStepsAreIndependent(t *testing.T) {
	ctx := context.Background()
	rec := Record{City: "Тула", Name: "Анна", Phone: "+79991234567", UserID: 42}

	// Failing notifier must not prevent the append.
	store := &fakeStore{}
	notifier := &fakeNotifier{err: errors.New("channel gone")}
	archiver := &fakeArchiver{}
	flow, _ := newTestFlow(testDirectory(), store, notifier, archiver)
	if err := flow.Complete(ctx, rec, "адрес"); err != nil {
		t.Fatalf("Complete with failing notifier: %v", err)
	}
	if len(store.appended) != 1 {
		t.Fatalf("appended %d records, want 1", len(store.appended))
	}
	if len(archiver.archived) != 1 {
		t.Fatalf("archived %d records, want 1", len(archiver.archived))
	}

	// Failing store surfaces the error but still notifies and archives.
	store = &fakeStore{err: errors.New("quota exceeded")}
	notifier = &fakeNotifier{}
	archiver = &fakeArchiver{}
	flow, _ = newTestFlow(testDirectory(), store, notifier, archiver)
	if err := flow.Complete(ctx, rec, "адрес"); err == nil {
		t.Fatal("Complete with failing store: expected error")
	}
	if len(notifier.notified) != 1 {
		t.Fatalf("notified %d times, want 1", len(notifier.notified))
	}
	if len(archiver.archived) != 1 {
		t.Fatalf("archived %d records, want 1", len(archiver.archived))
	}
}

func TestFlowRestartDiscardsProgress(t *testing.T) {
	ctx := context.Background()
	flow, sm := newTestFlow(testDirectory(), &fakeStore{}, &fakeNotifier{}, nil)
	const userID = int64(11)

	if _, err := flow.Begin(ctx, userID); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if _, err := flow.SelectCity(ctx, userID, "Тула"); err != nil {
		t.Fatalf("SelectCity: %v", err)
	}

	if _, err := flow.Begin(ctx, userID); err != nil {
		t.Fatalf("restart Begin: %v", err)
	}
	if sm.GetState(userID) != StateAwaitingCity {
		t.Fatalf("state after restart = %q", sm.GetState(userID))
	}
	if _, ok := sm.GetTempString(userID, tempCity); ok {
		t.Fatal("city survived the restart")
	}
}
