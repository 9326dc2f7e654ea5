package state

import tele "gopkg.in/telebot.v4"

// State identifies a finite-state-machine step used in conversations.
type State string

const (
	// StateIdle indicates there is no active conversation with the user.
	StateIdle State = "idle"
)

// Session stores conversation state and temporary data for a user.
type Session struct {
	State    State
	TempData map[string]interface{}
}

// Manager orchestrates user sessions and FSM state transitions.
type Manager interface {
	SetState(userID int64, st State)
	GetState(userID int64) State
	SetTemp(userID int64, key string, value interface{})
	GetTemp(userID int64, key string) (interface{}, bool)
	GetTempString(userID int64, key string) (string, bool)
	Clear(userID int64)

	// InProgress reports whether the user has an active non-idle state.
	InProgress(userID int64) bool
	// Handle dispatches to the handler registered for the user's current
	// state. It reports whether a handler was found.
	Handle(c tele.Context) (bool, error)
}
