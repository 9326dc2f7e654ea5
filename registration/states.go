package registration

import "loyaltybot/core/telegram/state"

// Conversation states of the registration dialogue, in order.
const (
	StateAwaitingCity  state.State = "awaiting_city"
	StateAwaitingName  state.State = "awaiting_name"
	StateAwaitingPhone state.State = "awaiting_phone"
)

// Session temp-data keys.
const (
	tempCity    = "city"
	tempAddress = "address"
	tempName    = "name"
)
