package models

import "time"

// Event types recorded in the account activity log.
const (
	EventSignUp         = "user.signup"
	EventLogin          = "user.login"
	EventPasswordChange = "user.password.change"
	EventProfileUpdate  = "user.profile.update"
)

// Event represents a recorded account action.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"` // e.g., "user.login"
	UserID    string    `json:"userId"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}
