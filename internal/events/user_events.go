package events

import (
	"time"

	"hris_backend/internal/model"
)

// UserUpdatedType is the type tag carried by profile change events
const UserUpdatedType = "user.updated"

// UserUpdated is emitted after a profile or avatar change
type UserUpdated struct {
	ID   string      `json:"id"`
	Type string      `json:"type"`
	At   time.Time   `json:"at"`
	User *model.User `json:"user"`
}

// NewUserUpdated builds the event for user at the given time
func NewUserUpdated(user *model.User, at time.Time) UserUpdated {
	return UserUpdated{ID: user.ID, Type: UserUpdatedType, At: at.UTC(), User: user}
}
