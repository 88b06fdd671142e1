package model

import "time"

// AbsenceStatus is the direction of a clock event
type AbsenceStatus string

const (
	AbsenceStatusIn  AbsenceStatus = "in"
	AbsenceStatusOut AbsenceStatus = "out"
)

// Valid reports whether s is a known status
func (s AbsenceStatus) Valid() bool {
	return s == AbsenceStatusIn || s == AbsenceStatusOut
}

// Absence is a single clock-in or clock-out event
type Absence struct {
	ID        string        `json:"id"`
	UserID    string        `json:"user_id"`
	Status    AbsenceStatus `json:"status"`
	WorkDate  time.Time     `json:"work_date"` // Calendar day of CreatedAt in the business zone
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`

	UserName     string `json:"user_name,omitempty"`
	UserPosition string `json:"user_position,omitempty"`
}

// CreateAbsenceRequest is used for clocking in or out
type CreateAbsenceRequest struct {
	Status AbsenceStatus `json:"status" binding:"required,oneof=in out"`
}

// UpdateAbsenceRequest is used for correcting an event
type UpdateAbsenceRequest struct {
	Status *AbsenceStatus `json:"status,omitempty" binding:"omitempty,oneof=in out"`
}

// AbsenceFilters contains filter parameters for absence list queries
type AbsenceFilters struct {
	UserID    *string
	StartDate *time.Time
	EndDate   *time.Time
	Page      PageOptions
}
