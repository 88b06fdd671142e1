package model

import "time"

// Role is the access level a user holds
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User represents an employee account
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Role         Role      `json:"role"`
	Email        string    `json:"email,omitempty"`
	PasswordHash string    `json:"-"` // Do not expose password hash in JSON responses
	Phone        string    `json:"phone,omitempty"`
	Avatar       string    `json:"avatar,omitempty"`
	Position     string    `json:"position,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CreateUserRequest is used by admins to create accounts
type CreateUserRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     Role   `json:"role" binding:"required,oneof=USER ADMIN"`
	Phone    string `json:"phone"`
	Position string `json:"position"`
}

// UpdateUserRequest carries a partial profile update. Nil fields are left untouched.
type UpdateUserRequest struct {
	Phone           *string `json:"phone,omitempty"`
	Password        *string `json:"password,omitempty"`
	ConfirmPassword *string `json:"confirmPassword,omitempty"`
	Role            *Role   `json:"role,omitempty" binding:"omitempty,oneof=USER ADMIN"`
	Email           *string `json:"email,omitempty" binding:"omitempty,email"`
	Position        *string `json:"position,omitempty"`
}

// UserFilters holds the admin list query
type UserFilters struct {
	Query string
	Page  PageOptions
}

// AttendanceMetrics summarises a user's attendance since account creation
type AttendanceMetrics struct {
	TotalWorkDay  int `json:"totalWorkDay"`
	TotalPresence int `json:"totalPresence"`
	TotalAbsent   int `json:"totalAbsent"`
	TotalLate     int `json:"totalLate"`
}

// UserDetail is a user with attendance metrics attached
type UserDetail struct {
	User
	AttendanceMetrics
}

// UserWithLastAbsence is a user with their latest IN and OUT events
type UserWithLastAbsence struct {
	User
	LastIn  *Absence `json:"lastIn"`
	LastOut *Absence `json:"lastOut"`
}
