package types

import (
	"fmt"
	"strings"
	"time"
)

// UserStatus is the lifecycle status of an account. There is no enforced
// transition graph; any status may follow any other.
type UserStatus string

const (
	StatusActive     UserStatus = "ACTIVE"
	StatusPending    UserStatus = "PENDING"
	StatusDeactivate UserStatus = "DEACTIVATE"
)

// ParseUserStatus normalizes and validates a status value.
func ParseUserStatus(s string) (UserStatus, error) {
	switch status := UserStatus(strings.ToUpper(strings.TrimSpace(s))); status {
	case StatusActive, StatusPending, StatusDeactivate:
		return status, nil
	default:
		return "", fmt.Errorf("unknown user status %q", s)
	}
}

// Account represents a user account in the system.
type Account struct {
	// ID is the unique identifier of the account.
	ID int `json:"-" db:"id"`

	// Fullname is the user's display name.
	Fullname string `json:"fullname" db:"fullname"`

	// Username is the unique, email-formatted login name.
	Username string `json:"username" db:"username"`

	// PasswordHash stores the hashed representation of the password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-" db:"password"`

	// Status is the account lifecycle status.
	Status UserStatus `json:"status" db:"status"`

	// Roles is the set of roles assigned to the account. May be empty.
	Roles []Role `json:"roles"`

	// CreatedAt is the timestamp when the account was created.
	CreatedAt time.Time `json:"-" db:"created_at"`
}

// IsActive reports whether the account may pass the authorization gate.
func (a Account) IsActive() bool {
	return a.Status == StatusActive
}

// IsAdmin reports whether the account holds the ADMIN role.
func (a Account) IsAdmin() bool {
	for _, role := range a.Roles {
		if role.Name == RoleAdmin {
			return true
		}
	}
	return false
}

// UserCreate carries the fields needed to create an account. Password is
// plaintext and optional: an account created without one cannot authenticate
// until a password is set through Update.
type UserCreate struct {
	Fullname string
	Username string
	Password string
	Status   UserStatus
	Roles    []RoleName
}

// UserUpdate carries a password change with its confirmation.
type UserUpdate struct {
	NewPassword        string
	NewPasswordConfirm string
}
