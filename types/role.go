package types

import (
	"fmt"
	"strings"
)

// RoleName is a named permission tag. The set is closed: ADMIN and USER.
type RoleName string

const (
	RoleAdmin RoleName = "ADMIN"
	RoleUser  RoleName = "USER"
)

// ParseRoleName normalizes and validates a role name.
func ParseRoleName(s string) (RoleName, error) {
	switch name := RoleName(strings.ToUpper(strings.TrimSpace(s))); name {
	case RoleAdmin, RoleUser:
		return name, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// Role is a permission tag assigned to accounts.
type Role struct {
	ID   int      `json:"-" db:"id"`
	Name RoleName `json:"name" db:"name"`
}
