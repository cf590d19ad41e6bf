package domain

import (
	"errors"
	"time"
)

type Role string

const (
	RoleAdmin     Role = "admin"
	RoleDataEntry Role = "data-entry"
)

var ErrUnknownRole = errors.New("unknown role")

// ParseRole maps an empty string to the data-entry role.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case "":
		return RoleDataEntry, nil
	case RoleAdmin, RoleDataEntry:
		return Role(s), nil
	default:
		return "", ErrUnknownRole
	}
}

type User struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Session identifies the caller of an authenticated request.
type Session struct {
	UserID uint
	Role   Role
}

func (s Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}
