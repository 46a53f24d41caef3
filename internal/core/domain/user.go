package domain

import "time"

// Role is the closed set of account roles.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleWorker Role = "worker"
)

// ParseRole validates a role string. An empty value means the default role.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case "":
		return RoleWorker, nil
	case RoleAdmin, RoleWorker:
		return Role(s), nil
	default:
		return "", ErrInvalidRole
	}
}

// User models a registered account.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// Caller is the authenticated identity carried by a session token.
type Caller struct {
	ID    int64
	Email string
	Role  Role
	Name  string
}

func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}
