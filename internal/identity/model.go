package identity

import "time"

// Role determines which dashboard surfaces a user sees.
type Role string

const (
	RoleHost  Role = "host"
	RoleAgent Role = "agent"
	RoleGuest Role = "guest"
	RoleAdmin Role = "admin"
)

// User represents a registered platform member.
type User struct {
	ID           string
	Email        string
	Phone        string
	Name         string
	Role         Role
	Country      string
	PasswordHash []byte
	TokenVersion int
	CreatedAt    time.Time
	LastLogin    time.Time
}

// Credentials is the registration/login request structure.
type Credentials struct {
	Email    string
	Password string
	Phone    string
	Name     string
	Role     Role
	Country  string
}
