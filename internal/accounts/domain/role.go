package domain

import "time"

// Built-in roles installed by the seed migration. RoleAdmin is the one the
// bootstrap policy grants to the first account.
const (
	RoleAdmin       = "admin"
	RoleContributor = "contributor"
	RoleViewer      = "viewer"
)

type Role struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Permission is a named capability granted through roles, e.g. "accounts.read".
type Permission struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
}

// RoleAssignment binds an account to a role.
type RoleAssignment struct {
	AccountID string
	RoleID    string
	CreatedAt time.Time
}
