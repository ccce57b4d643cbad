// Package models holds the row shapes of the two credential tables.
package models

import "database/sql"

// User is a row of the primary "users" table. SealedHash is stored without
// a key id prefix; the id lives in KeyID, which older rows leave NULL.
type User struct {
	ID         int64
	Username   string
	Email      sql.NullString
	SealedHash string
	KeyID      sql.NullString
	Role       string
	Active     bool
}

// Roles treated as administrative.
const (
	RoleUser       = "user"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "superadmin"
	RoleStaff      = "staff"
)

func IsAdminRole(role string) bool {
	switch role {
	case RoleAdmin, RoleSuperAdmin, RoleStaff:
		return true
	}
	return false
}

// Login is a row of the legacy "user_logins" table. Password holds the full
// sealed blob, key id prefix included.
type Login struct {
	ID       int64
	Username string
	Email    sql.NullString
	Password string
	IsAdmin  bool
}
