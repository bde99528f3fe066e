package entity

import (
	"strings"
	"time"
)

// User is the persisted account record. ID, CreatedAt and UpdatedAt are
// assigned by the store.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Phone        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func NewUser(email, passwordHash, firstName, lastName string) *User {
	return &User{
		Email:        NormalizeEmail(email),
		PasswordHash: passwordHash,
		FirstName:    firstName,
		LastName:     lastName,
	}
}

// NormalizeEmail is applied to every email before it reaches the store so the
// unique constraint is case-insensitive in practice.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// UserSortFields lists the attributes a user listing may be ordered by.
var UserSortFields = []string{"id", "email", "firstName", "lastName", "createdAt", "updatedAt"}

func IsUserSortField(field string) bool {
	for _, f := range UserSortFields {
		if f == field {
			return true
		}
	}
	return false
}
