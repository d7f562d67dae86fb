package domain

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name         string    `json:"name" gorm:"not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	IsActive     bool      `json:"isActive" gorm:"default:true"`
	LastLogin    time.Time `json:"lastLogin"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

var emailPattern = regexp.MustCompile(`^[\w\-.]+@([\w-]+\.)+[\w-]{2,}$`)

// NormalizeEmail lowercases and trims an email address before storage or lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if len(name) < 2 {
		return NewValidationError("Name must be at least 2 characters long")
	}
	if len(name) > 50 {
		return NewValidationError("Name cannot exceed 50 characters")
	}
	return nil
}

func ValidateEmail(email string) error {
	if !emailPattern.MatchString(NormalizeEmail(email)) {
		return NewValidationError("Please provide a valid email")
	}
	return nil
}

func ValidatePassword(password string) error {
	if len(password) < 6 {
		return NewValidationError("Password must be at least 6 characters long")
	}
	return nil
}
