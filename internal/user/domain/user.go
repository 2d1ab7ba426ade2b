package domain

import (
	"errors"
	"time"
)

// User is the core user account entity, including the embedded
// email-confirmation and password-recovery state the auth flows consume.
type User struct {
	ID           string
	Login        string
	Email        string
	PasswordHash string
	CreatedAt    time.Time

	Confirmation EmailConfirmation
	Recovery     PasswordRecovery
}

// EmailConfirmation tracks the registration confirmation code. Code and
// ExpiresAt are cleared once the code is consumed.
type EmailConfirmation struct {
	Code      string
	ExpiresAt time.Time
	Status    ConfirmationStatus
}

// PasswordRecovery tracks the active password-recovery code, if any.
type PasswordRecovery struct {
	Code      string
	ExpiresAt time.Time
}

type ConfirmationStatus string

const (
	Confirmed    ConfirmationStatus = "confirmed"
	NotConfirmed ConfirmationStatus = "notConfirmed"
)

// IsConfirmed reports whether the account may log in.
func (u *User) IsConfirmed() bool {
	return u.Confirmation.Status == Confirmed
}

// Validate validates the user for persistence. Returns an error describing the first validation failure.
func (u *User) Validate() error {
	if u.Login == "" {
		return errors.New("login is required")
	}
	if u.Email == "" {
		return errors.New("email is required")
	}
	if u.PasswordHash == "" {
		return errors.New("password hash is required")
	}
	if u.Confirmation.Status == "" {
		u.Confirmation.Status = NotConfirmed
	}
	return nil
}
