package repository

import (
	"context"
	"time"

	"blogger-platform/internal/user/domain"
)

// Repository defines persistence for user accounts.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByLogin(ctx context.Context, login string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByLoginOrEmail(ctx context.Context, loginOrEmail string) (*domain.User, error)
	GetByConfirmationCode(ctx context.Context, code string) (*domain.User, error)
	GetByRecoveryCode(ctx context.Context, code string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) error
	Confirm(ctx context.Context, id string) error
	SetConfirmationCode(ctx context.Context, id, code string, expiresAt time.Time) error
	SetRecoveryCode(ctx context.Context, id, code string, expiresAt time.Time) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	DeleteAll(ctx context.Context) error
}
