package auth

import (
	"context"

	"roadassist/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
}

type MechanicRepository interface {
	Create(ctx context.Context, p *domain.MechanicProfile) error
	GetByUserID(ctx context.Context, userID int64) (*domain.MechanicProfile, error)
}

type TokenIssuer interface {
	GenerateToken(userID int64, role string) (string, error)
}
