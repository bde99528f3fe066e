package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/marcos-nsantos/accounts-backend/internal/domain/entity"
	"github.com/marcos-nsantos/accounts-backend/internal/pkg/pagination"
)

//go:generate mockgen -source=interfaces.go -destination=../../mocks/repository_mocks.go -package=mocks

// UserRepository owns persisted users. Email uniqueness is enforced by the
// store: Create and Update report a violation as domain.ErrUserAlreadyExists.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, params pagination.Params) ([]entity.User, *pagination.Info, error)
}

type RefreshTokenRepository interface {
	Create(ctx context.Context, token *entity.RefreshToken) error
	GetByToken(ctx context.Context, token string) (*entity.RefreshToken, error)
	RevokeByUserID(ctx context.Context, userID int64) error
	Revoke(ctx context.Context, id uuid.UUID) error
	DeleteExpired(ctx context.Context) (int64, error)
}
