package handler

import (
	"context"

	"github.com/marcos-nsantos/accounts-backend/internal/domain/entity"
	"github.com/marcos-nsantos/accounts-backend/internal/pkg/pagination"
	"github.com/marcos-nsantos/accounts-backend/internal/usecase/auth"
	"github.com/marcos-nsantos/accounts-backend/internal/usecase/user"
)

//go:generate mockgen -source=interfaces.go -destination=../../mocks/handler_mocks.go -package=mocks

type AuthService interface {
	Register(ctx context.Context, input auth.RegisterInput) (*entity.User, error)
	Login(ctx context.Context, input auth.LoginInput) (*auth.AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error)
	Logout(ctx context.Context, userID int64) error
}

type UserService interface {
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	Current(ctx context.Context, userID int64) (*entity.User, error)
	List(ctx context.Context, input user.ListInput) ([]entity.User, *pagination.Info, error)
	Patch(ctx context.Context, id int64, input user.PatchInput) (*entity.User, error)
	Replace(ctx context.Context, id int64, input user.ReplaceInput) (*entity.User, error)
	Delete(ctx context.Context, id int64) error
}
