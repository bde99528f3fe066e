package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/marcos-nsantos/accounts-backend/internal/adapter/repository"
	"github.com/marcos-nsantos/accounts-backend/internal/domain"
	"github.com/marcos-nsantos/accounts-backend/internal/domain/entity"
	"github.com/marcos-nsantos/accounts-backend/internal/infrastructure/auth"
	"github.com/marcos-nsantos/accounts-backend/internal/pkg/pagination"
)

type Service struct {
	userRepo         repository.UserRepository
	refreshTokenRepo repository.RefreshTokenRepository
	passwordHasher   *auth.PasswordHasher
}

func NewService(
	userRepo repository.UserRepository,
	refreshTokenRepo repository.RefreshTokenRepository,
	passwordHasher *auth.PasswordHasher,
) *Service {
	return &Service{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		passwordHasher:   passwordHasher,
	}
}

// GetByID returns (nil, nil) when no user has the given id.
func (s *Service) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return user, nil
}

// Current resolves the user named by an already validated access token.
func (s *Service) Current(ctx context.Context, userID int64) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("getting current user: %w", err)
	}
	return user, nil
}

type ListInput struct {
	Page          int
	Size          int
	SortField     string
	SortDirection string
}

func (s *Service) List(ctx context.Context, input ListInput) ([]entity.User, *pagination.Info, error) {
	sortField := input.SortField
	if sortField == "" {
		sortField = pagination.DefaultSortField
	}
	if !entity.IsUserSortField(sortField) {
		return nil, nil, fmt.Errorf("%w: %q", domain.ErrInvalidSortField, sortField)
	}

	params := pagination.NewParams(input.Page, input.Size, pagination.Sort{
		Field:     sortField,
		Direction: pagination.ParseDirection(input.SortDirection),
	})

	users, pageInfo, err := s.userRepo.List(ctx, params)
	if err != nil {
		return nil, nil, fmt.Errorf("listing users: %w", err)
	}

	return users, pageInfo, nil
}

// PatchInput holds the fields of a merge-patch. A nil field is left as is.
type PatchInput struct {
	Email     *string
	FirstName *string
	LastName  *string
	Phone     *string
	Password  *string
}

// Patch applies a merge-patch and returns (nil, nil) when the user does not
// exist. An email already held by another user fails with
// domain.ErrUserAlreadyExists and nothing is written. A password change
// revokes every refresh token the user holds.
func (s *Service) Patch(ctx context.Context, id int64, input PatchInput) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting user: %w", err)
	}

	if input.Email != nil {
		if err := s.changeEmail(ctx, user, *input.Email); err != nil {
			return nil, err
		}
	}
	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	passwordChanged := input.Password != nil && *input.Password != ""
	if passwordChanged {
		hash, err := s.passwordHasher.Hash(*input.Password)
		if err != nil {
			return nil, fmt.Errorf("hashing password: %w", err)
		}
		user.PasswordHash = hash
	}

	if err := s.save(ctx, user); err != nil {
		return nil, err
	}

	if passwordChanged {
		if err := s.refreshTokenRepo.RevokeByUserID(ctx, user.ID); err != nil {
			return nil, fmt.Errorf("revoking refresh tokens: %w", err)
		}
	}
	return user, nil
}

type ReplaceInput struct {
	Email     string
	FirstName string
	LastName  string
	Phone     string
}

// Replace overwrites every profile field of the user with the given id. The
// id always comes from the caller, never from the payload.
func (s *Service) Replace(ctx context.Context, id int64, input ReplaceInput) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("getting user: %w", err)
	}

	if err := s.changeEmail(ctx, user, input.Email); err != nil {
		return nil, err
	}
	user.FirstName = input.FirstName
	user.LastName = input.LastName
	user.Phone = input.Phone

	if err := s.save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.userRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("getting user: %w", err)
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("deleting user: %w", err)
	}
	return nil
}

func (s *Service) changeEmail(ctx context.Context, user *entity.User, email string) error {
	email = entity.NormalizeEmail(email)
	if email == user.Email {
		return nil
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("checking email: %w", err)
	}
	if exists {
		return domain.ErrUserAlreadyExists
	}

	user.Email = email
	return nil
}

func (s *Service) save(ctx context.Context, user *entity.User) error {
	if err := s.userRepo.Update(ctx, user); err != nil {
		switch {
		case errors.Is(err, domain.ErrUserAlreadyExists):
			return domain.ErrUserAlreadyExists
		case errors.Is(err, domain.ErrUserNotFound):
			return domain.ErrUserNotFound
		default:
			return fmt.Errorf("updating user: %w", err)
		}
	}
	return nil
}
