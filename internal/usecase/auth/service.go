package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/marcos-nsantos/accounts-backend/internal/adapter/repository"
	"github.com/marcos-nsantos/accounts-backend/internal/domain"
	"github.com/marcos-nsantos/accounts-backend/internal/domain/entity"
	"github.com/marcos-nsantos/accounts-backend/internal/infrastructure/auth"
)

type Service struct {
	userRepo         repository.UserRepository
	refreshTokenRepo repository.RefreshTokenRepository
	jwtSvc           *auth.JWTService
	passwordHasher   *auth.PasswordHasher
	refreshTokenTTL  time.Duration

	dummyHashOnce sync.Once
	dummyHash     string
}

func NewService(
	userRepo repository.UserRepository,
	refreshTokenRepo repository.RefreshTokenRepository,
	jwtSvc *auth.JWTService,
	passwordHasher *auth.PasswordHasher,
	refreshTokenTTL time.Duration,
) *Service {
	return &Service{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		jwtSvc:           jwtSvc,
		passwordHasher:   passwordHasher,
		refreshTokenTTL:  refreshTokenTTL,
	}
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// AuthResult is what a successful login hands back to the caller; the
// identity travels with it rather than through any shared context.
type AuthResult struct {
	TokenPair
	User *entity.User
}

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

func (s *Service) Register(ctx context.Context, input RegisterInput) (*entity.User, error) {
	email := entity.NormalizeEmail(input.Email)

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("checking email: %w", err)
	}
	if exists {
		return nil, domain.ErrUserAlreadyExists
	}

	hash, err := s.passwordHasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := entity.NewUser(email, hash, input.FirstName, input.LastName)
	if err := s.userRepo.Create(ctx, user); err != nil {
		// A concurrent registration can pass the check above; the store
		// constraint decides and reports the loser as ErrUserAlreadyExists.
		if errors.Is(err, domain.ErrUserAlreadyExists) {
			return nil, domain.ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}

	return user, nil
}

type LoginInput struct {
	Email    string
	Password string
}

func (s *Service) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, entity.NormalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Spend the same bcrypt work as a wrong password would.
			_ = s.passwordHasher.Compare(s.unknownUserHash(), input.Password)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("getting user: %w", err)
	}

	if err := s.passwordHasher.Compare(user.PasswordHash, input.Password); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	s.upgradePasswordHash(ctx, user, input.Password)

	tokens, err := s.generateTokenPair(ctx, user)
	if err != nil {
		return nil, err
	}

	return &AuthResult{TokenPair: *tokens, User: user}, nil
}

func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	rt, err := s.refreshTokenRepo.GetByToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, domain.ErrTokenInvalid) {
			return nil, domain.ErrTokenInvalid
		}
		return nil, fmt.Errorf("getting refresh token: %w", err)
	}

	if rt.IsRevoked() {
		return nil, domain.ErrTokenRevoked
	}

	if rt.IsExpired() {
		return nil, domain.ErrTokenExpired
	}

	if err := s.refreshTokenRepo.Revoke(ctx, rt.ID); err != nil {
		if errors.Is(err, domain.ErrTokenRevoked) {
			return nil, domain.ErrTokenRevoked
		}
		return nil, fmt.Errorf("revoking old token: %w", err)
	}

	user, err := s.userRepo.GetByID(ctx, rt.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrTokenInvalid
		}
		return nil, fmt.Errorf("getting user: %w", err)
	}

	return s.generateTokenPair(ctx, user)
}

func (s *Service) Logout(ctx context.Context, userID int64) error {
	if err := s.refreshTokenRepo.RevokeByUserID(ctx, userID); err != nil {
		return fmt.Errorf("revoking tokens: %w", err)
	}
	return nil
}

// upgradePasswordHash re-hashes a verified password whose stored hash was made
// at another bcrypt cost. Failures leave the old hash in place and never fail
// the login.
func (s *Service) upgradePasswordHash(ctx context.Context, user *entity.User, password string) {
	if !s.passwordHasher.NeedsRehash(user.PasswordHash) {
		return
	}
	hash, err := s.passwordHasher.Hash(password)
	if err != nil {
		return
	}
	previous := user.PasswordHash
	user.PasswordHash = hash
	if err := s.userRepo.Update(ctx, user); err != nil {
		user.PasswordHash = previous
	}
}

// PurgeRefreshTokens removes expired and revoked refresh tokens.
func (s *Service) PurgeRefreshTokens(ctx context.Context) (int64, error) {
	n, err := s.refreshTokenRepo.DeleteExpired(ctx)
	if err != nil {
		return 0, fmt.Errorf("purging refresh tokens: %w", err)
	}
	return n, nil
}

// fallbackUnknownUserHash is a cost-10 bcrypt hash used when the configured
// hasher cannot produce a placeholder, so unknown emails never skip bcrypt.
const fallbackUnknownUserHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

func (s *Service) unknownUserHash() string {
	s.dummyHashOnce.Do(func() {
		s.dummyHash = placeholderHash(s.passwordHasher.Hash)
	})
	return s.dummyHash
}

func placeholderHash(hash func(string) (string, error)) string {
	h, err := hash("unknown-user-placeholder")
	if err != nil || h == "" {
		return fallbackUnknownUserHash
	}
	return h
}

func (s *Service) generateTokenPair(ctx context.Context, user *entity.User) (*TokenPair, error) {
	accessToken, expiresAt, err := s.jwtSvc.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("generating access token: %w", err)
	}

	refreshTokenStr, err := s.jwtSvc.GenerateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("generating refresh token: %w", err)
	}

	rt := entity.NewRefreshToken(
		user.ID,
		refreshTokenStr,
		time.Now().UTC().Add(s.refreshTokenTTL),
	)

	if err := s.refreshTokenRepo.Create(ctx, rt); err != nil {
		return nil, fmt.Errorf("storing refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshTokenStr,
		ExpiresAt:    expiresAt,
	}, nil
}
