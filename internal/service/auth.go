package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/librarycatalog/library-api/internal/apperr"
	"github.com/librarycatalog/library-api/internal/model"
	"github.com/librarycatalog/library-api/internal/repository"
)

const MsgInvalidCredentials = "Credenciales inválidas"

// AuthService handles registration and login.
type AuthService struct {
	users  UserStore
	hasher PasswordHasher
	tokens TokenIssuer

	// dummyHash is verified against when the email is unknown, so both login
	// failures cost one hash comparison.
	dummyOnce sync.Once
	dummyHash string
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserStore, hasher PasswordHasher, tokens TokenIssuer) *AuthService {
	return &AuthService{users: users, hasher: hasher, tokens: tokens}
}

// Register creates a new user account and returns an auth token.
func (s *AuthService) Register(ctx context.Context, req model.CreateUserRequest) (*model.AuthResponse, error) {
	if v := req.Validate(); len(v) > 0 {
		return nil, validationError(v)
	}

	hash, err := s.hasher.Hash(req.Password.Value)
	if err != nil {
		return nil, internal("registrando usuario", err)
	}

	user := req.Merge(model.User{})
	user.PasswordHash = hash

	if err := s.users.Create(ctx, &user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperr.Conflict(userEntity, "email", err)
		}
		return nil, internal("registrando usuario", err)
	}

	slog.Info("user registered", "user_id", user.ID)
	return s.issue(&user)
}

// Login authenticates a user and returns an auth token. Unknown emails and
// wrong passwords fail identically.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error) {
	if v := req.Validate(); len(v) > 0 {
		return nil, validationError(v)
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.verifyDummy(req.Password)
			return nil, badCredentials()
		}
		return nil, internal("iniciando sesión", err)
	}

	match, err := s.hasher.Verify(req.Password, user.PasswordHash)
	if err != nil {
		return nil, internal("iniciando sesión", err)
	}
	if !match {
		return nil, badCredentials()
	}

	at, err := s.users.UpdateLastLogin(ctx, user.ID)
	if err != nil {
		slog.Warn("last login not recorded", "user_id", user.ID, "error", err)
	} else {
		user.LastLoginAt = &at
	}

	return s.issue(user)
}

func (s *AuthService) verifyDummy(password string) {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash("unknown-account")
		if err != nil {
			slog.Warn("dummy password hash failed", "error", err)
			return
		}
		s.dummyHash = hash
	})
	if s.dummyHash != "" {
		_, _ = s.hasher.Verify(password, s.dummyHash)
	}
}

// Me returns the account behind an authenticated request.
func (s *AuthService) Me(ctx context.Context, userID int64) (*model.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperr.NotFound(userEntity)
		}
		return nil, internal("obteniendo usuario", err)
	}
	return user, nil
}

func (s *AuthService) issue(user *model.User) (*model.AuthResponse, error) {
	token, err := s.tokens.Generate(user.ID, user.Email)
	if err != nil {
		return nil, internal("generando token", err)
	}
	return &model.AuthResponse{Token: token, User: user}, nil
}

func badCredentials() error {
	return apperr.Unauthenticated(apperr.ReasonBadCredentials, MsgInvalidCredentials, nil)
}
