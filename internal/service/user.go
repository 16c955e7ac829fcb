package service

import (
	"context"
	"errors"

	"github.com/librarycatalog/library-api/internal/apperr"
	"github.com/librarycatalog/library-api/internal/model"
	"github.com/librarycatalog/library-api/internal/repository"
)

// UserService handles account management.
type UserService struct {
	store  UserStore
	hasher PasswordHasher
}

// NewUserService creates a new UserService.
func NewUserService(store UserStore, hasher PasswordHasher) *UserService {
	return &UserService{store: store, hasher: hasher}
}

// List returns every user, newest first.
func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	users, err := s.store.List(ctx)
	if err != nil {
		return nil, internal("obteniendo usuarios", err)
	}
	return users, nil
}

// Get returns the user with the given ID.
func (s *UserService) Get(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperr.NotFound(userEntity)
		}
		return nil, internal("obteniendo usuario", err)
	}
	return user, nil
}

// Update applies a partial profile update. A new email must be unused and a
// new password is re-hashed.
func (s *UserService) Update(ctx context.Context, id int64, req model.UpdateUserRequest) (*model.User, error) {
	if v := req.Validate(); len(v) > 0 {
		return nil, validationError(v)
	}

	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	merged := req.Merge(*current)

	if merged.Email != current.Email {
		taken, err := s.store.ExistsByEmail(ctx, merged.Email)
		if err != nil {
			return nil, internal("actualizando usuario", err)
		}
		if taken {
			return nil, apperr.Conflict(userEntity, "email", repository.ErrDuplicateEmail)
		}
	}

	if req.Password.Present() {
		hash, err := s.hasher.Hash(req.Password.Value)
		if err != nil {
			return nil, internal("actualizando usuario", err)
		}
		merged.PasswordHash = hash
	}

	if err := s.store.Update(ctx, &merged); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, apperr.Conflict(userEntity, "email", err)
		case errors.Is(err, repository.ErrUserNotFound):
			return nil, apperr.NotFound(userEntity)
		}
		return nil, internal("actualizando usuario", err)
	}
	return &merged, nil
}

// Delete removes a user. Deleting a missing user always fails with NotFound.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return apperr.NotFound(userEntity)
		}
		return internal("eliminando usuario", err)
	}
	return nil
}

// Stats returns the number of registered users.
func (s *UserService) Stats(ctx context.Context) (*model.UserStats, error) {
	n, err := s.store.Count(ctx)
	if err != nil {
		return nil, internal("obteniendo estadísticas", err)
	}
	return &model.UserStats{TotalUsers: n}, nil
}
