// Package service holds the business rules between the HTTP handlers and the
// repositories. Every error it returns is an *apperr.Error.
package service

import (
	"context"
	"time"

	"github.com/librarycatalog/library-api/internal/apperr"
	"github.com/librarycatalog/library-api/internal/model"
)

const (
	bookEntity = "Libro"
	userEntity = "Usuario"
)

// BookStore is the persistence contract for books.
type BookStore interface {
	List(ctx context.Context) ([]model.Book, error)
	GetByID(ctx context.Context, id int64) (*model.Book, error)
	Create(ctx context.Context, book *model.Book) error
	Update(ctx context.Context, book *model.Book) error
	Delete(ctx context.Context, id int64) error
	SearchByTitle(ctx context.Context, term string) ([]model.Book, error)
	SearchByAuthor(ctx context.Context, term string) ([]model.Book, error)
	Count(ctx context.Context) (int64, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

// UserStore is the persistence contract for users.
type UserStore interface {
	List(ctx context.Context) ([]model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
	UpdateLastLogin(ctx context.Context, id int64) (time.Time, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) (bool, error)
}

// TokenIssuer signs access tokens.
type TokenIssuer interface {
	Generate(userID int64, email string) (string, error)
}

// internal keeps classified errors as they are and wraps anything else.
func internal(op string, err error) error {
	if _, ok := apperr.As(err); ok {
		return err
	}
	return apperr.Internal(op, err)
}

func validationError(violations []string) error {
	return apperr.Validation(model.ValidationFailedMsg, violations...)
}
