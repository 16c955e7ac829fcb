package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/librarycatalog/library-api/internal/apperr"
	"github.com/librarycatalog/library-api/internal/model"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already exists")
)

const userColumns = "id, email, password_hash, first_name, last_name, last_login_at, created_at, updated_at"

// UserRepository handles user persistence operations.
type UserRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db, now: utcNow}
}

// List returns every user, newest first.
func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	query := `SELECT ` + userColumns + " FROM `user` ORDER BY created_at DESC, id DESC"

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("list users: %w", err)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	return users, nil
}

// GetByID retrieves a user by their ID.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT ` + userColumns + " FROM `user` WHERE id = ?"
	return r.get(ctx, query, id)
}

// GetByEmail retrieves a user by their normalized email address.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + " FROM `user` WHERE email = ?"
	return r.get(ctx, query, model.NormalizeEmail(email))
}

// Create inserts a new user and sets the generated ID on the user struct.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	if v := user.Validate(); len(v) > 0 {
		return apperr.Validation(model.ValidationFailedMsg, v...)
	}

	now := r.now()
	query := "INSERT INTO `user` (email, password_hash, first_name, last_name, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)"

	result, err := r.db.ExecContext(ctx, query,
		user.Email, user.PasswordHash, user.FirstName, user.LastName, now, now,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}

	user.ID = id
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

// Update writes the full profile row of an already merged user.
func (r *UserRepository) Update(ctx context.Context, user *model.User) error {
	if v := user.Validate(); len(v) > 0 {
		return apperr.Validation(model.ValidationFailedMsg, v...)
	}

	now := r.now()
	query := "UPDATE `user` SET email = ?, password_hash = ?, first_name = ?, last_name = ?, updated_at = ? WHERE id = ?"

	result, err := r.db.ExecContext(ctx, query,
		user.Email, user.PasswordHash, user.FirstName, user.LastName, now, user.ID,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("update user %d: %w", user.ID, err)
	}

	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrUserNotFound
	}

	user.UpdatedAt = now
	return nil
}

// UpdateLastLogin stamps the user's last successful authentication.
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id int64) (time.Time, error) {
	now := r.now()

	result, err := r.db.ExecContext(ctx, "UPDATE `user` SET last_login_at = ? WHERE id = ?", now, id)
	if err != nil {
		return time.Time{}, fmt.Errorf("update last login %d: %w", id, err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return time.Time{}, ErrUserNotFound
	}

	return now, nil
}

// Delete removes a user permanently.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM `user` WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	if n == 0 {
		return ErrUserNotFound
	}

	return nil
}

// Count returns the number of registered users.
func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM `user`").Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

// ExistsByEmail reports whether an account uses email.
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var ok bool
	query := "SELECT EXISTS(SELECT 1 FROM `user` WHERE email = ?)"
	if err := r.db.QueryRowContext(ctx, query, model.NormalizeEmail(email)).Scan(&ok); err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return ok, nil
}

func (r *UserRepository) get(ctx context.Context, query string, arg any) (*model.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func scanUser(row rowScanner) (*model.User, error) {
	var (
		user      model.User
		lastLogin sql.NullTime
	)
	err := row.Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.FirstName, &user.LastName,
		&lastLogin, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	user.LastLoginAt = timePtr(lastLogin)
	return &user, nil
}
