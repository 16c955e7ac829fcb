package model

import (
	"strings"
	"time"
)

// User represents an account in the user table. PasswordHash never leaves the
// process.
type User struct {
	ID           int64      `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	FirstName    string     `json:"firstName"`
	LastName     string     `json:"lastName"`
	LastLoginAt  *time.Time `json:"lastLoginAt"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// Validate is the pre-write check run by the repository. The stored password
// is a digest, so only its presence and minimum length are checked.
func (u *User) Validate() []string {
	var v violations
	checkEmail(&v, u.Email)
	checkPassword(&v, u.PasswordHash)
	checkFirstName(&v, u.FirstName)
	checkLastName(&v, u.LastName)
	return v
}

// UserFields is the JSON payload shared by registration and update.
type UserFields struct {
	Email     Optional[string] `json:"email"`
	Password  Optional[string] `json:"password"`
	FirstName Optional[string] `json:"firstName"`
	LastName  Optional[string] `json:"lastName"`
}

func (f UserFields) validate(create bool) []string {
	var v violations
	checkOptional(&v, f.Email, create, checkEmail)
	checkOptional(&v, f.Password, create, checkPassword)
	checkOptional(&v, f.FirstName, create, checkFirstName)
	checkOptional(&v, f.LastName, create, checkLastName)
	return v
}

// Merge returns u with the supplied profile fields overwritten. The password
// is not touched; callers hash it separately.
func (f UserFields) Merge(u User) User {
	if f.Email.Present() {
		u.Email = NormalizeEmail(f.Email.Value)
	}
	if f.FirstName.Present() {
		u.FirstName = strings.TrimSpace(f.FirstName.Value)
	}
	if f.LastName.Present() {
		u.LastName = strings.TrimSpace(f.LastName.Value)
	}
	return u
}

// CreateUserRequest is the registration body. Every field is mandatory.
type CreateUserRequest struct {
	UserFields
}

func (r CreateUserRequest) Validate() []string {
	return r.validate(true)
}

// UpdateUserRequest is the body of a partial user update.
type UpdateUserRequest struct {
	UserFields
}

func (r UpdateUserRequest) Validate() []string {
	return r.validate(false)
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() []string {
	var v violations
	v.check(!blank(r.Email), MsgEmailRequired)
	v.check(r.Password != "", MsgPasswordRequired)
	return v
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// UserStats is the payload of the user stats endpoint.
type UserStats struct {
	TotalUsers int64 `json:"totalUsers"`
}

// NormalizeEmail trims and lower-cases an address for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
