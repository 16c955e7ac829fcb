package model

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUserRequestValidate(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{
			"valid",
			`{"email":"ana@example.com","password":"secreto","firstName":"Ana","lastName":"García"}`,
			nil,
		},
		{
			"empty payload",
			`{}`,
			[]string{MsgEmailRequired, MsgPasswordTooShort, MsgFirstNameRequired, MsgLastNameRequired},
		},
		{
			"bad email",
			`{"email":"ana@example","password":"secreto","firstName":"Ana","lastName":"García"}`,
			[]string{MsgEmailFormat},
		},
		{
			"email with spaces",
			`{"email":"a na@example.com","password":"secreto","firstName":"Ana","lastName":"García"}`,
			[]string{MsgEmailFormat},
		},
		{
			"short password",
			`{"email":"ana@example.com","password":"12345","firstName":"Ana","lastName":"García"}`,
			[]string{MsgPasswordTooShort},
		},
		{
			"blank names",
			`{"email":"ana@example.com","password":"secreto","firstName":" ","lastName":""}`,
			[]string{MsgFirstNameRequired, MsgLastNameRequired},
		},
		{
			"email too long",
			`{"email":"` + strings.Repeat("a", 250) + `@example.com","password":"secreto","firstName":"Ana","lastName":"G"}`,
			[]string{MsgEmailTooLong},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req CreateUserRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))
			assert.Equal(t, tt.want, req.Validate())
		})
	}
}

func TestUpdateUserRequestValidate(t *testing.T) {
	var partial UpdateUserRequest
	require.NoError(t, json.Unmarshal([]byte(`{"firstName":"Ana María"}`), &partial))
	assert.Empty(t, partial.Validate())

	var bad UpdateUserRequest
	require.NoError(t, json.Unmarshal([]byte(`{"email":"","password":"123"}`), &bad))
	assert.Equal(t, []string{MsgEmailRequired, MsgPasswordTooShort}, bad.Validate())
}

func TestUserMerge(t *testing.T) {
	current := User{ID: 9, Email: "old@example.com", PasswordHash: "digest", FirstName: "Ana", LastName: "García"}

	var req UpdateUserRequest
	require.NoError(t, json.Unmarshal([]byte(`{"email":" New@Example.com ","password":"ignored1"}`), &req))
	merged := req.Merge(current)

	assert.Equal(t, "new@example.com", merged.Email)
	assert.Equal(t, "digest", merged.PasswordHash)
	assert.Equal(t, "Ana", merged.FirstName)
	assert.Equal(t, "García", merged.LastName)
}

func TestUserJSONOmitsPassword(t *testing.T) {
	now := time.Now().UTC()
	u := User{ID: 1, Email: "ana@example.com", PasswordHash: "$argon2id$secret", FirstName: "Ana", LastName: "G", CreatedAt: now, UpdatedAt: now}

	raw, err := json.Marshal(u)
	require.NoError(t, err)

	assert.NotContains(t, string(raw), "argon2id")
	assert.NotContains(t, string(raw), "password")

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.ElementsMatch(t,
		[]string{"id", "email", "firstName", "lastName", "lastLoginAt", "createdAt", "updatedAt"},
		keys(got))
}

func TestUserValidate(t *testing.T) {
	u := User{Email: "ana@example.com", PasswordHash: "$argon2id$v=19$...", FirstName: "Ana", LastName: "G"}
	assert.Empty(t, u.Validate())

	u.PasswordHash = ""
	u.Email = "nope"
	assert.Equal(t, []string{MsgEmailFormat, MsgPasswordTooShort}, u.Validate())
}

func TestLoginRequestValidate(t *testing.T) {
	assert.Empty(t, LoginRequest{Email: "a@b.co", Password: "x"}.Validate())
	assert.Equal(t, []string{MsgEmailRequired, MsgPasswordRequired}, LoginRequest{}.Validate())
}
