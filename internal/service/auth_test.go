package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/librarycatalog/library-api/internal/apperr"
	"github.com/librarycatalog/library-api/internal/model"
	"github.com/librarycatalog/library-api/internal/repository/repotest"
)

const anaJSON = `{"email":"Ana@Example.com","password":"secreto1","firstName":"Ana","lastName":"García"}`

func newAuthService(t *testing.T) (*AuthService, *repotest.UserStore) {
	t.Helper()
	users := repotest.NewUserStore()
	return NewAuthService(users, testHasher(), testTokens()), users
}

func TestRegister(t *testing.T) {
	svc, users := newAuthService(t)
	ctx := context.Background()

	resp, err := svc.Register(ctx, decode[model.CreateUserRequest](t, anaJSON))
	require.NoError(t, err)

	assert.NotEmpty(t, resp.Token)
	assert.Positive(t, resp.User.ID)
	assert.Equal(t, "ana@example.com", resp.User.Email)

	stored, err := users.GetByID(ctx, resp.User.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "secreto1", stored.PasswordHash, "password must be stored hashed")
	assert.Contains(t, stored.PasswordHash, "$argon2id$")

	claims, err := testTokens().Validate(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, "ana@example.com", claims.Email)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.Register(context.Background(), decode[model.CreateUserRequest](t, `{"email":"bad","password":"123"}`))

	e := requireKind(t, err, apperr.KindValidation)
	assert.Equal(t, []string{
		model.MsgEmailFormat, model.MsgPasswordTooShort, model.MsgFirstNameRequired, model.MsgLastNameRequired,
	}, e.Violations)
}

func TestRegisterDuplicateEmailIsConflict(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, decode[model.CreateUserRequest](t, anaJSON))
	require.NoError(t, err)

	_, err = svc.Register(ctx, decode[model.CreateUserRequest](t,
		`{"email":"ana@example.com","password":"otro123","firstName":"Ana","lastName":"B"}`))

	e := requireKind(t, err, apperr.KindConflict)
	assert.Equal(t, "Usuario con ese email ya existe", e.Message)
}

func TestLogin(t *testing.T) {
	svc, users := newAuthService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, decode[model.CreateUserRequest](t, anaJSON))
	require.NoError(t, err)
	assert.Nil(t, reg.User.LastLoginAt)

	resp, err := svc.Login(ctx, model.LoginRequest{Email: " ANA@example.com", Password: "secreto1"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	require.NotNil(t, resp.User.LastLoginAt)

	stored, err := users.GetByID(ctx, reg.User.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.LastLoginAt)
	assert.Equal(t, *resp.User.LastLoginAt, *stored.LastLoginAt)
}

func TestLoginBadCredentials(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, decode[model.CreateUserRequest](t, anaJSON))
	require.NoError(t, err)

	for _, req := range []model.LoginRequest{
		{Email: "ana@example.com", Password: "wrong-password"},
		{Email: "nobody@example.com", Password: "secreto1"},
	} {
		_, err := svc.Login(ctx, req)
		e := requireKind(t, err, apperr.KindUnauthenticated)
		assert.Equal(t, apperr.ReasonBadCredentials, e.Reason)
		assert.Equal(t, MsgInvalidCredentials, e.Message)
	}
}

type countingHasher struct {
	PasswordHasher
	verifies int
}

func (h *countingHasher) Verify(password, encoded string) (bool, error) {
	h.verifies++
	return h.PasswordHasher.Verify(password, encoded)
}

func TestLoginUnknownEmailStillVerifies(t *testing.T) {
	hasher := &countingHasher{PasswordHasher: testHasher()}
	svc := NewAuthService(repotest.NewUserStore(), hasher, testTokens())
	ctx := context.Background()

	for i := 1; i <= 2; i++ {
		_, err := svc.Login(ctx, model.LoginRequest{Email: "nobody@example.com", Password: "secreto1"})
		e := requireKind(t, err, apperr.KindUnauthenticated)
		assert.Equal(t, apperr.ReasonBadCredentials, e.Reason)
		assert.Equal(t, i, hasher.verifies)
	}
}

func TestLoginValidation(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.Login(context.Background(), model.LoginRequest{})
	e := requireKind(t, err, apperr.KindValidation)
	assert.Equal(t, []string{model.MsgEmailRequired, model.MsgPasswordRequired}, e.Violations)
}

func TestMe(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, decode[model.CreateUserRequest](t, anaJSON))
	require.NoError(t, err)

	me, err := svc.Me(ctx, reg.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", me.FirstName)

	_, err = svc.Me(ctx, 999)
	requireKind(t, err, apperr.KindNotFound)
}
