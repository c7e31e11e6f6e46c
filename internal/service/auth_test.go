package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuth(t *testing.T) (*fixture, *AuthService) {
	t.Helper()
	f := newFixture(t)
	return f, NewAuthService(f.users, "test-secret", time.Hour)
}

func TestRegisterLoginParseRoundtrip(t *testing.T) {
	_, auth := newAuth(t)
	ctx := ctxT(t)

	u, err := auth.Register(ctx, RegisterInput{
		Username: "Cook_1",
		Password: "secret123",
		Email:    "cook1@example.com",
	})
	require.NoError(t, err)
	// 新用户 id 统一 @小写 形态
	assert.Equal(t, "@cook_1", u.ID)
	assert.Equal(t, "Cook_1", u.Username)
	assert.NotEqual(t, "secret123", u.Password)

	token, logged, err := auth.Login(ctx, "Cook_1", "secret123")
	require.NoError(t, err)
	assert.Equal(t, u.ID, logged.ID)

	uid, err := auth.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "@cook_1", uid)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	_, auth := newAuth(t)
	ctx := ctxT(t)

	_, err := auth.Register(ctx, RegisterInput{Username: "cook_1", Password: "secret123", Email: "a@example.com"})
	require.NoError(t, err)

	_, err = auth.Register(ctx, RegisterInput{Username: "cook_1", Password: "secret456", Email: "b@example.com"})
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestLoginWrongPassword(t *testing.T) {
	_, auth := newAuth(t)
	ctx := ctxT(t)

	_, err := auth.Register(ctx, RegisterInput{Username: "cook_1", Password: "secret123", Email: "a@example.com"})
	require.NoError(t, err)

	_, _, err = auth.Login(ctx, "cook_1", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = auth.Login(ctx, "nobody", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	_, auth := newAuth(t)

	_, err := auth.ParseToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, auth2 := newAuth(t)
	_, err = auth2.Register(ctxT(t), RegisterInput{Username: "cook_1", Password: "secret123", Email: "a@example.com"})
	require.NoError(t, err)
	token, _, err := auth2.Login(ctxT(t), "cook_1", "secret123")
	require.NoError(t, err)

	// 换密钥签的 token 不认
	other := NewAuthService(nil, "other-secret", time.Hour)
	_, err = other.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
