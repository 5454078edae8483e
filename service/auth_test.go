package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xushengqwer/blog_service/myErrors"
)

func TestEnsureOperatorAndAuthenticate(t *testing.T) {
	f := newFixture(t)

	created, err := f.auth.EnsureOperator(f.ctx, "admin", "s3cret", "")
	require.NoError(t, err)
	assert.True(t, created)

	user, err := f.auth.Authenticate(f.ctx, "admin", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "admin", user.Username)
	assert.NotEqual(t, "s3cret", user.PasswordHash)

	_, err = f.auth.Authenticate(f.ctx, "admin", "wrong")
	assert.ErrorIs(t, err, myErrors.ErrInvalidCredentials)
	_, err = f.auth.Authenticate(f.ctx, "ghost", "s3cret")
	assert.ErrorIs(t, err, myErrors.ErrInvalidCredentials)

	// 已存在时只重置密码
	created, err = f.auth.EnsureOperator(f.ctx, "admin", "rotated", "")
	require.NoError(t, err)
	assert.False(t, created)
	_, err = f.auth.Authenticate(f.ctx, "admin", "s3cret")
	assert.ErrorIs(t, err, myErrors.ErrInvalidCredentials)
	again, err := f.auth.Authenticate(f.ctx, "admin", "rotated")
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)

	_, err = f.auth.EnsureOperator(f.ctx, "", "x", "")
	assert.True(t, myErrors.IsValidation(err))
}

func TestEnsureOperatorRenamesLegacyAccount(t *testing.T) {
	f := newFixture(t)

	created, err := f.auth.EnsureOperator(f.ctx, "editor", "pw", "operator")
	require.NoError(t, err)
	assert.False(t, created)

	user, err := f.auth.Authenticate(f.ctx, "editor", "pw")
	require.NoError(t, err)
	assert.Equal(t, f.operatorID, user.ID)

	_, err = f.auth.Authenticate(f.ctx, "operator", "pw")
	assert.ErrorIs(t, err, myErrors.ErrInvalidCredentials)

	got, err := f.auth.GetUser(f.ctx, f.operatorID)
	require.NoError(t, err)
	assert.Equal(t, "editor", got.Username)
}
