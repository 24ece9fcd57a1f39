package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"account-service/internal/config"
	"account-service/internal/password"
)

func TestIssuesTokenOnCreate(t *testing.T) {
	assert.True(t, issuesTokenOnCreate(password.ModeBcrypt))
	assert.True(t, issuesTokenOnCreate(""))
	assert.False(t, issuesTokenOnCreate(password.ModePlaintext))
}

func TestBuild_NilConfig(t *testing.T) {
	runtime, err := Build(context.Background(), Options{})
	require.Error(t, err)
	assert.Nil(t, runtime)
}

func TestBuild_RejectsUnknownPasswordStorage(t *testing.T) {
	cfg := config.Default()
	cfg.DatabaseURL = "postgres://localhost/accounts"
	cfg.JWTSecret = "s3cret"
	cfg.PasswordStorage = "md5"

	_, err := Build(context.Background(), Options{Config: &cfg})
	require.ErrorIs(t, err, password.ErrUnknownMode)
}
