package handlers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentials(t *testing.T) {
	env := setupHandlers(t)

	err := Credentials(context.Background(), env.opts())
	require.NoError(t, err)

	out := env.out.String()
	assert.Contains(t, out, "SingleStore")
	assert.Contains(t, out, "API key accepted")
	assert.Contains(t, out, "assumed-role/Demo/jroe")
	assert.NotContains(t, out, "FAIL")
}

func TestCredentials_Failures(t *testing.T) {
	env := setupHandlers(t)
	t.Setenv("SINGLESTORE_API_KEY", "wrong")
	env.identity = func(context.Context) (string, error) {
		return "", errors.New("ExpiredToken")
	}

	err := Credentials(context.Background(), env.opts())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "credential check failed")
	assert.Contains(t, err.Error(), "ExpiredToken")

	out := env.out.String()
	assert.Contains(t, out, "FAIL")
	assert.Contains(t, out, "ExpiredToken")
}

func TestCredentials_NoIdentityCheck(t *testing.T) {
	env := setupHandlers(t)
	env.identity = nil

	err := Credentials(context.Background(), env.opts())
	require.NoError(t, err)
	assert.Contains(t, env.out.String(), "checked when the stack is deployed")
}
