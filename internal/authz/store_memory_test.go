package authz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryAllowlist(t *testing.T) {
	ctx := context.Background()
	allowlist := NewInMemoryAllowlist([]string{"acme-hr", "globex-hr", ""})

	ok, err := allowlist.IsVerifier(ctx, "acme-hr")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = allowlist.IsVerifier(ctx, "mallory")
	require.NoError(t, err)
	assert.False(t, ok)

	// Empty seed entries are ignored
	ok, err = allowlist.IsVerifier(ctx, "")
	require.NoError(t, err)
	assert.False(t, ok)

	allowlist.Grant("initech-hr")
	ok, err = allowlist.IsVerifier(ctx, "initech-hr")
	require.NoError(t, err)
	assert.True(t, ok)

	allowlist.Revoke("acme-hr")
	ok, err = allowlist.IsVerifier(ctx, "acme-hr")
	require.NoError(t, err)
	assert.False(t, ok)
}
