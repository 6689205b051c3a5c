package jwtauth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "workledger/pkg/domain-errors"
)

func TestIssueAndValidate(t *testing.T) {
	svc := NewService("test-signing-key", "workledger-test", time.Hour)

	token, err := svc.Issue("alice", false)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.False(t, claims.Verifier)
	assert.NotEmpty(t, claims.JTI)
}

func TestIssueCarriesVerifierCapability(t *testing.T) {
	svc := NewService("test-signing-key", "workledger-test", time.Hour)

	token, err := svc.Issue("acme-hr", true)
	require.NoError(t, err)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.True(t, claims.Verifier)
}

func TestIssueRejectsEmptySubject(t *testing.T) {
	svc := NewService("test-signing-key", "workledger-test", time.Hour)

	_, err := svc.Issue("", false)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	svc := NewService("test-signing-key", "workledger-test", -time.Minute)

	token, err := svc.Issue("alice", false)
	require.NoError(t, err)

	_, err = svc.Validate(token)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestValidateRejectsWrongKey(t *testing.T) {
	issuer := NewService("key-one", "workledger-test", time.Hour)
	validator := NewService("key-two", "workledger-test", time.Hour)

	token, err := issuer.Issue("alice", true)
	require.NoError(t, err)

	_, err = validator.Validate(token)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestValidateRejectsGarbage(t *testing.T) {
	svc := NewService("test-signing-key", "workledger-test", time.Hour)

	_, err := svc.Validate("not-a-token")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}
