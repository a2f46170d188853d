package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	m := NewManager(TokenConfig{Secret: []byte("secret")})

	token, claims, err := m.GenerateAdminToken()
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.NotEmpty(t, claims.ID)

	got, err := m.Validate(token)
	require.NoError(t, err)
	assert.True(t, got.IsAdmin())
	assert.Equal(t, claims.ID, got.ID)
	assert.Equal(t, "extreme-startup", got.Issuer)
}

func TestValidateRejectsOtherSecret(t *testing.T) {
	token, _, err := NewManager(TokenConfig{Secret: []byte("a")}).GenerateAdminToken()
	require.NoError(t, err)

	_, err = NewManager(TokenConfig{Secret: []byte("b")}).Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsOtherIssuer(t *testing.T) {
	token, _, err := NewManager(TokenConfig{Secret: []byte("a"), Issuer: "elsewhere"}).GenerateAdminToken()
	require.NoError(t, err)

	_, err = NewManager(TokenConfig{Secret: []byte("a")}).Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateExpired(t *testing.T) {
	m := NewManager(TokenConfig{Secret: []byte("secret"), TTL: time.Minute})
	token, _, err := m.GenerateAdminToken()
	require.NoError(t, err)

	m.now = func() time.Time { return time.Now().Add(time.Hour) }
	_, err = m.Validate(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateGarbage(t *testing.T) {
	_, err := NewManager(TokenConfig{Secret: []byte("secret")}).Validate("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIsAdminNil(t *testing.T) {
	var c *Claims
	assert.False(t, c.IsAdmin())
}
