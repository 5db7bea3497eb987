package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := NewAccessToken("secret", 42, "customer", "3c8c1a3e-7c1b-4a57-9d4c-2f1f3b0c1d11", time.Now().Add(time.Hour))
	require.NoError(t, err)

	claims, err := ParseAccessToken("secret", token)
	require.NoError(t, err)

	userID, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
	assert.Equal(t, "customer", claims.Role)
	assert.Equal(t, "3c8c1a3e-7c1b-4a57-9d4c-2f1f3b0c1d11", claims.ID)
}

func TestParseAccessToken_Rejects(t *testing.T) {
	valid, err := NewAccessToken("secret", 1, "admin", "session", time.Now().Add(time.Hour))
	require.NoError(t, err)
	expired, err := NewAccessToken("secret", 1, "admin", "session", time.Now().Add(-time.Minute))
	require.NoError(t, err)
	noSession, err := NewAccessToken("secret", 1, "admin", "", time.Now().Add(time.Hour))
	require.NoError(t, err)

	tests := []struct {
		name   string
		secret string
		token  string
	}{
		{"wrong secret", "other", valid},
		{"expired", "secret", expired},
		{"missing session id", "secret", noSession},
		{"garbage", "secret", "not-a-jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAccessToken(tt.secret, tt.token)
			assert.Error(t, err)
		})
	}
}
