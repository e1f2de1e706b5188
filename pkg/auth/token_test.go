package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var testSecret = strings.Repeat("k", 32)

func TestAuthenticator_IssueAndVerify(t *testing.T) {
	a := NewAuthenticator(testSecret, "golfmaster")

	token, err := a.Issue("player-1", time.Hour)
	require.NoError(t, err)

	claims, err := a.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "player-1", claims.Subject)
}

func TestAuthenticator_Verify_Rejects(t *testing.T) {
	a := NewAuthenticator(testSecret, "golfmaster")

	expired, err := a.Issue("player-1", -time.Minute)
	require.NoError(t, err)

	otherIssuer, err := NewAuthenticator(testSecret, "someone-else").Issue("player-1", time.Hour)
	require.NoError(t, err)

	otherKey, err := NewAuthenticator(strings.Repeat("x", 32), "golfmaster").Issue("player-1", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"empty", "", ErrMissingToken},
		{"garbage", "not-a-jwt", ErrInvalidToken},
		{"expired", expired, ErrInvalidToken},
		{"wrong issuer", otherIssuer, ErrInvalidToken},
		{"wrong key", otherKey, ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.Verify(tt.token)
			require.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestBearerToken(t *testing.T) {
	token, err := BearerToken("Bearer abc.def.ghi")
	require.NoError(t, err)
	require.Equal(t, "abc.def.ghi", token)

	token, err = BearerToken("bearer   abc")
	require.NoError(t, err)
	require.Equal(t, "abc", token)

	for _, h := range []string{"", "Bearer", "Basic abc", "Bearer    "} {
		_, err := BearerToken(h)
		require.ErrorIs(t, err, ErrMissingToken, "header %q", h)
	}
}

func TestUserContext(t *testing.T) {
	_, ok := UserID(context.Background())
	require.False(t, ok)

	_, ok = UserID(WithUser(context.Background(), ""))
	require.False(t, ok)

	id, ok := UserID(WithUser(context.Background(), "U1"))
	require.True(t, ok)
	require.Equal(t, "U1", id)
}
