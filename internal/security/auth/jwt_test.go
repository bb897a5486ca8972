package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aryan0dhankhar/projectmatch/internal/domain"
)

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", "")
	token, err := tm.GenerateToken("prof@uni.edu")
	require.NoError(t, err)

	subject, err := tm.Subject(token)
	require.NoError(t, err)
	assert.Equal(t, "prof@uni.edu", subject)
}

func TestExpiryUsesFixedOffset(t *testing.T) {
	issued := time.Date(2025, 9, 1, 10, 30, 0, 0, time.UTC)
	tm := NewTokenManager("secret", "")

	exp := tm.ExpiryFor(issued)
	_, offset := exp.Zone()
	assert.Equal(t, -5*3600, offset)
	assert.Equal(t, 2, exp.Day())
	assert.Equal(t, 10, exp.Hour())
	assert.Equal(t, 30, exp.Minute())
}

func TestValidateTokenRejects(t *testing.T) {
	issued := time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)
	tm := NewTokenManager("secret", "").WithClock(fixedClock(issued))
	token, err := tm.GenerateToken("org@acme.com")
	require.NoError(t, err)

	tests := []struct {
		name    string
		manager *TokenManager
		token   string
	}{
		{"wrong secret", NewTokenManager("other", "").WithClock(fixedClock(issued)), token},
		{"wrong issuer", NewTokenManager("secret", "someone else").WithClock(fixedClock(issued)), token},
		{"expired", NewTokenManager("secret", "").WithClock(fixedClock(issued.Add(72 * time.Hour))), token},
		{"garbage", tm, "not.a.token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.manager.ValidateToken(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestExtractToken(t *testing.T) {
	tok, err := ExtractToken("Bearer abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)

	for _, h := range []string{"", "Bearer", "Basic abc", "Bearer a b"} {
		_, err := ExtractToken(h)
		assert.Error(t, err, h)
	}
}

func TestIdentityContext(t *testing.T) {
	_, ok := IdentityFrom(context.Background())
	assert.False(t, ok)

	ctx := WithIdentity(context.Background(), Identity{UserID: 4, Email: "a@b.c", Role: domain.RoleAdmin})
	id, ok := IdentityFrom(ctx)
	require.True(t, ok)
	assert.Equal(t, int64(4), id.UserID)
	assert.Equal(t, domain.RoleAdmin, id.Role)
}
