package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/aryan0dhankhar/projectmatch/internal/domain"
	"github.com/aryan0dhankhar/projectmatch/internal/security/auth"
)

func newAuthService(store *memStore) *AuthService {
	s := NewAuthService(store, auth.NewTokenManager("secret", ""), nil)
	s.cost = bcrypt.MinCost
	return s
}

func signupInput(email string) SignupInput {
	org := "Acme"
	return SignupInput{
		Email:            email,
		FirstName:        "Alice",
		LastName:         "Smith",
		OrganizationName: &org,
		Phone:            "613-555-0101",
		Role:             domain.RoleOrganization,
		Password:         "Password123",
	}
}

func TestSignupAndLogin(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	s := newAuthService(store)

	user, err := s.Signup(ctx, signupInput("alice@example.com"))
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, domain.UserStatusActive, user.Status)
	assert.NotEqual(t, "Password123", user.PasswordHash)

	res, err := s.Login(ctx, "alice@example.com", "Password123")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, user.ID, res.UserID)
	assert.Equal(t, "Alice", res.FirstName)
	assert.Equal(t, domain.RoleOrganization, res.Role)

	id, err := s.Authenticate(ctx, res.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id.UserID)
	assert.Equal(t, "alice@example.com", id.Email)
}

func TestSignupDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	s := newAuthService(newMemStore())

	_, err := s.Signup(ctx, signupInput("bob@example.com"))
	require.NoError(t, err)

	_, err = s.Signup(ctx, signupInput("bob@example.com"))
	require.Error(t, err)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
	assert.Equal(t, "User already registered", err.Error())
}

func TestLoginFailures(t *testing.T) {
	ctx := context.Background()
	s := newAuthService(newMemStore())
	_, err := s.Signup(ctx, signupInput("carol@example.com"))
	require.NoError(t, err)

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"wrong password", "carol@example.com", "nope"},
		{"unknown email", "nobody@example.com", "Password123"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Login(ctx, tt.email, tt.password)
			require.Error(t, err)
			assert.Equal(t, domain.KindUnauthenticated, domain.KindOf(err))
			assert.Equal(t, "Invalid credentials", err.Error())
		})
	}
}

func TestAuthenticateRejectsBadTokens(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	s := newAuthService(store)

	_, err := s.Authenticate(ctx, "garbage")
	assert.Equal(t, domain.KindUnauthenticated, domain.KindOf(err))

	// Valid signature, but the subject has no account.
	token, err := auth.NewTokenManager("secret", "").GenerateToken("ghost@example.com")
	require.NoError(t, err)
	_, err = s.Authenticate(ctx, token)
	assert.Equal(t, domain.KindUnauthenticated, domain.KindOf(err))
}

func TestAuthenticateCachesIdentity(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	s := newAuthService(store)

	user, err := s.Signup(ctx, signupInput("dave@example.com"))
	require.NoError(t, err)
	res, err := s.Login(ctx, "dave@example.com", "Password123")
	require.NoError(t, err)

	_, err = s.Authenticate(ctx, res.Token)
	require.NoError(t, err)

	// Served from the cache once the account row is gone.
	delete(store.users, user.ID)
	id, err := s.Authenticate(ctx, res.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id.UserID)

	// A forged token never reaches the cache.
	_, err = s.Authenticate(ctx, res.Token+"x")
	assert.Equal(t, domain.KindUnauthenticated, domain.KindOf(err))

	assert.Zero(t, s.SweepIdentities())
}
