package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/crypto/bcrypt"

	"github.com/aryan0dhankhar/projectmatch/internal/domain"
	"github.com/aryan0dhankhar/projectmatch/internal/observability/metrics"
	"github.com/aryan0dhankhar/projectmatch/internal/observability/tracing"
	"github.com/aryan0dhankhar/projectmatch/internal/security/auth"
	"github.com/aryan0dhankhar/projectmatch/pkg/cache"
)

// IdentityCacheTTL bounds how long a resolved caller is reused without a lookup
const IdentityCacheTTL = time.Minute

// AuthService handles signup, login and token verification
type AuthService struct {
	store      domain.Store
	tokens     *auth.TokenManager
	identities *cache.Cache[auth.Identity] // Keyed by email
	logger     *slog.Logger
	now        Clock
	cost       int
}

// NewAuthService creates a new authentication service
func NewAuthService(
	store domain.Store,
	tokens *auth.TokenManager,
	logger *slog.Logger,
) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}

	return &AuthService{
		store:      store,
		tokens:     tokens,
		identities: cache.New[auth.Identity](IdentityCacheTTL),
		logger:     logger,
		now:        time.Now,
		cost:       bcrypt.DefaultCost,
	}
}

// SignupInput carries the fields of a new account
type SignupInput struct {
	Email            string
	FirstName        string
	LastName         string
	OrganizationName *string
	Phone            string
	Role             domain.Role
	Password         string
}

// LoginResult represents login response
type LoginResult struct {
	Token     string
	UserID    int64
	Email     string
	FirstName string
	LastName  string
	Role      domain.Role
}

// Signup creates a new ACTIVE account with a bcrypt-hashed password
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (_ *domain.User, err error) {
	ctx, span := tracing.Start(ctx, "AuthService.Signup", attribute.String("user.type", string(in.Role)))
	defer func() { tracing.End(span, err) }()

	exists, err := s.store.Users().ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.NewConflict("User already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		s.logger.Error("failed to hash password", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := domain.NewUser(in.Email, in.FirstName, in.LastName, in.OrganizationName, in.Phone, in.Role, string(hash), s.now())
	if err := s.store.Users().Create(ctx, user); err != nil {
		return nil, err
	}

	metrics.ObserveSignup(string(user.Role))
	s.logger.Info("user registered",
		slog.Int64("user_id", user.ID),
		slog.String("type", string(user.Role)),
	)
	return user, nil
}

// Login authenticates a user and returns a session token
func (s *AuthService) Login(ctx context.Context, email, password string) (_ *LoginResult, err error) {
	ctx, span := tracing.Start(ctx, "AuthService.Login")
	defer func() { tracing.End(span, err) }()

	user, err := s.store.Users().GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, domain.ErrRecordNotFound) {
			return nil, err
		}
		s.logger.Info("login attempt with non-existent email", slog.String("email", email))
		metrics.ObserveLogin("failure")
		return nil, domain.NewUnauthenticated("Invalid credentials", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Info("login failed with wrong password", slog.String("email", email))
		metrics.ObserveLogin("failure")
		return nil, domain.NewUnauthenticated("Invalid credentials", err)
	}

	token, err := s.tokens.GenerateToken(user.Email)
	if err != nil {
		s.logger.Error("failed to sign token", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	metrics.ObserveLogin("success")
	s.logger.Info("user logged in",
		slog.Int64("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return &LoginResult{
		Token:     token,
		UserID:    user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      user.Role,
	}, nil
}

// Authenticate verifies a bearer token and resolves the caller it was issued to.
// The signature is checked on every call; only the user lookup is cached.
func (s *AuthService) Authenticate(ctx context.Context, token string) (auth.Identity, error) {
	subject, err := s.tokens.Subject(token)
	if err != nil {
		return auth.Identity{}, domain.NewUnauthenticated("Invalid token", err)
	}
	if id, ok := s.identities.Get(subject); ok {
		return id, nil
	}

	user, err := s.store.Users().GetByEmail(ctx, subject)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return auth.Identity{}, domain.NewUnauthenticated("Invalid token", err)
		}
		return auth.Identity{}, err
	}
	id := auth.Identity{UserID: user.ID, Email: user.Email, Role: user.Role}
	s.identities.Set(subject, id)
	return id, nil
}

// SweepIdentities evicts expired cached callers and returns how many were dropped
func (s *AuthService) SweepIdentities() int {
	removed := s.identities.Sweep()
	metrics.SetIdentityCacheEntries(s.identities.Len())
	return removed
}
