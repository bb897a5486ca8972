package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is how long a session token stays valid
const DefaultTokenTTL = 24 * time.Hour

// ErrInvalidToken covers every token that fails verification
var ErrInvalidToken = errors.New("invalid token")

// tokenZone is the fixed offset expiries are expressed in
var tokenZone = time.FixedZone("UTC-5", -5*60*60)

// Claims carries the session subject (the user's email)
type Claims struct {
	jwt.RegisteredClaims
}

type TokenManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret, issuer string) *TokenManager {
	if secret == "" {
		secret = "change-me-in-production"
	}
	if issuer == "" {
		issuer = "API team7"
	}
	return &TokenManager{secret: []byte(secret), issuer: issuer, ttl: DefaultTokenTTL, now: time.Now}
}

// WithClock replaces the time source used for issuing and verifying tokens
func (tm *TokenManager) WithClock(now func() time.Time) *TokenManager {
	tm.now = now
	return tm
}

// ExpiryFor returns the expiry of a token issued at now: the local wall clock
// ttl ahead, read as a time at the fixed UTC-5 offset.
func (tm *TokenManager) ExpiryFor(now time.Time) time.Time {
	wall := now.Add(tm.ttl)
	return time.Date(wall.Year(), wall.Month(), wall.Day(), wall.Hour(), wall.Minute(), wall.Second(), 0, tokenZone)
}

// GenerateToken issues a signed token whose subject is email
func (tm *TokenManager) GenerateToken(email string) (string, error) {
	if email == "" {
		return "", fmt.Errorf("subject required")
	}
	now := tm.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(tm.ExpiryFor(now)),
			Issuer:    tm.issuer,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(tm.secret)
}

// ValidateToken verifies signature, issuer and expiry and returns the claims
func (tm *TokenManager) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return tm.secret, nil
	},
		jwt.WithIssuer(tm.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(tm.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Subject verifies the token and returns the email it was issued for
func (tm *TokenManager) Subject(tokenString string) (string, error) {
	claims, err := tm.ValidateToken(tokenString)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

func ExtractToken(authHeader string) (string, error) {
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", fmt.Errorf("invalid authorization header")
	}
	return parts[1], nil
}
