package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/heartmarshall/solutions-manager/internal/domain"
)

// ErrTokenExpired is returned by ValidateSessionToken for a well-formed token
// whose lifetime has ended.
var ErrTokenExpired = errors.New("session token expired")

// JWTManager issues and validates the signed session tokens of the local
// auth backend.
type JWTManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTManager creates a new JWT manager.
// secret must be at least 32 characters for HS256 security.
func NewJWTManager(secret string, issuer string, ttl time.Duration) *JWTManager {
	return &JWTManager{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// sessionClaims extends standard JWT claims with the account's email.
type sessionClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// GenerateSessionToken creates a signed HS256 JWT with the account ID as
// subject and the email as a custom claim. It returns the token and its expiry.
func (m *JWTManager) GenerateSessionToken(id domain.Identity) (string, time.Time, error) {
	now := m.now()
	expiresAt := now.Add(m.ttl)
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.ID.String(),
			Issuer:    m.issuer,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Email: id.Email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}

	return signed, expiresAt.Truncate(time.Second), nil
}

// ValidateSessionToken parses and validates a session token and returns the
// identity it was issued for together with its expiry.
func (m *JWTManager) ValidateSessionToken(tokenString string) (domain.Identity, time.Time, error) {
	if tokenString == "" {
		return domain.Identity{}, time.Time{}, fmt.Errorf("token is empty")
	}

	token, err := jwt.ParseWithClaims(tokenString, &sessionClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Identity{}, time.Time{}, ErrTokenExpired
		}
		return domain.Identity{}, time.Time{}, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid {
		return domain.Identity{}, time.Time{}, fmt.Errorf("invalid token claims")
	}

	if claims.Issuer != m.issuer {
		return domain.Identity{}, time.Time{}, fmt.Errorf("invalid issuer: expected %s, got %s", m.issuer, claims.Issuer)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return domain.Identity{}, time.Time{}, fmt.Errorf("invalid subject UUID: %w", err)
	}

	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	return domain.Identity{ID: userID, Email: claims.Email}, expiresAt, nil
}
