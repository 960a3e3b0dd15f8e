package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/spec-kit/wallboard-service/internal/domain"
)

// TokenManager handles issuing and validating JWT tokens.
type TokenManager struct {
	secret []byte
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string) *TokenManager {
	return &TokenManager{secret: []byte(secret)}
}

// Claims describes the JWT payload. Role is carried for every subject so the
// admin gate can check it without a directory round trip.
type Claims struct {
	SubjectID string             `json:"sub"`
	Subject   domain.SubjectType `json:"subject"`
	Username  string             `json:"username"`
	Role      domain.Role        `json:"role"`
	TeamID    *int64             `json:"team_id,omitempty"`
	jwt.RegisteredClaims
}

// Subject bundles the identity claims embedded at issue time.
type Subject struct {
	ID       string
	Type     domain.SubjectType
	Username string
	Role     domain.Role
	TeamID   *int64
}

// Issue builds and signs a JWT for the subject with the given lifetime.
// Directory accounts and presence identities use distinct TTL profiles.
func (tm *TokenManager) Issue(subject Subject, ttl time.Duration) (string, *Claims, error) {
	now := time.Now()
	expiresAt := now.Add(ttl)
	claims := &Claims{
		SubjectID: subject.ID,
		Subject:   subject.Type,
		Username:  subject.Username,
		Role:      subject.Role,
		TeamID:    subject.TeamID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", nil, err
	}
	return tokenString, claims, nil
}

// Parse validates the signature and expiry and returns the claims.
func (tm *TokenManager) Parse(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
