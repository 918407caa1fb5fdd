package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// UserClaimsKey is the fiber Locals key holding the verified *UserClaims.
const UserClaimsKey = "user_claims"

// DefaultTokenTTL is the lifetime used when none is configured.
const DefaultTokenTTL = time.Hour

// ErrInvalidToken is returned for every verification failure: bad signature,
// malformed payload, wrong algorithm and expiry all look the same to callers.
var ErrInvalidToken = errors.New("invalid or expired token")

// Identity is the snapshot embedded in a token at issuance.
type Identity struct {
	SubjectID string
	Email     string
	Role      string
	Name      string
}

// UserClaims serialises to exactly {subjectId, email, role, name, exp}.
type UserClaims struct {
	SubjectID string `json:"subjectId"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Name      string `json:"name"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies HS256 tokens. It holds no per-token state.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenManager{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// WithClock returns a copy that reads time from now. Used by tests to move past expiry.
func (m *TokenManager) WithClock(now func() time.Time) *TokenManager {
	cp := *m
	cp.now = now
	return &cp
}

func (m *TokenManager) TTL() time.Duration {
	return m.ttl
}

// GenerateToken issues a token with the configured lifetime.
func (m *TokenManager) GenerateToken(id Identity) (string, error) {
	return m.Issue(id, m.ttl)
}

func (m *TokenManager) Issue(id Identity, ttl time.Duration) (string, error) {
	if id.SubjectID == "" {
		return "", errors.New("token subject is required")
	}
	claims := UserClaims{
		SubjectID: id.SubjectID,
		Email:     id.Email,
		Role:      id.Role,
		Name:      id.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(m.now().Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken checks signature and expiry and returns the embedded snapshot.
func (m *TokenManager) ValidateToken(tokenString string) (*UserClaims, error) {
	claims := &UserClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.SubjectID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
