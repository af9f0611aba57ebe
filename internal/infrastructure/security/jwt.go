package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Gourab-ghosh21/digital-spark/internal/domain"
)

// TokenClaims is what the console reads from an auth-service access token.
type TokenClaims struct {
	OperatorID string
	Email      string
	Role       string
	Exp        time.Time
}

// JWTSigner signs and verifies HS256 access tokens in the auth-service claim layout.
type JWTSigner struct {
	secret []byte
	issuer string
}

func NewJWTSigner(secret, issuer string) *JWTSigner {
	return &JWTSigner{secret: []byte(secret), issuer: issuer}
}

type accessClaims struct {
	UserID string `json:"uid"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func (s *JWTSigner) Sign(c TokenClaims, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := accessClaims{
		UserID: c.OperatorID,
		Email:  c.Email,
		Role:   c.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   c.OperatorID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", domain.ErrTokenSignFailed(err)
	}
	return signed, nil
}

func (s *JWTSigner) Verify(token string) (TokenClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &accessClaims{}, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return TokenClaims{}, domain.ErrTokenExpired()
		}
		return TokenClaims{}, domain.ErrTokenInvalid()
	}

	claims, ok := parsed.Claims.(*accessClaims)
	if !ok || !parsed.Valid {
		return TokenClaims{}, domain.ErrTokenInvalid()
	}
	if s.issuer != "" && claims.Issuer != "" && claims.Issuer != s.issuer {
		return TokenClaims{}, domain.ErrTokenInvalid()
	}

	id := claims.UserID
	if id == "" {
		id = claims.Subject
	}
	if id == "" {
		return TokenClaims{}, domain.ErrTokenInvalid()
	}

	out := TokenClaims{OperatorID: id, Email: claims.Email, Role: claims.Role}
	if claims.ExpiresAt != nil {
		out.Exp = claims.ExpiresAt.Time
	}
	return out, nil
}
