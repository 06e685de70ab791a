// Package auth provides the JWT validator behind the RequireAuth middleware.
// Token issuance belongs to the portal's identity provider; this service only
// validates what it is handed.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"fismapp/internal/platform/middleware"
)

// Claims represents the JWT claims carried by portal-issued tokens.
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Validator validates HMAC-signed portal tokens.
type Validator struct {
	signingKey []byte
}

func NewValidator(signingKey string) *Validator {
	return &Validator{signingKey: []byte(signingKey)}
}

// ValidateToken parses and verifies a token, returning the middleware claims.
func (v *Validator) ValidateToken(tokenString string) (*middleware.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.signingKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if claims.UserID == "" {
		return nil, fmt.Errorf("token missing user_id claim")
	}
	return &middleware.JWTClaims{UserID: claims.UserID, Role: claims.Role}, nil
}

// GenerateToken signs a token for the given user. Used by tests and the
// development seed flow; production tokens come from the portal.
func (v *Validator) GenerateToken(userID, role string, ttl time.Duration) (string, error) {
	claims := &Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "fismapp",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(v.signingKey)
}
