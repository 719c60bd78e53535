package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWT errors
var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = errors.New("token expired")
	ErrInvalidFormat = errors.New("invalid token format")
)

// ActorRole is the role claim carried in an actor token.
type ActorRole string

const (
	RoleFaculty ActorRole = "FACULTY"
	RoleAdmin   ActorRole = "ADMIN"
)

// Actor is the authenticated identity performing an operation. Tokens are
// issued by the institution's identity service; this engine only verifies
// them and trusts the claims.
type Actor struct {
	FacultyID uuid.UUID
	Role      ActorRole
}

// IsAdmin reports whether the actor carries the administrator role.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// TokenVerifier validates actor tokens against the shared signing secret.
type TokenVerifier struct {
	secretKey []byte
	issuer    string
}

// NewTokenVerifier creates a verifier for tokens from the given issuer.
func NewTokenVerifier(secretKey, issuer string) *TokenVerifier {
	return &TokenVerifier{secretKey: []byte(secretKey), issuer: issuer}
}

// Claims defines actor token content.
type Claims struct {
	FacultyID string `json:"facultyId"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

// Verify parses and validates a token string and extracts the actor.
func (v *TokenVerifier) Verify(tokenString string) (Actor, error) {
	if tokenString == "" {
		return Actor{}, ErrInvalidToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secretKey, nil
	}, jwt.WithIssuer(v.issuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Actor{}, ErrExpiredToken
		}
		return Actor{}, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Actor{}, ErrInvalidToken
	}

	role := ActorRole(claims.Role)
	if role != RoleFaculty && role != RoleAdmin {
		return Actor{}, ErrInvalidToken
	}

	facultyID, err := uuid.Parse(claims.FacultyID)
	if err != nil {
		return Actor{}, ErrInvalidToken
	}

	return Actor{FacultyID: facultyID, Role: role}, nil
}

// ExtractBearerToken extracts the token from the Authorization header.
func ExtractBearerToken(authHeader string) (string, error) {
	if authHeader == "" {
		return "", ErrInvalidFormat
	}
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer "), nil
	}
	return authHeader, nil
}
