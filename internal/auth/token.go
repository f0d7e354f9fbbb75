package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/studentrecords/backend/internal/models"
)

// Claims is the verified payload of a bearer token
type Claims struct {
	UserID string
	Role   models.Role
}

// TokenGenerator handles JWT token generation and validation.
// Tokens are self-contained: validity is determined by signature and
// expiry only, there is no server-side token state.
type TokenGenerator struct {
	secret []byte
	expiry time.Duration
}

// NewTokenGenerator creates a new token generator
func NewTokenGenerator(secret string, expiry time.Duration) *TokenGenerator {
	return &TokenGenerator{
		secret: []byte(secret),
		expiry: expiry,
	}
}

// Generate creates a signed token carrying the user's ID and role
func (tg *TokenGenerator) Generate(userID string, role models.Role) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"id":   userID,
		"role": string(role),
		"iat":  now.Unix(),
		"exp":  now.Add(tg.expiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tg.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// Validate checks a token's signature and expiry and returns its claims
func (tg *TokenGenerator) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		// Validate the signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return tg.secret, nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("token is invalid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	userID, ok := claims["id"].(string)
	if !ok || userID == "" {
		return nil, fmt.Errorf("id not found in token")
	}

	roleStr, ok := claims["role"].(string)
	if !ok {
		return nil, fmt.Errorf("role not found in token")
	}

	role := models.Role(roleStr)
	if !role.Valid() {
		return nil, fmt.Errorf("unknown role in token: %q", roleStr)
	}

	return &Claims{UserID: userID, Role: role}, nil
}
