package utils

import (
	"errors"
	"fmt"
	"time"

	"flight-booking/internal/data/entity"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Claims struct {
	Name  string          `json:"name"`
	Email string          `json:"email"`
	Role  entity.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// Actor rebuilds the caller identity carried by the token.
func (c *Claims) Actor() (entity.Actor, error) {
	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return entity.Actor{}, fmt.Errorf("invalid subject: %w", err)
	}
	return entity.Actor{ID: id, Name: c.Name, Email: c.Email, Role: c.Role}, nil
}

// GenerateToken signs an HS256 token for actor valid for ttl.
func GenerateToken(actor entity.Actor, secret string, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ttl)

	claims := Claims{
		Name:  actor.Name,
		Email: actor.Email,
		Role:  actor.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

func ParseToken(tokenString, secret string) (*Claims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	claims := &Claims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("token is not valid")
	}
	return claims, nil
}
