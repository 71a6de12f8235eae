package utils

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ncst-capstone/evaluation-service/internal/models"
)

// Claims is the JWT payload carried by every authenticated request.
// Subject holds the school ID for students and the numeric ID for
// teachers and admins.
type Claims struct {
	Role models.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies the session tokens issued at login.
type TokenManager struct {
	secret []byte
	expiry time.Duration
}

func NewTokenManager(secret string, expiry time.Duration) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		expiry: expiry,
	}
}

// Issue creates a signed token for the actor.
func (tm *TokenManager) Issue(actor models.Actor) (string, time.Time, error) {
	expiresAt := time.Now().Add(tm.expiry)

	claims := Claims{
		Role: actor.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.Subject(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, expiresAt, nil
}

// Verify parses a token and rebuilds the actor it was issued for.
func (tm *TokenManager) Verify(tokenString string) (models.Actor, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return tm.secret, nil
	})
	if err != nil {
		return models.Actor{}, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return models.Actor{}, fmt.Errorf("invalid token")
	}

	return actorFromClaims(claims)
}

func actorFromClaims(claims *Claims) (models.Actor, error) {
	switch claims.Role {
	case models.RoleStudent:
		if claims.Subject == "" {
			return models.Actor{}, fmt.Errorf("token missing subject")
		}
		return models.StudentActor(claims.Subject), nil
	case models.RoleTeacher:
		id, err := parseUint(claims.Subject)
		if err != nil {
			return models.Actor{}, err
		}
		return models.TeacherActor(id), nil
	case models.RoleAdmin:
		id, err := parseUint(claims.Subject)
		if err != nil {
			return models.Actor{}, err
		}
		return models.AdminActor(id), nil
	default:
		return models.Actor{}, fmt.Errorf("unknown role in token")
	}
}

func parseUint(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("token subject is not a numeric ID: %w", err)
	}
	return uint(id), nil
}
