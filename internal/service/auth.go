package service

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// AuthService verifies access tokens issued by the auth service.
// Tokens are only consumed here, never minted; identity arrives as an
// opaque verified user id plus role.
type AuthService struct {
	jwtSecret []byte
}

func NewAuthService(jwtSecret string) *AuthService {
	return &AuthService{jwtSecret: []byte(jwtSecret)}
}

// ValidateAccessToken parses and verifies an HS256 token, returning
// the authenticated user id and role.
func (s *AuthService) ValidateAccessToken(tokenString string) (int64, string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return 0, "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, "", ErrInvalidToken
	}

	userID := claimUserID(claims)
	if userID <= 0 {
		return 0, "", ErrInvalidToken
	}
	role, _ := claims["role"].(string)

	return userID, role, nil
}

// claimUserID reads the subject as a numeric user id. The auth service
// writes it as a string; tolerate a bare number too.
func claimUserID(claims jwt.MapClaims) int64 {
	switch sub := claims["sub"].(type) {
	case string:
		id, err := strconv.ParseInt(sub, 10, 64)
		if err != nil {
			return 0
		}
		return id
	case float64:
		return int64(sub)
	default:
		return 0
	}
}
