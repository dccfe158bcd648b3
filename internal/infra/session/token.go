package session

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"

	"github.com/prakashdas-pd/apexbridge-leads/internal/entity"
)

var ErrInvalidToken = errors.New("invalid or expired token")

type Claims struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager signs and parses session tokens. The session ID rides
// in the JWT ID claim so the middleware can check the Redis record.
type TokenManager struct {
	secret []byte
}

func NewTokenManager(secret string) *TokenManager {
	return &TokenManager{secret: []byte(secret)}
}

func (m *TokenManager) Issue(s *entity.AdminSession) (string, error) {
	claims := Claims{
		Username:    s.Username,
		DisplayName: s.DisplayName,
		Role:        s.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        s.ID,
			Subject:   s.AccountID,
			IssuedAt:  jwt.NewNumericDate(s.LoggedInAt),
			ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *TokenManager) Parse(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
