package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"progressgarant/globals"
	"progressgarant/models"
)

const sessionTTL = 7 * 24 * time.Hour

// Claims is what the persisted session token carries. The full identity
// still lives in the session slot; the token is the proof it is current.
type Claims struct {
	jwt.RegisteredClaims
	UserID   string `json:"userid"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func generateToken(user models.User) (string, error) {
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(sessionTTL)),
		},
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(globals.JwtSecret)
}

// validateToken parses and verifies a stored session token.
func validateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return globals.JwtSecret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
