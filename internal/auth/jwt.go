package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"mangapanel/pkg/models"
)

// tokenSchemaVersion is bumped whenever a claim is added to the token.
// Tokens signed under an older schema fail Parse, forcing a fresh login,
// so a session can never carry a stale or missing role.
const tokenSchemaVersion = 2

type TokenService struct {
	Secret   []byte
	Issuer   string
	Duration time.Duration
}

type Claims struct {
	UserID        string      `json:"user_id"`
	Name          string      `json:"name,omitempty"`
	Email         string      `json:"email"`
	Image         string      `json:"image,omitempty"`
	Role          models.Role `json:"role"`
	SchemaVersion int         `json:"tsv"`
	jwt.RegisteredClaims
}

func (ts TokenService) Sign(u *models.User) (string, time.Time, error) {
	exp := time.Now().Add(ts.Duration)

	claims := Claims{
		UserID:        u.ID,
		Name:          u.Name,
		Email:         u.Email,
		Image:         u.Image,
		Role:          u.Role,
		SchemaVersion: tokenSchemaVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.Issuer,
			Subject:   u.ID,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString(ts.Secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return s, exp, nil
}

func (ts TokenService) Parse(tokenString string) (*Claims, error) {
	tok, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		// enforce HS256
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return ts.Secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	if claims.SchemaVersion != tokenSchemaVersion {
		return nil, fmt.Errorf("stale token schema: %d", claims.SchemaVersion)
	}
	if _, ok := models.ParseRole(string(claims.Role)); !ok {
		return nil, fmt.Errorf("unknown role in token")
	}
	return claims, nil
}
