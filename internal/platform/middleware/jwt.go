package middleware

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	id "datatrail/pkg/domain"
)

// HMACValidator validates HS256 bearer tokens issued by the platform's
// authentication layer. The registry itself never issues tokens.
type HMACValidator struct {
	key []byte
}

// NewHMACValidator creates a validator for the given signing key.
func NewHMACValidator(signingKey string) *HMACValidator {
	return &HMACValidator{key: []byte(signingKey)}
}

// ValidateToken parses and verifies the token, returning the caller claims.
func (v *HMACValidator) ValidateToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.key, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, errors.New("token missing subject")
	}

	jti, _ := claims["jti"].(string)
	return &JWTClaims{
		Principal: id.Principal(sub),
		JTI:       jti,
	}, nil
}
