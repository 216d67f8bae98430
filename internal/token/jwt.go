package token

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/krishisakhi/sakhi-session/internal/model"
)

var _ model.TokenVerifier = (*JWT)(nil)

// Claims are the fields checked on an access token. Other claims, such as
// the user id, are the backend's business and are not decoded.
type Claims struct {
	jwt.RegisteredClaims
	TokenType string `json:"typ"`
}

// JWT verifies HMAC-signed access tokens locally. Tokens are issued by the
// Krishi Sakhi backend sharing the secret.
type JWT struct {
	secretKey string
	now       func() time.Time
}

const typeAccess = "access"

// NewJWT creates a JWT verifier with the provided secret key.
func NewJWT(secretKey string) *JWT {
	return &JWT{secretKey: secretKey, now: time.Now}
}

// Verify reports whether tokenString is a valid, unexpired access token.
// Bad signatures, expiry and malformed tokens are rejections, not errors.
func (j *JWT) Verify(ctx context.Context, tokenString string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if j.secretKey == "" {
		return false, model.ErrVerifierNotConfigured
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return []byte(j.secretKey), nil
	}, jwt.WithTimeFunc(j.now))
	if err != nil || !token.Valid {
		return false, nil
	}
	if claims.TokenType != typeAccess {
		return false, nil
	}
	return true, nil
}
