package jwtmw

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for every verification failure.
// Callers must not distinguish between malformed, tampered and expired tokens.
var ErrInvalidToken = errors.New("invalid token")

// Verifier validates tokens produced by Generator.
type Verifier struct {
	secret []byte
	parser *jwt.Parser
}

// NewVerifier creates a Verifier for the given HMAC secret.
func NewVerifier(secret string) *Verifier {
	return &Verifier{
		secret: []byte(secret),
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
			jwt.WithIssuedAt(),
		),
	}
}

// Verify parses tokenStr and returns the user id in its subject.
func (v *Verifier) Verify(tokenStr string) (string, error) {
	if tokenStr == "" {
		return "", ErrInvalidToken
	}
	var claims jwt.RegisteredClaims
	token, err := v.parser.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (interface{}, error) {
		// Only HMAC is accepted
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return v.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
