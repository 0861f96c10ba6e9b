/*
Package jwt signs and parses room capability tokens.

Tokens are HS256 JWTs whose header names the algorithm and the key id explicitly,
so a verifier serving several applications can select the right secret.
*/
package jwt

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"roomtoken/internal/pkg/errs"
)

const (
	// Algorithm is the only signing algorithm issued or accepted.
	Algorithm = "HS256"

	// TokenType is the typ header value.
	TokenType = "JWT"

	// KeyIDHeader is the header field naming the signing key.
	KeyIDHeader = "kid"
)

// GenerateToken signs payload with secret, declaring keyID in the header.
// Every failure is reported as errs.ErrSigning.
func GenerateToken(payload *Payload, keyID string, secret []byte) (string, error) {
	if len(secret) == 0 {
		return "", fmt.Errorf("%w: signing secret is empty", errs.ErrSigning)
	}
	if keyID == "" {
		return "", fmt.Errorf("%w: key id is empty", errs.ErrSigning)
	}
	if payload == nil {
		return "", fmt.Errorf("%w: payload is nil", errs.ErrSigning)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, payload)
	token.Header["typ"] = TokenType
	token.Header["alg"] = Algorithm
	token.Header[KeyIDHeader] = keyID

	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("%w: %w", errs.ErrSigning, err)
	}

	return signed, nil
}

// ParseToken verifies tokenString against secret and keyID and returns its payload.
// Only HS256 tokens whose kid equals keyID are accepted.
func ParseToken(tokenString, keyID string, secret []byte, opts ...jwt.ParserOption) (*Payload, error) {
	payload := &Payload{}

	opts = append(opts, jwt.WithValidMethods([]string{Algorithm}))

	token, err := jwt.ParseWithClaims(tokenString, payload, func(token *jwt.Token) (interface{}, error) {
		kid, _ := token.Header[KeyIDHeader].(string)
		if kid != keyID {
			return nil, fmt.Errorf("unexpected key id %q", kid)
		}
		return secret, nil
	}, opts...)

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid or expired token")
	}

	return payload, nil
}
