package jwt

import (
	"encoding/json"

	"github.com/golang-jwt/jwt/v5"
)

// Payload defines the claims of a room capability token.
type Payload struct {
	// RegisteredClaims carries jti, iat and exp.
	jwt.RegisteredClaims

	// Version names the shape of Scope. A verifier must read Scope with the same version.
	Version int `json:"version"`

	// Scope is the encoded scope document.
	Scope json.RawMessage `json:"scope"`

	// Peer binds the token to the peer id handed to the client.
	Peer PeerClaim `json:"peer"`
}

// PeerClaim identifies the client peer a token was issued to.
type PeerClaim struct {
	ID string `json:"id"`
}
