/*
Package token issues signed room capability tokens.

An Issuer holds the immutable application identity and signing secret. Each call to
Issue is independent: it builds the scope document, computes the time window, assigns a
fresh token id and peer id, and signs. No state is shared between calls, so an Issuer is safe for
concurrent use without locking.
*/
package token

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"roomtoken/internal/app/scope"
	authjwt "roomtoken/internal/pkg/auth/jwt"
	"roomtoken/internal/pkg/errs"
	"roomtoken/internal/pkg/randx"
)

// DefaultRoom is the room granted when a caller names none and the deployment sets no default.
const DefaultRoom = "default-room"

// Config is the issuer's immutable configuration.
type Config struct {
	// AppID identifies the issuing application and doubles as the signing key id.
	AppID string

	// Secret is the shared HMAC key.
	Secret []byte

	// DefaultRoom is granted when a request names no room.
	// scope.Wildcard selects the "any room" policy.
	DefaultRoom string

	Window        Window
	SchemaVersion scope.Version
	RelayEnabled  bool
}

// Issued is the result of a successful issuance.
type Issued struct {
	Token         string
	ID            string
	PeerID        string
	Room          string
	IssuedAt      time.Time
	ExpiresAt     time.Time
	SchemaVersion scope.Version
}

// Issuer issues tokens for one application.
type Issuer struct {
	cfg       Config
	now       func() time.Time
	newID     func() string
	newPeerID func() (string, error)
}

// Option customises an Issuer.
type Option func(*Issuer)

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) Option {
	return func(i *Issuer) {
		i.now = now
	}
}

// WithIDGenerator replaces the token id generator.
func WithIDGenerator(newID func() string) Option {
	return func(i *Issuer) {
		i.newID = newID
	}
}

// WithPeerIDGenerator replaces the peer id generator.
func WithPeerIDGenerator(newPeerID func() (string, error)) Option {
	return func(i *Issuer) {
		i.newPeerID = newPeerID
	}
}

// NewIssuer validates cfg and returns an Issuer. A missing application id or secret
// is an errs.ErrConfiguration: the process must not start serving.
func NewIssuer(cfg Config, opts ...Option) (*Issuer, error) {
	if cfg.AppID == "" {
		return nil, fmt.Errorf("%w: application id is not set", errs.ErrConfiguration)
	}
	if len(cfg.Secret) == 0 {
		return nil, fmt.Errorf("%w: signing secret is not set", errs.ErrConfiguration)
	}
	if cfg.Window.Lifetime < 0 || cfg.Window.Skew < 0 {
		return nil, fmt.Errorf("%w: token lifetime and clock skew must not be negative", errs.ErrConfiguration)
	}
	if cfg.DefaultRoom == "" {
		cfg.DefaultRoom = DefaultRoom
	}
	if cfg.DefaultRoom != scope.Wildcard && !scope.ValidRoomName(cfg.DefaultRoom) {
		return nil, fmt.Errorf("%w: invalid default room %q", errs.ErrConfiguration, cfg.DefaultRoom)
	}

	// The issuer keeps its own copy of the secret.
	cfg.Secret = append([]byte(nil), cfg.Secret...)

	i := &Issuer{
		cfg:       cfg,
		now:       time.Now,
		newID:     randx.TokenID,
		newPeerID: randx.PeerID,
	}
	for _, opt := range opts {
		opt(i)
	}

	return i, nil
}

// AppID returns the application identifier tokens are issued for.
func (i *Issuer) AppID() string {
	return i.cfg.AppID
}

// SchemaVersion returns the active scope shape.
func (i *Issuer) SchemaVersion() scope.Version {
	return i.cfg.SchemaVersion
}

// Issue returns a signed token granting room. An empty room selects the configured default.
// A caller may not request the wildcard explicitly; only the deployment default can be "*".
//
// Errors wrap errs.ErrInvalidScopeInput or errs.ErrSigning; no token is returned with an error.
func (i *Issuer) Issue(room string) (*Issued, error) {
	switch {
	case room == "":
		room = i.cfg.DefaultRoom
	case !scope.ValidRoomName(room):
		return nil, fmt.Errorf("%w: invalid room name", errs.ErrInvalidScopeInput)
	}

	doc, err := scope.Build(i.cfg.AppID, room, i.cfg.SchemaVersion, scope.WithRelay(i.cfg.RelayEnabled))
	if err != nil {
		return nil, err
	}

	wire, err := scope.Encode(doc, i.cfg.SchemaVersion)
	if err != nil {
		return nil, err
	}

	rawScope, err := json.Marshal(wire)
	if err != nil {
		return nil, fmt.Errorf("%w: encode scope: %w", errs.ErrSigning, err)
	}

	issuedAt, expiresAt := i.cfg.Window.At(i.now())
	id := i.newID()

	peerID, err := i.newPeerID()
	if err != nil {
		return nil, fmt.Errorf("%w: generate peer id: %w", errs.ErrSigning, err)
	}

	payload := &authjwt.Payload{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id,
			IssuedAt:  jwt.NewNumericDate(time.Unix(issuedAt, 0)),
			ExpiresAt: jwt.NewNumericDate(time.Unix(expiresAt, 0)),
		},
		Version: int(i.cfg.SchemaVersion),
		Scope:   rawScope,
		Peer:    authjwt.PeerClaim{ID: peerID},
	}

	signed, err := authjwt.GenerateToken(payload, i.cfg.AppID, i.cfg.Secret)
	if err != nil {
		return nil, err
	}

	return &Issued{
		Token:         signed,
		ID:            id,
		PeerID:        peerID,
		Room:          room,
		IssuedAt:      time.Unix(issuedAt, 0),
		ExpiresAt:     time.Unix(expiresAt, 0),
		SchemaVersion: i.cfg.SchemaVersion,
	}, nil
}

// Verify parses a token issued by i and returns its payload and decoded scope.
// It exists for self-checks and tests; production verification happens at the media service.
func (i *Issuer) Verify(token string, opts ...jwt.ParserOption) (*authjwt.Payload, *scope.Document, error) {
	payload, err := authjwt.ParseToken(token, i.cfg.AppID, i.cfg.Secret, opts...)
	if err != nil {
		return nil, nil, err
	}

	doc, err := scope.Decode(payload.Scope, scope.Version(payload.Version))
	if err != nil {
		return nil, nil, err
	}
	if err := doc.Validate(i.cfg.AppID); err != nil {
		return nil, nil, err
	}

	return payload, doc, nil
}
