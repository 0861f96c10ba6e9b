package token

import "time"

const (
	// DefaultLifetime is how long an issued token stays valid.
	DefaultLifetime = time.Hour

	// DefaultSkew is how far issued-at is back-dated to tolerate a verifier clock running ahead.
	DefaultSkew = 30 * time.Second
)

// Window computes issued-at and expiry timestamps.
//
// A zero Lifetime is accepted: such a token is already expired by the skew offset
// when it reaches the verifier, which enforces expiry.
type Window struct {
	Lifetime time.Duration
	Skew     time.Duration
}

// DefaultWindow returns the one-hour, thirty-second-skew window.
func DefaultWindow() Window {
	return Window{Lifetime: DefaultLifetime, Skew: DefaultSkew}
}

// At returns the Unix-second issued-at and expiry for now.
// Both durations and now are truncated to whole seconds.
func (w Window) At(now time.Time) (issuedAt, expiresAt int64) {
	sec := now.Unix()
	issuedAt = sec - int64(w.Skew/time.Second)
	expiresAt = sec + int64(w.Lifetime/time.Second)
	return issuedAt, expiresAt
}
