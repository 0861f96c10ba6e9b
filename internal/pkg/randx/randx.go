/*
Package randx provides functions for generating cryptographically secure random identifiers.

It is used to generate token identifiers (UUID v4) and Base62 peer identifiers handed to
clients alongside their token.
*/
package randx

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

const (
	// Base62Chars defines the character set used for Base62 encoding (0-9, A-Z, a-z).
	Base62Chars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	// Base62Len is the total number of characters in the Base62 character set (62).
	Base62Len = int64(len(Base62Chars))

	// PeerIDPrefix is the prefix of every generated peer id.
	PeerIDPrefix = "p2p-peer-"

	// PeerIDRawLength is the length of the Base62 part of a peer id.
	PeerIDRawLength = 12
)

// Base62 returns a string of n characters drawn from Base62Chars using crypto/rand.
func Base62(n int) (string, error) {
	result := make([]byte, n)

	for i := range n {
		num, err := rand.Int(rand.Reader, big.NewInt(Base62Len))
		if err != nil {
			return "", fmt.Errorf("failed to generate random number: %w", err)
		}

		result[i] = Base62Chars[num.Int64()]
	}

	return string(result), nil
}

// TokenID generates a UUID v4 string used as the token's jti claim.
func TokenID() string {
	return uuid.NewString()
}

// PeerID generates a client peer identifier such as "p2p-peer-4fQ0xk9TzP1a".
func PeerID() (string, error) {
	raw, err := Base62(PeerIDRawLength)
	if err != nil {
		return "", err
	}
	return PeerIDPrefix + raw, nil
}

// IsValidPeerID checks that id carries PeerIDPrefix followed by PeerIDRawLength Base62 characters.
func IsValidPeerID(id string) bool {
	rawID, ok := strings.CutPrefix(id, PeerIDPrefix)
	if !ok || len(rawID) != PeerIDRawLength {
		return false
	}

	for _, char := range rawID {
		if !strings.ContainsRune(Base62Chars, char) {
			return false
		}
	}

	return true
}
