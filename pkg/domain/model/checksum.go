package model

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/m-mizutani/goerr/v2"
)

// Checksum is the SHA-256 digest of a normalized transcript, rendered as
// 64 lowercase hex characters. It is a pure function of the input text:
// no salt, no randomness, stable across restarts and implementations.
type Checksum string

// NewChecksum computes the checksum of the given text
func NewChecksum(text string) Checksum {
	digest := sha256.Sum256([]byte(text))
	return Checksum(hex.EncodeToString(digest[:]))
}

// String returns the hex representation of the checksum
func (c Checksum) String() string {
	return string(c)
}

// Bytes32 decodes the checksum into the fixed-width form expected by the
// ledger contract's recordChecksum(bytes32) call
func (c Checksum) Bytes32() ([32]byte, error) {
	var out [32]byte

	raw, err := hex.DecodeString(string(c))
	if err != nil {
		return out, goerr.Wrap(err, "checksum is not valid hex", goerr.V("checksum", c))
	}
	if len(raw) != 32 {
		return out, goerr.New("checksum must be 32 bytes", goerr.V("length", len(raw)))
	}

	copy(out[:], raw)
	return out, nil
}
