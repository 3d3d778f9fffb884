package domain

import (
	"encoding/hex"
	"encoding/json"
	"strings"

	dErrors "datatrail/pkg/domain-errors"
)

// HashSize is the fixed length of every fingerprint the registry stores.
const HashSize = 32

// Hash is a fixed-size fingerprint of an external document or payload. The
// registry stores and relays hashes opaquely; it never inspects the data
// they identify.
type Hash [HashSize]byte

// ParseHash decodes a hex-encoded fingerprint, with or without a 0x prefix.
//
// Errors: returns CodeInvalidInput when the value is not exactly 32 bytes of
// valid hex.
func ParseHash(s string) (Hash, error) {
	s = strings.TrimPrefix(s, "0x")
	raw, err := hex.DecodeString(s)
	if err != nil {
		return Hash{}, dErrors.New(dErrors.CodeInvalidInput, "fingerprint is not valid hex")
	}
	if len(raw) != HashSize {
		return Hash{}, dErrors.New(dErrors.CodeInvalidInput, "fingerprint must be 32 bytes")
	}
	var h Hash
	copy(h[:], raw)
	return h, nil
}

// String returns the lowercase hex representation without a prefix.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// IsZero reports whether every byte of the hash is zero.
func (h Hash) IsZero() bool {
	return h == Hash{}
}

// MarshalJSON encodes the hash as a hex string.
func (h Hash) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.String())
}

// UnmarshalJSON decodes a hex string into the hash.
func (h *Hash) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseHash(s)
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}
