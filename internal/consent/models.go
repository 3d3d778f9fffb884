package consent

import (
	"time"

	id "datatrail/pkg/domain"
)

// Consent captures a subject's decision for a single data category. Each
// SetConsent call replaces the entry wholesale; the store keeps no history
// (history is reconstructable only from the notification stream).
type Consent struct {
	Subject  id.Principal    `json:"subject"`
	Category id.DataCategory `json:"category"`
	Active   bool            `json:"active"`
	// ExpiresAt bounds the grant; the zero time means the consent never
	// expires.
	ExpiresAt time.Time `json:"expires_at,omitzero"`
	// TermsURI references the human-readable terms document; TermsHash is
	// its fingerprint for tamper detection.
	TermsURI  string  `json:"terms_uri"`
	TermsHash id.Hash `json:"terms_hash"`
}

// IsActive returns true when the consent is currently valid: active, and
// either unbounded or not yet past its expiry. A query exactly at the expiry
// instant is still active.
func (c Consent) IsActive(now time.Time) bool {
	if !c.Active {
		return false
	}
	return c.ExpiresAt.IsZero() || !now.After(c.ExpiresAt)
}
