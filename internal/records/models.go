package records

import (
	"time"

	id "datatrail/pkg/domain"
)

// DataRecord is one entry in a subject's append-only record log. The
// registry stores fingerprints and locators only, never the data itself.
//
// Lifecycle: Active -> Redacted, one way. Redaction is an advisory flag for
// off-chain consumers; it hides nothing and restricts no access.
type DataRecord struct {
	Subject id.Principal `json:"subject"`
	// Index is the zero-based position in the subject's sequence. Indices
	// are never reused or reordered.
	Index             int             `json:"index"`
	Category          id.DataCategory `json:"category"`
	DataFingerprint   id.Hash         `json:"data_fingerprint"`
	LocationURI       string          `json:"location_uri"`
	EncryptionKeyHint id.Hash         `json:"encryption_key_hint"`
	// CollectedAt is writer-supplied and describes when the source data was
	// captured. StoredAt is assigned by the system at acceptance and is
	// authoritative.
	CollectedAt time.Time `json:"collected_at"`
	StoredAt    time.Time `json:"stored_at"`
	Redacted    bool      `json:"redacted"`
}
