package audit

import (
	"time"

	"github.com/google/uuid"

	id "datatrail/pkg/domain"
)

// Kind names a state mutation. Exactly one event is emitted per accepted
// mutating call, in transaction order; the event stream is the only
// reconstructable history of consent and approval changes.
type Kind string

const (
	KindVerificationChanged Kind = "verification_changed"
	KindApprovalChanged     Kind = "approval_changed"
	KindConsentChanged      Kind = "consent_changed"
	KindRecordAdded         Kind = "record_added"
	KindRecordRedacted      Kind = "record_redacted"
)

// Event is emitted from domain logic to capture a state mutation. It carries
// the full post-mutation field set for its kind and stays transport-agnostic
// so stores and sinks can fan out.
type Event struct {
	ID        uuid.UUID    `json:"id"`
	Seq       uint64       `json:"seq,omitempty"`
	Kind      Kind         `json:"kind"`
	Timestamp time.Time    `json:"timestamp"`
	Actor     id.Principal `json:"actor"`
	Subject   id.Principal `json:"subject"`

	// verification_changed
	Organization id.Principal `json:"organization,omitempty"`
	Verified     bool         `json:"verified,omitempty"`

	// approval_changed
	ApprovalKind id.ApprovalKind `json:"approval_kind,omitempty"`
	Grantee      id.Principal    `json:"grantee,omitempty"`
	Approved     bool            `json:"approved,omitempty"`

	// consent_changed
	Category  id.DataCategory `json:"category,omitempty"`
	Active    bool            `json:"active,omitempty"`
	ExpiresAt time.Time       `json:"expires_at,omitzero"`
	TermsURI  string          `json:"terms_uri,omitempty"`
	TermsHash id.Hash         `json:"terms_hash,omitzero"`

	// record_added / record_redacted
	Index       int       `json:"index"`
	Fingerprint id.Hash   `json:"fingerprint,omitzero"`
	LocationURI string    `json:"location_uri,omitempty"`
	KeyHint     id.Hash   `json:"key_hint,omitzero"`
	CollectedAt time.Time `json:"collected_at,omitzero"`
	Redacted    bool      `json:"redacted,omitempty"`
}
