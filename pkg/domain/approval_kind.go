package domain

// ApprovalKind distinguishes the two independent approval relations a subject
// controls. The relations are directional and never imply one another.
type ApprovalKind string

const (
	// ApprovalKindInsurer grants an organization permission to read the
	// subject's records, subject to platform verification.
	ApprovalKindInsurer ApprovalKind = "insurer"
	// ApprovalKindAgent delegates write authority: the grantee may append
	// records on the subject's behalf.
	ApprovalKindAgent ApprovalKind = "agent"
)

// IsValid checks if the kind is one of the supported relations.
func (k ApprovalKind) IsValid() bool {
	return k == ApprovalKindInsurer || k == ApprovalKindAgent
}

// String returns the string representation of the kind.
func (k ApprovalKind) String() string {
	return string(k)
}
