package domain

// Principal is an opaque, already-authenticated identity handle. The core
// never verifies identity itself; transport middleware resolves the caller
// and services only compare principals and look them up in relation stores.
type Principal string

// String returns the string representation of the principal.
func (p Principal) String() string {
	return string(p)
}

// IsZero reports whether the principal is unset.
func (p Principal) IsZero() bool {
	return p == ""
}
