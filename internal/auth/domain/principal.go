// Package domain defines authentication domain models and business logic.
//
// It provides the Principal abstraction shared by interactive users and
// non-interactive service accounts, plus the persisted refresh token entity
// that backs the rotation state machine.
package domain

// Principal is an authenticatable identity. Both users and service accounts
// implement it, so a single token codec and a single refresh token store
// serve both kinds; only the claim set and the persisted row type differ.
type Principal interface {
	// Identifier returns the stable subject identifier embedded in tokens
	// (username for users, service name for service accounts).
	Identifier() string

	// CredentialDigest returns the stored one-way digest of the principal's
	// secret. The plaintext secret is never retrievable.
	CredentialDigest() string

	// Authorities returns the roles granted to the principal.
	Authorities() []string

	// IsEnabled reports whether the principal may authenticate. A disabled
	// principal is rejected even when it presents a validly signed token.
	IsEnabled() bool
}
