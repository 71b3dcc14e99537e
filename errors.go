package lendwire

import "errors"

// Decode and encode failures are reported through these sentinels so callers
// can branch with errors.Is without parsing messages. None of them are
// retried inside this module; a malformed account is reported, never
// returned as a partial entity.
var (
	// ErrSizeMismatch means an account buffer's length differs from the
	// registry span for the record kind being decoded.
	ErrSizeMismatch = errors.New("account size mismatch")

	// ErrOwnershipMismatch means a fetched account is not owned by the
	// protocol program the decoder is pinned to. The caller resolved or
	// fetched the wrong address.
	ErrOwnershipMismatch = errors.New("account ownership mismatch")

	// ErrCorruptEnum means a status or option byte is outside its known
	// domain. Out-of-range values are never clamped.
	ErrCorruptEnum = errors.New("enum value out of range")

	// ErrVersionMismatch means the record's version tag differs from the
	// version the selected generation writes. Guessing field shifts across
	// versions silently corrupts reads, so decoding fails fast instead.
	ErrVersionMismatch = errors.New("record version mismatch")

	// ErrUninitialized means the record's version tag is zero: the account
	// exists but the program has not initialized it yet.
	ErrUninitialized = errors.New("account not initialized")

	// ErrUnknownCommand means the selected generation's command table has
	// no entry for the requested command.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrMissingField means a required instruction parameter (scalar or
	// account reference) was left zero by the caller.
	ErrMissingField = errors.New("missing instruction field")

	// ErrDerivationExhausted means no off-curve address was found in the
	// whole bump search space.
	ErrDerivationExhausted = errors.New("address derivation exhausted")

	// ErrNotFound is returned by fetchers and caches when no account
	// exists at an address.
	ErrNotFound = errors.New("account not found")
)
