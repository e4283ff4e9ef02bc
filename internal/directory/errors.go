package directory

import "errors"

var (
	ErrAccountNotFound = errors.New("account not found")

	// ErrSelfTransfer rejects a transfer target equal to the initiator.
	// Raised before any store mutation is attempted.
	ErrSelfTransfer = errors.New("cannot transfer to own account")

	// ErrDirectoryUnavailable wraps backing-store failures so callers can
	// tell "no such account" apart from "could not ask".
	ErrDirectoryUnavailable = errors.New("account directory unavailable")
)
