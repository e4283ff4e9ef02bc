package ledger

import "errors"

var (
	// ErrInvalidAmount rejects amounts that are not finite positive
	// currency values with at most two decimal places.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInsufficientFunds means the debit would take the sender below
	// zero. Checked against the fresh balance inside the atomic unit;
	// never retried.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrAccountVanished means one of the two accounts no longer existed
	// when the atomic unit re-read it.
	ErrAccountVanished = errors.New("account no longer exists")

	// ErrTransferConflict means the unit kept colliding with concurrent
	// transfers touching the same accounts and ran out of retries.
	// Nothing was applied.
	ErrTransferConflict = errors.New("transfer conflict")

	// ErrTransferTimeout means the attempt did not resolve in time. The
	// outcome is unknown: the transfer may or may not have committed, so
	// callers must reconcile against the transaction feed before retrying
	// with the same attempt id.
	ErrTransferTimeout = errors.New("transfer timed out, outcome unknown")
)
