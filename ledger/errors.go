package ledger

import "errors"

// Validation errors reject a caller-supplied event before any state
// changes. Handlers map these to 400 responses.
var (
	ErrAmountNotPositive = errors.New("amount must be positive")
	ErrNegativeSplit     = errors.New("split owed amount can't be negative")
	ErrSplitSumMismatch  = errors.New("split amounts don't add up to the expense total")
	ErrSelfSettlement    = errors.New("settlement payer and payee must differ")
	ErrWrongGroup        = errors.New("event belongs to a different group")
	ErrUnknownEvent      = errors.New("unknown ledger event type")
)

// ErrLedgerCorruption means the zero-sum post-condition failed after
// aggregation. Valid inputs through valid operations can never produce it;
// it is an internal error, not a user-facing validation message.
var ErrLedgerCorruption = errors.New("ledger corruption: balances don't sum to zero")

// IsValidation reports whether err is one of the recoverable validation
// errors, as opposed to corruption or a storage failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrAmountNotPositive) ||
		errors.Is(err, ErrNegativeSplit) ||
		errors.Is(err, ErrSplitSumMismatch) ||
		errors.Is(err, ErrSelfSettlement) ||
		errors.Is(err, ErrWrongGroup)
}
