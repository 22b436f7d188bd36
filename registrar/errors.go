package registrar

import (
	"errors"
	"fmt"
)

// Commitment construction and lifecycle errors.
var (
	// ErrEmptyName is returned when an intent with an empty name is hashed
	// directly. Empty slots must use the placeholder form instead.
	ErrEmptyName = errors.New("empty name: use a placeholder slot")

	// ErrResolverRequired is returned when an intent carries resolver
	// records but no resolver to apply them with. Checked at commitment
	// construction time so an unsatisfiable commitment can never exist.
	ErrResolverRequired = errors.New("records supplied without a resolver")

	// ErrEmptyBatch is returned for a batch with no slots at all.
	ErrEmptyBatch = errors.New("empty batch")

	// ErrCommitmentTooRecent is returned by Commit when a live record for
	// the same digest has not yet aged past the maximum commitment age.
	ErrCommitmentTooRecent = errors.New("commitment too recent to replace")

	// ErrCommitmentTooYoung is returned when a reveal arrives before the
	// anti-front-running delay has elapsed.
	ErrCommitmentTooYoung = errors.New("commitment too young")

	// ErrCommitmentExpired is returned when a reveal arrives at or after
	// the maximum commitment age, or for a digest that was never committed.
	ErrCommitmentExpired = errors.New("commitment expired or unknown")
)

// Per-item validation errors.
var (
	ErrNameTooShort     = errors.New("name too short")
	ErrNameUnavailable  = errors.New("name unavailable")
	ErrDurationTooShort = errors.New("registration duration too short")

	// ErrInsufficientFunds means the call's attached value does not cover
	// this single item's price. Distinct from ErrInsufficientBudget, which
	// means the attached value covered each item individually but ran out
	// partway through the batch.
	ErrInsufficientFunds  = errors.New("insufficient funds for item price")
	ErrInsufficientBudget = errors.New("batch budget exhausted")

	// ErrRecordNamehashMismatch means a resolver record targets a node
	// other than the name being registered.
	ErrRecordNamehashMismatch = errors.New("record namehash mismatch")
)

// ErrNotAdmin is returned by Withdraw for a non-administrator caller.
var ErrNotAdmin = errors.New("caller is not the administrator")

// DelegationError wraps a failure from an external collaborator (registry,
// record setter, reverse registrar). The collaborator's reason is carried
// opaquely and reachable through Unwrap.
type DelegationError struct {
	Op  string // "registry", "records", "reverse"
	Err error
}

func (e *DelegationError) Error() string {
	return fmt.Sprintf("%s delegation failed: %v", e.Op, e.Err)
}

func (e *DelegationError) Unwrap() error { return e.Err }

// ItemError attributes a batch failure to the slot index that caused it.
type ItemError struct {
	Index int
	Err   error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("item %d: %v", e.Index, e.Err)
}

func (e *ItemError) Unwrap() error { return e.Err }

// itemErr wraps err with its batch position unless it is already indexed.
func itemErr(index int, err error) error {
	var ie *ItemError
	if errors.As(err, &ie) {
		return err
	}
	return &ItemError{Index: index, Err: err}
}
