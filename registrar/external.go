package registrar

import (
	"github.com/holiman/uint256"

	"github.com/ethns/ethns/core/types"
)

// Price is a base/premium cost pair in wei.
type Price struct {
	Base    *uint256.Int
	Premium *uint256.Int
}

// Total returns base + premium as a fresh value.
func (p Price) Total() *uint256.Int {
	return new(uint256.Int).Add(p.Base, p.Premium)
}

// PriceOracle converts a name, its currently known expiry and a requested
// duration into a price. Pure: no side effects are assumed.
type PriceOracle interface {
	Price(name string, expiry uint64, duration uint64) (Price, error)
}

// Registry is the authoritative ownership ledger the registrar settles
// against. It alone decides "already taken".
type Registry interface {
	// Available reports whether the label can currently be registered.
	Available(label string) bool

	// Expiry returns the label's current expiry, or 0 if never registered.
	Expiry(label string) uint64

	// Register grants the label to owner for duration seconds and returns
	// the authoritative expiry timestamp.
	Register(label string, owner types.Address, duration uint64,
		resolver types.Address, fuses uint32, wrapperExpiry uint64) (uint64, error)
}

// RecordSetter applies an opaque record payload through a resolver.
type RecordSetter interface {
	SetRecord(resolver types.Address, payload []byte) error
}

// ReverseMapping links a claimant address back to a registered name.
type ReverseMapping interface {
	SetReverseRecord(addr, owner, resolver types.Address, name string) error
}

// Backend groups the external collaborators behind one transactional
// boundary. Snapshot and RevertToSnapshot give the settlement orchestrator
// its all-or-nothing guarantee: a snapshot is taken before the first item
// settles and reverted on any failure, so partial batches are never
// observable.
type Backend interface {
	PriceOracle
	Registry
	RecordSetter
	ReverseMapping

	// Snapshot returns an identifier for the current backend state.
	Snapshot() int

	// RevertToSnapshot undoes every mutation made since the identified
	// snapshot was taken.
	RevertToSnapshot(id int)
}
