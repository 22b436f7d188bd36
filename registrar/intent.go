// Package registrar implements a batched commit-reveal registration
// protocol for names under a fixed parent namespace. Callers first commit
// to a hash of their registration intents, wait out an anti-front-running
// delay, then reveal the intents in a register call that settles every
// item atomically against an external registry while tracking an exact
// per-batch budget.
package registrar

import "github.com/ethns/ethns/core/types"

// RegistrationIntent describes one name registration inside a batch.
type RegistrationIntent struct {
	// Name is the bare label, without the parent suffix ("alice", not
	// "alice.eth"). An empty name is not a valid intent; use a
	// placeholder slot.
	Name string

	// Owner receives the registration.
	Owner types.Address

	// Duration is the requested registration length in seconds.
	Duration uint64

	// Resolver is the record resolver, or the zero address for none.
	Resolver types.Address

	// Records are opaque resolver write payloads applied after
	// registration. Each must target the registered name's node
	// (bytes [4,36) of the payload).
	Records [][]byte

	// Secret blinds the commitment against pre-image guessing.
	Secret types.Hash

	// ReverseRecord requests a reverse mapping from the revealing caller
	// to the registered name.
	ReverseRecord bool

	// Fuses is an opaque permission bitmask passed through to the registry.
	Fuses uint32

	// WrapperExpiry is opaque to the registrar and passed through.
	WrapperExpiry uint64
}

// checkConstruction enforces the invariants that make an intent hashable.
// Violations here are caught before a commitment is ever produced, so a
// commitment to an unsatisfiable intent cannot exist.
func (ri *RegistrationIntent) checkConstruction() error {
	if ri.Name == "" {
		return ErrEmptyName
	}
	if len(ri.Records) > 0 && ri.Resolver.IsZero() {
		return ErrResolverRequired
	}
	return nil
}

// BatchSlot is one position in a register batch: either a real intent or a
// placeholder that reserves the position in the batch digest without
// registering anything.
type BatchSlot struct {
	intent   *RegistrationIntent
	duration uint64
}

// IntentSlot wraps an intent as a batch slot.
func IntentSlot(intent *RegistrationIntent) BatchSlot {
	return BatchSlot{intent: intent}
}

// PlaceholderSlot creates a no-op slot. The duration value becomes the
// slot's digest, letting a caller later prove the batch deliberately
// included this position.
func PlaceholderSlot(duration uint64) BatchSlot {
	return BatchSlot{duration: duration}
}

// IsPlaceholder reports whether the slot carries no intent.
func (s BatchSlot) IsPlaceholder() bool { return s.intent == nil }

// Intent returns the slot's intent, or nil for a placeholder.
func (s BatchSlot) Intent() *RegistrationIntent { return s.intent }

// Duration returns the placeholder duration. Zero for intent slots.
func (s BatchSlot) Duration() uint64 { return s.duration }
