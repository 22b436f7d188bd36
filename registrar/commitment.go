package registrar

import (
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"

	"github.com/ethns/ethns/core/types"
	"github.com/ethns/ethns/crypto"
)

// commitmentTuple is the canonical encoding of an intent for hashing. The
// name enters as its labelhash; field order is part of the protocol and
// must never change.
type commitmentTuple struct {
	LabelHash     types.Hash
	Owner         types.Address
	Duration      uint64
	Resolver      types.Address
	Records       [][]byte
	Secret        types.Hash
	ReverseRecord bool
	Fuses         uint32
	WrapperExpiry uint64
}

// hashIntent hashes a registration intent into its per-slot digest: the
// Keccak-256 hash of the RLP encoding of the canonical intent tuple.
// Construction invariants (non-empty name, resolver present whenever
// records are) are enforced here so invalid commitments cannot be produced.
// Committable digests are always batch digests; see MakeBatchCommitment
// and Controller.MakeCommitment.
func hashIntent(intent *RegistrationIntent) (types.Hash, error) {
	if err := intent.checkConstruction(); err != nil {
		return types.Hash{}, err
	}
	enc, err := rlp.EncodeToBytes(&commitmentTuple{
		LabelHash:     crypto.LabelHash(intent.Name),
		Owner:         intent.Owner,
		Duration:      intent.Duration,
		Resolver:      intent.Resolver,
		Records:       intent.Records,
		Secret:        intent.Secret,
		ReverseRecord: intent.ReverseRecord,
		Fuses:         intent.Fuses,
		WrapperExpiry: intent.WrapperExpiry,
	})
	if err != nil {
		return types.Hash{}, fmt.Errorf("encode intent: %w", err)
	}
	return crypto.Keccak256Hash(enc), nil
}

// slotDigest returns the digest contributed by one batch position. A
// placeholder's digest is its duration zero-extended to 32 bytes; an
// intent's is its commitment.
func slotDigest(slot BatchSlot) (types.Hash, error) {
	if slot.IsPlaceholder() {
		b := uint256.NewInt(slot.Duration()).Bytes32()
		return types.Hash(b), nil
	}
	return hashIntent(slot.Intent())
}

// MakeBatchCommitment combines a batch's per-slot digests, in batch order,
// into the single digest recorded by Commit: the Keccak-256 hash of the
// concatenated slot digests. Any permutation of a batch with two or more
// distinct slots yields a different digest.
func MakeBatchCommitment(batch []BatchSlot) (types.Hash, error) {
	if len(batch) == 0 {
		return types.Hash{}, ErrEmptyBatch
	}
	digests := make([]types.Hash, len(batch))
	for i, slot := range batch {
		d, err := slotDigest(slot)
		if err != nil {
			return types.Hash{}, itemErr(i, err)
		}
		digests[i] = d
	}
	return combineDigests(digests), nil
}

// combineDigests hashes an ordered digest sequence into one root digest.
func combineDigests(digests []types.Hash) types.Hash {
	parts := make([][]byte, len(digests))
	for i := range digests {
		parts[i] = digests[i].Bytes()
	}
	return crypto.Keccak256Hash(parts...)
}
