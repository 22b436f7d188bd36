package crypto

import (
	"strings"

	"github.com/ethns/ethns/core/types"
)

// LabelHash returns the Keccak-256 hash of a single name label, e.g.
// LabelHash("vitalik") for "vitalik.eth". The label must not contain dots.
func LabelHash(label string) types.Hash {
	return Keccak256Hash([]byte(label))
}

// Namehash implements the ENS namehash algorithm (EIP-137): the node of the
// empty name is 32 zero bytes, and node(l.rest) = keccak256(node(rest) ++
// keccak256(l)). Labels are processed right to left, so "foo.eth" hashes
// the "eth" label under the root before the "foo" label under "eth".
func Namehash(name string) types.Hash {
	var node types.Hash
	if name == "" {
		return node
	}
	labels := strings.Split(name, ".")
	for i := len(labels) - 1; i >= 0; i-- {
		node = Keccak256Hash(node.Bytes(), Keccak256([]byte(labels[i])))
	}
	return node
}

// SubnodeHash returns the namehash of a label under an already-computed
// parent node. Equivalent to Namehash(label + "." + parent) without
// re-hashing the parent chain.
func SubnodeHash(parent types.Hash, label string) types.Hash {
	return Keccak256Hash(parent.Bytes(), Keccak256([]byte(label)))
}
