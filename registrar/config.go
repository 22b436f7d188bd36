package registrar

import (
	"fmt"

	"github.com/ethns/ethns/core/types"
	"github.com/ethns/ethns/crypto"
)

// Default protocol parameters. Durations are in seconds.
const (
	DefaultMinCommitmentAge       = 60
	DefaultMaxCommitmentAge       = 24 * 60 * 60
	DefaultMinRegistrationSeconds = 28 * 24 * 60 * 60
	DefaultMinNameLength          = 3
)

// Config holds the protocol parameters of a registrar controller.
type Config struct {
	// ParentName is the parent namespace all registrations land under,
	// e.g. "eth" for "alice.eth".
	ParentName string

	// MinCommitmentAge is the anti-front-running delay: a commitment
	// younger than this cannot be revealed.
	MinCommitmentAge uint64

	// MaxCommitmentAge is the reveal deadline: a commitment at or past
	// this age is dead and must be re-committed.
	MaxCommitmentAge uint64

	// MinRegistrationDuration is the floor on requested registration
	// length, independent of caller input.
	MinRegistrationDuration uint64

	// MinNameLength is the minimum name length in Unicode code points.
	MinNameLength int

	// Admin may sweep accumulated registration funds via Withdraw.
	Admin types.Address
}

// DefaultConfig returns the standard .eth registrar parameters.
func DefaultConfig() Config {
	return Config{
		ParentName:              "eth",
		MinCommitmentAge:        DefaultMinCommitmentAge,
		MaxCommitmentAge:        DefaultMaxCommitmentAge,
		MinRegistrationDuration: DefaultMinRegistrationSeconds,
		MinNameLength:           DefaultMinNameLength,
	}
}

// Validate checks construction-time invariants. A violated commitment
// window is fatal: no controller may be built from such a config.
func (c Config) Validate() error {
	if c.ParentName == "" {
		return fmt.Errorf("parent name must not be empty")
	}
	if c.MinCommitmentAge >= c.MaxCommitmentAge {
		return fmt.Errorf("min commitment age %d must be below max %d",
			c.MinCommitmentAge, c.MaxCommitmentAge)
	}
	if c.MinNameLength < 1 {
		return fmt.Errorf("min name length must be positive")
	}
	if c.MinRegistrationDuration == 0 {
		return fmt.Errorf("min registration duration must be positive")
	}
	return nil
}

// ParentNode returns the namehash node of the parent namespace. Resolver
// records are bound against subnodes of this node.
func (c Config) ParentNode() types.Hash {
	return crypto.Namehash(c.ParentName)
}

// FullName returns the fully qualified name of a label under the parent.
func (c Config) FullName(label string) string {
	return label + "." + c.ParentName
}
