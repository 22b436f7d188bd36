package registrar

import (
	"unicode/utf8"

	"github.com/holiman/uint256"

	"github.com/ethns/ethns/core/types"
	"github.com/ethns/ethns/crypto"
)

// recordNodeOffset and recordNodeEnd delimit the namehash argument inside
// a resolver record payload: a 4-byte selector followed by the 32-byte
// target node.
const (
	recordNodeOffset = 4
	recordNodeEnd    = recordNodeOffset + types.HashLength
)

// validateItem runs the per-item preconditions in protocol order and
// returns the item's price. First failure wins; the caller aborts the
// whole batch on any error. attached is the call's total value, checked
// here per item; the running budget is the orchestrator's concern.
func (c *Controller) validateItem(intent *RegistrationIntent, attached *uint256.Int) (Price, error) {
	if utf8.RuneCountInString(intent.Name) < c.cfg.MinNameLength {
		return Price{}, ErrNameTooShort
	}
	if !c.backend.Available(intent.Name) {
		return Price{}, ErrNameUnavailable
	}
	if intent.Duration < c.cfg.MinRegistrationDuration {
		return Price{}, ErrDurationTooShort
	}

	price, err := c.backend.Price(intent.Name, c.backend.Expiry(intent.Name), intent.Duration)
	if err != nil {
		return Price{}, &DelegationError{Op: "oracle", Err: err}
	}
	if price.Total().Gt(attached) {
		return Price{}, ErrInsufficientFunds
	}

	if err := checkRecordBinding(intent, c.cfg.ParentNode()); err != nil {
		return Price{}, err
	}
	return price, nil
}

// checkRecordBinding requires every record payload to embed the namehash
// node of the name being registered. A single mismatched write poisons the
// whole batch: records must never be applied to a different name than the
// one revealed.
func checkRecordBinding(intent *RegistrationIntent, parentNode types.Hash) error {
	if len(intent.Records) == 0 {
		return nil
	}
	node := crypto.SubnodeHash(parentNode, intent.Name)
	for _, payload := range intent.Records {
		if len(payload) < recordNodeEnd {
			return ErrRecordNamehashMismatch
		}
		if types.BytesToHash(payload[recordNodeOffset:recordNodeEnd]) != node {
			return ErrRecordNamehashMismatch
		}
	}
	return nil
}
