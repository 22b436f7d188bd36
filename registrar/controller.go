package registrar

import (
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/holiman/uint256"

	"github.com/ethns/ethns/core/types"
	"github.com/ethns/ethns/crypto"
	"github.com/ethns/ethns/log"
)

// NameRegistered is emitted once per settled item, in settlement order.
type NameRegistered struct {
	Name      string
	LabelHash types.Hash
	Owner     types.Address
	Base      *uint256.Int
	Premium   *uint256.Int
	Expires   uint64
}

// Controller is the settlement orchestrator: it owns the commitment store,
// drives per-item validation, pricing and delegation against the external
// backend, and settles each register call atomically.
type Controller struct {
	cfg     Config
	store   *CommitmentStore
	backend Backend
	log     *log.Logger

	mu        sync.Mutex
	collected *uint256.Int

	// now is split out for tests; production controllers use wall time.
	now func() uint64
}

// New builds a controller from a validated config, an injected commitment
// store and the external collaborator backend. The store's reveal window
// must agree with the config, or Config would misreport the window the
// store actually enforces.
func New(cfg Config, store *CommitmentStore, backend Backend, logger *log.Logger) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if minAge, maxAge := store.Window(); minAge != cfg.MinCommitmentAge || maxAge != cfg.MaxCommitmentAge {
		return nil, fmt.Errorf("store window (%d, %d) disagrees with config (%d, %d)",
			minAge, maxAge, cfg.MinCommitmentAge, cfg.MaxCommitmentAge)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Controller{
		cfg:       cfg,
		store:     store,
		backend:   backend,
		log:       logger.Module("registrar"),
		collected: new(uint256.Int),
		now:       func() uint64 { return uint64(time.Now().Unix()) },
	}, nil
}

// SetClock overrides the controller's time source. Intended for tests.
func (c *Controller) SetClock(now func() uint64) { c.now = now }

// Config returns the controller's protocol parameters.
func (c *Controller) Config() Config { return c.cfg }

// RentPrice quotes the current price of registering name for duration
// seconds, given the registry's presently known expiry.
func (c *Controller) RentPrice(name string, duration uint64) (Price, error) {
	price, err := c.backend.Price(name, c.backend.Expiry(name), duration)
	if err != nil {
		return Price{}, &DelegationError{Op: "oracle", Err: err}
	}
	return price, nil
}

// Available reports whether name is long enough to register at all and
// currently free per the registry.
func (c *Controller) Available(name string) bool {
	if utf8.RuneCountInString(name) < c.cfg.MinNameLength {
		return false
	}
	return c.backend.Available(name)
}

// MakeCommitment hashes a single intent into a committable digest: the
// batch digest of the singleton batch holding it, so it pairs directly
// with Commit and a one-item Register.
func (c *Controller) MakeCommitment(intent *RegistrationIntent) (types.Hash, error) {
	digest, err := hashIntent(intent)
	if err != nil {
		return types.Hash{}, err
	}
	return combineDigests([]types.Hash{digest}), nil
}

// MakeBatchCommitment hashes an ordered batch of slots.
func (c *Controller) MakeBatchCommitment(batch []BatchSlot) (types.Hash, error) {
	return MakeBatchCommitment(batch)
}

// Commit records a batch commitment digest at the current time.
func (c *Controller) Commit(digest types.Hash) error {
	now := c.now()
	if err := c.store.Commit(digest, now); err != nil {
		return err
	}
	c.log.Debug("commitment recorded", "digest", digest, "time", now)
	return nil
}

// Register reveals and settles a batch. Items settle in caller order:
// placeholders contribute only their digest, every real intent is
// validated, priced, registered through the backend, its records applied
// and its optional reverse mapping claimed, then charged against the
// running budget. The batch commitment is validated and consumed after
// the loop, and unspent funds are returned as the refund.
//
// The call is atomic. Any failure reverts every backend mutation, emits
// no events, and leaves the commitment record untouched so the caller can
// retry the reveal inside the window without re-committing.
//
// A nil attached value means no funds were sent with the call.
func (c *Controller) Register(caller types.Address, batch []BatchSlot, attached *uint256.Int) ([]NameRegistered, *uint256.Int, error) {
	if len(batch) == 0 {
		return nil, nil, ErrEmptyBatch
	}
	if attached == nil {
		attached = new(uint256.Int)
	}

	snap := c.backend.Snapshot()
	events, refund, err := c.settle(caller, batch, attached)
	if err != nil {
		c.backend.RevertToSnapshot(snap)
		c.log.Debug("register aborted", "items", len(batch), "err", err)
		return nil, nil, err
	}

	spent := new(uint256.Int).Sub(attached, refund)
	c.mu.Lock()
	c.collected.Add(c.collected, spent)
	c.mu.Unlock()

	c.log.Info("batch registered",
		"items", len(batch), "registered", len(events),
		"spent", spent, "refund", refund)
	return events, refund, nil
}

// settle runs the optimistic settlement loop. The caller handles rollback.
func (c *Controller) settle(caller types.Address, batch []BatchSlot, attached *uint256.Int) ([]NameRegistered, *uint256.Int, error) {
	ledger := NewBudgetLedger(attached)
	digests := make([]types.Hash, len(batch))
	var events []NameRegistered

	for i, slot := range batch {
		digest, err := slotDigest(slot)
		if err != nil {
			return nil, nil, itemErr(i, err)
		}
		digests[i] = digest
		if slot.IsPlaceholder() {
			continue
		}

		ev, price, err := c.settleItem(caller, slot.Intent(), attached)
		if err != nil {
			return nil, nil, itemErr(i, err)
		}
		if err := ledger.Charge(price.Total()); err != nil {
			return nil, nil, itemErr(i, err)
		}
		events = append(events, ev)
	}

	// Commitment validity is checked last: registrations above were
	// optimistic and are rolled back by the caller if the reveal falls
	// outside the window.
	root := combineDigests(digests)
	if err := c.store.ValidateAndConsume(root, c.now()); err != nil {
		return nil, nil, err
	}

	return events, ledger.Remaining(), nil
}

// settleItem validates, prices and delegates one intent.
func (c *Controller) settleItem(caller types.Address, intent *RegistrationIntent, attached *uint256.Int) (NameRegistered, Price, error) {
	price, err := c.validateItem(intent, attached)
	if err != nil {
		return NameRegistered{}, Price{}, err
	}

	expires, err := c.backend.Register(intent.Name, intent.Owner, intent.Duration,
		intent.Resolver, intent.Fuses, intent.WrapperExpiry)
	if err != nil {
		return NameRegistered{}, Price{}, &DelegationError{Op: "registry", Err: err}
	}

	for _, payload := range intent.Records {
		if err := c.backend.SetRecord(intent.Resolver, payload); err != nil {
			return NameRegistered{}, Price{}, &DelegationError{Op: "records", Err: err}
		}
	}

	if intent.ReverseRecord {
		// The reverse mapping points the revealing caller, not the new
		// owner, at the full name.
		err := c.backend.SetReverseRecord(caller, intent.Owner, intent.Resolver, c.cfg.FullName(intent.Name))
		if err != nil {
			return NameRegistered{}, Price{}, &DelegationError{Op: "reverse", Err: err}
		}
	}

	ev := NameRegistered{
		Name:      intent.Name,
		LabelHash: crypto.LabelHash(intent.Name),
		Owner:     intent.Owner,
		Base:      new(uint256.Int).Set(price.Base),
		Premium:   new(uint256.Int).Set(price.Premium),
		Expires:   expires,
	}
	return ev, price, nil
}

// Withdraw sweeps the funds accumulated by successful registrations to
// the configured administrator. Returns the swept amount.
func (c *Controller) Withdraw(caller types.Address) (*uint256.Int, error) {
	if caller != c.cfg.Admin || caller.IsZero() {
		return nil, ErrNotAdmin
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	amount := c.collected
	c.collected = new(uint256.Int)
	c.log.Info("funds withdrawn", "admin", caller, "amount", amount)
	return amount, nil
}

// Collected returns the funds currently held for withdrawal.
func (c *Controller) Collected() *uint256.Int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return new(uint256.Int).Set(c.collected)
}
