package registrar

import (
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/holiman/uint256"

	"github.com/ethns/ethns/core/types"
)

// DefaultGracePeriod is how long an expired name stays reserved for its
// previous owner before becoming available again, in seconds.
const DefaultGracePeriod = 90 * 24 * 60 * 60

// nameEntry is one registered name in the memory registry.
type nameEntry struct {
	owner         types.Address
	resolver      types.Address
	expires       uint64
	fuses         uint32
	wrapperExpiry uint64
}

// reverseEntry is one claimed reverse mapping.
type reverseEntry struct {
	owner    types.Address
	resolver types.Address
	name     string
}

// MemoryBackend is an in-memory implementation of the collaborator
// Backend: a registry with expiries and a grace period, a length-tiered
// price oracle, a record store and a reverse registrar. Mutations are
// journaled so Snapshot/RevertToSnapshot can undo a partially settled
// batch.
type MemoryBackend struct {
	mu sync.Mutex

	now   func() uint64
	grace uint64

	// ratesPerSecond maps name length (in code points, capped at 5) to a
	// wei-per-second rental rate. Shorter names cost more.
	ratesPerSecond map[int]*uint256.Int

	// Premium, when set, is added to every quote. Useful for exercising
	// base/premium accounting.
	Premium *uint256.Int

	names   map[string]nameEntry
	records map[types.Address][][]byte
	reverse map[types.Address]reverseEntry

	journal []func()
}

// NewMemoryBackend builds a backend reading time from now (nil means wall
// clock) with the default grace period and rate table.
func NewMemoryBackend(now func() uint64) *MemoryBackend {
	if now == nil {
		now = func() uint64 { return uint64(time.Now().Unix()) }
	}
	return &MemoryBackend{
		now:   now,
		grace: DefaultGracePeriod,
		ratesPerSecond: map[int]*uint256.Int{
			1: uint256.NewInt(1000),
			2: uint256.NewInt(500),
			3: uint256.NewInt(300),
			4: uint256.NewInt(100),
			5: uint256.NewInt(5),
		},
		names:   make(map[string]nameEntry),
		records: make(map[types.Address][][]byte),
		reverse: make(map[types.Address]reverseEntry),
	}
}

// SetRate overrides the wei-per-second rate for a length tier.
func (m *MemoryBackend) SetRate(length int, rate *uint256.Int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if length > 5 {
		length = 5
	}
	m.ratesPerSecond[length] = new(uint256.Int).Set(rate)
}

// Price implements PriceOracle: base is the per-second tier rate times the
// duration, premium is the backend's configured premium (zero by default).
func (m *MemoryBackend) Price(name string, expiry uint64, duration uint64) (Price, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tier := utf8.RuneCountInString(name)
	if tier > 5 {
		tier = 5
	}
	rate, ok := m.ratesPerSecond[tier]
	if !ok {
		return Price{}, fmt.Errorf("no rate for %d-character names", tier)
	}
	base := new(uint256.Int).Mul(rate, uint256.NewInt(duration))
	premium := new(uint256.Int)
	if m.Premium != nil {
		premium.Set(m.Premium)
	}
	return Price{Base: base, Premium: premium}, nil
}

// Available implements Registry. A name is taken while registered and for
// the grace period after its expiry.
func (m *MemoryBackend) Available(label string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.available(label)
}

func (m *MemoryBackend) available(label string) bool {
	entry, ok := m.names[label]
	if !ok {
		return true
	}
	return m.now() >= entry.expires+m.grace
}

// Expiry implements Registry.
func (m *MemoryBackend) Expiry(label string) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.names[label].expires
}

// Register implements Registry.
func (m *MemoryBackend) Register(label string, owner types.Address, duration uint64,
	resolver types.Address, fuses uint32, wrapperExpiry uint64) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.available(label) {
		return 0, fmt.Errorf("name %q not available", label)
	}
	prev, hadPrev := m.names[label]
	m.journal = append(m.journal, func() {
		if hadPrev {
			m.names[label] = prev
		} else {
			delete(m.names, label)
		}
	})
	expires := m.now() + duration
	m.names[label] = nameEntry{
		owner:         owner,
		resolver:      resolver,
		expires:       expires,
		fuses:         fuses,
		wrapperExpiry: wrapperExpiry,
	}
	return expires, nil
}

// SetRecord implements RecordSetter. The registrar has already bound the
// payload to the registered name; the backend just stores it.
func (m *MemoryBackend) SetRecord(resolver types.Address, payload []byte) error {
	if resolver.IsZero() {
		return fmt.Errorf("record write without resolver")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[resolver] = append(m.records[resolver], payload)
	m.journal = append(m.journal, func() {
		rs := m.records[resolver]
		m.records[resolver] = rs[:len(rs)-1]
	})
	return nil
}

// SetReverseRecord implements ReverseMapping.
func (m *MemoryBackend) SetReverseRecord(addr, owner, resolver types.Address, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	prev, hadPrev := m.reverse[addr]
	m.journal = append(m.journal, func() {
		if hadPrev {
			m.reverse[addr] = prev
		} else {
			delete(m.reverse, addr)
		}
	})
	m.reverse[addr] = reverseEntry{owner: owner, resolver: resolver, name: name}
	return nil
}

// Snapshot implements Backend.
func (m *MemoryBackend) Snapshot() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.journal)
}

// RevertToSnapshot implements Backend: undoes journaled mutations, newest
// first, back to the snapshot point.
func (m *MemoryBackend) RevertToSnapshot(id int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id < 0 || id > len(m.journal) {
		return
	}
	for i := len(m.journal) - 1; i >= id; i-- {
		m.journal[i]()
	}
	m.journal = m.journal[:id]
}

// Owner returns the current owner of label, or the zero address.
func (m *MemoryBackend) Owner(label string) types.Address {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.names[label].owner
}

// Records returns the payloads stored through resolver, in write order.
func (m *MemoryBackend) Records(resolver types.Address) [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]byte(nil), m.records[resolver]...)
}

// ReverseName returns the name addr reverse-resolves to, if any.
func (m *MemoryBackend) ReverseName(addr types.Address) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.reverse[addr]
	return entry.name, ok
}
