package registrar

import (
	"testing"

	"github.com/holiman/uint256"

	"github.com/ethns/ethns/core/types"
)

func TestMemoryBackendRegisterAndExpiry(t *testing.T) {
	now := uint64(1_700_000_000)
	m := NewMemoryBackend(func() uint64 { return now })
	owner := types.HexToAddress("0x01")

	expires, err := m.Register("alice", owner, 1000, types.Address{}, 0, 0)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if expires != now+1000 {
		t.Fatalf("expires = %d, want %d", expires, now+1000)
	}
	if m.Expiry("alice") != expires {
		t.Fatalf("Expiry = %d, want %d", m.Expiry("alice"), expires)
	}
	if m.Available("alice") {
		t.Fatal("registered name reported available")
	}
	if _, err := m.Register("alice", owner, 1000, types.Address{}, 0, 0); err == nil {
		t.Fatal("double registration must fail")
	}
}

func TestMemoryBackendGracePeriod(t *testing.T) {
	now := uint64(1_700_000_000)
	m := NewMemoryBackend(func() uint64 { return now })
	if _, err := m.Register("alice", types.HexToAddress("0x01"), 1000, types.Address{}, 0, 0); err != nil {
		t.Fatalf("Register: %v", err)
	}

	// Just expired: still inside the grace period.
	now += 1001
	if m.Available("alice") {
		t.Fatal("name available during grace period")
	}
	// Grace elapsed: free again.
	now += DefaultGracePeriod
	if !m.Available("alice") {
		t.Fatal("name unavailable after grace period")
	}
}

func TestMemoryBackendSnapshotRevert(t *testing.T) {
	now := uint64(1_700_000_000)
	m := NewMemoryBackend(func() uint64 { return now })
	resolver := types.HexToAddress("0x5e")
	caller := types.HexToAddress("0xca")

	snap := m.Snapshot()
	if _, err := m.Register("alice", types.HexToAddress("0x01"), 1000, resolver, 0, 0); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := m.SetRecord(resolver, make([]byte, 36)); err != nil {
		t.Fatalf("SetRecord: %v", err)
	}
	if err := m.SetReverseRecord(caller, caller, resolver, "alice.eth"); err != nil {
		t.Fatalf("SetReverseRecord: %v", err)
	}

	m.RevertToSnapshot(snap)

	if !m.Available("alice") {
		t.Fatal("revert did not undo the registration")
	}
	if len(m.Records(resolver)) != 0 {
		t.Fatal("revert did not undo the record write")
	}
	if _, ok := m.ReverseName(caller); ok {
		t.Fatal("revert did not undo the reverse record")
	}
}

func TestMemoryBackendNestedSnapshots(t *testing.T) {
	m := NewMemoryBackend(func() uint64 { return 1_700_000_000 })

	if _, err := m.Register("alice", types.HexToAddress("0x01"), 1000, types.Address{}, 0, 0); err != nil {
		t.Fatalf("Register: %v", err)
	}
	snap := m.Snapshot()
	if _, err := m.Register("bobby", types.HexToAddress("0x02"), 1000, types.Address{}, 0, 0); err != nil {
		t.Fatalf("Register: %v", err)
	}

	m.RevertToSnapshot(snap)

	// Only mutations after the snapshot are undone.
	if m.Available("alice") {
		t.Fatal("pre-snapshot registration undone")
	}
	if !m.Available("bobby") {
		t.Fatal("post-snapshot registration survived revert")
	}
}

func TestMemoryBackendPriceTiers(t *testing.T) {
	m := NewMemoryBackend(func() uint64 { return 0 })

	short, err := m.Price("abc", 0, 100)
	if err != nil {
		t.Fatalf("Price: %v", err)
	}
	long, err := m.Price("abcdefgh", 0, 100)
	if err != nil {
		t.Fatalf("Price: %v", err)
	}
	if !short.Base.Gt(long.Base) {
		t.Fatalf("3-char base %s should exceed 8-char base %s", short.Base, long.Base)
	}
	// Base scales linearly with duration.
	doubled, err := m.Price("abc", 0, 200)
	if err != nil {
		t.Fatalf("Price: %v", err)
	}
	if !doubled.Base.Eq(new(uint256.Int).Mul(short.Base, uint256.NewInt(2))) {
		t.Fatalf("base not linear in duration: %s vs %s", doubled.Base, short.Base)
	}
	if !short.Premium.IsZero() {
		t.Fatalf("default premium = %s, want 0", short.Premium)
	}
}

func TestMemoryBackendSetRate(t *testing.T) {
	m := NewMemoryBackend(func() uint64 { return 0 })
	m.SetRate(5, uint256.NewInt(77))
	p, err := m.Price("alice", 0, 10)
	if err != nil {
		t.Fatalf("Price: %v", err)
	}
	if !p.Base.Eq(uint256.NewInt(770)) {
		t.Fatalf("base = %s, want 770", p.Base)
	}
}
