package registrar

import (
	"fmt"
	"sync"

	"github.com/ethns/ethns/core/types"
)

// CommitmentStore is the only persistent state the registrar owns: a map
// from batch commitment digest to the unix time it was recorded. Each
// digest moves through a small state machine: unset, committed at t, and
// back to unset once consumed by a successful reveal or aged out.
//
// The host is expected to serialize state-mutating calls; the internal
// mutex makes the store safe regardless.
type CommitmentStore struct {
	mu          sync.Mutex
	minAge      uint64
	maxAge      uint64
	commitments map[types.Hash]uint64
}

// NewCommitmentStore builds a store with the given reveal window, in
// seconds. The window must be non-empty: minAge strictly below maxAge.
func NewCommitmentStore(minAge, maxAge uint64) (*CommitmentStore, error) {
	if minAge >= maxAge {
		return nil, fmt.Errorf("commitment window inverted: min age %d, max age %d", minAge, maxAge)
	}
	return &CommitmentStore{
		minAge:      minAge,
		maxAge:      maxAge,
		commitments: make(map[types.Hash]uint64),
	}, nil
}

// Commit records digest at time now. A digest may be re-committed only
// once its previous record has aged past maxAge; earlier attempts fail
// with ErrCommitmentTooRecent so a live commitment's clock cannot be
// reset by replaying the commit.
func (s *CommitmentStore) Commit(digest types.Hash, now uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.commitments[digest]; ok && now-t < s.maxAge {
		return ErrCommitmentTooRecent
	}
	s.commitments[digest] = now
	return nil
}

// ValidateAndConsume checks that digest was committed and that its age at
// time now falls strictly inside the reveal window, then deletes the
// record. A digest that was never committed reports as expired, forcing a
// fresh commit.
func (s *CommitmentStore) ValidateAndConsume(digest types.Hash, now uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.commitments[digest]
	if !ok {
		return ErrCommitmentExpired
	}
	if now-t < s.minAge {
		return ErrCommitmentTooYoung
	}
	if now-t >= s.maxAge {
		return ErrCommitmentExpired
	}
	delete(s.commitments, digest)
	return nil
}

// Window returns the store's reveal window as (minAge, maxAge) seconds.
func (s *CommitmentStore) Window() (uint64, uint64) {
	return s.minAge, s.maxAge
}

// CommittedAt returns the record time for digest and whether one exists.
func (s *CommitmentStore) CommittedAt(digest types.Hash) (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.commitments[digest]
	return t, ok
}
