package seating

import (
	"hash/fnv"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

const shardCount = 64

// slot is the runtime record for one seat: its catalog row, lifecycle
// state and the hold claiming it. Invariant: state == StateLocked
// exactly when hold != nil.
type slot struct {
	seat  Seat
	state SeatState
	hold  *Hold
}

type shard struct {
	mu    sync.RWMutex
	slots map[uuid.UUID]*slot
}

// LockTable is the sharded in-memory arena that serializes every seat
// mutation. Seat ids hash onto a fixed set of shards, each guarded by
// its own RWMutex, so contention on one seat never blocks unrelated
// seats. Expired holds are treated as absent by every code path and
// physically reclaimed either lazily or by Expire.
type LockTable struct {
	shards  [shardCount]shard
	holdTTL time.Duration
	now     func() time.Time
}

func NewLockTable(holdTTL time.Duration) *LockTable {
	return NewLockTableWithClock(holdTTL, time.Now)
}

// NewLockTableWithClock injects the time source, used by tests to
// drive expiry deterministically
func NewLockTableWithClock(holdTTL time.Duration, now func() time.Time) *LockTable {
	t := &LockTable{
		holdTTL: holdTTL,
		now:     now,
	}
	for i := range t.shards {
		t.shards[i].slots = make(map[uuid.UUID]*slot)
	}
	return t
}

func (t *LockTable) shardIndex(id uuid.UUID) int {
	h := fnv.New32a()
	h.Write(id[:])
	return int(h.Sum32() % shardCount)
}

func (t *LockTable) shardFor(id uuid.UUID) *shard {
	return &t.shards[t.shardIndex(id)]
}

// Register inserts catalog rows into the table. A seat already present
// keeps its runtime state; a new seat starts from its persisted status.
func (t *LockTable) Register(seats ...Seat) {
	for _, seat := range seats {
		sh := t.shardFor(seat.ID)
		sh.mu.Lock()
		if _, exists := sh.slots[seat.ID]; !exists {
			state := StateAvailable
			if seat.Status == string(StateBooked) {
				state = StateBooked
			}
			sh.slots[seat.ID] = &slot{seat: seat, state: state}
		}
		sh.mu.Unlock()
	}
}

// Has reports whether the seat is loaded into the table
func (t *LockTable) Has(seatID uuid.UUID) bool {
	sh := t.shardFor(seatID)
	sh.mu.RLock()
	_, ok := sh.slots[seatID]
	sh.mu.RUnlock()
	return ok
}

// reapExpiredLocked clears a dead hold in place. Caller must hold the
// shard write lock.
func reapExpiredLocked(s *slot, now time.Time) {
	if s.hold != nil && !s.hold.LiveAt(now) {
		s.hold = nil
		s.state = StateAvailable
	}
}

// Acquire grants a hold on an Available seat, refreshes the expiry when
// the same holder already has the seat, and rejects everything else.
// The check and the grant happen under one shard lock, so exactly one
// of any number of concurrent callers wins a free seat.
func (t *LockTable) Acquire(seatID uuid.UUID, holderID string) (Hold, error) {
	sh := t.shardFor(seatID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	s, ok := sh.slots[seatID]
	if !ok {
		return Hold{}, ErrSeatNotFound
	}

	now := t.now()
	reapExpiredLocked(s, now)

	switch {
	case s.state == StateBooked:
		return Hold{}, ErrSeatUnavailable
	case s.hold != nil && s.hold.HolderID != holderID:
		return Hold{}, ErrSeatAlreadyLocked
	case s.hold != nil:
		// Idempotent re-lock by the same holder refreshes the window
		s.hold.ExpiresAt = now.Add(t.holdTTL)
		return *s.hold, nil
	}

	s.hold = &Hold{
		SeatID:     seatID,
		EventID:    s.seat.EventID,
		HolderID:   holderID,
		AcquiredAt: now,
		ExpiresAt:  now.Add(t.holdTTL),
	}
	s.state = StateLocked
	return *s.hold, nil
}

// Release returns a held seat to Available. Only the live hold's owner
// may release; an owner whose hold already lapsed gets ErrHoldExpired
// and the dead hold is reclaimed on the way out.
func (t *LockTable) Release(seatID uuid.UUID, holderID string) (Hold, error) {
	sh := t.shardFor(seatID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	s, ok := sh.slots[seatID]
	if !ok {
		return Hold{}, ErrSeatNotFound
	}

	now := t.now()
	if s.hold != nil && !s.hold.LiveAt(now) && s.hold.HolderID == holderID {
		reapExpiredLocked(s, now)
		return Hold{}, ErrHoldExpired
	}
	reapExpiredLocked(s, now)

	if s.state == StateBooked || s.hold == nil || s.hold.HolderID != holderID {
		return Hold{}, ErrNotLockedByHolder
	}

	released := *s.hold
	s.hold = nil
	s.state = StateAvailable
	return released, nil
}

// ConfirmAll converts every listed seat from Locked to Booked in one
// atomic step. All involved shards are locked in ascending index order,
// so overlapping confirmations cannot deadlock. If any seat lacks a
// live hold owned by holderID the whole set is left untouched and the
// offending ids are reported. On success it returns the consumed holds
// and catalog rows so the caller can persist and, if persistence fails,
// revert.
func (t *LockTable) ConfirmAll(seatIDs []uuid.UUID, holderID string) ([]Hold, []Seat, error) {
	idxs := t.lockShards(seatIDs)
	defer t.unlockShards(idxs)

	now := t.now()

	var mismatched []uuid.UUID
	for _, id := range seatIDs {
		s, ok := t.shardFor(id).slots[id]
		if !ok || s.state == StateBooked || !s.hold.LiveAt(now) || s.hold.HolderID != holderID {
			mismatched = append(mismatched, id)
		}
	}
	if len(mismatched) > 0 {
		return nil, nil, &HoldMismatchError{SeatIDs: mismatched}
	}

	holds := make([]Hold, 0, len(seatIDs))
	seats := make([]Seat, 0, len(seatIDs))
	for _, id := range seatIDs {
		s := t.shardFor(id).slots[id]
		holds = append(holds, *s.hold)
		s.hold = nil
		s.state = StateBooked
		s.seat.Status = string(StateBooked)
		seats = append(seats, s.seat)
	}
	return holds, seats, nil
}

// RevertBooked undoes a ConfirmAll whose persistence failed, restoring
// the consumed holds so the caller still owns the seats
func (t *LockTable) RevertBooked(holds []Hold) {
	for _, h := range holds {
		hold := h
		sh := t.shardFor(hold.SeatID)
		sh.mu.Lock()
		if s, ok := sh.slots[hold.SeatID]; ok {
			s.hold = &hold
			s.state = StateLocked
			s.seat.Status = string(StateAvailable)
		}
		sh.mu.Unlock()
	}
}

// Expire reclaims every hold whose expiry is at or before now and
// returns the reclaimed holds. Idempotent; safe to run concurrently
// with every other operation.
func (t *LockTable) Expire(now time.Time) []Hold {
	var reclaimed []Hold
	for i := range t.shards {
		sh := &t.shards[i]
		sh.mu.Lock()
		for _, s := range sh.slots {
			if s.hold != nil && !s.hold.LiveAt(now) {
				reclaimed = append(reclaimed, *s.hold)
				s.hold = nil
				s.state = StateAvailable
			}
		}
		sh.mu.Unlock()
	}
	return reclaimed
}

// StatusOf reports a seat's current state and whether the given holder
// owns its hold. Expired holds read as Available even before the
// sweeper runs. Read-only: takes only the shard read lock.
func (t *LockTable) StatusOf(seatID uuid.UUID, holderID string) (SeatState, bool, bool) {
	sh := t.shardFor(seatID)
	sh.mu.RLock()
	defer sh.mu.RUnlock()

	s, ok := sh.slots[seatID]
	if !ok {
		return "", false, false
	}
	if s.state == StateBooked {
		return StateBooked, false, true
	}
	if s.hold.LiveAt(t.now()) {
		return StateLocked, holderID != "" && s.hold.HolderID == holderID, true
	}
	return StateAvailable, false, true
}

// lockShards write-locks the distinct shards covering the given seats,
// always in ascending index order
func (t *LockTable) lockShards(seatIDs []uuid.UUID) []int {
	seen := make(map[int]struct{}, len(seatIDs))
	idxs := make([]int, 0, len(seatIDs))
	for _, id := range seatIDs {
		i := t.shardIndex(id)
		if _, dup := seen[i]; !dup {
			seen[i] = struct{}{}
			idxs = append(idxs, i)
		}
	}
	sort.Ints(idxs)
	for _, i := range idxs {
		t.shards[i].mu.Lock()
	}
	return idxs
}

func (t *LockTable) unlockShards(idxs []int) {
	for i := len(idxs) - 1; i >= 0; i-- {
		t.shards[idxs[i]].mu.Unlock()
	}
}
