package seating

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"seatlock/internal/notifications"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	mu       sync.Mutex
	seats    map[uuid.UUID]Seat
	bookings []SeatBooking
	bookErr  error
}

func newFakeRepo(seats ...Seat) *fakeRepo {
	r := &fakeRepo{seats: make(map[uuid.UUID]Seat)}
	for _, s := range seats {
		r.seats[s.ID] = s
	}
	return r
}

func (r *fakeRepo) GetEventSeats(_ context.Context, eventID uuid.UUID) ([]Seat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Seat
	for _, s := range r.seats {
		if s.EventID == eventID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeRepo) GetSeatByID(_ context.Context, seatID uuid.UUID) (*Seat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.seats[seatID]
	if !ok {
		return nil, ErrSeatNotFound
	}
	return &s, nil
}

func (r *fakeRepo) MarkSeatsBooked(_ context.Context, bookings []SeatBooking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.bookErr != nil {
		return r.bookErr
	}
	r.bookings = append(r.bookings, bookings...)
	return nil
}

func (r *fakeRepo) bookedSeats() []SeatBooking {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]SeatBooking(nil), r.bookings...)
}

type fakeCatalog struct {
	events map[uuid.UUID]bool
}

func (c *fakeCatalog) EventExists(_ context.Context, id uuid.UUID) (bool, error) {
	return c.events[id], nil
}

// fakeCache always misses and forwards the fetcher result
type fakeCache struct {
	mu      sync.Mutex
	deleted []string
}

func (c *fakeCache) Get(context.Context, string, interface{}) error {
	return errors.New("cache miss")
}
func (c *fakeCache) Set(context.Context, string, interface{}, time.Duration) error { return nil }
func (c *fakeCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deleted = append(c.deleted, key)
	return nil
}
func (c *fakeCache) DeletePattern(context.Context, string) error { return nil }
func (c *fakeCache) Exists(context.Context, string) bool         { return false }
func (c *fakeCache) Ping(context.Context) error                  { return nil }

func (c *fakeCache) GetOrSet(_ context.Context, _ string, _ time.Duration, fetcher func() (interface{}, error), dest interface{}) error {
	data, err := fetcher()
	if err != nil {
		return err
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

type fakePublisher struct {
	mu     sync.Mutex
	events []notifications.SeatEvent
}

func (p *fakePublisher) Publish(_ context.Context, event notifications.SeatEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *fakePublisher) Close() error { return nil }

func (p *fakePublisher) published() []notifications.SeatEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]notifications.SeatEvent(nil), p.events...)
}

type serviceFixture struct {
	svc     *service
	repo    *fakeRepo
	clock   *fakeClock
	pub     *fakePublisher
	cache   *fakeCache
	eventID uuid.UUID
	seats   []Seat
}

func newServiceFixture(t *testing.T, seatCount int) *serviceFixture {
	t.Helper()

	eventID := uuid.New()
	seats := make([]Seat, seatCount)
	for i := range seats {
		seats[i] = newTestSeat(eventID, "A", i+1)
	}

	clock := newFakeClock()
	repo := newFakeRepo(seats...)
	pub := &fakePublisher{}
	cacheFake := &fakeCache{}
	table := NewLockTableWithClock(10*time.Minute, clock.Now)

	svc := NewService(
		repo,
		table,
		&fakeCatalog{events: map[uuid.UUID]bool{eventID: true}},
		cacheFake,
		pub,
		testLogger(),
		10,
	).(*service)
	svc.now = clock.Now

	return &serviceFixture{
		svc:     svc,
		repo:    repo,
		clock:   clock,
		pub:     pub,
		cache:   cacheFake,
		eventID: eventID,
		seats:   seats,
	}
}

func TestServiceLockUnknownSeat(t *testing.T) {
	f := newServiceFixture(t, 1)

	_, err := f.svc.Lock(context.Background(), uuid.New(), "alice")
	assert.ErrorIs(t, err, ErrSeatNotFound)
}

func TestServiceLockLoadsSiblingSeats(t *testing.T) {
	f := newServiceFixture(t, 3)

	_, err := f.svc.Lock(context.Background(), f.seats[0].ID, "alice")
	require.NoError(t, err)

	// Touching one seat pulls the whole event into the table
	for _, seat := range f.seats {
		assert.True(t, f.svc.table.Has(seat.ID))
	}
}

func TestServiceSnapshotUnknownEvent(t *testing.T) {
	f := newServiceFixture(t, 1)

	_, err := f.svc.Snapshot(context.Background(), uuid.New(), "alice")
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestServiceSnapshotMarksOwnHolds(t *testing.T) {
	f := newServiceFixture(t, 3)
	target := f.seats[1]

	_, err := f.svc.Lock(context.Background(), target.ID, "alice")
	require.NoError(t, err)

	views, err := f.svc.Snapshot(context.Background(), f.eventID, "alice")
	require.NoError(t, err)
	require.Len(t, views, 3)

	byID := make(map[string]SeatView)
	for _, v := range views {
		byID[v.ID] = v
	}

	locked := byID[target.ID.String()]
	assert.Equal(t, StateLocked, locked.Status)
	assert.True(t, locked.HolderSelf)

	// The other holder sees the seat held but not by whom
	views, err = f.svc.Snapshot(context.Background(), f.eventID, "bob")
	require.NoError(t, err)
	for _, v := range views {
		if v.ID == target.ID.String() {
			assert.Equal(t, StateLocked, v.Status)
			assert.False(t, v.HolderSelf)
		} else {
			assert.Equal(t, StateAvailable, v.Status)
		}
	}
}

func TestServiceSnapshotAnonymousReader(t *testing.T) {
	f := newServiceFixture(t, 1)

	_, err := f.svc.Lock(context.Background(), f.seats[0].ID, "alice")
	require.NoError(t, err)

	views, err := f.svc.Snapshot(context.Background(), f.eventID, "")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, StateLocked, views[0].Status)
	assert.False(t, views[0].HolderSelf)
}

func TestServiceConfirmPersistsBookings(t *testing.T) {
	f := newServiceFixture(t, 2)
	ids := []uuid.UUID{f.seats[0].ID, f.seats[1].ID}

	for _, id := range ids {
		_, err := f.svc.Lock(context.Background(), id, "alice")
		require.NoError(t, err)
	}

	confirmed, err := f.svc.Confirm(context.Background(), ids, "alice")
	require.NoError(t, err)
	assert.ElementsMatch(t, ids, confirmed)

	booked := f.repo.bookedSeats()
	require.Len(t, booked, 2)
	for _, b := range booked {
		assert.Equal(t, "alice", b.HolderID)
		assert.Equal(t, f.eventID, b.EventID)
		assert.Equal(t, f.clock.Now(), b.BookedAt)
	}

	views, err := f.svc.Snapshot(context.Background(), f.eventID, "alice")
	require.NoError(t, err)
	for _, v := range views {
		assert.Equal(t, StateBooked, v.Status)
	}
}

func TestServiceConfirmDedupesSeatIDs(t *testing.T) {
	f := newServiceFixture(t, 1)
	id := f.seats[0].ID

	_, err := f.svc.Lock(context.Background(), id, "alice")
	require.NoError(t, err)

	confirmed, err := f.svc.Confirm(context.Background(), []uuid.UUID{id, id, id}, "alice")
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{id}, confirmed)
	assert.Len(t, f.repo.bookedSeats(), 1)
}

func TestServiceConfirmTooManySeats(t *testing.T) {
	f := newServiceFixture(t, 1)

	ids := make([]uuid.UUID, 11)
	for i := range ids {
		ids[i] = uuid.New()
	}

	_, err := f.svc.Confirm(context.Background(), ids, "alice")
	assert.ErrorIs(t, err, ErrTooManySeats)
}

func TestServiceConfirmUnknownSeatReportsMismatch(t *testing.T) {
	f := newServiceFixture(t, 1)
	id := f.seats[0].ID

	_, err := f.svc.Lock(context.Background(), id, "alice")
	require.NoError(t, err)

	unknown := uuid.New()
	_, err = f.svc.Confirm(context.Background(), []uuid.UUID{id, unknown}, "alice")

	var mismatch *HoldMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, []uuid.UUID{unknown}, mismatch.SeatIDs)
	assert.Empty(t, f.repo.bookedSeats())
}

func TestServiceConfirmRevertsOnPersistenceFailure(t *testing.T) {
	f := newServiceFixture(t, 1)
	id := f.seats[0].ID

	_, err := f.svc.Lock(context.Background(), id, "alice")
	require.NoError(t, err)

	f.repo.bookErr = errors.New("connection reset")
	_, err = f.svc.Confirm(context.Background(), []uuid.UUID{id}, "alice")
	require.Error(t, err)

	// The hold survives, so the caller can retry
	views, err := f.svc.Snapshot(context.Background(), f.eventID, "alice")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, StateLocked, views[0].Status)
	assert.True(t, views[0].HolderSelf)

	f.repo.bookErr = nil
	confirmed, err := f.svc.Confirm(context.Background(), []uuid.UUID{id}, "alice")
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{id}, confirmed)
}

func TestServiceConfirmInvalidatesSeatCatalogCache(t *testing.T) {
	f := newServiceFixture(t, 1)
	id := f.seats[0].ID

	_, err := f.svc.Lock(context.Background(), id, "alice")
	require.NoError(t, err)

	_, err = f.svc.Confirm(context.Background(), []uuid.UUID{id}, "alice")
	require.NoError(t, err)

	f.cache.mu.Lock()
	defer f.cache.mu.Unlock()
	require.Len(t, f.cache.deleted, 1)
	assert.Contains(t, f.cache.deleted[0], f.eventID.String())
}

func TestServiceConfirmPublishesBookedEvent(t *testing.T) {
	f := newServiceFixture(t, 1)
	id := f.seats[0].ID

	_, err := f.svc.Lock(context.Background(), id, "alice")
	require.NoError(t, err)

	_, err = f.svc.Confirm(context.Background(), []uuid.UUID{id}, "alice")
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		for _, e := range f.pub.published() {
			if e.Type == notifications.EventTypeSeatsBooked {
				return e.EventID == f.eventID.String() && e.HolderID == "alice"
			}
		}
		return false
	}, 2*time.Second, 10*time.Millisecond)
}

func TestServiceUnlockPublishesReleaseEvent(t *testing.T) {
	f := newServiceFixture(t, 1)
	id := f.seats[0].ID

	_, err := f.svc.Lock(context.Background(), id, "alice")
	require.NoError(t, err)

	err = f.svc.Unlock(context.Background(), id, "alice")
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		for _, e := range f.pub.published() {
			if e.Type == notifications.EventTypeHoldReleased {
				return e.HolderID == "alice"
			}
		}
		return false
	}, 2*time.Second, 10*time.Millisecond)
}

func TestServiceExpireHoldsReclaimsAndPublishes(t *testing.T) {
	f := newServiceFixture(t, 2)

	_, err := f.svc.Lock(context.Background(), f.seats[0].ID, "alice")
	require.NoError(t, err)
	_, err = f.svc.Lock(context.Background(), f.seats[1].ID, "bob")
	require.NoError(t, err)

	f.clock.Advance(10*time.Minute + time.Second)

	count, err := f.svc.ExpireHolds(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// Both seats are claimable again
	for _, seat := range f.seats {
		_, err := f.svc.Lock(context.Background(), seat.ID, "carol")
		require.NoError(t, err)
	}

	assert.Eventually(t, func() bool {
		for _, e := range f.pub.published() {
			if e.Type == notifications.EventTypeHoldExpired && len(e.SeatIDs) == 2 {
				return true
			}
		}
		return false
	}, 2*time.Second, 10*time.Millisecond)
}

func TestServiceExpireHoldsNoopWhenNothingLapsed(t *testing.T) {
	f := newServiceFixture(t, 1)

	count, err := f.svc.ExpireHolds(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}
