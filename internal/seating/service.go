package seating

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"seatlock/internal/notifications"
	"seatlock/internal/shared/constants"
	"seatlock/pkg/cache"
	"seatlock/pkg/logger"

	"github.com/google/uuid"
)

// EventCatalog is the read-only slice of the events module this
// service needs: event ids must resolve before seats are served
type EventCatalog interface {
	EventExists(ctx context.Context, id uuid.UUID) (bool, error)
}

type Service interface {
	Lock(ctx context.Context, seatID uuid.UUID, holderID string) (*Hold, error)
	Unlock(ctx context.Context, seatID uuid.UUID, holderID string) error
	Confirm(ctx context.Context, seatIDs []uuid.UUID, holderID string) ([]uuid.UUID, error)
	Snapshot(ctx context.Context, eventID uuid.UUID, holderID string) ([]SeatView, error)
	ExpireHolds(ctx context.Context) (int, error)
}

type service struct {
	repo     Repository
	table    *LockTable
	catalog  EventCatalog
	cache    cache.Service
	producer notifications.Publisher
	logger   *logger.Logger

	maxConfirmSeats int
	now             func() time.Time

	mu         sync.RWMutex
	eventSeats map[uuid.UUID][]Seat
}

func NewService(
	repo Repository,
	table *LockTable,
	catalog EventCatalog,
	cacheService cache.Service,
	producer notifications.Publisher,
	log *logger.Logger,
	maxConfirmSeats int,
) Service {
	return &service{
		repo:            repo,
		table:           table,
		catalog:         catalog,
		cache:           cacheService,
		producer:        producer,
		logger:          log,
		maxConfirmSeats: maxConfirmSeats,
		now:             time.Now,
		eventSeats:      make(map[uuid.UUID][]Seat),
	}
}

func (s *service) Lock(ctx context.Context, seatID uuid.UUID, holderID string) (*Hold, error) {
	if err := s.ensureSeatLoaded(ctx, seatID); err != nil {
		return nil, err
	}

	hold, err := s.table.Acquire(seatID, holderID)
	if err != nil {
		return nil, err
	}

	s.logger.LogSeatLocked(ctx, seatID.String(), holderID, hold.ExpiresAt)
	return &hold, nil
}

func (s *service) Unlock(ctx context.Context, seatID uuid.UUID, holderID string) error {
	if err := s.ensureSeatLoaded(ctx, seatID); err != nil {
		return err
	}

	released, err := s.table.Release(seatID, holderID)
	if err != nil {
		return err
	}

	s.logger.LogSeatReleased(ctx, seatID.String(), holderID)
	s.publish(notifications.SeatEvent{
		Type:       notifications.EventTypeHoldReleased,
		EventID:    released.EventID.String(),
		SeatIDs:    []string{released.SeatID.String()},
		HolderID:   holderID,
		OccurredAt: s.now(),
	})
	return nil
}

func (s *service) Confirm(ctx context.Context, seatIDs []uuid.UUID, holderID string) ([]uuid.UUID, error) {
	ids := dedupe(seatIDs)
	if len(ids) > s.maxConfirmSeats {
		return nil, ErrTooManySeats
	}

	for _, id := range ids {
		if err := s.ensureSeatLoaded(ctx, id); err != nil {
			// An unknown seat surfaces in the mismatch report below
			if errors.Is(err, ErrSeatNotFound) {
				continue
			}
			return nil, err
		}
	}

	holds, seats, err := s.table.ConfirmAll(ids, holderID)
	if err != nil {
		return nil, err
	}

	bookedAt := s.now()
	bookings := make([]SeatBooking, 0, len(seats))
	for _, seat := range seats {
		bookings = append(bookings, SeatBooking{
			SeatID:   seat.ID,
			EventID:  seat.EventID,
			HolderID: holderID,
			BookedAt: bookedAt,
		})
	}

	if err := s.repo.MarkSeatsBooked(ctx, bookings); err != nil {
		s.table.RevertBooked(holds)
		return nil, fmt.Errorf("failed to persist confirmation: %w", err)
	}

	confirmed := make([]uuid.UUID, 0, len(seats))
	confirmedStrs := make([]string, 0, len(seats))
	for _, seat := range seats {
		confirmed = append(confirmed, seat.ID)
		confirmedStrs = append(confirmedStrs, seat.ID.String())
	}

	s.logger.LogSeatsConfirmed(ctx, confirmedStrs, holderID)
	for eventID, seatStrs := range groupByEvent(seats) {
		s.cache.Delete(ctx, constants.SeatCatalogKey(eventID))
		s.publish(notifications.SeatEvent{
			Type:       notifications.EventTypeSeatsBooked,
			EventID:    eventID,
			SeatIDs:    seatStrs,
			HolderID:   holderID,
			OccurredAt: bookedAt,
		})
	}
	return confirmed, nil
}

func (s *service) Snapshot(ctx context.Context, eventID uuid.UUID, holderID string) ([]SeatView, error) {
	if err := s.ensureEventLoaded(ctx, eventID); err != nil {
		return nil, err
	}

	s.mu.RLock()
	seats := s.eventSeats[eventID]
	s.mu.RUnlock()

	views := make([]SeatView, 0, len(seats))
	for _, seat := range seats {
		state, holderSelf, ok := s.table.StatusOf(seat.ID, holderID)
		if !ok {
			continue
		}
		views = append(views, SeatView{
			ID:         seat.ID.String(),
			Row:        seat.Row,
			Number:     seat.Number,
			SectionID:  seat.SectionID.String(),
			Status:     state,
			HolderSelf: holderSelf,
		})
	}
	return views, nil
}

func (s *service) ExpireHolds(ctx context.Context) (int, error) {
	start := s.now()
	reclaimed := s.table.Expire(start)
	if len(reclaimed) == 0 {
		return 0, nil
	}

	s.logger.LogHoldsReclaimed(ctx, len(reclaimed), time.Since(start))

	byEvent := make(map[string][]string)
	for _, h := range reclaimed {
		key := h.EventID.String()
		byEvent[key] = append(byEvent[key], h.SeatID.String())
	}
	for eventID, seatIDs := range byEvent {
		s.publish(notifications.SeatEvent{
			Type:       notifications.EventTypeHoldExpired,
			EventID:    eventID,
			SeatIDs:    seatIDs,
			OccurredAt: start,
		})
	}
	return len(reclaimed), nil
}

// ensureSeatLoaded pulls the seat's whole event into the lock table on
// first touch, so siblings of a directly addressed seat are present too
func (s *service) ensureSeatLoaded(ctx context.Context, seatID uuid.UUID) error {
	if s.table.Has(seatID) {
		return nil
	}

	seat, err := s.repo.GetSeatByID(ctx, seatID)
	if err != nil {
		return err
	}
	return s.ensureEventLoaded(ctx, seat.EventID)
}

func (s *service) ensureEventLoaded(ctx context.Context, eventID uuid.UUID) error {
	s.mu.RLock()
	_, loaded := s.eventSeats[eventID]
	s.mu.RUnlock()
	if loaded {
		return nil
	}

	exists, err := s.catalog.EventExists(ctx, eventID)
	if err != nil {
		return fmt.Errorf("failed to resolve event: %w", err)
	}
	if !exists {
		return ErrEventNotFound
	}

	var seats []Seat
	err = s.cache.GetOrSet(ctx, constants.SeatCatalogKey(eventID.String()), constants.SEAT_CATALOG_TTL,
		func() (interface{}, error) {
			return s.repo.GetEventSeats(ctx, eventID)
		}, &seats)
	if err != nil {
		return fmt.Errorf("failed to load seat catalog: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, raced := s.eventSeats[eventID]; raced {
		return nil
	}
	s.table.Register(seats...)
	s.eventSeats[eventID] = seats
	return nil
}

// publish is fire and forget: broker trouble never fails a seat operation
func (s *service) publish(event notifications.SeatEvent) {
	if s.producer == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.producer.Publish(ctx, event)
	}()
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func groupByEvent(seats []Seat) map[string][]string {
	byEvent := make(map[string][]string)
	for _, seat := range seats {
		key := seat.EventID.String()
		byEvent[key] = append(byEvent[key], seat.ID.String())
	}
	return byEvent
}
