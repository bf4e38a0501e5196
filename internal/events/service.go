package events

import (
	"context"

	"seatlock/internal/shared/constants"
	"seatlock/pkg/cache"

	"github.com/google/uuid"
)

type Service interface {
	ListEvents(ctx context.Context) ([]Event, error)
	GetEvent(ctx context.Context, id uuid.UUID) (*Event, error)
	GetEventSections(ctx context.Context, eventID uuid.UUID) ([]Section, error)
	EventExists(ctx context.Context, id uuid.UUID) (bool, error)
}

type service struct {
	repo  Repository
	cache cache.Service
}

func NewService(repo Repository, cacheService cache.Service) Service {
	return &service{
		repo:  repo,
		cache: cacheService,
	}
}

func (s *service) ListEvents(ctx context.Context) ([]Event, error) {
	var list []Event
	err := s.cache.GetOrSet(ctx, constants.EVENTS_LIST_KEY, constants.EVENTS_LIST_TTL,
		func() (interface{}, error) {
			return s.repo.GetAll(ctx)
		}, &list)
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (s *service) GetEvent(ctx context.Context, id uuid.UUID) (*Event, error) {
	var event Event
	err := s.cache.GetOrSet(ctx, constants.EventDetailKey(id.String()), constants.EVENT_DETAIL_TTL,
		func() (interface{}, error) {
			return s.repo.GetByID(ctx, id)
		}, &event)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (s *service) GetEventSections(ctx context.Context, eventID uuid.UUID) ([]Section, error) {
	if _, err := s.GetEvent(ctx, eventID); err != nil {
		return nil, err
	}

	var sections []Section
	err := s.cache.GetOrSet(ctx, constants.EventSectionsKey(eventID.String()), constants.EVENT_SECTIONS_TTL,
		func() (interface{}, error) {
			return s.repo.GetSections(ctx, eventID)
		}, &sections)
	if err != nil {
		return nil, err
	}
	return sections, nil
}

func (s *service) EventExists(ctx context.Context, id uuid.UUID) (bool, error) {
	if s.cache.Exists(ctx, constants.EventDetailKey(id.String())) {
		return true, nil
	}
	return s.repo.Exists(ctx, id)
}
