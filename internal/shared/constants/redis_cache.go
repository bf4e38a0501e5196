package constants

import (
	"fmt"
	"time"
)

const (
	CACHE_PREFIX = "seatlock"

	// Cache key templates
	EVENTS_LIST_KEY    = CACHE_PREFIX + ":events:list"
	EVENT_DETAIL_KEY   = CACHE_PREFIX + ":events:detail:%s"
	EVENT_SECTIONS_KEY = CACHE_PREFIX + ":events:sections:%s"
	SEAT_CATALOG_KEY   = CACHE_PREFIX + ":seating:catalog:%s"

	// TTLs
	EVENTS_LIST_TTL    = 5 * time.Minute
	EVENT_DETAIL_TTL   = 10 * time.Minute
	EVENT_SECTIONS_TTL = 10 * time.Minute
	SEAT_CATALOG_TTL   = 30 * time.Second
)

func EventDetailKey(eventID string) string {
	return fmt.Sprintf(EVENT_DETAIL_KEY, eventID)
}

func EventSectionsKey(eventID string) string {
	return fmt.Sprintf(EVENT_SECTIONS_KEY, eventID)
}

func SeatCatalogKey(eventID string) string {
	return fmt.Sprintf(SEAT_CATALOG_KEY, eventID)
}
