package seating

import (
	"context"
	"sync"
	"time"

	"seatlock/pkg/logger"
)

// HoldExpirer is the slice of the service the sweeper drives
type HoldExpirer interface {
	ExpireHolds(ctx context.Context) (int, error)
}

// Sweeper periodically reclaims expired holds. Expiry is enforced
// lazily on every read and write; the sweeper is garbage collection
// that returns abandoned seats to the pool without waiting for traffic.
type Sweeper struct {
	expirer  HoldExpirer
	interval time.Duration
	logger   *logger.Logger

	done chan struct{}
	wg   sync.WaitGroup
}

func NewSweeper(expirer HoldExpirer, interval time.Duration, log *logger.Logger) *Sweeper {
	return &Sweeper{
		expirer:  expirer,
		interval: interval,
		logger:   log,
		done:     make(chan struct{}),
	}
}

func (s *Sweeper) Start() {
	s.wg.Add(1)
	go s.run()
	s.logger.Info("Expiry sweeper started", "interval", s.interval)
}

func (s *Sweeper) run() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.done:
			return
		}
	}
}

func (s *Sweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), s.interval)
	defer cancel()

	if _, err := s.expirer.ExpireHolds(ctx); err != nil {
		s.logger.ErrorWithContext(ctx, "Sweep failed", err, nil)
	}
}

func (s *Sweeper) Stop() {
	close(s.done)
	s.wg.Wait()
	s.logger.Info("Expiry sweeper stopped")
}
