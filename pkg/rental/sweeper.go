package rental

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"
)

// Sweeper periodically removes rentals nobody came back to read. The lazy
// check in ExpireIfDue stays the enforcement point; the grace period keeps
// the sweep from racing it.
type Sweeper struct {
	cron      *cron.Cron
	manager   *Manager
	graceDays int
}

func NewSweeper(schedule string, manager *Manager, graceDays int) (*Sweeper, error) {
	s := &Sweeper{
		cron:      cron.New(),
		manager:   manager,
		graceDays: graceDays,
	}
	if _, err := s.cron.AddFunc(schedule, s.Run); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Sweeper) Start() { s.cron.Start() }

// Stop stops the schedule and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Sweeper) Run() {
	n, err := s.manager.SweepExpired(context.Background(), s.graceDays)
	if err != nil {
		log.Printf("Rental sweep failed: %v", err)
		return
	}
	if n > 0 {
		log.Printf("Rental sweep removed %d expired rentals", n)
	}
}
