package source

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	appLog "fullcal/internal/log"
)

// Scheduler refreshes a Store on a cron schedule.
type Scheduler struct {
	cron  *cron.Cron
	store *Store
	// timeout bounds a single refresh run.
	timeout time.Duration
}

// NewScheduler parses spec (standard 5-field cron) and registers the refresh job.
func NewScheduler(store *Store, spec string, timeout time.Duration) (*Scheduler, error) {
	if timeout <= 0 {
		timeout = time.Minute
	}
	s := &Scheduler{
		cron:    cron.New(),
		store:   store,
		timeout: timeout,
	}
	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := s.store.Refresh(ctx); err != nil {
		appLog.Error("scheduled refresh failed", err)
	}
}

// Start begins running jobs in the background until ctx is done.
func (s *Scheduler) Start(ctx context.Context) {
	s.cron.Start()
	appLog.Info("refresh scheduler started", "entries", len(s.cron.Entries()))
	go func() {
		<-ctx.Done()
		stopped := s.cron.Stop()
		<-stopped.Done()
		appLog.Info("refresh scheduler stopped")
	}()
}

// Next reports when the refresh job runs next.
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}
