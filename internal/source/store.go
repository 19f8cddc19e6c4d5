package source

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"fullcal/internal/calendar"
	"fullcal/internal/ics"
	appLog "fullcal/internal/log"
	"fullcal/internal/metrics"
	"fullcal/internal/model"
)

// Batch is what a loader produced in one run.
type Batch struct {
	Events   []model.CalendarEvent
	Rejected []error
}

// Loader produces events from one origin.
type Loader interface {
	Name() string
	Load(ctx context.Context) (Batch, error)
}

// FeedLoader fetches and parses ICS subscriptions.
type FeedLoader struct {
	Fetcher *ics.Fetcher
	Sources []ics.Source
}

func (l *FeedLoader) Name() string { return "ics" }

func (l *FeedLoader) Load(ctx context.Context) (Batch, error) {
	results, fetchErr := l.Fetcher.FetchAll(ctx, l.Sources)

	var b Batch
	for _, res := range results {
		parsed, err := ics.Parse(res.Source, res.Body)
		if err != nil {
			fetchErr = errors.Join(fetchErr, fmt.Errorf("ics source %s: %w", res.Source.ID, err))
			continue
		}
		b.Events = append(b.Events, parsed.Events...)
		for i := 0; i < parsed.Skipped; i++ {
			b.Rejected = append(b.Rejected, fmt.Errorf("ics source %s: %w", res.Source.ID, model.ErrInvalidEvent))
		}
	}
	// Partial success still publishes what was fetched.
	if len(results) == 0 && fetchErr != nil {
		return Batch{}, fetchErr
	}
	if fetchErr != nil {
		appLog.Error("ics feeds partially failed", fetchErr)
	}
	return b, nil
}

// Store holds the merged event snapshot served to renderers. Readers get
// a consistent copy while Refresh swaps in new data.
type Store struct {
	loaders []Loader

	mu        sync.RWMutex
	byLoader  map[string][]model.CalendarEvent
	events    []model.CalendarEvent
	updatedAt time.Time
}

// NewStore returns an empty Store over loaders. Call Refresh to populate it.
func NewStore(loaders ...Loader) *Store {
	return &Store{
		loaders:  loaders,
		byLoader: make(map[string][]model.CalendarEvent),
	}
}

// Snapshot returns a copy of the current events in load order.
func (s *Store) Snapshot() []model.CalendarEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.CalendarEvent, len(s.events))
	copy(out, s.events)
	return out
}

// UpdatedAt is the time of the last refresh that changed any loader.
func (s *Store) UpdatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updatedAt
}

// Refresh runs every loader. A failing loader keeps its previous events;
// its error is returned joined with the others.
func (s *Store) Refresh(ctx context.Context) error {
	start := time.Now()
	var errs []error

	fresh := make(map[string][]model.CalendarEvent, len(s.loaders))
	for _, l := range s.loaders {
		batch, err := l.Load(ctx)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", l.Name(), err))
			appLog.Error("event source load failed", err, "source", l.Name())
			continue
		}
		valid, rejected := calendar.ValidEvents(batch.Events)
		rejected += len(batch.Rejected)
		for _, rerr := range batch.Rejected {
			appLog.Error("event rejected", rerr, "source", l.Name())
		}
		metrics.SetEventsLoaded(l.Name(), len(valid))
		metrics.AddEventsRejected(l.Name(), rejected)
		fresh[l.Name()] = valid
	}

	s.mu.Lock()
	for name, evs := range fresh {
		s.byLoader[name] = evs
	}
	merged := make([]model.CalendarEvent, 0)
	for _, l := range s.loaders {
		merged = append(merged, s.byLoader[l.Name()]...)
	}
	s.events = merged
	if len(fresh) > 0 {
		s.updatedAt = time.Now()
	}
	total := len(merged)
	s.mu.Unlock()

	err := errors.Join(errs...)
	result := metrics.ResultSuccess
	if err != nil {
		result = metrics.ResultError
	}
	metrics.ObserveRefresh(result, time.Since(start))
	appLog.Info("event sources refreshed", "events", total, "failed", len(errs), "elapsed", time.Since(start).String())
	return err
}
