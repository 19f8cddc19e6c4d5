package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserversBeforeInitAreNoops(t *testing.T) {
	// Must not panic when collectors are not registered yet.
	if renderTotal == nil {
		ObserveRender("html", "", time.Millisecond)
		SetEventsLoaded("file", 3)
	}
}

func TestCounters(t *testing.T) {
	Init()
	Init()

	ObserveRender("json", ResultSuccess, 5*time.Millisecond)
	ObserveRender("json", ResultError, time.Millisecond)
	if got := testutil.ToFloat64(renderTotal.WithLabelValues("json", ResultSuccess)); got < 1 {
		t.Errorf("expected json render counted, got %v", got)
	}

	SetEventsLoaded("file", 7)
	if got := testutil.ToFloat64(eventsLoaded.WithLabelValues("file")); got != 7 {
		t.Errorf("expected 7 loaded events, got %v", got)
	}

	before := testutil.ToFloat64(eventsRejected.WithLabelValues("feed"))
	AddEventsRejected("feed", 2)
	AddEventsRejected("feed", 0)
	if got := testutil.ToFloat64(eventsRejected.WithLabelValues("feed")); got != before+2 {
		t.Errorf("expected rejected counter to grow by 2, got %v", got-before)
	}

	before = testutil.ToFloat64(actionTotal.WithLabelValues("add"))
	IncAction("add")
	if got := testutil.ToFloat64(actionTotal.WithLabelValues("add")); got != before+1 {
		t.Errorf("expected add action counted once, got %v", got-before)
	}
}
