package poller

import (
	"time"

	jitterbug "github.com/lthibault/jitterbug/v2"
)

// Clock abstracts timer construction so tests can drive the poll loop
// tick by tick instead of waiting on wall-clock delays.
type Clock interface {
	After(d time.Duration) <-chan time.Time
	NewTicker(d time.Duration) Ticker
}

type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// realClock schedules probes on a lightly jittered ticker so a fleet
// of clients does not synchronize its requests against the backend.
type realClock struct{}

func NewClock() Clock { return realClock{} }

func (realClock) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}

func (realClock) NewTicker(d time.Duration) Ticker {
	return &jitterTicker{t: jitterbug.New(d, &jitterbug.Norm{Stdev: 100 * time.Millisecond})}
}

type jitterTicker struct {
	t *jitterbug.Ticker
}

func (jt *jitterTicker) C() <-chan time.Time { return jt.t.C }
func (jt *jitterTicker) Stop()               { jt.t.Stop() }
