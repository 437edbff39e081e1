package poller_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	api "github.com/verdict-ci/verdict/api/v1alpha1"
	"github.com/verdict-ci/verdict/internal/client"
	"github.com/verdict-ci/verdict/internal/client/clienttest"
	"github.com/verdict-ci/verdict/internal/poller"
)

func TestPoller(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Poller Suite")
}

// fakeClock hands out channels the test fires by hand.
type fakeClock struct {
	graceCh chan time.Time
	tickCh  chan time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{
		graceCh: make(chan time.Time, 1),
		tickCh:  make(chan time.Time),
	}
}

func (f *fakeClock) After(time.Duration) <-chan time.Time { return f.graceCh }
func (f *fakeClock) NewTicker(time.Duration) poller.Ticker {
	return &fakeTicker{ch: f.tickCh}
}

func (f *fakeClock) fireGrace() { f.graceCh <- time.Now() }
func (f *fakeClock) tick()      { f.tickCh <- time.Now() }

type fakeTicker struct {
	ch      chan time.Time
	stopped atomic.Bool
}

func (t *fakeTicker) C() <-chan time.Time { return t.ch }
func (t *fakeTicker) Stop()               { t.stopped.Store(true) }

var _ = Describe("Poller", func() {
	var (
		ctx    context.Context
		cancel context.CancelFunc
		clock  *fakeClock
	)

	BeforeEach(func() {
		ctx, cancel = context.WithCancel(context.Background())
		clock = newFakeClock()
	})

	AfterEach(func() {
		cancel()
	})

	It("stays armed until the grace delay elapses", func() {
		var probes atomic.Int32
		probe := func(context.Context) (api.JobStatus, error) {
			probes.Add(1)
			return api.JobStatusPending, nil
		}

		p := poller.New(probe, poller.WithClock(clock))
		p.Start(ctx)

		state, _ := p.Snapshot()
		Expect(state).To(Equal(poller.StateArmed))
		Expect(probes.Load()).To(Equal(int32(0)))

		clock.fireGrace()
		Eventually(func() poller.State {
			state, _ := p.Snapshot()
			return state
		}).Should(Equal(poller.StatePolling))

		p.Stop()
		Eventually(p.Done()).Should(BeClosed())
	})

	It("tolerates early 404s and reaches terminal success", func() {
		responses := []func() (api.JobStatus, error){
			func() (api.JobStatus, error) { return "", client.ErrNotFound },
			func() (api.JobStatus, error) { return "", client.ErrNotFound },
			func() (api.JobStatus, error) { return api.JobStatusPending, nil },
			func() (api.JobStatus, error) { return api.JobStatusCompleted, nil },
		}
		var call atomic.Int32
		probe := func(context.Context) (api.JobStatus, error) {
			return responses[call.Add(1)-1]()
		}

		var sawFailure atomic.Bool
		p := poller.New(probe,
			poller.WithClock(clock),
			poller.WithNotify(func(state poller.State, _ int) {
				if state == poller.StateTerminalFailure {
					sawFailure.Store(true)
				}
			}))
		p.Start(ctx)
		clock.fireGrace()

		for i := 0; i < 4; i++ {
			clock.tick()
		}

		Eventually(p.Done()).Should(BeClosed())
		state, progress := p.Snapshot()
		Expect(state).To(Equal(poller.StateTerminalSuccess))
		Expect(progress).To(Equal(100))
		Expect(sawFailure.Load()).To(BeFalse())
		Expect(p.Err()).To(BeNil())
	})

	It("issues no further probes after a terminal state", func() {
		var probes atomic.Int32
		probe := func(context.Context) (api.JobStatus, error) {
			probes.Add(1)
			return api.JobStatusCompleted, nil
		}

		p := poller.New(probe, poller.WithClock(clock))
		p.Start(ctx)
		clock.fireGrace()
		clock.tick()

		Eventually(p.Done()).Should(BeClosed())
		Expect(probes.Load()).To(Equal(int32(1)))

		// extra elapsed time must not produce requests
		select {
		case clock.tickCh <- time.Now():
			Fail("poller still consuming ticks after terminal state")
		case <-time.After(50 * time.Millisecond):
		}
		Expect(probes.Load()).To(Equal(int32(1)))
	})

	It("issues no further probes after Stop", func() {
		var probes atomic.Int32
		probe := func(context.Context) (api.JobStatus, error) {
			probes.Add(1)
			return api.JobStatusPending, nil
		}

		p := poller.New(probe, poller.WithClock(clock))
		p.Start(ctx)
		clock.fireGrace()
		clock.tick()
		Eventually(func() int32 { return probes.Load() }).Should(Equal(int32(1)))

		p.Stop()
		Eventually(p.Done()).Should(BeClosed())

		select {
		case clock.tickCh <- time.Now():
			Fail("poller still consuming ticks after Stop")
		case <-time.After(50 * time.Millisecond):
		}
		Expect(probes.Load()).To(Equal(int32(1)))
	})

	It("issues no further probes after context cancellation", func() {
		var probes atomic.Int32
		probe := func(context.Context) (api.JobStatus, error) {
			probes.Add(1)
			return api.JobStatusPending, nil
		}

		p := poller.New(probe, poller.WithClock(clock))
		p.Start(ctx)
		clock.fireGrace()
		cancel()
		Eventually(p.Done()).Should(BeClosed())
		Expect(probes.Load()).To(Equal(int32(0)))
	})

	It("reaches terminal failure on a backend error status", func() {
		probe := func(context.Context) (api.JobStatus, error) {
			return api.JobStatusError, nil
		}

		p := poller.New(probe, poller.WithClock(clock))
		p.Start(ctx)
		clock.fireGrace()
		clock.tick()

		Eventually(p.Done()).Should(BeClosed())
		state, _ := p.Snapshot()
		Expect(state).To(Equal(poller.StateTerminalFailure))
		Expect(p.Err()).To(MatchError(poller.ErrJobFailed))
	})

	It("keeps polling through transient errors", func() {
		responses := []func() (api.JobStatus, error){
			func() (api.JobStatus, error) { return "", errors.New("connection refused") },
			func() (api.JobStatus, error) { return api.JobStatusCompleted, nil },
		}
		var call atomic.Int32
		probe := func(context.Context) (api.JobStatus, error) {
			return responses[call.Add(1)-1]()
		}

		p := poller.New(probe, poller.WithClock(clock))
		p.Start(ctx)
		clock.fireGrace()
		clock.tick()
		clock.tick()

		Eventually(p.Done()).Should(BeClosed())
		state, _ := p.Snapshot()
		Expect(state).To(Equal(poller.StateTerminalSuccess))
	})

	It("gives up once the attempt budget is exhausted", func() {
		probe := func(context.Context) (api.JobStatus, error) {
			return "", client.ErrNotFound
		}

		p := poller.New(probe, poller.WithClock(clock), poller.WithMaxAttempts(3))
		p.Start(ctx)
		clock.fireGrace()
		clock.tick()
		clock.tick()
		clock.tick()

		Eventually(p.Done()).Should(BeClosed())
		state, _ := p.Snapshot()
		Expect(state).To(Equal(poller.StateTerminalFailure))
		Expect(p.Err()).To(MatchError(poller.ErrDeadline))
	})

	It("caps cosmetic progress below completion", func() {
		probe := func(context.Context) (api.JobStatus, error) {
			return api.JobStatusProcessing, nil
		}

		p := poller.New(probe, poller.WithClock(clock), poller.WithMaxAttempts(200))
		p.Start(ctx)
		clock.fireGrace()

		for i := 0; i < 120; i++ {
			clock.tick()
		}

		Eventually(func() int {
			_, progress := p.Snapshot()
			return progress
		}).Should(Equal(95))

		p.Stop()
		Eventually(p.Done()).Should(BeClosed())
	})

	It("builds probes from the client", func() {
		fake := clienttest.NewFakeVerdict()
		fake.GetCoverageJobFn = func(_ context.Context, auditID string) (*api.CoverageResult, error) {
			Expect(auditID).To(Equal("job-1"))
			return &api.CoverageResult{Status: api.JobStatusCompleted}, nil
		}
		status, err := poller.CoverageProbe(fake, "job-1")(ctx)
		Expect(err).To(BeNil())
		Expect(status).To(Equal(api.JobStatusCompleted))

		fake.GetEstimatorJobFn = func(_ context.Context, auditID, projectName string) (*api.EstimatorResult, error) {
			Expect(projectName).To(Equal("Nova"))
			return &api.EstimatorResult{Status: api.JobStatusProcessing}, nil
		}
		status, err = poller.EstimatorProbe(fake, "job-2", "Nova")(ctx)
		Expect(err).To(BeNil())
		Expect(status).To(Equal(api.JobStatusProcessing))
	})
})
