package devserver_test

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	api "github.com/verdict-ci/verdict/api/v1alpha1"
	"github.com/verdict-ci/verdict/internal/client"
	"github.com/verdict-ci/verdict/internal/devserver"
	"github.com/verdict-ci/verdict/internal/poller"
	"github.com/verdict-ci/verdict/internal/report"
	"github.com/verdict-ci/verdict/internal/submit"
)

func newTestServer(t *testing.T, opts devserver.Options) (*httptest.Server, client.Verdict) {
	t.Helper()
	srv := httptest.NewServer(devserver.New(zap.NewNop(), opts).Router())
	t.Cleanup(srv.Close)
	return srv, client.NewVerdict(srv.URL, srv.Client())
}

// manualClock drives poller ticks without wall-clock delays.
type manualClock struct {
	graceCh chan time.Time
	tickCh  chan time.Time
}

func newManualClock() *manualClock {
	return &manualClock{
		graceCh: make(chan time.Time, 1),
		tickCh:  make(chan time.Time),
	}
}

func (c *manualClock) After(time.Duration) <-chan time.Time  { return c.graceCh }
func (c *manualClock) NewTicker(time.Duration) poller.Ticker { return manualTicker{c.tickCh} }

type manualTicker struct{ ch chan time.Time }

func (t manualTicker) C() <-chan time.Time { return t.ch }
func (t manualTicker) Stop()               {}

func TestCoverageWorkflowAgainstDevServer(t *testing.T) {
	_, c := newTestServer(t, devserver.Options{NotFoundReads: 2, ReadsUntilComplete: 1})
	ctx := context.Background()

	gateway := submit.New(c, zap.NewNop())
	jobID, err := gateway.SubmitCoverage(ctx, submit.CoverageSubmission{
		ProjectName: "Midnight Run",
		UserName:    "Sam",
		UserEmail:   "sam@studio.example",
		UserRole:    "Executive",
		ReportType:  "Full Script",
	}, &submit.Attachment{Name: "midnight-run.pdf", Content: strings.NewReader("%PDF-1.4 fake")})
	require.NoError(t, err)

	// simulated propagation lag: early probes are invisible
	_, err = c.GetCoverageJob(ctx, jobID)
	assert.ErrorIs(t, err, client.ErrNotFound)
	_, err = c.GetCoverageJob(ctx, jobID)
	assert.ErrorIs(t, err, client.ErrNotFound)

	result, err := c.GetCoverageJob(ctx, jobID)
	require.NoError(t, err)
	assert.Equal(t, api.JobStatusProcessing, result.Status)

	result, err = c.GetCoverageJob(ctx, jobID)
	require.NoError(t, err)
	assert.Equal(t, api.JobStatusCompleted, result.Status)
	assert.Equal(t, float64(87), result.Score)
	assert.Equal(t, "Recommend", result.Recommendation)
	assert.Len(t, result.Characters, 2)

	audits, err := c.ListCoverageJobs(ctx)
	require.NoError(t, err)
	require.Len(t, audits, 1)
	assert.Equal(t, jobID, audits[0].ID)
}

func TestUnknownJobStays404(t *testing.T) {
	_, c := newTestServer(t, devserver.DefaultOptions())
	_, err := c.GetCoverageJob(context.Background(), "never-created")
	assert.ErrorIs(t, err, client.ErrNotFound)
}

func TestRedriveResetsJob(t *testing.T) {
	_, c := newTestServer(t, devserver.Options{NotFoundReads: 0, ReadsUntilComplete: 0})
	ctx := context.Background()

	id, err := c.CreateEstimatorJob(ctx, api.EstimatorJobCreate{FormData: api.EstimatorForm{ProjectName: "Nova"}})
	require.NoError(t, err)

	result, err := c.GetEstimatorJob(ctx, id, "Nova")
	require.NoError(t, err)
	assert.Equal(t, api.JobStatusCompleted, result.Status)

	require.NoError(t, c.RedriveJob(ctx, id, "Nova"))
	result, err = c.GetEstimatorJob(ctx, id, "Nova")
	require.NoError(t, err)
	assert.Equal(t, api.JobStatusCompleted, result.Status)

	assert.Error(t, c.RedriveJob(ctx, "never-created", "Nova"))
}

func TestContactInquiry(t *testing.T) {
	_, c := newTestServer(t, devserver.DefaultOptions())
	err := c.SubmitInquiry(context.Background(), api.ContactInquiry{
		FirstName: "Sam",
		LastName:  "Rhee",
		Email:     "sam@studio.example",
		Company:   "Studio",
		Role:      "Executive",
		Goals:     "evaluate the slate",
	})
	assert.NoError(t, err)

	err = c.SubmitInquiry(context.Background(), api.ContactInquiry{FirstName: "NoEmail"})
	assert.Error(t, err)
}

// end-to-end: parameter-only submission, grace delay, two non-terminal
// ticks, completion, rendered report.
func TestEstimatorEndToEnd(t *testing.T) {
	_, c := newTestServer(t, devserver.Options{NotFoundReads: 0, ReadsUntilComplete: 2})
	ctx := context.Background()

	gateway := submit.New(c, zap.NewNop())
	jobID, err := gateway.SubmitEstimator(ctx, api.EstimatorForm{
		ProjectName:      "Nova",
		Genre:            "Drama",
		ProductionBudget: 5000000,
	})
	require.NoError(t, err)
	assert.Regexp(t, `^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`, jobID)

	clock := newManualClock()
	var ticks atomic.Int32
	p := poller.New(poller.EstimatorProbe(c, jobID, "Nova"),
		poller.WithClock(clock),
		poller.WithNotify(func(poller.State, int) { ticks.Add(1) }))
	p.Start(ctx)

	state, _ := p.Snapshot()
	assert.Equal(t, poller.StateArmed, state)

	clock.graceCh <- time.Now()
	for i := 0; i < 3; i++ {
		clock.tickCh <- time.Now()
	}

	select {
	case <-p.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("poller did not reach a terminal state")
	}

	state, progress := p.Snapshot()
	require.Equal(t, poller.StateTerminalSuccess, state)
	assert.Equal(t, 100, progress)

	result, err := c.GetEstimatorJob(ctx, jobID, "Nova")
	require.NoError(t, err)

	view := report.NewEstimatorView("Nova", result)
	var out bytes.Buffer
	view.WriteText(&out)
	assert.Contains(t, out.String(), "72%")
	assert.Contains(t, out.String(), "VERDICT: PASS")
	assert.Len(t, view.Comps, 2)

	var pdf bytes.Buffer
	require.NoError(t, view.ExportPDF(&pdf))
	assert.True(t, bytes.HasPrefix(pdf.Bytes(), []byte("%PDF")))
}
