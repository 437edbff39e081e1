// Package clienttest provides a configurable in-memory Verdict client
// for tests.
package clienttest

import (
	"context"
	"io"
	"sync"

	api "github.com/verdict-ci/verdict/api/v1alpha1"
	"github.com/verdict-ci/verdict/internal/client"
)

var _ client.Verdict = (*FakeVerdict)(nil)

// FakeVerdict implements client.Verdict through overridable function
// fields. Unset fields succeed with zero values. Call counts are safe
// for concurrent use.
type FakeVerdict struct {
	mu    sync.Mutex
	calls map[string]int

	RequestUploadFn      func(ctx context.Context, req api.UploadRequest) (*api.UploadTarget, error)
	UploadFileFn         func(ctx context.Context, uploadURL string, contentType string, body io.Reader) error
	CreateCoverageJobFn  func(ctx context.Context, job api.CoverageJobCreate) error
	GetCoverageJobFn     func(ctx context.Context, auditID string) (*api.CoverageResult, error)
	ListCoverageJobsFn   func(ctx context.Context) ([]api.CoverageRecord, error)
	CreateEstimatorJobFn func(ctx context.Context, job api.EstimatorJobCreate) (string, error)
	GetEstimatorJobFn    func(ctx context.Context, auditID string, projectName string) (*api.EstimatorResult, error)
	ListEstimatorJobsFn  func(ctx context.Context) ([]api.EstimatorRecord, error)
	RedriveJobFn         func(ctx context.Context, auditID string, projectName string) error
	SubmitInquiryFn      func(ctx context.Context, inquiry api.ContactInquiry) error
}

func NewFakeVerdict() *FakeVerdict {
	return &FakeVerdict{calls: make(map[string]int)}
}

// Calls returns how many times the named method was invoked.
func (f *FakeVerdict) Calls(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

func (f *FakeVerdict) record(method string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[method]++
}

func (f *FakeVerdict) RequestUpload(ctx context.Context, req api.UploadRequest) (*api.UploadTarget, error) {
	f.record("RequestUpload")
	if f.RequestUploadFn != nil {
		return f.RequestUploadFn(ctx, req)
	}
	return &api.UploadTarget{UploadURL: "http://fake/upload", Key: "uploads/" + req.FileName}, nil
}

func (f *FakeVerdict) UploadFile(ctx context.Context, uploadURL string, contentType string, body io.Reader) error {
	f.record("UploadFile")
	if f.UploadFileFn != nil {
		return f.UploadFileFn(ctx, uploadURL, contentType, body)
	}
	return nil
}

func (f *FakeVerdict) CreateCoverageJob(ctx context.Context, job api.CoverageJobCreate) error {
	f.record("CreateCoverageJob")
	if f.CreateCoverageJobFn != nil {
		return f.CreateCoverageJobFn(ctx, job)
	}
	return nil
}

func (f *FakeVerdict) GetCoverageJob(ctx context.Context, auditID string) (*api.CoverageResult, error) {
	f.record("GetCoverageJob")
	if f.GetCoverageJobFn != nil {
		return f.GetCoverageJobFn(ctx, auditID)
	}
	return &api.CoverageResult{Status: api.JobStatusPending}, nil
}

func (f *FakeVerdict) ListCoverageJobs(ctx context.Context) ([]api.CoverageRecord, error) {
	f.record("ListCoverageJobs")
	if f.ListCoverageJobsFn != nil {
		return f.ListCoverageJobsFn(ctx)
	}
	return nil, nil
}

func (f *FakeVerdict) CreateEstimatorJob(ctx context.Context, job api.EstimatorJobCreate) (string, error) {
	f.record("CreateEstimatorJob")
	if f.CreateEstimatorJobFn != nil {
		return f.CreateEstimatorJobFn(ctx, job)
	}
	return "fake-job-id", nil
}

func (f *FakeVerdict) GetEstimatorJob(ctx context.Context, auditID string, projectName string) (*api.EstimatorResult, error) {
	f.record("GetEstimatorJob")
	if f.GetEstimatorJobFn != nil {
		return f.GetEstimatorJobFn(ctx, auditID, projectName)
	}
	return &api.EstimatorResult{Status: api.JobStatusPending}, nil
}

func (f *FakeVerdict) ListEstimatorJobs(ctx context.Context) ([]api.EstimatorRecord, error) {
	f.record("ListEstimatorJobs")
	if f.ListEstimatorJobsFn != nil {
		return f.ListEstimatorJobsFn(ctx)
	}
	return nil, nil
}

func (f *FakeVerdict) RedriveJob(ctx context.Context, auditID string, projectName string) error {
	f.record("RedriveJob")
	if f.RedriveJobFn != nil {
		return f.RedriveJobFn(ctx, auditID, projectName)
	}
	return nil
}

func (f *FakeVerdict) SubmitInquiry(ctx context.Context, inquiry api.ContactInquiry) error {
	f.record("SubmitInquiry")
	if f.SubmitInquiryFn != nil {
		return f.SubmitInquiryFn(ctx, inquiry)
	}
	return nil
}
