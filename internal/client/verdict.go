package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	api "github.com/verdict-ci/verdict/api/v1alpha1"
)

var (
	// ErrNotFound marks a status probe that the backend's read path
	// cannot see yet (or a truly unknown id; the two are not
	// distinguishable client-side).
	ErrNotFound = errors.New("job not found")
	// ErrEmptyResponse marks a creation handshake that returned no id.
	ErrEmptyResponse = errors.New("empty response")
)

// Verdict is the client interface to the Verdict analysis backend.
//
//go:generate moq -fmt=goimports -out zz_generated_verdict.go . Verdict
type Verdict interface {
	// RequestUpload asks for a pre-authorized write destination.
	RequestUpload(ctx context.Context, req api.UploadRequest) (*api.UploadTarget, error)
	// UploadFile performs the direct binary transfer to the
	// destination returned by RequestUpload.
	UploadFile(ctx context.Context, uploadURL string, contentType string, body io.Reader) error
	// CreateCoverageJob notifies the backend to start a coverage
	// analysis for an uploaded document.
	CreateCoverageJob(ctx context.Context, job api.CoverageJobCreate) error
	// GetCoverageJob returns the current coverage payload, or
	// ErrNotFound while the record has not propagated to the read path.
	GetCoverageJob(ctx context.Context, auditID string) (*api.CoverageResult, error)
	ListCoverageJobs(ctx context.Context) ([]api.CoverageRecord, error)
	// CreateEstimatorJob starts a success-estimator run and returns
	// the backend-acknowledged job id.
	CreateEstimatorJob(ctx context.Context, job api.EstimatorJobCreate) (string, error)
	GetEstimatorJob(ctx context.Context, auditID string, projectName string) (*api.EstimatorResult, error)
	ListEstimatorJobs(ctx context.Context) ([]api.EstimatorRecord, error)
	// RedriveJob re-triggers analysis for an existing job.
	RedriveJob(ctx context.Context, auditID string, projectName string) error
	SubmitInquiry(ctx context.Context, inquiry api.ContactInquiry) error
}

var _ Verdict = (*verdict)(nil)

type verdict struct {
	server string
	client *http.Client
}

// NewVerdict returns a Verdict client against the given API origin.
func NewVerdict(server string, httpClient *http.Client) Verdict {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &verdict{server: server, client: httpClient}
}

func (v *verdict) RequestUpload(ctx context.Context, req api.UploadRequest) (*api.UploadTarget, error) {
	body, status, err := v.doJSON(ctx, http.MethodPost, "/get-upload-url", nil, req)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("request upload destination failed: %d", status)
	}
	target := &api.UploadTarget{}
	if err := json.Unmarshal(body, target); err != nil {
		return nil, fmt.Errorf("decoding upload destination: %w", err)
	}
	if target.UploadURL == "" {
		return nil, ErrEmptyResponse
	}
	return target, nil
}

func (v *verdict) UploadFile(ctx context.Context, uploadURL string, contentType string, body io.Reader) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)
	resp, err := v.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("binary upload failed: %s", resp.Status)
	}
	return nil
}

func (v *verdict) CreateCoverageJob(ctx context.Context, job api.CoverageJobCreate) error {
	_, status, err := v.doJSON(ctx, http.MethodPost, "/coverage", nil, job)
	if err != nil {
		return err
	}
	// 202 means queued, which is the expected outcome.
	if !accepted(status) {
		return fmt.Errorf("create coverage job failed: %d", status)
	}
	return nil
}

func (v *verdict) GetCoverageJob(ctx context.Context, auditID string) (*api.CoverageResult, error) {
	q := url.Values{"auditId": []string{auditID}}
	body, status, err := v.doJSON(ctx, http.MethodGet, "/get-audit", q, nil)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("get coverage job failed: %d", status)
	}
	return api.ParseCoverageResult(body)
}

func (v *verdict) ListCoverageJobs(ctx context.Context) ([]api.CoverageRecord, error) {
	body, status, err := v.doJSON(ctx, http.MethodGet, "/get-audits", nil, nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("list coverage jobs failed: %d", status)
	}
	list := api.CoverageList{}
	if err := json.Unmarshal(api.DecodeEnvelope(body), &list); err != nil {
		return nil, fmt.Errorf("decoding coverage list: %w", err)
	}
	return list.Audits, nil
}

func (v *verdict) CreateEstimatorJob(ctx context.Context, job api.EstimatorJobCreate) (string, error) {
	body, status, err := v.doJSON(ctx, http.MethodPost, "/analyze", nil, job)
	if err != nil {
		return "", err
	}
	if !accepted(status) {
		return "", fmt.Errorf("create estimator job failed: %d", status)
	}
	created := api.EstimatorJobCreated{}
	if err := json.Unmarshal(api.DecodeEnvelope(body), &created); err != nil {
		return "", fmt.Errorf("decoding estimator handshake: %w", err)
	}
	if created.AuditID == "" {
		return "", ErrEmptyResponse
	}
	return created.AuditID, nil
}

func (v *verdict) GetEstimatorJob(ctx context.Context, auditID string, projectName string) (*api.EstimatorResult, error) {
	q := url.Values{
		"auditId":     []string{auditID},
		"projectName": []string{projectName},
	}
	body, status, err := v.doJSON(ctx, http.MethodGet, "/get-estimator", q, nil)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("get estimator job failed: %d", status)
	}
	return api.ParseEstimatorResult(body)
}

func (v *verdict) ListEstimatorJobs(ctx context.Context) ([]api.EstimatorRecord, error) {
	body, status, err := v.doJSON(ctx, http.MethodGet, "/get-estimator-portfolio", nil, nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("list estimator jobs failed: %d", status)
	}
	list := api.EstimatorList{}
	if err := json.Unmarshal(api.DecodeEnvelope(body), &list); err != nil {
		return nil, fmt.Errorf("decoding estimator list: %w", err)
	}
	return list.Records, nil
}

func (v *verdict) RedriveJob(ctx context.Context, auditID string, projectName string) error {
	req := api.RedriveRequest{AuditID: auditID, ProjectName: projectName, IsRedrive: true}
	_, status, err := v.doJSON(ctx, http.MethodPost, "/analyze", nil, req)
	if err != nil {
		return err
	}
	if !accepted(status) {
		return fmt.Errorf("redrive job failed: %d", status)
	}
	return nil
}

func (v *verdict) SubmitInquiry(ctx context.Context, inquiry api.ContactInquiry) error {
	_, status, err := v.doJSON(ctx, http.MethodPost, "/contact", nil, inquiry)
	if err != nil {
		return err
	}
	if !accepted(status) {
		return fmt.Errorf("submit inquiry failed: %d", status)
	}
	return nil
}

// doJSON performs one JSON round trip and returns the raw body with
// the status code. Non-2xx statuses are not errors here; callers
// decide which codes are tolerable for their endpoint.
func (v *verdict) doJSON(ctx context.Context, method string, path string, query url.Values, in any) ([]byte, int, error) {
	u := v.server + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if in != nil {
		encoded, err := json.Marshal(in)
		if err != nil {
			return nil, 0, fmt.Errorf("encoding request: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return nil, 0, err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("reading response: %w", err)
	}
	return body, resp.StatusCode, nil
}

func accepted(status int) bool {
	return (status >= 200 && status < 300) || status == http.StatusAccepted
}
