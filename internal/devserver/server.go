// Package devserver is a local stand-in for the Verdict backend. It
// mimics the backend's observable behavior closely enough to develop
// and test the client against: jobs walk QUEUED to COMPLETED over a
// few status reads, coverage responses are envelope-wrapped the way
// the real gateway wraps them, and a configurable number of early
// reads return 404 to reproduce read-after-write lag.
package devserver

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	api "github.com/verdict-ci/verdict/api/v1alpha1"
	"github.com/verdict-ci/verdict/internal/submit"
	logmw "github.com/verdict-ci/verdict/pkg/log"
	"github.com/verdict-ci/verdict/pkg/metrics"
	mw "github.com/verdict-ci/verdict/pkg/middleware"
)

// Options tune the simulated backend behavior.
type Options struct {
	// NotFoundReads is how many early status probes per job answer
	// 404 before the record becomes visible.
	NotFoundReads int
	// ReadsUntilComplete is how many visible status probes report a
	// non-terminal status before the job completes.
	ReadsUntilComplete int
}

func DefaultOptions() Options {
	return Options{
		NotFoundReads:      1,
		ReadsUntilComplete: 2,
	}
}

type jobKind string

const (
	kindCoverage  jobKind = "coverage"
	kindEstimator jobKind = "estimator"
)

type jobRecord struct {
	id          string
	kind        jobKind
	projectName string
	fileName    string
	storageKey  string
	reportType  string
	userName    string
	userEmail   string
	userRole    string
	form        api.EstimatorForm
	created     time.Time
	reads       int
}

// Server is the in-memory dev backend.
type Server struct {
	log  *zap.Logger
	opts Options

	mu      sync.Mutex
	jobs    map[string]*jobRecord
	uploads map[string]int64
}

func New(logger *zap.Logger, opts Options) *Server {
	return &Server{
		log:     logger,
		opts:    opts,
		jobs:    make(map[string]*jobRecord),
		uploads: make(map[string]int64),
	}
}

var (
	httpMetrics         = metrics.NewMiddleware("verdict-devserver")
	registerHTTPMetrics sync.Once
)

// Router builds the HTTP router with the same logical endpoints the
// real backend exposes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}))
	r.Use(mw.RequestID)
	r.Use(logmw.Logger(s.log, "devserver"))
	registerHTTPMetrics.Do(httpMetrics.MustRegisterDefault)
	r.Use(httpMetrics.Handler)

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		render.JSON(w, req, map[string]string{"status": "ok"})
	})
	r.Mount("/metrics", promhttp.Handler())

	r.Post("/get-upload-url", s.handleUploadURL)
	r.Put("/upload/*", s.handleUpload)
	r.Post("/coverage", s.handleCreateCoverage)
	r.Get("/get-audit", s.handleGetCoverage)
	r.Get("/get-audits", s.handleListCoverage)
	r.Post("/analyze", s.handleAnalyze)
	r.Get("/get-estimator", s.handleGetEstimator)
	r.Get("/get-estimator-portfolio", s.handleListEstimator)
	r.Post("/contact", s.handleContact)

	return r
}

func (s *Server) handleUploadURL(w http.ResponseWriter, r *http.Request) {
	req := api.UploadRequest{}
	if err := render.DecodeJSON(r.Body, &req); err != nil || req.FileName == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]string{"error": "fileName is required"})
		return
	}
	key := "uploads/" + req.FileName
	render.JSON(w, r, api.UploadTarget{
		UploadURL: fmt.Sprintf("http://%s/upload/%s", r.Host, key),
		Key:       key,
	})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")
	n, err := io.Copy(io.Discard, r.Body)
	if err != nil {
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, map[string]string{"error": "upload failed"})
		return
	}
	s.mu.Lock()
	s.uploads[key] = n
	s.mu.Unlock()
	metrics.IncreaseUploadsMetric()
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleCreateCoverage(w http.ResponseWriter, r *http.Request) {
	job := api.CoverageJobCreate{}
	if err := render.DecodeJSON(r.Body, &job); err != nil || job.AuditID == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]string{"error": "auditId is required"})
		return
	}

	s.mu.Lock()
	s.jobs[job.AuditID] = &jobRecord{
		id:          job.AuditID,
		kind:        kindCoverage,
		projectName: job.ProjectName,
		fileName:    job.S3Key,
		storageKey:  job.S3Key,
		reportType:  job.ReportType,
		userName:    job.UserName,
		userEmail:   job.UserEmail,
		userRole:    job.UserRole,
		created:     time.Now().UTC(),
	}
	s.mu.Unlock()
	metrics.IncreaseJobsCreatedMetric(string(kindCoverage))

	render.Status(r, http.StatusAccepted)
	render.JSON(w, r, map[string]string{"message": "Job successfully queued", "jobId": job.AuditID})
}

func (s *Server) handleGetCoverage(w http.ResponseWriter, r *http.Request) {
	job, status := s.readJob(r.URL.Query().Get("auditId"), kindCoverage)
	if job == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	payload := map[string]any{
		"auditId":   job.id,
		"status":    string(status),
		"fileName":  job.fileName,
		"title":     job.projectName,
		"timestamp": job.created.Format(time.RFC3339),
	}
	if status == api.JobStatusCompleted {
		payload["score"] = 87
		payload["recommendation"] = "Recommend"
		payload["analysisText"] = "A taut, commercially viable draft with a clear hook."
		payload["logline"] = "An analyst races to stop the one model she built."
		payload["writer"] = job.userName
		payload["tone"] = "Tense"
		payload["character_count"] = 2
		payload["comments"] = "Second act drags; trim twelve pages."
		payload["characters"] = []api.Character{
			{Name: "Ada", Description: "the lead analyst"},
			{Name: "Marlow", Description: "her skeptical producer"},
		}
	}

	// The real gateway proxies this endpoint, wrapping the payload as
	// a JSON string under "body".
	inner, err := json.Marshal(payload)
	if err != nil {
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, map[string]string{"error": "encode failed"})
		return
	}
	render.JSON(w, r, map[string]string{"body": string(inner)})
}

func (s *Server) handleListCoverage(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	audits := []api.CoverageRecord{}
	for _, job := range s.jobs {
		if job.kind != kindCoverage {
			continue
		}
		audits = append(audits, api.CoverageRecord{
			ID:             job.id,
			ReportDate:     job.created.Format("2006-01-02"),
			AuditName:      job.projectName,
			Resource:       job.storageKey,
			Reporter:       job.userName,
			SubmitterEmail: job.userEmail,
			SubmitterRole:  job.userRole,
			ReportType:     job.reportType,
			SuccessGauge:   87,
		})
	}
	s.mu.Unlock()
	render.JSON(w, r, api.CoverageList{Audits: audits})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var body struct {
		api.RedriveRequest
		FormData api.EstimatorForm `json:"formData"`
	}
	if err := render.DecodeJSON(r.Body, &body); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]string{"error": "invalid json"})
		return
	}

	if body.IsRedrive {
		s.mu.Lock()
		job, ok := s.jobs[body.AuditID]
		if ok {
			job.reads = 0
		}
		s.mu.Unlock()
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		render.JSON(w, r, map[string]string{"message": "redrive accepted"})
		return
	}

	if body.FormData.ProjectName == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]string{"error": "projectName is required"})
		return
	}

	id := submit.GenerateJobID()
	s.mu.Lock()
	s.jobs[id] = &jobRecord{
		id:          id,
		kind:        kindEstimator,
		projectName: body.FormData.ProjectName,
		form:        body.FormData,
		created:     time.Now().UTC(),
	}
	s.mu.Unlock()
	metrics.IncreaseJobsCreatedMetric(string(kindEstimator))

	render.Status(r, http.StatusAccepted)
	render.JSON(w, r, api.EstimatorJobCreated{AuditID: id})
}

func (s *Server) handleGetEstimator(w http.ResponseWriter, r *http.Request) {
	job, status := s.readJob(r.URL.Query().Get("auditId"), kindEstimator)
	if job == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	payload := map[string]any{
		"projectName": job.projectName,
		"status":      string(status),
	}
	if status == api.JobStatusCompleted {
		payload["score"] = 72
		payload["verdict"] = "PASS"
		payload["summary"] = "Budget discipline and genre fit point to a profitable release."
		payload["recommendations"] = "Lock a fall theatrical date; hold marketing at the current allocation."
		// the comps field ships double-encoded, as the real store does
		payload["comps"] = `[{"TITLE":"Heat","BOXOFFICE":"$187M","NOTES":"crime classic"},{"TITLE":"Collateral","BOXOFFICE":"$220M","NOTES":"tight night-shoot thriller"}]`
	}
	render.JSON(w, r, payload)
}

func (s *Server) handleListEstimator(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	records := []api.EstimatorRecord{}
	for _, job := range s.jobs {
		if job.kind != kindEstimator {
			continue
		}
		records = append(records, api.EstimatorRecord{
			AuditID:       job.id,
			ProjectName:   job.projectName,
			Status:        string(s.statusForLocked(job)),
			Score:         72,
			LastUpdatedAt: job.created.Format(time.RFC3339),
			Verdict:       "PASS",
		})
	}
	s.mu.Unlock()
	render.JSON(w, r, api.EstimatorList{Records: records})
}

func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	inquiry := api.ContactInquiry{}
	if err := render.DecodeJSON(r.Body, &inquiry); err != nil || inquiry.Email == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]string{"error": "email is required"})
		return
	}
	s.log.Info("contact inquiry received",
		zap.String("email", inquiry.Email),
		zap.String("company", inquiry.Company))
	render.JSON(w, r, map[string]string{"message": "received"})
}

// readJob counts one status probe against the job and reports the
// status that read should observe. A nil job means this read falls in
// the simulated propagation-lag window (or the id is unknown).
func (s *Server) readJob(id string, kind jobKind) (*jobRecord, api.JobStatus) {
	metrics.IncreaseStatusReadsMetric()

	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok || job.kind != kind {
		return nil, ""
	}
	job.reads++
	if job.reads <= s.opts.NotFoundReads {
		return nil, ""
	}
	return job, s.statusForLocked(job)
}

func (s *Server) statusForLocked(job *jobRecord) api.JobStatus {
	visible := job.reads - s.opts.NotFoundReads
	switch {
	case visible <= 0:
		return api.JobStatusQueued
	case visible <= s.opts.ReadsUntilComplete:
		return api.JobStatusProcessing
	default:
		return api.JobStatusCompleted
	}
}
