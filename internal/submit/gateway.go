package submit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	api "github.com/verdict-ci/verdict/api/v1alpha1"
	"github.com/verdict-ci/verdict/internal/client"
)

const (
	ContentTypeDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	ContentTypePDF  = "application/pdf"
)

var ErrMissingProjectName = errors.New("project name is required")

// Attachment is the document to analyze.
type Attachment struct {
	Name    string
	Content io.Reader
}

// CoverageSubmission carries the user-entered coverage form fields.
type CoverageSubmission struct {
	ProjectName string
	UserName    string
	UserEmail   string
	UserRole    string
	ReportType  string
}

// Gateway turns user-provided form data into one accepted backend job.
// Every submission mints a fresh job id; a failed attempt is never
// retried mid-flight, the caller resubmits from scratch.
type Gateway struct {
	client client.Verdict
	log    *zap.Logger
	newID  func() string
}

func New(c client.Verdict, logger *zap.Logger) *Gateway {
	return &Gateway{
		client: c,
		log:    logger,
		newID:  GenerateJobID,
	}
}

// GenerateJobID produces a v4-UUID-shaped correlation key. It is never
// validated for uniqueness client-side; collision resistance comes
// from the id itself since it serves as the backend partition key.
func GenerateJobID() string {
	id, err := uuid.NewRandom()
	if err != nil {
		return manualJobID()
	}
	return id.String()
}

// manualJobID fills the v4 template by hand when the platform's secure
// random source is unavailable.
func manualJobID() string {
	const template = "xxxxxxxx-xxxx-4xxx-yxxx-xxxxxxxxxxxx"
	var b strings.Builder
	b.Grow(len(template))
	for _, c := range template {
		switch c {
		case 'x':
			b.WriteString(fmt.Sprintf("%x", rand.Intn(16)))
		case 'y':
			b.WriteString(fmt.Sprintf("%x", rand.Intn(4)|0x8))
		default:
			b.WriteRune(c)
		}
	}
	return b.String()
}

// SubmitCoverage uploads the attachment and triggers the coverage
// analysis job. The storage name is derived from the job id plus the
// original filename so duplicate filenames never collide. Any step
// failing aborts the whole submission; previously uploaded bytes are
// orphaned under their unique key.
func (g *Gateway) SubmitCoverage(ctx context.Context, sub CoverageSubmission, attachment *Attachment) (string, error) {
	if sub.ProjectName == "" {
		return "", ErrMissingProjectName
	}

	jobID := g.newID()
	g.log.Info("submitting coverage job",
		zap.String("job_id", jobID),
		zap.String("project", sub.ProjectName),
		zap.String("report_type", sub.ReportType))

	storageKey := ""
	if attachment != nil {
		target, err := g.client.RequestUpload(ctx, api.UploadRequest{
			FileName:   fmt.Sprintf("%s-%s", jobID, attachment.Name),
			ReportType: sub.ReportType,
		})
		if err != nil {
			return "", fmt.Errorf("requesting upload destination: %w", err)
		}
		if err := g.client.UploadFile(ctx, target.UploadURL, ContentTypeFor(attachment.Name), attachment.Content); err != nil {
			return "", fmt.Errorf("uploading document: %w", err)
		}
		storageKey = target.Key
	}

	err := g.client.CreateCoverageJob(ctx, api.CoverageJobCreate{
		AuditID:     jobID,
		S3Key:       storageKey,
		ReportType:  sub.ReportType,
		ProjectName: sub.ProjectName,
		UserName:    sub.UserName,
		UserEmail:   sub.UserEmail,
		UserRole:    sub.UserRole,
	})
	if err != nil {
		return "", fmt.Errorf("creating coverage job: %w", err)
	}
	return jobID, nil
}

// SubmitEstimator starts a success-estimator run. The job id is minted
// by the backend during the creation handshake.
func (g *Gateway) SubmitEstimator(ctx context.Context, form api.EstimatorForm) (string, error) {
	if form.ProjectName == "" {
		return "", ErrMissingProjectName
	}
	g.log.Info("submitting estimator job", zap.String("project", form.ProjectName))

	jobID, err := g.client.CreateEstimatorJob(ctx, api.EstimatorJobCreate{FormData: form})
	if err != nil {
		return "", fmt.Errorf("creating estimator job: %w", err)
	}
	return jobID, nil
}

// ContentTypeFor picks the upload content type from the file
// extension. Anything that is not a .docx is treated as a PDF.
func ContentTypeFor(filename string) string {
	if strings.HasSuffix(strings.ToLower(filename), ".docx") {
		return ContentTypeDocx
	}
	return ContentTypePDF
}
