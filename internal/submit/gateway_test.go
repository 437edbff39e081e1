package submit

import (
	"context"
	"errors"
	"io"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	api "github.com/verdict-ci/verdict/api/v1alpha1"
	"github.com/verdict-ci/verdict/internal/client/clienttest"
)

var uuidV4Shape = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

func TestGenerateJobIDDistinct(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := GenerateJobID()
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestManualJobIDShape(t *testing.T) {
	for i := 0; i < 100; i++ {
		id := manualJobID()
		assert.Regexp(t, uuidV4Shape, id)
	}
}

func TestSubmitCoverageHappyPath(t *testing.T) {
	fake := clienttest.NewFakeVerdict()

	var uploadName, uploadedContentType string
	var created api.CoverageJobCreate
	fake.RequestUploadFn = func(_ context.Context, req api.UploadRequest) (*api.UploadTarget, error) {
		uploadName = req.FileName
		return &api.UploadTarget{UploadURL: "http://store/put", Key: "uploads/" + req.FileName}, nil
	}
	fake.UploadFileFn = func(_ context.Context, _ string, contentType string, body io.Reader) error {
		uploadedContentType = contentType
		_, err := io.Copy(io.Discard, body)
		return err
	}
	fake.CreateCoverageJobFn = func(_ context.Context, job api.CoverageJobCreate) error {
		created = job
		return nil
	}

	g := New(fake, zap.NewNop())
	jobID, err := g.SubmitCoverage(context.Background(), CoverageSubmission{
		ProjectName: "Nova",
		UserName:    "Sam",
		UserEmail:   "sam@studio.example",
		UserRole:    "Executive",
		ReportType:  "Full Script",
	}, &Attachment{Name: "nova-draft.docx", Content: strings.NewReader("doc bytes")})

	require.NoError(t, err)
	assert.Regexp(t, uuidV4Shape, jobID)
	assert.Equal(t, jobID+"-nova-draft.docx", uploadName)
	assert.Equal(t, ContentTypeDocx, uploadedContentType)
	assert.Equal(t, jobID, created.AuditID)
	assert.Equal(t, "uploads/"+jobID+"-nova-draft.docx", created.S3Key)
}

func TestSubmitCoverageUploadFailureSkipsJobCreation(t *testing.T) {
	fake := clienttest.NewFakeVerdict()
	fake.RequestUploadFn = func(context.Context, api.UploadRequest) (*api.UploadTarget, error) {
		return nil, errors.New("gateway reject")
	}

	g := New(fake, zap.NewNop())
	_, err := g.SubmitCoverage(context.Background(), CoverageSubmission{ProjectName: "Nova"}, &Attachment{
		Name:    "nova.pdf",
		Content: strings.NewReader("x"),
	})

	require.Error(t, err)
	assert.Equal(t, 0, fake.Calls("CreateCoverageJob"))
	assert.Equal(t, 0, fake.Calls("UploadFile"))
}

func TestSubmitCoverageBinaryTransferFailureSkipsJobCreation(t *testing.T) {
	fake := clienttest.NewFakeVerdict()
	fake.UploadFileFn = func(context.Context, string, string, io.Reader) error {
		return errors.New("connection reset")
	}

	g := New(fake, zap.NewNop())
	_, err := g.SubmitCoverage(context.Background(), CoverageSubmission{ProjectName: "Nova"}, &Attachment{
		Name:    "nova.pdf",
		Content: strings.NewReader("x"),
	})

	require.Error(t, err)
	assert.Equal(t, 0, fake.Calls("CreateCoverageJob"))
}

func TestSubmitCoverageWithoutAttachment(t *testing.T) {
	fake := clienttest.NewFakeVerdict()
	var created api.CoverageJobCreate
	fake.CreateCoverageJobFn = func(_ context.Context, job api.CoverageJobCreate) error {
		created = job
		return nil
	}

	g := New(fake, zap.NewNop())
	_, err := g.SubmitCoverage(context.Background(), CoverageSubmission{ProjectName: "Nova"}, nil)

	require.NoError(t, err)
	assert.Equal(t, 0, fake.Calls("RequestUpload"))
	assert.Empty(t, created.S3Key)
}

func TestSubmitEstimatorRequiresProjectName(t *testing.T) {
	g := New(clienttest.NewFakeVerdict(), zap.NewNop())
	_, err := g.SubmitEstimator(context.Background(), api.EstimatorForm{})
	assert.ErrorIs(t, err, ErrMissingProjectName)
}

func TestSubmitEstimatorReturnsBackendID(t *testing.T) {
	fake := clienttest.NewFakeVerdict()
	fake.CreateEstimatorJobFn = func(context.Context, api.EstimatorJobCreate) (string, error) {
		return "backend-id", nil
	}
	g := New(fake, zap.NewNop())
	id, err := g.SubmitEstimator(context.Background(), api.EstimatorForm{ProjectName: "Nova"})
	require.NoError(t, err)
	assert.Equal(t, "backend-id", id)
}

func TestContentTypeFor(t *testing.T) {
	assert.Equal(t, ContentTypeDocx, ContentTypeFor("script.DOCX"))
	assert.Equal(t, ContentTypePDF, ContentTypeFor("script.pdf"))
	assert.Equal(t, ContentTypePDF, ContentTypeFor("noext"))
}
