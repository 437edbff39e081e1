package v1alpha1_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	api "github.com/verdict-ci/verdict/api/v1alpha1"
)

func TestDecodeEnvelopeShapes(t *testing.T) {
	direct := []byte(`{"status":"COMPLETED","score":50}`)
	wrapped := []byte(`{"body":"{\"status\":\"COMPLETED\",\"score\":50}"}`)

	directResult, err := api.ParseEstimatorResult(direct)
	require.NoError(t, err)
	wrappedResult, err := api.ParseEstimatorResult(wrapped)
	require.NoError(t, err)

	assert.Equal(t, directResult, wrappedResult)
	assert.Equal(t, api.JobStatusCompleted, directResult.Status)
	assert.Equal(t, float64(50), directResult.Score)
}

func TestParseEstimatorResultMissingFields(t *testing.T) {
	res, err := api.ParseEstimatorResult([]byte(`{"status":"COMPLETED"}`))
	require.NoError(t, err)
	assert.Empty(t, res.Summary)
	assert.Empty(t, res.Recommendations)
	assert.Nil(t, res.Comps)
}

func TestParseCompsStringAndArray(t *testing.T) {
	asArray := []byte(`{"comps":[{"TITLE":"Heat","BOXOFFICE":"$187M","NOTES":"crime classic"}]}`)
	asString := []byte(`{"comps":"[{\"title\":\"Heat\",\"boxOffice\":\"$187M\",\"notes\":\"crime classic\"}]"}`)

	fromArray, err := api.ParseEstimatorResult(asArray)
	require.NoError(t, err)
	fromString, err := api.ParseEstimatorResult(asString)
	require.NoError(t, err)

	assert.Equal(t, fromArray.Comps, fromString.Comps)
	require.Len(t, fromArray.Comps, 1)
	assert.Equal(t, "Heat", fromArray.Comps[0].Title)
	assert.Equal(t, "$187M", fromArray.Comps[0].BoxOffice)
}

func TestParseCompsGarbageIsDropped(t *testing.T) {
	res, err := api.ParseEstimatorResult([]byte(`{"status":"COMPLETED","comps":"not json"}`))
	require.NoError(t, err)
	assert.Nil(t, res.Comps)
}

func TestParseCoverageResultAlternateKeys(t *testing.T) {
	bySynopsis, err := api.ParseCoverageResult([]byte(`{"synopsis":"a story","author":"Jo March"}`))
	require.NoError(t, err)
	assert.Equal(t, "a story", bySynopsis.Analysis)
	assert.Equal(t, "Jo March", bySynopsis.Writer)

	byAnalysis, err := api.ParseCoverageResult([]byte(`{"analysisText":"a story","writer":"Jo March"}`))
	require.NoError(t, err)
	assert.Equal(t, bySynopsis.Analysis, byAnalysis.Analysis)
	assert.Equal(t, bySynopsis.Writer, byAnalysis.Writer)
}

func TestParseCoverageResultScoreAsString(t *testing.T) {
	res, err := api.ParseCoverageResult([]byte(`{"score":"87"}`))
	require.NoError(t, err)
	assert.Equal(t, float64(87), res.Score)
}

func TestDisplayTitle(t *testing.T) {
	cases := map[string]string{
		"": "Untitled Project",
		"0a1b2c3d-0000-4000-8000-0123456789ab-midnight-run.pdf": "Midnight Run",
		"nova.docx":    "Nova",
		"already clean": "Already Clean",
	}
	for in, want := range cases {
		assert.Equal(t, want, api.DisplayTitle(in), "input %q", in)
	}
}

func TestStringToJobStatus(t *testing.T) {
	assert.Equal(t, api.JobStatusCompleted, api.StringToJobStatus("COMPLETED"))
	assert.Equal(t, api.JobStatusPending, api.StringToJobStatus("whatever"))
	assert.True(t, api.JobStatusError.Terminal())
	assert.True(t, api.JobStatusFailed.Terminal())
	assert.False(t, api.JobStatusProcessing.Terminal())
}
