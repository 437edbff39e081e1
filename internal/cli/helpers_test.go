package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKindId(t *testing.T) {
	kind, id, err := parseAndValidateKindId("coverage/abc-123")
	require.NoError(t, err)
	assert.Equal(t, CoverageKind, kind)
	assert.Equal(t, "abc-123", id)

	kind, id, err = parseAndValidateKindId("estimators")
	require.NoError(t, err)
	assert.Equal(t, EstimatorKind, kind)
	assert.Empty(t, id)

	_, _, err = parseAndValidateKindId("widgets/1")
	assert.Error(t, err)
}

func TestGetValidation(t *testing.T) {
	o := DefaultGetOptions()
	assert.NoError(t, o.Validate([]string{"coverage"}))

	o.Output = "xml"
	assert.Error(t, o.Validate([]string{"coverage"}))

	o.Output = "yaml"
	assert.Error(t, o.Validate([]string{"estimator/abc"}))
	o.ProjectName = "Nova"
	assert.NoError(t, o.Validate([]string{"estimator/abc"}))
}

func TestWatchValidation(t *testing.T) {
	o := DefaultWatchOptions()
	assert.Error(t, o.Validate([]string{"coverage"}))
	assert.NoError(t, o.Validate([]string{"coverage/abc"}))
	assert.Error(t, o.Validate([]string{"estimator/abc"}))
}

func TestExportValidation(t *testing.T) {
	o := DefaultExportOptions()
	assert.Error(t, o.Validate([]string{"estimator"}))
	assert.NoError(t, o.Validate([]string{"coverage/abc"}))

	o.ProjectName = "Nova"
	assert.NoError(t, o.Validate([]string{"estimator/abc"}))
}

func TestContactValidation(t *testing.T) {
	o := DefaultContactOptions()
	assert.Error(t, o.Validate(nil))
	o.Inquiry.Email = "sam@studio.example"
	assert.NoError(t, o.Validate(nil))
}
