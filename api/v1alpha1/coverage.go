package v1alpha1

import "encoding/json"

// Character is one entry of the principal character breakdown.
type Character struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CoverageResult is the normalized payload of a completed coverage
// job. The backend owns the schema; every field is optional and the
// zero value means "not provided".
type CoverageResult struct {
	Status         JobStatus
	Score          float64
	Recommendation string
	ProjectName    string
	Analysis       string
	Logline        string
	Writer         string
	Tone           string
	CharacterCount int
	Comments       string
	Characters     []Character
	Timestamp      string
}

// coverageWire mirrors every key name the backend has been observed to
// use for the same logical field. Normalization happens once, here,
// instead of scattering fallbacks through rendering code.
type coverageWire struct {
	Status         string      `json:"status"`
	Score          flexNumber  `json:"score"`
	Recommendation string      `json:"recommendation"`
	Title          string      `json:"title"`
	ProjectName    string      `json:"projectName"`
	FileName       string      `json:"fileName"`
	AnalysisText   string      `json:"analysisText"`
	Synopsis       string      `json:"synopsis"`
	Logline        string      `json:"logline"`
	Writer         string      `json:"writer"`
	Author         string      `json:"author"`
	Tone           string      `json:"tone"`
	CharacterCount int         `json:"character_count"`
	Comments       string      `json:"comments"`
	Characters     []Character `json:"characters"`
	Timestamp      string      `json:"timestamp"`
}

// ParseCoverageResult unwraps the response envelope and maps the
// backend's duck-typed payload to a CoverageResult.
func ParseCoverageResult(raw []byte) (*CoverageResult, error) {
	var w coverageWire
	if err := json.Unmarshal(DecodeEnvelope(raw), &w); err != nil {
		return nil, err
	}
	return &CoverageResult{
		Status:         StringToJobStatus(w.Status),
		Score:          float64(w.Score),
		Recommendation: w.Recommendation,
		ProjectName:    DisplayTitle(firstNonEmpty(w.Title, w.ProjectName, w.FileName)),
		Analysis:       firstNonEmpty(w.AnalysisText, w.Synopsis),
		Logline:        w.Logline,
		Writer:         firstNonEmpty(w.Writer, w.Author),
		Tone:           w.Tone,
		CharacterCount: w.CharacterCount,
		Comments:       w.Comments,
		Characters:     w.Characters,
		Timestamp:      w.Timestamp,
	}, nil
}
