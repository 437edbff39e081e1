package v1alpha1

import "encoding/json"

// Comp is one comparable title of the market-comps section.
type Comp struct {
	Title     string
	BoxOffice string
	Notes     string
}

type compWire struct {
	TitleUpper     string `json:"TITLE"`
	Title          string `json:"title"`
	BoxOfficeUpper string `json:"BOXOFFICE"`
	BoxOffice      string `json:"boxOffice"`
	NotesUpper     string `json:"NOTES"`
	Notes          string `json:"notes"`
}

// EstimatorResult is the normalized payload of a success-estimator
// job.
type EstimatorResult struct {
	Status          JobStatus
	Score           float64
	Verdict         string
	ProjectName     string
	Summary         string
	Recommendations string
	Comps           []Comp
}

type estimatorWire struct {
	Status          string          `json:"status"`
	Score           flexNumber      `json:"score"`
	Verdict         string          `json:"verdict"`
	ProjectName     string          `json:"projectName"`
	Summary         string          `json:"summary"`
	Recommendations string          `json:"recommendations"`
	Comps           json.RawMessage `json:"comps"`
}

// ParseEstimatorResult unwraps the response envelope and maps the
// payload to an EstimatorResult. The comps list arrives either as a
// JSON array or as a JSON-encoded string holding one; a list that
// cannot be parsed is dropped, never fatal.
func ParseEstimatorResult(raw []byte) (*EstimatorResult, error) {
	var w estimatorWire
	if err := json.Unmarshal(DecodeEnvelope(raw), &w); err != nil {
		return nil, err
	}
	return &EstimatorResult{
		Status:          StringToJobStatus(w.Status),
		Score:           float64(w.Score),
		Verdict:         w.Verdict,
		ProjectName:     w.ProjectName,
		Summary:         w.Summary,
		Recommendations: w.Recommendations,
		Comps:           parseComps(w.Comps),
	}, nil
}

func parseComps(raw json.RawMessage) []Comp {
	if len(raw) == 0 {
		return nil
	}
	data := []byte(raw)
	// double-encoded form: "[{...}]"
	var inner string
	if err := json.Unmarshal(data, &inner); err == nil {
		data = []byte(inner)
	}
	var wires []compWire
	if err := json.Unmarshal(data, &wires); err != nil {
		return nil
	}
	comps := make([]Comp, 0, len(wires))
	for _, w := range wires {
		comps = append(comps, Comp{
			Title:     firstNonEmpty(w.TitleUpper, w.Title),
			BoxOffice: firstNonEmpty(w.BoxOfficeUpper, w.BoxOffice),
			Notes:     firstNonEmpty(w.NotesUpper, w.Notes),
		})
	}
	return comps
}
