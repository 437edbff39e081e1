package report

import (
	"fmt"
	"io"
	"strings"

	api "github.com/verdict-ci/verdict/api/v1alpha1"
)

const (
	placeholderSummary         = "Executive summary pending."
	placeholderRecommendations = "Strategic recommendations pending."
	placeholderComps           = "No comparable titles provided."
)

// EstimatorView is the display-ready projection of an estimator
// result.
type EstimatorView struct {
	ProjectName     string
	Verdict         string
	Score           string
	Summary         string
	Recommendations string
	Comps           []api.Comp
}

// NewEstimatorView maps an estimator result to its report layout with
// placeholder copy for missing fields. A nil result yields an
// all-placeholder view.
func NewEstimatorView(projectName string, res *api.EstimatorResult) EstimatorView {
	if res == nil {
		res = &api.EstimatorResult{}
	}
	return EstimatorView{
		ProjectName:     fallback(firstOf(res.ProjectName, projectName), "Untitled Project"),
		Verdict:         fallback(res.Verdict, "N/A"),
		Score:           fmt.Sprintf("%.0f%%", res.Score),
		Summary:         fallback(res.Summary, placeholderSummary),
		Recommendations: fallback(res.Recommendations, placeholderRecommendations),
		Comps:           res.Comps,
	}
}

// WriteText renders the report layout as plain text.
func (v EstimatorView) WriteText(w io.Writer) {
	fmt.Fprintf(w, "%s\n", strings.ToUpper(v.ProjectName))
	fmt.Fprintf(w, "VERDICT: %s\n\n", v.Verdict)
	fmt.Fprintf(w, "Success Probability: %s\n\n", v.Score)

	fmt.Fprintf(w, "Market Comps\n")
	if len(v.Comps) == 0 {
		fmt.Fprintf(w, "  %s\n", placeholderComps)
	}
	for _, comp := range v.Comps {
		fmt.Fprintf(w, "  %s  %s\n", fallback(comp.Title, "Unknown Movie"), fallback(comp.BoxOffice, "N/A"))
		if comp.Notes != "" {
			fmt.Fprintf(w, "    %s\n", comp.Notes)
		}
	}

	fmt.Fprintf(w, "\nExecutive Analysis\n%s\n", v.Summary)
	fmt.Fprintf(w, "\nStrategic Recommendations\n%s\n", v.Recommendations)
}

func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
