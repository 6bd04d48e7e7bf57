// Package quality scores how complete an extracted resume is.
package quality

import (
	"fmt"
	"math"

	"resumeparser/internal/types"
)

// Thresholds below which a recommendation is emitted.
const (
	CompletenessThreshold = 75
	MinSkills             = 5
	MinProjects           = 2
)

// Recommendation texts, in the order they are emitted.
const (
	RecommendMissingSections = "Add missing sections to improve resume completeness"
	RecommendMoreSkills      = "Add more technical skills to showcase your capabilities"
	RecommendMoreProjects    = "Include more projects to demonstrate practical experience"
	RecommendVisibleEmail    = "Ensure your email is clearly visible on your resume"
)

type check struct {
	missing  string
	present  bool
	strength string
}

// Analyze derives a QualityReport from r without modifying it.
func Analyze(r types.ParsedResume) types.QualityReport {
	skillCount := r.Skills.Len()
	checks := []check{
		{"Education", len(r.Education) > 0, "Education information found"},
		{"Experience", len(r.Experience) > 0, "Work experience found"},
		{"Projects", len(r.Projects) > 0, "Project portfolio found"},
		{"Skills", skillCount > 0, fmt.Sprintf("%d skills identified", skillCount)},
	}

	report := types.QualityReport{
		MissingSections: []string{},
		Strengths:       []string{},
		Recommendations: []string{},
	}

	present := 0
	for _, c := range checks {
		if c.present {
			present++
			report.Strengths = append(report.Strengths, c.strength)
		} else {
			report.MissingSections = append(report.MissingSections, c.missing)
		}
	}
	report.CompletenessScore = int(math.Round(float64(present) / float64(len(checks)) * 100))

	if report.CompletenessScore < CompletenessThreshold {
		report.Recommendations = append(report.Recommendations, RecommendMissingSections)
	}
	if skillCount < MinSkills {
		report.Recommendations = append(report.Recommendations, RecommendMoreSkills)
	}
	if len(r.Projects) < MinProjects {
		report.Recommendations = append(report.Recommendations, RecommendMoreProjects)
	}
	if r.Contact.Email == "" {
		report.Recommendations = append(report.Recommendations, RecommendVisibleEmail)
	}
	return report
}
