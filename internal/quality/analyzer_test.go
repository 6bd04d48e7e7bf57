package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"resumeparser/internal/extract"
	"resumeparser/internal/types"
)

func resumeWith(education, experience, projects int, skills ...string) types.ParsedResume {
	fill := func(n int, item string) []string {
		out := []string{}
		for i := 0; i < n; i++ {
			out = append(out, item)
		}
		return out
	}
	return types.ParsedResume{
		Education:  fill(education, "BSc"),
		Experience: fill(experience, "Engineer"),
		Projects:   fill(projects, "Compiler"),
		Skills:     types.NewSkillSet(skills...),
	}
}

func TestCompletenessScore(t *testing.T) {
	tests := []struct {
		name     string
		resume   types.ParsedResume
		expected int
	}{
		{"nothing", resumeWith(0, 0, 0), 0},
		{"one section", resumeWith(1, 0, 0), 25},
		{"two sections", resumeWith(1, 1, 0), 50},
		{"three sections", resumeWith(1, 1, 1), 75},
		{"all sections", resumeWith(1, 1, 1, "Go"), 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Analyze(tt.resume).CompletenessScore)
		})
	}
}

func TestEmptyResume(t *testing.T) {
	report := Analyze(types.ParsedResume{})

	assert.Equal(t, 0, report.CompletenessScore)
	assert.Equal(t, []string{"Education", "Experience", "Projects", "Skills"}, report.MissingSections)
	assert.Empty(t, report.Strengths)
	assert.NotNil(t, report.Strengths)
	assert.Equal(t, []string{
		RecommendMissingSections,
		RecommendMoreSkills,
		RecommendMoreProjects,
		RecommendVisibleEmail,
	}, report.Recommendations)
}

func TestRecommendationsAreAdditive(t *testing.T) {
	r := resumeWith(1, 1, 1, "Go", "Rust", "SQL")
	r.Contact.Email = "dev@example.com"

	report := Analyze(r)

	assert.Equal(t, 100, report.CompletenessScore)
	assert.Equal(t, []string{RecommendMoreSkills, RecommendMoreProjects}, report.Recommendations)
	assert.Equal(t, []string{
		"Education information found",
		"Work experience found",
		"Project portfolio found",
		"3 skills identified",
	}, report.Strengths)
	assert.Empty(t, report.MissingSections)
}

func TestNoRecommendationsForStrongResume(t *testing.T) {
	r := resumeWith(2, 3, 2, "Go", "Rust", "SQL", "Docker", "Linux")
	r.Contact.Email = "dev@example.com"

	assert.Empty(t, Analyze(r).Recommendations)
}

func TestAnalyzeDoesNotMutateInput(t *testing.T) {
	r := resumeWith(1, 0, 0, "Go")
	before := r.Skills.Items()

	Analyze(r)

	assert.Equal(t, []string{"BSc"}, r.Education)
	assert.Equal(t, before, r.Skills.Items())
}

func TestAnalyzeExtractedResume(t *testing.T) {
	r := extract.NormalizeAndExtract("EDUCATION B.Sc CS SKILLS Python, Git")
	report := Analyze(r)

	assert.Equal(t, 50, report.CompletenessScore)
	assert.Equal(t, []string{"Experience", "Projects"}, report.MissingSections)
	assert.Contains(t, report.Strengths, "2 skills identified")
}
