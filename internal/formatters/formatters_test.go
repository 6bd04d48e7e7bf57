package formatters

import (
	"encoding/json"
	"testing"

	"resumeparser/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() types.ParseResult {
	return types.ParseResult{
		Document: &types.DocumentInfo{Filename: "cv.pdf", Format: "pdf", Characters: 420},
		Resume: types.ParsedResume{
			Contact:   types.ContactInfo{Email: "jane@example.com"},
			Education: []string{"BSc Computer Science"},
			Skills:    types.NewSkillSet("Go", "SQL"),
			Metadata:  types.Metadata{Strategy: types.StrategyMultiline, TotalLines: 12},
		},
		Quality: types.QualityReport{
			CompletenessScore: 50,
			MissingSections:   []string{"experience", "projects"},
			Strengths:         []string{"Education section present"},
			Recommendations:   []string{"Add more projects"},
		},
	}
}

func TestFormatJSON(t *testing.T) {
	out, err := NewFormatterRegistry().Format(sampleResult(), "json")
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Contains(t, decoded, "resume")
	assert.Contains(t, decoded, "quality")
	assert.Contains(t, out, `"skills": [`)
}

func TestFormatResult(t *testing.T) {
	tests := []struct {
		format   string
		contains []string
	}{
		{
			format: "text",
			contains: []string{
				"=== PARSED RESUME ===",
				"Source: cv.pdf (pdf, 420 characters)",
				"Email: jane@example.com",
				"=== EDUCATION ===\n- BSc Computer Science",
				"=== EXPERIENCE ===\n(none)",
				"- Go\n- SQL",
				"Completeness Score: 50/100",
				"Missing Sections:\n- experience\n- projects",
			},
		},
		{
			format: "markdown",
			contains: []string{
				"# Parsed Resume",
				"**Strategy:** multiline",
				"## Education\n\n- BSc Computer Science",
				"## Projects\n\n_None found._",
				"## Resume Quality",
				"### Recommendations\n\n- Add more projects",
			},
		},
	}

	registry := NewFormatterRegistry()
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			out, err := registry.Format(sampleResult(), tt.format)
			require.NoError(t, err)
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestFormatQualityMarkdown(t *testing.T) {
	out, err := NewFormatterRegistry().Format(sampleResult().Quality, "markdown")
	require.NoError(t, err)
	assert.Contains(t, out, "# Resume Quality\n\n**Completeness Score:** 50/100")
	assert.Contains(t, out, "## Strengths")
}

func TestFormatUnknown(t *testing.T) {
	registry := NewFormatterRegistry()

	_, err := registry.Format(sampleResult(), "yaml")
	assert.Error(t, err)

	_, err = registry.Format(map[string]string{"a": "b"}, "text")
	assert.Error(t, err)

	_, err = (&ResultTextFormatter{}).Format("not a result")
	assert.Error(t, err)
}

func TestGetSupportedFormats(t *testing.T) {
	assert.ElementsMatch(t, []string{"json", "text", "markdown"}, NewFormatterRegistry().GetSupportedFormats())
}
