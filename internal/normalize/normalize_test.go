package normalize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"collapses whitespace and newlines", "EDUCATION\n\n  B.Sc   CS\tSKILLS", "EDUCATION B.Sc CS SKILLS"},
		{"splits camel case", "SoftwareEngineerAtAcme", "Software Engineer At Acme"},
		{"splits sentence join", "Shipped the release.Next we scaled", "Shipped the release. Next we scaled"},
		{"keeps degree abbreviations", "B.Sc Computer Science, Ph.D Physics", "B.Sc Computer Science, Ph.D Physics"},
		{"strips trailing page number", "Built APIs in Go 3", "Built APIs in Go"},
		{"strips repeated page numbers", "Built APIs 2 of 3", "Built APIs 2 of"},
		{"keeps phone numbers", "call 555-123-4567", "call 555-123-4567"},
		{"standardizes bullet glyphs", "Skills ▪Go ◦Rust · SQL", "Skills • Go • Rust • SQL"},
		{"standardizes leading dash", "- Built a thing", "• Built a thing"},
		{"empty input", "", ""},
		{"only whitespace", " \n\t ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Text(tt.input))
		})
	}
}

func TestLines(t *testing.T) {
	input := "  John Doe  \r\nEXPERIENCE\n-  Led   migration\n* Wrote docs\n\nPage 2\n"
	expected := "John Doe\nEXPERIENCE\n• Led migration\n• Wrote docs\n\nPage\n"

	assert.Equal(t, expected, Lines(input))
}

func TestLinesKeepsLineCount(t *testing.T) {
	input := "a\n\nb\nc\n"
	assert.Equal(t, strings.Count(input, "\n"), strings.Count(Lines(input), "\n"))
}

func TestNormalizationIsIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"x •5",
		"- 12",
		"-• x",
		"••b",
		"a •",
		"aBcD ef.Gh 4 5",
		"EDUCATION B.Sc CS SKILLS Python, Git",
		"Name  12\n  + item one\n\t◦ item two 7",
		"SKILLS\nPython, SQL, React\n\n\nEXPERIENCE\n- Built things 2020",
		"\x00\xff garbage ‣ text",
	}

	for _, input := range inputs {
		once := Text(input)
		assert.Equal(t, once, Text(once), "Text(%q)", input)

		onceLines := Lines(input)
		assert.Equal(t, onceLines, Lines(onceLines), "Lines(%q)", input)
	}
}

func TestSplitLines(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitLines("  a \n\n b\n"))
	assert.Nil(t, SplitLines(""))
}

func BenchmarkText(b *testing.B) {
	input := strings.Repeat("SoftwareEngineer • Built APIs.Shipped features 12\n", 200)
	for b.Loop() {
		Text(input)
	}
}
