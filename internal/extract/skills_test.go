package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"resumeparser/internal/types"
	"resumeparser/internal/vocabulary"
)

func TestCleanSkill(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		ok       bool
	}{
		{"  Python  ", "Python", true},
		{"and Docker", "Docker", true},
		{"Kubernetes or", "Kubernetes", true},
		{"& Terraform", "Terraform", true},
		{"and or Go", "Go", true},
		{"Java 8", "Java", true},
		{"Python 3.10", "Python", true},
		{"Windows 10 Pro", "Windows 10 Pro", true},
		{"Machine   Learning", "Machine Learning", true},
		{"• React", "React", true},
		{"and", "", false},
		{"R", "", false},
		{"2020", "", false},
		{"Python; Go", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := CleanSkill(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestDelimitedSkills(t *testing.T) {
	tests := []struct {
		name     string
		lines    []string
		expected []string
	}{
		{"comma list", []string{"Python, SQL, React"}, []string{"Python", "SQL", "React"}},
		{"category label discarded", []string{"Languages: Go, Rust"}, []string{"Go", "Rust"}},
		{"comma wins over semicolon", []string{"Go; Rust, Zig"}, []string{"Zig"}},
		{"pipe list", []string{"Docker | Helm | Argo CD"}, []string{"Docker", "Helm", "Argo CD"}},
		{"bullet prefix is not a delimiter", []string{"• Data Modeling"}, []string{"Data Modeling"}},
		{"inline bullets", []string{"Go • Rust • Zig"}, []string{"Go", "Rust", "Zig"}},
		{"short phrase kept whole", []string{"Distributed Systems"}, []string{"Distributed Systems"}},
		{"sentence dropped", []string{"• Built scalable services with Go"}, nil},
		{"conjunction stripped", []string{"Python, Go and Rust"}, []string{"Python", "Go and Rust"}},
		{"label only", []string{"Tools:"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, delimitedSkills(tt.lines))
		})
	}
}

func TestDuplicateSkillsCollapse(t *testing.T) {
	e := New(nil, DefaultOptions())
	skills := e.collectSkills([]string{"Python, python, PYTHON"}, "Python, python, PYTHON")

	assert.Equal(t, []string{"Python"}, skills.Items())
}

func TestDisplayCase(t *testing.T) {
	tests := map[string]string{
		"sql":          "SQL",
		"c++":          "C++",
		"go":           "GO",
		"python":       "Python",
		"node.js":      "Node.Js",
		"scikit-learn": "Scikit-Learn",
		"power bi":     "Power Bi",
		"ui/ux":        "Ui/Ux",
	}

	for term, expected := range tests {
		assert.Equal(t, expected, displayCase(term), term)
	}
}

func TestContainsTerm(t *testing.T) {
	tests := []struct {
		text     string
		term     string
		expected bool
	}{
		{"we use go daily", "go", true},
		{"a good algorithm", "go", false},
		{"javascript only", "java", false},
		{"java, javascript", "java", true},
		{"modern c++ and rust", "c++", true},
		{"node.js services", "node.js", true},
		{"trust the process", "rust", false},
		{"excellent", "excel", false},
		{"go", "go", true},
		{"", "go", false},
	}

	for _, tt := range tests {
		t.Run(tt.text+"/"+tt.term, func(t *testing.T) {
			assert.Equal(t, tt.expected, containsTerm(tt.text, tt.term))
		})
	}
}

func TestSkillSupplementThreshold(t *testing.T) {
	text := "Used Docker and Kubernetes on AWS"

	below := New(nil, Options{SkillSupplementThreshold: 5}).collectSkills([]string{"Go"}, text)
	assert.Equal(t, []string{"Go", "AWS", "Docker", "Kubernetes"}, below.Items())

	atThreshold := New(nil, Options{SkillSupplementThreshold: 1}).collectSkills([]string{"Go"}, text)
	assert.Equal(t, []string{"Go"}, atThreshold.Items())
}

func TestDictionaryVariants(t *testing.T) {
	m := newSkillMatcher([]vocabulary.SkillTerm{
		{Term: "javascript", Display: "JavaScript", Variants: []string{"js"}},
		{Term: "postgresql", Variants: []string{"postgres"}},
	})

	assert.Equal(t, []string{"JavaScript", "Postgresql"}, m.match("Wrote JS against Postgres"))
	assert.Empty(t, m.match("nothing relevant"))
}

func TestSkillSetNeverHoldsSeparators(t *testing.T) {
	r := NormalizeAndExtract("SKILLS Go; Rust, Python and, & SQL 2, Docker | Helm")
	for _, s := range r.Skills.Items() {
		assert.NotContains(t, s, ",")
		assert.NotContains(t, s, ";")
		assert.NotContains(t, s, "|")
	}
	assert.IsType(t, types.SkillSet{}, r.Skills)
}
