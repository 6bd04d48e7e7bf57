// Package extract turns normalized resume text into a types.ParsedResume.
//
// Text with only a few physical lines is treated as a blob and sliced on
// section keywords; anything longer is scanned line by line using header
// heuristics. Extraction never fails: input without recognizable structure
// yields empty sections.
package extract

import (
	"strings"
	"sync"
	"unicode/utf8"

	"resumeparser/internal/normalize"
	"resumeparser/internal/types"
	"resumeparser/internal/vocabulary"
)

// Options tune the extraction heuristics.
type Options struct {
	// BlobLineThreshold is the largest physical line count still treated as a blob.
	BlobLineThreshold int
	// SkillSupplementThreshold is the skill count below which the whole text
	// is also scanned with the skill dictionary.
	SkillSupplementThreshold int
}

// DefaultOptions returns the thresholds tuned against common PDF producers.
func DefaultOptions() Options {
	return Options{
		BlobLineThreshold:        3,
		SkillSupplementThreshold: 5,
	}
}

// Extractor is safe for concurrent use.
type Extractor struct {
	vocab  *vocabulary.Vocabulary
	opts   Options
	blob   []blobPattern
	skills *skillMatcher
}

// New builds an extractor for vocab. A nil vocab means the built-in one.
func New(vocab *vocabulary.Vocabulary, opts Options) *Extractor {
	if vocab == nil {
		vocab = vocabulary.Default()
	}
	defaults := DefaultOptions()
	if opts.BlobLineThreshold <= 0 {
		opts.BlobLineThreshold = defaults.BlobLineThreshold
	}
	if opts.SkillSupplementThreshold <= 0 {
		opts.SkillSupplementThreshold = defaults.SkillSupplementThreshold
	}

	return &Extractor{
		vocab:  vocab,
		opts:   opts,
		blob:   compileBlobPatterns(vocab.BlobKeywords),
		skills: newSkillMatcher(vocab.Skills),
	}
}

var defaultExtractor = sync.OnceValue(func() *Extractor {
	return New(vocabulary.Default(), DefaultOptions())
})

// NormalizeAndExtract extracts raw with the built-in vocabulary and options.
func NormalizeAndExtract(raw string) types.ParsedResume {
	return defaultExtractor().Extract(raw)
}

// Options returns the effective options.
func (e *Extractor) Options() Options {
	return e.opts
}

// Extract normalizes raw and extracts every section from it.
func (e *Extractor) Extract(raw string) types.ParsedResume {
	lined := normalize.Lines(raw)
	lineCount := physicalLines(lined)

	var resume types.ParsedResume
	if lineCount <= e.opts.BlobLineThreshold {
		e.extractBlob(normalize.Text(raw), &resume)
		resume.Metadata.Strategy = types.StrategyBlob
	} else {
		e.extractMultiline(normalize.SplitLines(lined), lined, &resume)
		resume.Metadata.Strategy = types.StrategyMultiline
	}

	resume.Contact = ExtractContact(raw)
	fillEmpty(&resume)

	resume.Metadata.TotalCharacters = utf8.RuneCountInString(raw)
	resume.Metadata.TotalLines = lineCount
	resume.Metadata.ContactInfoFound = !resume.Contact.IsEmpty()
	resume.Metadata.SectionsFound = sectionsFound(resume)
	return resume
}

// physicalLines counts lines, ignoring trailing newlines.
func physicalLines(s string) int {
	return strings.Count(strings.TrimRight(s, "\n"), "\n") + 1
}

func sectionsFound(r types.ParsedResume) []string {
	found := []string{}
	if len(r.Education) > 0 {
		found = append(found, types.SectionEducation)
	}
	if len(r.Experience) > 0 {
		found = append(found, types.SectionExperience)
	}
	if len(r.Projects) > 0 {
		found = append(found, types.SectionProjects)
	}
	if r.Skills.Len() > 0 {
		found = append(found, types.SectionSkills)
	}
	return found
}

func fillEmpty(r *types.ParsedResume) {
	for _, section := range []*[]string{&r.Education, &r.Experience, &r.Projects, &r.Certifications, &r.Achievements} {
		if *section == nil {
			*section = []string{}
		}
	}
}

// assign stores items in the section field named by section.
func assign(r *types.ParsedResume, section string, items []string) {
	switch section {
	case types.SectionEducation:
		r.Education = items
	case types.SectionExperience:
		r.Experience = items
	case types.SectionProjects:
		r.Projects = items
	case types.SectionCertifications:
		r.Certifications = items
	case types.SectionAchievements:
		r.Achievements = items
	}
}
