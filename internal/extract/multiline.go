package extract

import (
	"regexp"
	"strings"
	"unicode"

	"resumeparser/internal/types"
)

// multilineSections are scanned in this order for line-structured text.
var multilineSections = []string{
	types.SectionEducation,
	types.SectionExperience,
	types.SectionProjects,
	types.SectionSkills,
	types.SectionCertifications,
	types.SectionAchievements,
}

var capsHeader = regexp.MustCompile(`^[A-Z][A-Z\s]+$`)

func (e *Extractor) extractMultiline(lines []string, text string, r *types.ParsedResume) {
	for _, section := range multilineSections {
		items := e.scanSection(lines, exactOpener(section))
		if len(items) == 0 {
			items = e.scanSection(lines, synonymOpener(e.vocab.SynonymsFor(section)))
		}

		if section == types.SectionSkills {
			r.Skills = e.collectSkills(items, text)
			continue
		}
		assign(r, section, items)
	}
}

// scanSection collects the lines after an opening line up to the next
// header. A later opening line resumes collection without being collected.
func (e *Extractor) scanSection(lines []string, opens func(string) bool) []string {
	var items []string
	found := false
	for _, line := range lines {
		if opens(line) {
			found = true
			continue
		}
		if !found {
			continue
		}
		if e.IsSectionHeader(line) {
			break
		}
		items = append(items, line)
	}
	return items
}

// exactOpener matches lines containing a casing variant of the section name.
func exactOpener(section string) func(string) bool {
	upper := strings.ToUpper(section)
	title := strings.ToUpper(section[:1]) + section[1:]
	variants := []string{upper, title, section, upper + "S", title + "s"}
	return func(line string) bool {
		for _, v := range variants {
			if strings.Contains(line, v) {
				return true
			}
		}
		return false
	}
}

func synonymOpener(synonyms []string) func(string) bool {
	return func(line string) bool {
		lower := strings.ToLower(line)
		for _, s := range synonyms {
			if strings.Contains(lower, s) {
				return true
			}
		}
		return false
	}
}

// IsSectionHeader reports whether line looks like a section title: a known
// header word, or a short line written entirely in capitals.
func (e *Extractor) IsSectionHeader(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	if e.vocab.IsHeaderTerm(strings.ToLower(line)) {
		return true
	}
	if len(strings.Fields(line)) > 4 {
		return false
	}
	return isUpper(line) || capsHeader.MatchString(line)
}

// IsSectionHeader classifies line with the built-in vocabulary.
func IsSectionHeader(line string) bool {
	return defaultExtractor().IsSectionHeader(line)
}

// isUpper reports whether s has at least one cased letter and none in lower case.
func isUpper(s string) bool {
	cased := false
	for _, r := range s {
		switch {
		case unicode.IsLower(r) || unicode.IsTitle(r):
			return false
		case unicode.IsUpper(r):
			cased = true
		}
	}
	return cased
}
