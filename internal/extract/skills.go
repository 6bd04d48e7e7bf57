package extract

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"resumeparser/internal/normalize"
	"resumeparser/internal/types"
	"resumeparser/internal/vocabulary"
)

// skillSeparators in priority order: only the first one present in a line splits it.
var skillSeparators = []string{",", ";", "|", "•", "·"}

const separatorChars = ",;|•·"

var (
	leadingConjunction  = regexp.MustCompile(`(?i)^(?:and|or|&)\s+`)
	trailingConjunction = regexp.MustCompile(`(?i)\s+(?:and|or|&)$`)
	trailingNumeric     = regexp.MustCompile(`(?:\s+\d+(?:\.\d+)*)+$`)
)

type dictionaryEntry struct {
	display string
	forms   []string
}

// skillMatcher finds dictionary skills in free text.
type skillMatcher struct {
	entries []dictionaryEntry
}

func newSkillMatcher(terms []vocabulary.SkillTerm) *skillMatcher {
	m := &skillMatcher{entries: make([]dictionaryEntry, 0, len(terms))}
	for _, t := range terms {
		display := t.Display
		if display == "" {
			display = displayCase(t.Term)
		}
		forms := append([]string{t.Term}, t.Variants...)
		m.entries = append(m.entries, dictionaryEntry{display: display, forms: forms})
	}
	return m
}

// match returns the display form of every dictionary skill mentioned in text,
// in dictionary order.
func (m *skillMatcher) match(text string) []string {
	lower := strings.ToLower(text)
	var found []string
	for _, entry := range m.entries {
		for _, form := range entry.forms {
			if containsTerm(lower, form) {
				found = append(found, entry.display)
				break
			}
		}
	}
	return found
}

// containsTerm reports whether term occurs in text without a letter or digit
// directly before or after it.
func containsTerm(text, term string) bool {
	if term == "" {
		return false
	}
	for offset := 0; offset <= len(text)-len(term); {
		i := strings.Index(text[offset:], term)
		if i < 0 {
			return false
		}
		start := offset + i
		end := start + len(term)
		before, _ := utf8.DecodeLastRuneInString(text[:start])
		after, _ := utf8.DecodeRuneInString(text[end:])
		if (start == 0 || !isWordRune(before)) && (end == len(text) || !isWordRune(after)) {
			return true
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		offset = start + size
	}
	return false
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// displayCase upper-cases short tokens (SQL, AWS) and title-cases the rest,
// capitalizing every letter that follows a non-letter (Node.Js, Scikit-Learn).
func displayCase(term string) string {
	if utf8.RuneCountInString(term) <= 3 {
		return strings.ToUpper(term)
	}
	var b strings.Builder
	prevLetter := false
	for _, r := range term {
		if prevLetter {
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(unicode.ToUpper(r))
		}
		prevLetter = unicode.IsLetter(r)
	}
	return b.String()
}

// collectSkills merges explicitly listed skills with dictionary matches from
// the section, topping up from the whole text when too few were found.
func (e *Extractor) collectSkills(lines []string, fullText string) types.SkillSet {
	var set types.SkillSet
	for _, s := range delimitedSkills(lines) {
		set.Add(s)
	}
	for _, s := range e.skills.match(strings.Join(lines, " ")) {
		set.Add(s)
	}
	if set.Len() < e.opts.SkillSupplementThreshold {
		for _, s := range e.skills.match(fullText) {
			set.Add(s)
		}
	}
	return set
}

// delimitedSkills reads skills written as lists, such as
// "Languages: Go, Python" or "Docker | Kubernetes".
func delimitedSkills(lines []string) []string {
	var skills []string
	for _, line := range lines {
		text := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), normalize.Bullet))
		if _, after, ok := strings.Cut(text, ":"); ok {
			text = strings.TrimSpace(after)
		}
		if text == "" {
			continue
		}

		var parts []string
		if sep := firstSeparator(text); sep != "" {
			parts = strings.Split(text, sep)
		} else if len(strings.Fields(text)) <= 3 {
			parts = []string{text}
		} else {
			// a sentence rather than a list
			continue
		}

		for _, part := range parts {
			if skill, ok := CleanSkill(part); ok {
				skills = append(skills, skill)
			}
		}
	}
	return skills
}

func firstSeparator(text string) string {
	for _, sep := range skillSeparators {
		if strings.Contains(text, sep) {
			return sep
		}
	}
	return ""
}

// CleanSkill strips conjunctions, version numbers and stray separators from a
// candidate skill. It reports false when nothing usable is left.
func CleanSkill(s string) (string, bool) {
	s = strings.Join(strings.Fields(s), " ")
	for {
		before := s
		s = strings.Trim(s, separatorChars+" ")
		s = leadingConjunction.ReplaceAllString(s, "")
		s = trailingConjunction.ReplaceAllString(s, "")
		s = trailingNumeric.ReplaceAllString(s, "")
		if s == before {
			break
		}
	}

	switch strings.ToLower(s) {
	case "and", "or", "&":
		return "", false
	}
	if utf8.RuneCountInString(s) <= 1 || strings.ContainsAny(s, separatorChars) {
		return "", false
	}
	if strings.IndexFunc(s, unicode.IsLetter) < 0 {
		return "", false
	}
	return s, true
}
