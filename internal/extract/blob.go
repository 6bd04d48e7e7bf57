package extract

import (
	"regexp"
	"strings"

	"resumeparser/internal/normalize"
	"resumeparser/internal/types"
)

// blobPattern locates one keyword's segment. The segment runs from the
// whitespace after the first occurrence of the keyword up to the earliest
// occurrence of any other keyword, or the end of the text. Both searches
// ignore case and word boundaries.
type blobPattern struct {
	section string
	start   *regexp.Regexp
	stop    *regexp.Regexp
}

func compileBlobPatterns(keywords []string) []blobPattern {
	patterns := make([]blobPattern, 0, len(keywords))
	for i, kw := range keywords {
		var others []string
		for j, other := range keywords {
			if j != i && !strings.EqualFold(other, kw) {
				others = append(others, regexp.QuoteMeta(other))
			}
		}

		p := blobPattern{
			section: strings.ToLower(kw),
			start:   regexp.MustCompile(`(?i)` + regexp.QuoteMeta(kw) + `\s+`),
		}
		if len(others) > 0 {
			p.stop = regexp.MustCompile(`(?i)` + strings.Join(others, "|"))
		}
		patterns = append(patterns, p)
	}
	return patterns
}

// segment returns the text captured for the keyword and whether the keyword occurred.
func (p blobPattern) segment(text string) (string, bool) {
	loc := p.start.FindStringIndex(text)
	if loc == nil {
		return "", false
	}
	rest := text[loc[1]:]
	if p.stop != nil {
		if end := p.stop.FindStringIndex(rest); end != nil {
			rest = rest[:end[0]]
		}
	}
	return strings.TrimSpace(rest), true
}

func (e *Extractor) extractBlob(text string, r *types.ParsedResume) {
	var skillFragments []string
	for _, p := range e.blob {
		segment, ok := p.segment(text)
		if !ok {
			continue
		}
		items := splitBullets(segment)
		if p.section == types.SectionSkills {
			skillFragments = items
			continue
		}
		assign(r, p.section, items)
	}
	r.Skills = e.collectSkills(skillFragments, text)
}

// splitBullets splits a segment on the canonical bullet marker.
func splitBullets(segment string) []string {
	var items []string
	for _, part := range strings.Split(segment, normalize.Bullet) {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}
