package extract

import (
	"regexp"

	"resumeparser/internal/types"
)

var (
	emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

	// Tried in order; the first pattern with a match wins.
	phonePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\(?\b\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}\b`),
		regexp.MustCompile(`\+\d{1,3}[-.\s]?\d{1,4}[-.\s]?\d{1,4}[-.\s]?\d{1,4}\b`),
		regexp.MustCompile(`\b\d{10}\b`),
	}

	linkedInPattern = regexp.MustCompile(`linkedin\.com/in/[A-Za-z0-9-]+`)
	gitHubPattern   = regexp.MustCompile(`github\.com/[A-Za-z0-9-]+`)
)

// ExtractContact pattern-matches contact fields anywhere in text.
func ExtractContact(text string) types.ContactInfo {
	var c types.ContactInfo
	c.Email = emailPattern.FindString(text)
	for _, p := range phonePatterns {
		if m := p.FindString(text); m != "" {
			c.Phone = m
			break
		}
	}
	c.LinkedIn = linkedInPattern.FindString(text)
	c.GitHub = gitHubPattern.FindString(text)
	return c
}
