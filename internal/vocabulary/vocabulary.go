// Package vocabulary holds the swappable word lists that drive section
// detection and skill matching.
package vocabulary

import (
	"fmt"
	"strings"
	"sync/atomic"

	"gopkg.in/yaml.v3"
)

// SkillTerm is a dictionary skill. Term and Variants are matched against
// lowercased text; Display overrides the derived display casing.
type SkillTerm struct {
	Term     string   `yaml:"term"`
	Display  string   `yaml:"display,omitempty"`
	Variants []string `yaml:"variants,omitempty"`
}

// UnmarshalYAML accepts either a bare string or a mapping.
func (s *SkillTerm) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		s.Term = node.Value
		return nil
	}
	type plain SkillTerm
	return node.Decode((*plain)(s))
}

// MarshalYAML writes terms without extras as bare strings.
func (s SkillTerm) MarshalYAML() (any, error) {
	if s.Display == "" && len(s.Variants) == 0 {
		return s.Term, nil
	}
	type plain SkillTerm
	return plain(s), nil
}

// Vocabulary is immutable once built. Use Holder to swap it at runtime.
type Vocabulary struct {
	// SectionHeaders are lines that always count as section headers.
	SectionHeaders []string `yaml:"sectionHeaders"`
	// BlobKeywords slice single-line text into sections, in layout order.
	BlobKeywords []string `yaml:"blobKeywords"`
	// Synonyms per section name for the fallback line scan.
	Synonyms map[string][]string `yaml:"synonyms"`
	Skills   []SkillTerm         `yaml:"skills"`

	headerSet map[string]struct{}
}

// Normalize lowercases match terms, drops blanks and rebuilds lookup tables.
func (v *Vocabulary) Normalize() {
	v.SectionHeaders = lowerAll(v.SectionHeaders)
	v.BlobKeywords = upperAll(v.BlobKeywords)
	for name, words := range v.Synonyms {
		v.Synonyms[name] = lowerAll(words)
	}

	skills := v.Skills[:0]
	for _, skill := range v.Skills {
		skill.Term = strings.ToLower(strings.TrimSpace(skill.Term))
		if skill.Term == "" {
			continue
		}
		skill.Variants = lowerAll(skill.Variants)
		skills = append(skills, skill)
	}
	v.Skills = skills

	v.headerSet = make(map[string]struct{}, len(v.SectionHeaders))
	for _, h := range v.SectionHeaders {
		v.headerSet[h] = struct{}{}
	}
}

// Validate reports vocabularies the extractor cannot work with.
func (v *Vocabulary) Validate() error {
	if len(v.BlobKeywords) == 0 {
		return fmt.Errorf("vocabulary has no blob keywords")
	}
	if len(v.Skills) == 0 {
		return fmt.Errorf("vocabulary has no skills")
	}
	for _, kw := range v.BlobKeywords {
		if strings.ContainsAny(kw, " \t\n") {
			return fmt.Errorf("blob keyword %q must be a single word", kw)
		}
	}
	return nil
}

// IsHeaderTerm reports whether the trimmed, lowercased line is a known header.
func (v *Vocabulary) IsHeaderTerm(lowerLine string) bool {
	_, ok := v.headerSet[lowerLine]
	return ok
}

// SynonymsFor returns the fallback words for a section.
func (v *Vocabulary) SynonymsFor(section string) []string {
	return v.Synonyms[section]
}

// Stats summarizes the vocabulary size.
func (v *Vocabulary) Stats() map[string]int {
	return map[string]int{
		"section_headers": len(v.SectionHeaders),
		"blob_keywords":   len(v.BlobKeywords),
		"synonym_groups":  len(v.Synonyms),
		"skills":          len(v.Skills),
	}
}

// Holder publishes the current vocabulary to concurrent readers.
type Holder struct {
	current atomic.Pointer[Vocabulary]
}

// NewHolder returns a holder seeded with v, or with Default when v is nil.
func NewHolder(v *Vocabulary) *Holder {
	if v == nil {
		v = Default()
	}
	h := &Holder{}
	h.current.Store(v)
	return h
}

func (h *Holder) Get() *Vocabulary {
	return h.current.Load()
}

func (h *Holder) Set(v *Vocabulary) {
	h.current.Store(v)
}

func lowerAll(words []string) []string {
	var out []string
	for _, w := range words {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			out = append(out, w)
		}
	}
	return out
}

func upperAll(words []string) []string {
	var out []string
	for _, w := range words {
		if w = strings.ToUpper(strings.TrimSpace(w)); w != "" {
			out = append(out, w)
		}
	}
	return out
}
