package types

import (
	"encoding/json"
	"strings"
)

// SkillSet is an insertion-ordered set of skill labels compared case-insensitively.
// The first casing seen for a label is the one kept. The zero value is ready to use.
type SkillSet struct {
	items []string
	index map[string]struct{}
}

// NewSkillSet builds a set from labels, dropping case-insensitive duplicates
func NewSkillSet(labels ...string) SkillSet {
	var s SkillSet
	for _, label := range labels {
		s.Add(label)
	}
	return s
}

// Add inserts label unless an equal label is already present. Empty labels are ignored.
func (s *SkillSet) Add(label string) bool {
	if label == "" {
		return false
	}
	key := strings.ToLower(label)
	if s.index == nil {
		s.index = make(map[string]struct{})
	}
	if _, ok := s.index[key]; ok {
		return false
	}
	s.index[key] = struct{}{}
	s.items = append(s.items, label)
	return true
}

// Contains reports whether label is in the set, ignoring case
func (s SkillSet) Contains(label string) bool {
	_, ok := s.index[strings.ToLower(label)]
	return ok
}

func (s SkillSet) Len() int {
	return len(s.items)
}

// Items returns a copy of the labels in insertion order
func (s SkillSet) Items() []string {
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}

func (s SkillSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Items())
}

func (s *SkillSet) UnmarshalJSON(data []byte) error {
	var labels []string
	if err := json.Unmarshal(data, &labels); err != nil {
		return err
	}
	*s = NewSkillSet(labels...)
	return nil
}
