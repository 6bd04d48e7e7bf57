package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSkillSetKeepsFirstCasing(t *testing.T) {
	s := NewSkillSet("Python", "python", "PYTHON", "Go")

	assert.Equal(t, []string{"Python", "Go"}, s.Items())
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Contains("pYtHoN"))
	assert.False(t, s.Contains("Rust"))
}

func TestSkillSetAddReportsInsertion(t *testing.T) {
	var s SkillSet

	assert.True(t, s.Add("SQL"))
	assert.False(t, s.Add("sql"))
	assert.False(t, s.Add(""))
	assert.Equal(t, []string{"SQL"}, s.Items())
}

func TestSkillSetItemsIsACopy(t *testing.T) {
	s := NewSkillSet("Docker")
	items := s.Items()
	items[0] = "changed"

	assert.Equal(t, []string{"Docker"}, s.Items())
}

func TestSkillSetJSON(t *testing.T) {
	var empty SkillSet
	data, err := json.Marshal(empty)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))

	var decoded SkillSet
	require.NoError(t, json.Unmarshal([]byte(`["React","react","Vue"]`), &decoded))
	assert.Equal(t, []string{"React", "Vue"}, decoded.Items())
}

func TestContactInfoIsEmpty(t *testing.T) {
	assert.True(t, ContactInfo{}.IsEmpty())
	assert.False(t, ContactInfo{GitHub: "github.com/jdoe"}.IsEmpty())

	data, err := json.Marshal(ContactInfo{})
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(data))
}
