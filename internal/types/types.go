package types

// Strategy names the segmentation path used for a document
type Strategy string

const (
	StrategyBlob      Strategy = "blob"
	StrategyMultiline Strategy = "multiline"
)

// Section names tracked by the extractor, in canonical order
const (
	SectionEducation      = "education"
	SectionExperience     = "experience"
	SectionProjects       = "projects"
	SectionSkills         = "skills"
	SectionCertifications = "certifications"
	SectionAchievements   = "achievements"
)

// ContactInfo holds contact fields found anywhere in the resume text.
// A field is empty when no pattern matched it.
type ContactInfo struct {
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty"`
}

// IsEmpty reports whether no contact field was found
func (c ContactInfo) IsEmpty() bool {
	return c.Email == "" && c.Phone == "" && c.LinkedIn == "" && c.GitHub == ""
}

// Metadata describes how a resume was extracted
type Metadata struct {
	Strategy         Strategy `json:"strategy"`
	SectionsFound    []string `json:"sectionsFound"`
	TotalCharacters  int      `json:"totalCharacters"`
	TotalLines       int      `json:"totalLines"`
	ContactInfoFound bool     `json:"contactInfoFound"`
}

// ParsedResume is the structured record extracted from resume text
type ParsedResume struct {
	Contact        ContactInfo `json:"contact"`
	Education      []string    `json:"education"`
	Experience     []string    `json:"experience"`
	Projects       []string    `json:"projects"`
	Skills         SkillSet    `json:"skills"`
	Certifications []string    `json:"certifications"`
	Achievements   []string    `json:"achievements"`
	Metadata       Metadata    `json:"metadata"`
}

// QualityReport scores the completeness of a ParsedResume
type QualityReport struct {
	CompletenessScore int      `json:"completenessScore"` // 0, 25, 50, 75 or 100
	MissingSections   []string `json:"missingSections"`
	Strengths         []string `json:"strengths"`
	Recommendations   []string `json:"recommendations"`
}

// DocumentInfo describes the source document text was extracted from
type DocumentInfo struct {
	Filename   string `json:"filename,omitempty"`
	Format     string `json:"format"`
	Pages      int    `json:"pages,omitempty"`
	Title      string `json:"title,omitempty"`
	Author     string `json:"author,omitempty"`
	Subject    string `json:"subject,omitempty"`
	Creator    string `json:"creator,omitempty"`
	Producer   string `json:"producer,omitempty"`
	Characters int    `json:"characters"`
}

// ParseResult bundles everything produced for one document
type ParseResult struct {
	Document *DocumentInfo `json:"document,omitempty"`
	Resume   ParsedResume  `json:"resume"`
	Quality  QualityReport `json:"quality"`
}

// ParseTextInput is the request body for parsing raw resume text
type ParseTextInput struct {
	Text string `json:"text" validate:"required"`
}

// UploadSummary is returned after a resume document is uploaded
type UploadSummary struct {
	ID                  string        `json:"id"`
	Filename            string        `json:"filename"`
	CharactersExtracted int           `json:"charactersExtracted"`
	SkillsFound         int           `json:"skillsFound"`
	ProjectsFound       int           `json:"projectsFound"`
	Quality             QualityReport `json:"quality"`
}
