package vocabulary

import "resumeparser/internal/types"

var defaultSectionHeaders = []string{
	"education", "experience", "skills", "projects", "work", "employment",
	"academic", "qualifications", "certifications", "languages", "interests",
	"achievements", "awards", "publications", "references", "contact",
	"summary", "objective", "profile", "technical skills", "professional experience",
}

var defaultBlobKeywords = []string{
	"EDUCATION", "SKILLS", "PROJECTS", "EXPERIENCE", "CERTIFICATIONS", "ACHIEVEMENTS",
}

var defaultSynonyms = map[string][]string{
	types.SectionEducation:      {"education", "academic", "qualifications", "degree", "university", "college"},
	types.SectionExperience:     {"experience", "work", "employment", "career", "professional"},
	types.SectionProjects:       {"projects", "project", "portfolio", "works"},
	types.SectionSkills:         {"skills", "technical skills", "technologies", "programming", "tools"},
	types.SectionCertifications: {"certifications", "certification", "certificates", "licenses"},
	types.SectionAchievements:   {"achievements", "awards", "honors", "accomplishments"},
}

var defaultSkills = []string{
	// languages
	"python", "java", "javascript", "typescript", "c++", "c#", "ruby", "go", "rust",
	"php", "swift", "kotlin", "html", "css",
	// frameworks
	"react", "angular", "vue", "node.js", "express", "django", "flask", "spring", "rails",
	// data stores
	"sql", "mysql", "postgresql", "mongodb", "redis", "elasticsearch", "firebase",
	// cloud and delivery
	"aws", "azure", "gcp", "docker", "kubernetes", "terraform", "jenkins",
	"git", "github", "gitlab",
	// data and ml
	"machine learning", "deep learning", "tensorflow", "pytorch", "scikit-learn",
	"pandas", "numpy", "data analysis", "data visualization", "tableau", "power bi", "excel",
	// process
	"agile", "scrum", "jira", "confluence",
	// architecture and systems
	"rest api", "graphql", "microservices", "linux", "unix", "bash", "powershell",
	"networking", "security",
	// design
	"figma", "adobe", "photoshop", "illustrator", "ui/ux", "responsive design",
}

// Default returns a fresh copy of the built-in vocabulary.
func Default() *Vocabulary {
	v := &Vocabulary{
		SectionHeaders: append([]string(nil), defaultSectionHeaders...),
		BlobKeywords:   append([]string(nil), defaultBlobKeywords...),
		Synonyms:       make(map[string][]string, len(defaultSynonyms)),
		Skills:         make([]SkillTerm, 0, len(defaultSkills)),
	}
	for name, words := range defaultSynonyms {
		v.Synonyms[name] = append([]string(nil), words...)
	}
	for _, term := range defaultSkills {
		v.Skills = append(v.Skills, SkillTerm{Term: term})
	}
	v.Normalize()
	return v
}
