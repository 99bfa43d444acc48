package services

import "regexp"

// Read-only lookup tables shared by every request.

var skillVocabulary = []string{
	// Programming languages
	"javascript", "typescript", "python", "java", "c#", "c++", "php", "go", "golang", "rust", "swift", "kotlin",
	// Frameworks & libraries
	"react", "vue", "angular", "node.js", "express", "django", "flask", "spring", "laravel",
	// Databases
	"mysql", "postgresql", "mongodb", "redis", "elasticsearch", "sqlite", "oracle",
	// Tools & platforms
	"docker", "kubernetes", "jenkins", "git", "github", "gitlab", "aws", "azure", "gcp",
	// Web
	"html", "css", "sass", "less", "webpack", "babel", "rest api", "graphql",
	// Methodologies
	"agile", "scrum", "devops", "ci/cd", "tdd", "microservices",
	// Marketing & design tooling
	"facebook ads", "google ads", "seo", "photoshop", "canva", "figma",
	// Soft skills (vi/en)
	"quản lý", "lãnh đạo", "giao tiếp", "teamwork", "problem solving", "analytical",
}

var experienceKeywords = []string{
	"kinh nghiệm", "experience", "làm việc", "work", "công việc", "job",
	"dự án", "project", "phát triển", "develop", "xây dựng", "build",
}

var educationKeywords = []string{
	"đại học", "university", "college", "học viện", "trường",
	"cử nhân", "bachelor", "thạc sĩ", "master", "tiến sĩ", "phd", "doctorate",
	"bằng cấp", "degree", "chứng chỉ", "certificate", "khóa học", "course",
}

var achievementKeywords = []string{
	"thành tích", "achievement", "đạt được", "accomplish", "giải thưởng", "award",
	"chịu trách nhiệm", "responsible", "quản lý", "manage", "phát triển", "develop",
	"tăng trưởng", "growth", "cải thiện", "improve", "tối ưu", "optimize",
}

var (
	sentenceSplitPattern = regexp.MustCompile(`[.!?]+`)
	yearsPattern         = regexp.MustCompile(`(?i)\d+\s*(?:năm|years?)`)
	skillYearsPattern    = regexp.MustCompile(`(?i)\d+\s*(?:năm|years?)\s*(?:kinh nghiệm|experience)\s*(?:với|with|in)\s*([\p{L}0-9.+#\-]+)`)
)

const (
	NoExperienceFound = "No specific experience information found"
	NoEducationFound  = "No specific education information found"
)

// sampleResumeText is the labeled placeholder used when a PDF cannot be read
// and as the profile behind demo scoring.
const sampleResumeText = `
[SAMPLE CV - PLACEHOLDER CONTENT, NOT EXTRACTED FROM THE UPLOADED FILE]
TRAM KHOI NGUYEN
Email: tramkhoi@email.com
Phone: 0123456789

WORK EXPERIENCE:
- 3 years experience with marketing at several agencies.
- Specialized in digital marketing and social media campaigns.
- Hands-on work with Facebook Ads and Google Ads for retail clients.

SKILLS:
- JavaScript, HTML, CSS.
- Digital marketing, data analysis, teamwork.
- Photoshop, Canva.

EDUCATION:
- Bachelor degree in Marketing, University of Economics.
- Online marketing certificate course.

PROJECTS:
- Managed advertising campaigns for 10+ clients as the responsible account lead.
- Achieved 200% growth in website traffic within one year.
- Optimized campaign spend to reach an average ROI of 300%.
`
