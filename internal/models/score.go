package models

const (
	ProviderGemini   = "gemini"
	ProviderClaude   = "claude"
	ProviderFallback = "fallback"
)

type ScoreReport struct {
	Score           int      `json:"score"`
	Summary         string   `json:"summary"`
	Strengths       []string `json:"strengths"`
	Weaknesses      []string `json:"weaknesses"`
	MatchingSkills  []string `json:"matchingSkills"`
	MissingSkills   []string `json:"missingSkills"`
	Suggestions     []string `json:"suggestions"`
	ExperienceMatch string   `json:"experienceMatch"`
	EducationMatch  string   `json:"educationMatch"`

	// Degraded is set when the fallback scorer replaced a failed AI call.
	Degraded bool   `json:"degraded"`
	Provider string `json:"provider"`
}

// ClampScore bounds a raw score to [0,100], rounding half away from zero.
func ClampScore(raw float64) int {
	if raw != raw { // NaN
		return 0
	}
	if raw <= 0 {
		return 0
	}
	if raw >= 100 {
		return 100
	}
	return int(raw + 0.5)
}

type CVAnalysisPayload struct {
	ExtractedText string   `json:"extractedText"`
	Skills        []string `json:"skills"`
	Experience    string   `json:"experience"`
	Education     string   `json:"education"`
	KeyPoints     []string `json:"keyPoints"`
}

type JobPayload struct {
	NameJob     string `json:"nameJob"`
	CompanyName string `json:"companyName,omitempty"`
	Request     string `json:"request"`
	Desc        string `json:"desc"`
	Experience  string `json:"experience,omitempty"`
	Education   string `json:"education,omitempty"`
	TypeWork    string `json:"typeWork,omitempty"`
}

// CVScoringPromptData is the request handed to the AI scorer.
type CVScoringPromptData struct {
	CVAnalysis CVAnalysisPayload `json:"cvAnalysis"`
	Job        JobPayload        `json:"job"`
}

func NewCVScoringPromptData(analysis *AnalysisRecord, job *JobRequirement) CVScoringPromptData {
	return CVScoringPromptData{
		CVAnalysis: CVAnalysisPayload{
			ExtractedText: analysis.ExtractedText,
			Skills:        analysis.Skills,
			Experience:    analysis.Experience,
			Education:     analysis.Education,
			KeyPoints:     analysis.KeyPoints,
		},
		Job: JobPayload{
			NameJob:     job.Title,
			CompanyName: job.CompanyName,
			Request:     job.RequirementText,
			Desc:        job.Description,
			Experience:  job.ExperienceLevel,
			Education:   job.EducationLevel,
			TypeWork:    job.WorkType,
		},
	}
}

// GeminiCVScoringResponse is the raw AI answer; its fields match ScoreReport.
type GeminiCVScoringResponse struct {
	Score           float64  `json:"score"`
	Summary         string   `json:"summary"`
	Strengths       []string `json:"strengths"`
	Weaknesses      []string `json:"weaknesses"`
	MatchingSkills  []string `json:"matchingSkills"`
	MissingSkills   []string `json:"missingSkills"`
	Suggestions     []string `json:"suggestions"`
	ExperienceMatch string   `json:"experienceMatch"`
	EducationMatch  string   `json:"educationMatch"`
}

// DemoRequest asks for a score without a document.
type DemoRequest struct {
	JobID uint `json:"jobId" validate:"required,gt=0"`
}
