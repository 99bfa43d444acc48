package services

import (
	"fmt"
	"strings"

	"jobify/cv-scorer/internal/models"
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildCVScoringPrompt creates the prompt that scores one CV against one job.
// rubricContext may be empty when retrieval is disabled.
func (pb *PromptBuilder) BuildCVScoringPrompt(data models.CVScoringPromptData, rubricContext string) string {
	job := data.Job
	cv := data.CVAnalysis

	var optional strings.Builder
	if job.CompanyName != "" {
		fmt.Fprintf(&optional, "Company: %s\n", job.CompanyName)
	}
	if job.Experience != "" {
		fmt.Fprintf(&optional, "Required experience: %s\n", job.Experience)
	}
	if job.Education != "" {
		fmt.Fprintf(&optional, "Required education: %s\n", job.Education)
	}
	if job.TypeWork != "" {
		fmt.Fprintf(&optional, "Work type: %s\n", job.TypeWork)
	}

	rubric := rubricContext
	if strings.TrimSpace(rubric) == "" {
		rubric = "No additional rubric provided. Use standard recruiting judgement."
	}

	return fmt.Sprintf(`You are an expert HR recruiter scoring a candidate's CV for the position "%s".

JOB POSTING:
%sRequirements:
%s

Description:
%s

SCORING RUBRIC:
%s

CANDIDATE CV (pre-analyzed):
Skills: %s
Experience: %s
Education: %s
Key points:
%s

Full text:
%s

Score how well the candidate fits the job from 0 to 100, where 85+ is an excellent match, 70-84 good, 50-69 fair,
30-49 weak and below 30 a poor match.

Return ONLY a JSON object in the following format:
{
  "score": <integer 0-100>,
  "summary": "<2-3 sentence overall assessment>",
  "strengths": ["<strength>", ...],
  "weaknesses": ["<weakness>", ...],
  "matchingSkills": ["<skill the job asks for and the CV shows>", ...],
  "missingSkills": ["<skill the job asks for and the CV lacks>", ...],
  "suggestions": ["<concrete improvement for the CV>", ...],
  "experienceMatch": "<one sentence on experience fit>",
  "educationMatch": "<one sentence on education fit>"
}

Be objective. Base every statement on the CV content above.`,
		job.NameJob,
		optional.String(), job.Request, job.Desc,
		rubric,
		joinOrNone(cv.Skills, ", "), cv.Experience, cv.Education, bulletList(cv.KeyPoints),
		cv.ExtractedText,
	)
}

// BuildRetrievalQuery creates the query for rubric retrieval.
func (pb *PromptBuilder) BuildRetrievalQuery(queryType string, job models.JobPayload) string {
	switch queryType {
	case DocTypeJobDescription:
		return fmt.Sprintf("Job requirements and qualifications for %s. %s", job.NameJob, job.Request)
	case DocTypeCVRubric:
		return fmt.Sprintf("CV evaluation criteria and scoring guidelines for %s", job.NameJob)
	default:
		return job.NameJob
	}
}

// FormatRAGContext renders retrieved chunks for the prompt.
func FormatRAGContext(results []SearchResult) string {
	if len(results) == 0 {
		return ""
	}

	var parts []string
	for i, result := range results {
		parts = append(parts, fmt.Sprintf("--- Context %d (%s, score %.2f) ---\n%s",
			i+1, result.DocType, result.Score, strings.TrimSpace(result.Text)))
	}

	return strings.Join(parts, "\n\n")
}

func joinOrNone(items []string, sep string) string {
	if len(items) == 0 {
		return "none detected"
	}
	return strings.Join(items, sep)
}

func bulletList(items []string) string {
	if len(items) == 0 {
		return "- none"
	}
	var b strings.Builder
	for i, item := range items {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("- ")
		b.WriteString(item)
	}
	return b.String()
}
