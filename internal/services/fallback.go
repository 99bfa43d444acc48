package services

import (
	"fmt"
	"strings"

	"jobify/cv-scorer/internal/models"
)

// FallbackScorer produces a deterministic report without calling an AI model.
// It powers demo mode and stands in for a failed AI call.
type FallbackScorer interface {
	Score(req models.DemoRequest, job *models.JobRequirement) *models.ScoreReport
}

type fallbackScorer struct {
	analyzer TextAnalyzer
	profile  *models.AnalysisRecord
}

func NewFallbackScorer(analyzer TextAnalyzer) FallbackScorer {
	return &fallbackScorer{
		analyzer: analyzer,
		profile:  analyzer.Analyze(sampleResumeText, models.SourceDemo),
	}
}

// Score implements FallbackScorer. job may be nil when the catalog is
// unavailable; the report then only reflects the sample profile.
func (f *fallbackScorer) Score(req models.DemoRequest, job *models.JobRequirement) *models.ScoreReport {
	required := f.requiredSkills(job)

	have := make(map[string]struct{}, len(f.profile.Skills))
	for _, s := range f.profile.Skills {
		have[s] = struct{}{}
	}

	matching := []string{}
	missing := []string{}
	for _, s := range required {
		if _, ok := have[s]; ok {
			matching = append(matching, s)
		} else {
			missing = append(missing, s)
		}
	}

	ratio := 0.5
	if len(required) > 0 {
		ratio = float64(len(matching)) / float64(len(required))
	}

	hasExperience := f.profile.Experience != NoExperienceFound
	hasEducation := f.profile.Education != NoEducationFound

	raw := 35 + 45*ratio
	if hasExperience {
		raw += 10
	}
	if hasEducation {
		raw += 5
	}
	raw += float64(req.JobID % 5)

	score := models.ClampScore(raw)
	title := "this position"
	if job != nil && job.Title != "" {
		title = job.Title
	}

	return &models.ScoreReport{
		Score:           score,
		Summary:         fmt.Sprintf("Demo assessment for %s: the sample profile matches %d of %d detected key skills.", title, len(matching), len(required)),
		Strengths:       f.strengths(matching, hasExperience, hasEducation),
		Weaknesses:      weaknesses(missing),
		MatchingSkills:  matching,
		MissingSkills:   missing,
		Suggestions:     suggestions(missing),
		ExperienceMatch: experienceMatch(hasExperience, job),
		EducationMatch:  educationMatch(hasEducation, job),
		Provider:        models.ProviderFallback,
	}
}

func (f *fallbackScorer) requiredSkills(job *models.JobRequirement) []string {
	if job == nil {
		return nil
	}
	text := strings.Join([]string{job.Title, job.RequirementText, job.Description}, ". ")
	return f.analyzer.ExtractSkills(text)
}

func (f *fallbackScorer) strengths(matching []string, hasExperience, hasEducation bool) []string {
	out := []string{}
	if len(matching) > 0 {
		out = append(out, "Relevant skills: "+strings.Join(matching, ", "))
	}
	if hasExperience {
		out = append(out, "Documented professional experience")
	}
	if hasEducation {
		out = append(out, "Formal education listed")
	}
	if len(f.profile.KeyPoints) > 0 {
		out = append(out, "Measurable achievements described")
	}
	return out
}

func weaknesses(missing []string) []string {
	if len(missing) == 0 {
		return []string{}
	}
	return []string{"Missing skills the job asks for: " + strings.Join(missing, ", ")}
}

func suggestions(missing []string) []string {
	out := []string{}
	for _, s := range missing {
		out = append(out, fmt.Sprintf("Add concrete experience with %s if you have it", s))
	}
	out = append(out, "Quantify results in each role (numbers, percentages, scope)")
	return out
}

func experienceMatch(has bool, job *models.JobRequirement) string {
	switch {
	case !has:
		return "No experience information to compare."
	case job != nil && job.ExperienceLevel != "":
		return fmt.Sprintf("Profile shows relevant experience; the job asks for %s.", job.ExperienceLevel)
	default:
		return "Profile shows relevant experience."
	}
}

func educationMatch(has bool, job *models.JobRequirement) string {
	switch {
	case !has:
		return "No education information to compare."
	case job != nil && job.EducationLevel != "":
		return fmt.Sprintf("Profile lists formal education; the job asks for %s.", job.EducationLevel)
	default:
		return "Profile lists formal education."
	}
}
