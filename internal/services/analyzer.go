package services

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"jobify/cv-scorer/internal/models"
)

const maxKeyPoints = 5

type TextAnalyzer interface {
	Analyze(text, source string) *models.AnalysisRecord
	ExtractSkills(text string) []string
}

type textAnalyzer struct{}

func NewTextAnalyzer() TextAnalyzer {
	return &textAnalyzer{}
}

// Analyze implements TextAnalyzer. It never fails; missing sections get a
// placeholder sentence.
func (a *textAnalyzer) Analyze(text, source string) *models.AnalysisRecord {
	clean := NormalizeText(text)

	return &models.AnalysisRecord{
		ExtractedText: clean,
		Skills:        a.ExtractSkills(clean),
		Experience:    extractExperience(clean),
		Education:     extractEducation(clean),
		KeyPoints:     extractKeyPoints(clean),
		Source:        source,
	}
}

// ExtractSkills implements TextAnalyzer.
func (a *textAnalyzer) ExtractSkills(text string) []string {
	lower := strings.ToLower(text)
	seen := make(map[string]struct{})
	var skills []string

	add := func(skill string) {
		if _, ok := seen[skill]; ok {
			return
		}
		seen[skill] = struct{}{}
		skills = append(skills, skill)
	}

	for _, skill := range skillVocabulary {
		if containsTerm(lower, skill) {
			add(skill)
		}
	}

	for _, match := range skillYearsPattern.FindAllStringSubmatch(text, -1) {
		candidate := strings.ToLower(strings.TrimRight(match[1], ".-"))
		if n := utf8.RuneCountInString(candidate); n > 2 && n < 20 {
			add(candidate)
		}
	}

	if skills == nil {
		skills = []string{}
	}
	return skills
}

// NormalizeText collapses every whitespace run into one space and trims.
func NormalizeText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

func extractExperience(text string) string {
	sentences := selectSentences(splitSentences(text), experienceKeywords, 3)
	result := strings.Join(sentences, ". ")

	if years := yearsPattern.FindAllString(text, -1); len(years) > 0 {
		result = strings.TrimSpace(fmt.Sprintf("%s experience. %s", strings.Join(years, ", "), result))
	}

	if result == "" {
		return NoExperienceFound
	}
	return result
}

func extractEducation(text string) string {
	sentences := selectSentences(splitSentences(text), educationKeywords, 2)
	if len(sentences) == 0 {
		return NoEducationFound
	}
	return strings.Join(sentences, ". ")
}

func extractKeyPoints(text string) []string {
	var candidates []string
	for _, s := range splitSentences(text) {
		if utf8.RuneCountInString(s) > 20 {
			candidates = append(candidates, s)
		}
	}

	var points []string
	for _, s := range candidates {
		if utf8.RuneCountInString(s) < 150 && containsAny(strings.ToLower(s), achievementKeywords) {
			points = append(points, s)
		}
	}

	if len(points) == 0 {
		if len(candidates) > maxKeyPoints {
			candidates = candidates[:maxKeyPoints]
		}
		for _, s := range candidates {
			if utf8.RuneCountInString(s) < 100 {
				points = append(points, s)
			}
		}
	}

	if len(points) > maxKeyPoints {
		points = points[:maxKeyPoints]
	}
	if points == nil {
		points = []string{}
	}
	return points
}

func splitSentences(text string) []string {
	var sentences []string
	for _, s := range sentenceSplitPattern.Split(text, -1) {
		if s = strings.TrimSpace(s); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

// selectSentences keeps the first limit sentences that mention a keyword, in
// document order.
func selectSentences(sentences, keywords []string, limit int) []string {
	var selected []string
	for _, s := range sentences {
		if len(selected) == limit {
			break
		}
		if containsAny(strings.ToLower(s), keywords) {
			selected = append(selected, s)
		}
	}
	return selected
}

func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// containsTerm matches term only where it is not glued to other letters or
// digits, so "go" does not match "google".
func containsTerm(lower, term string) bool {
	offset := 0
	for {
		idx := strings.Index(lower[offset:], term)
		if idx < 0 {
			return false
		}
		start := offset + idx
		end := start + len(term)

		before, _ := utf8.DecodeLastRuneInString(lower[:start])
		after, _ := utf8.DecodeRuneInString(lower[end:])
		if (start == 0 || !isWordRune(before)) && (end == len(lower) || !isWordRune(after)) {
			return true
		}
		offset = start + 1
		for offset < len(lower) && !utf8.RuneStart(lower[offset]) {
			offset++
		}
	}
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
