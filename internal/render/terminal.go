// Package render prints scoring progress and reports for terminal users.
package render

import (
	"fmt"
	"io"
	"strings"

	"jobify/cv-scorer/internal/locale"
	"jobify/cv-scorer/internal/models"
)

const barWidth = 30

// TierKey picks the verdict line for a score.
func TierKey(score int) locale.Key {
	switch {
	case score >= 85:
		return locale.MsgTierExcellent
	case score >= 70:
		return locale.MsgTierGood
	case score >= 50:
		return locale.MsgTierFair
	case score >= 30:
		return locale.MsgTierPoor
	default:
		return locale.MsgTierLow
	}
}

type TerminalRenderer struct {
	out    io.Writer
	locale locale.Locale
}

func NewTerminalRenderer(out io.Writer, loc locale.Locale) *TerminalRenderer {
	return &TerminalRenderer{out: out, locale: loc}
}

// Progress prints one progress line.
func (r *TerminalRenderer) Progress(ev models.ProgressEvent) {
	filled := ev.Percent * barWidth / 100
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
	fmt.Fprintf(r.out, "[%s] %3d%% %s\n", bar, ev.Percent, ev.Message)
}

// Report prints the score, the verdict and every non-empty section.
func (r *TerminalRenderer) Report(report *models.ScoreReport, analysis *models.AnalysisRecord) {
	fmt.Fprintf(r.out, "\nScore: %d/100\n", report.Score)
	fmt.Fprintln(r.out, locale.Message(r.locale, TierKey(report.Score)))

	if report.Degraded {
		fmt.Fprintf(r.out, "⚠️  %s\n", locale.Message(r.locale, locale.MsgDegradedNotice))
	}
	if analysis.IsPlaceholder() {
		fmt.Fprintf(r.out, "⚠️  %s\n", locale.Message(r.locale, locale.MsgPlaceholderNotice))
	}

	if report.Summary != "" {
		fmt.Fprintf(r.out, "\n%s\n", report.Summary)
	}
	if report.ExperienceMatch != "" {
		fmt.Fprintf(r.out, "\n• %s\n", report.ExperienceMatch)
	}
	if report.EducationMatch != "" {
		fmt.Fprintf(r.out, "• %s\n", report.EducationMatch)
	}

	r.list(locale.MsgStrengths, "✓", report.Strengths)
	r.list(locale.MsgWeaknesses, "✗", report.Weaknesses)
	r.inline(locale.MsgMatchingSkills, report.MatchingSkills)
	r.inline(locale.MsgMissingSkills, report.MissingSkills)
	r.list(locale.MsgSuggestions, "→", report.Suggestions)
}

// Error prints a failure message.
func (r *TerminalRenderer) Error(message string) {
	fmt.Fprintf(r.out, "\n❌ %s\n", message)
}

func (r *TerminalRenderer) list(title locale.Key, bullet string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(r.out, "\n%s:\n", locale.Message(r.locale, title))
	for _, item := range items {
		fmt.Fprintf(r.out, "  %s %s\n", bullet, item)
	}
}

func (r *TerminalRenderer) inline(title locale.Key, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(r.out, "\n%s: %s\n", locale.Message(r.locale, title), strings.Join(items, ", "))
}
