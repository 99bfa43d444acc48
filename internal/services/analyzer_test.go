package services

import (
	"strings"
	"testing"
)

func TestNormalizeText(t *testing.T) {
	got := NormalizeText("  Senior \n\n developer\t with   Go  ")
	if got != "Senior developer with Go" {
		t.Fatalf("unexpected normalized text %q", got)
	}
}

func TestExtractSkills(t *testing.T) {
	t.Parallel()

	analyzer := NewTextAnalyzer()

	tests := []struct {
		name    string
		text    string
		want    []string
		notWant []string
	}{
		{
			name: "deduplicates case variants",
			text: "Python, python and PYTHON",
			want: []string{"python"},
		},
		{
			name:    "matches at word boundaries only",
			text:    "Wrote Go services and used Google Docs daily.",
			want:    []string{"go"},
			notWant: []string{"golang"},
		},
		{
			name:    "javascript does not imply java",
			text:    "Frontend work in JavaScript",
			want:    []string{"javascript"},
			notWant: []string{"java"},
		},
		{
			name: "skill from years of experience phrase",
			text: "I have 3 years experience with terraform.",
			want: []string{"terraform"},
		},
		{
			name: "vietnamese years phrase",
			text: "Tôi có 2 năm kinh nghiệm với nodejs",
			want: []string{"nodejs"},
		},
		{
			name: "multi word and symbol terms",
			text: "Built a REST API in C++ with CI/CD pipelines",
			want: []string{"c++", "rest api", "ci/cd"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			skills := analyzer.ExtractSkills(tt.text)

			counts := map[string]int{}
			for _, s := range skills {
				counts[s]++
				if counts[s] > 1 {
					t.Fatalf("duplicate skill %q in %v", s, skills)
				}
			}
			for _, w := range tt.want {
				if counts[w] == 0 {
					t.Fatalf("expected %q in %v", w, skills)
				}
			}
			for _, w := range tt.notWant {
				if counts[w] > 0 {
					t.Fatalf("did not expect %q in %v", w, skills)
				}
			}
		})
	}
}

func TestAnalyzeEmptyTextUsesSentinels(t *testing.T) {
	record := NewTextAnalyzer().Analyze("   \n ", "PDF")

	if record.ExtractedText != "" {
		t.Fatalf("expected empty text, got %q", record.ExtractedText)
	}
	if record.Skills == nil || len(record.Skills) != 0 {
		t.Fatalf("expected empty non-nil skills, got %#v", record.Skills)
	}
	if record.KeyPoints == nil || len(record.KeyPoints) != 0 {
		t.Fatalf("expected empty non-nil key points, got %#v", record.KeyPoints)
	}
	if record.Experience != NoExperienceFound {
		t.Fatalf("unexpected experience %q", record.Experience)
	}
	if record.Education != NoEducationFound {
		t.Fatalf("unexpected education %q", record.Education)
	}
	if record.Source != "PDF" {
		t.Fatalf("unexpected source %q", record.Source)
	}
}

func TestAnalyzeExperienceAndEducation(t *testing.T) {
	text := `Led project Alpha. Led project Beta. Led project Gamma. Led project Delta.
	Bachelor of Science at Hanoi University. Master degree in Computer Science. PhD candidate at Oxford.
	5 years in backend roles.`

	record := NewTextAnalyzer().Analyze(text, "DOCX")

	if !strings.HasPrefix(record.Experience, "5 years experience. ") {
		t.Fatalf("expected years prefix, got %q", record.Experience)
	}
	if !strings.Contains(record.Experience, "Led project Gamma") {
		t.Fatalf("expected third project sentence, got %q", record.Experience)
	}
	if strings.Contains(record.Experience, "Led project Delta") {
		t.Fatalf("experience should keep at most three sentences, got %q", record.Experience)
	}

	if !strings.Contains(record.Education, "Bachelor of Science") || !strings.Contains(record.Education, "Master degree") {
		t.Fatalf("unexpected education %q", record.Education)
	}
	if strings.Contains(record.Education, "Oxford") {
		t.Fatalf("education should keep at most two sentences, got %q", record.Education)
	}
}

func TestKeyPointsCappedAtFive(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 8; i++ {
		b.WriteString("Managed a team that improved conversion by a lot. ")
	}

	record := NewTextAnalyzer().Analyze(b.String(), "PDF")
	if len(record.KeyPoints) != maxKeyPoints {
		t.Fatalf("expected %d key points, got %d", maxKeyPoints, len(record.KeyPoints))
	}
}

func TestKeyPointsFallBackToLongSentences(t *testing.T) {
	text := "The weather in the mountains was pleasant. Short one. A very calm lake sat below the old village."

	record := NewTextAnalyzer().Analyze(text, "PDF")

	want := []string{"The weather in the mountains was pleasant", "A very calm lake sat below the old village"}
	if len(record.KeyPoints) != len(want) {
		t.Fatalf("expected %v, got %v", want, record.KeyPoints)
	}
	for i := range want {
		if record.KeyPoints[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, record.KeyPoints)
		}
	}
}
