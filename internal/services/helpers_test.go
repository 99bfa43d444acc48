package services

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"jobify/cv-scorer/internal/models"
)

type recordingSink struct {
	mu     sync.Mutex
	events []models.ProgressEvent
}

func (s *recordingSink) Publish(ev models.ProgressEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

func (s *recordingSink) Events() []models.ProgressEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ProgressEvent, len(s.events))
	copy(out, s.events)
	return out
}

func (s *recordingSink) Last() models.ProgressEvent {
	events := s.Events()
	if len(events) == 0 {
		return models.ProgressEvent{}
	}
	return events[len(events)-1]
}

func assertMonotonic(t *testing.T, events []models.ProgressEvent) {
	t.Helper()
	for i := 1; i < len(events); i++ {
		if events[i].Percent < events[i-1].Percent {
			t.Fatalf("percent decreased at event %d: %+v", i, events)
		}
	}
}

// tempDocument writes content to a file in a temp dir and returns a document
// whose release deletes it.
func tempDocument(t *testing.T, name string, content []byte) *models.RawDocument {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return models.NewRawDocument(path, name, "", int64(len(content)), func() error {
		return os.Remove(path)
	})
}

func assertRemoved(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected %s to be removed, stat err = %v", path, err)
	}
}

type stubExtractor struct {
	text  string
	err   error
	panic bool
}

func (s stubExtractor) Extract(context.Context, *models.RawDocument) (string, error) {
	if s.panic {
		panic("extractor exploded")
	}
	return s.text, s.err
}

type stubRunner struct {
	mu     sync.Mutex
	stdout string
	err    error
	name   string
	args   []string
}

func (r *stubRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.name = name
	r.args = append([]string(nil), args...)
	return []byte(r.stdout), nil, r.err
}

type stubGenerator struct {
	mu        sync.Mutex
	responses []string
	errs      []error
	prompts   []string
}

func (g *stubGenerator) GenerateText(_ context.Context, prompt string, _ float32) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	i := len(g.prompts)
	g.prompts = append(g.prompts, prompt)

	var err error
	if i < len(g.errs) {
		err = g.errs[i]
	}
	if err != nil {
		return "", err
	}
	if i < len(g.responses) {
		return g.responses[i], nil
	}
	return g.responses[len(g.responses)-1], nil
}

func (g *stubGenerator) Provider() string { return "stub" }

func (g *stubGenerator) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.prompts)
}

type stubAIScorer struct {
	score func(ctx context.Context, data models.CVScoringPromptData) (*models.GeminiCVScoringResponse, error)
	mu    sync.Mutex
	n     int
}

func (s *stubAIScorer) Score(ctx context.Context, data models.CVScoringPromptData) (*models.GeminiCVScoringResponse, error) {
	s.mu.Lock()
	s.n++
	s.mu.Unlock()
	return s.score(ctx, data)
}

func (s *stubAIScorer) Provider() string { return "stub" }

func (s *stubAIScorer) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.n
}

type countingFallback struct {
	inner FallbackScorer
	mu    sync.Mutex
	n     int
}

func (f *countingFallback) Score(req models.DemoRequest, job *models.JobRequirement) *models.ScoreReport {
	f.mu.Lock()
	f.n++
	f.mu.Unlock()
	return f.inner.Score(req, job)
}

func (f *countingFallback) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.n
}

func testJob() *models.JobRequirement {
	return &models.JobRequirement{
		ID:              5,
		Title:           "Frontend Developer",
		RequirementText: "JavaScript, HTML and Python",
		Description:     "Build landing pages for marketing campaigns",
	}
}

// buildPDF writes a single-page PDF showing one text line per entry.
func buildPDF(lines []string) []byte {
	var content strings.Builder
	content.WriteString("BT /F1 12 Tf 72 720 Td 14 TL\n")
	for _, line := range lines {
		fmt.Fprintf(&content, "(%s) Tj T*\n", line)
	}
	content.WriteString("ET")

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", content.Len(), content.String()),
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}
