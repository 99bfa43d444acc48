package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"jobify/cv-scorer/internal/locale"
	"jobify/cv-scorer/internal/models"
	"jobify/cv-scorer/internal/repositories"
)

func newTestScoringService(scorer AIScorer) CVScoringService {
	analyzer := NewTextAnalyzer()
	log := zap.NewNop()
	catalog := repositories.StaticJobCatalog{5: testJob()}
	orch := NewOrchestrator(scorer, NewFallbackScorer(analyzer), OrchestratorConfig{AITimeout: time.Second}, log)
	return NewCVScoringService(catalog, newTestParser(stubExtractor{}), orch, log)
}

func TestScoreDocument(t *testing.T) {
	scorer := &stubAIScorer{score: func(context.Context, models.CVScoringPromptData) (*models.GeminiCVScoringResponse, error) {
		return &models.GeminiCVScoringResponse{Score: 81, Summary: "Good fit"}, nil
	}}
	body := `<w:p><w:r><w:t>Frontend developer with JavaScript and HTML</w:t></w:r></w:p>`
	doc := tempDocument(t, "cv.docx", buildDOCX(t, body))
	sink := &recordingSink{}
	tracker := NewProgressTracker(sink, locale.English, time.Second)

	report, analysis, err := newTestScoringService(scorer).ScoreDocument(context.Background(), doc, 5, tracker)
	if err != nil {
		t.Fatalf("ScoreDocument returned error: %v", err)
	}

	if report.Score != 81 || report.Degraded {
		t.Fatalf("unexpected report %+v", report)
	}
	if analysis.Source != models.SourceDOCX {
		t.Fatalf("unexpected source %q", analysis.Source)
	}

	events := sink.Events()
	assertMonotonic(t, events)
	if events[0].Stage != models.StageUploading || events[0].Percent != 10 {
		t.Fatalf("unexpected first event %+v", events[0])
	}
	if last := events[len(events)-1]; last.Stage != models.StageDone {
		t.Fatalf("unexpected last event %+v", last)
	}
	assertRemoved(t, doc.Path)
}

func TestScoreDocumentUnknownJob(t *testing.T) {
	doc := tempDocument(t, "cv.pdf", []byte("%PDF"))
	sink := &recordingSink{}
	tracker := NewProgressTracker(sink, locale.English, time.Second)

	_, _, err := newTestScoringService(nil).ScoreDocument(context.Background(), doc, 99, tracker)
	if !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}

	last := sink.Last()
	if last.Stage != models.StageFailed || last.Message != locale.Message(locale.English, locale.MsgJobNotFound) {
		t.Fatalf("unexpected last event %+v", last)
	}
	assertRemoved(t, doc.Path)
}

func TestScoreDocumentUnsupportedFormat(t *testing.T) {
	doc := tempDocument(t, "cv.txt", []byte("plain"))
	sink := &recordingSink{}
	tracker := NewProgressTracker(sink, locale.Vietnamese, time.Second)

	_, _, err := newTestScoringService(nil).ScoreDocument(context.Background(), doc, 5, tracker)
	if ReasonOf(err) != ReasonUnsupportedFormat {
		t.Fatalf("expected unsupported format, got %v", err)
	}

	last := sink.Last()
	if last.Stage != models.StageFailed || last.Message != locale.Message(locale.Vietnamese, locale.MsgUnsupportedFormat) {
		t.Fatalf("unexpected last event %+v", last)
	}
}

func TestScoreDemo(t *testing.T) {
	scorer := &stubAIScorer{score: func(context.Context, models.CVScoringPromptData) (*models.GeminiCVScoringResponse, error) {
		return &models.GeminiCVScoringResponse{Score: 99}, nil
	}}
	sink := &recordingSink{}
	tracker := NewProgressTracker(sink, locale.English, time.Second)

	report, err := newTestScoringService(scorer).ScoreDemo(context.Background(), 5, tracker)
	if err != nil {
		t.Fatalf("ScoreDemo returned error: %v", err)
	}
	if report.Score != 80 || report.Degraded {
		t.Fatalf("unexpected demo report %+v", report)
	}
	if scorer.calls() != 0 {
		t.Fatal("demo scoring must not call the AI scorer")
	}
	if sink.Last().Stage != models.StageDone {
		t.Fatalf("unexpected last event %+v", sink.Last())
	}
}

func TestUserMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want locale.Key
	}{
		{"document error", &DocumentError{Reason: ReasonExtractionFailed, MessageKey: locale.MsgCorruptDOCX}, locale.MsgCorruptDOCX},
		{"timeout", &OrchestratorError{Reason: ReasonTimeout}, locale.MsgAITimeout},
		{"cancelled", &OrchestratorError{Reason: ReasonCancelled}, locale.MsgCancelled},
		{"job not found", repositories.ErrJobNotFound, locale.MsgJobNotFound},
		{"queue full", ErrQueueFull, locale.MsgServerBusy},
		{"unknown", errors.New("boom"), locale.MsgInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := UserMessage(tt.err, locale.English); got != locale.Message(locale.English, tt.want) {
				t.Fatalf("UserMessage = %q, want message for %q", got, tt.want)
			}
		})
	}
}

func TestScoreTextPDF(t *testing.T) {
	analyzer := NewTextAnalyzer()
	log := zap.NewNop()
	catalog := repositories.StaticJobCatalog{42: {ID: 42, Title: "Backend Engineer", RequirementText: "Go, Docker"}}
	scorer := &stubAIScorer{score: func(_ context.Context, data models.CVScoringPromptData) (*models.GeminiCVScoringResponse, error) {
		if data.CVAnalysis.ExtractedText == "" {
			return nil, errors.New("empty CV text")
		}
		return &models.GeminiCVScoringResponse{Score: 67.6}, nil
	}}
	orch := NewOrchestrator(scorer, NewFallbackScorer(analyzer), OrchestratorConfig{AITimeout: time.Second}, log)
	service := NewCVScoringService(catalog, newTestParser(stubExtractor{}), orch, log)

	lines := make([]string, 0, 40)
	for i := 0; i < 40; i++ {
		lines = append(lines, "Backend work in Go and Docker for payment services")
	}
	doc := tempDocument(t, "cv.pdf", buildPDF(lines))
	tracker := NewProgressTracker(nil, locale.English, time.Second)

	report, analysis, err := service.ScoreDocument(context.Background(), doc, 42, tracker)
	if err != nil {
		t.Fatalf("ScoreDocument returned error: %v", err)
	}
	if analysis.ExtractedText == "" || analysis.Source != models.SourcePDF {
		t.Fatalf("unexpected analysis %+v", analysis)
	}
	if report.Score != 68 {
		t.Fatalf("unexpected score %d", report.Score)
	}
}
