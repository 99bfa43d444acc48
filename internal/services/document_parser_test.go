package services

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"

	"jobify/cv-scorer/internal/locale"
	"jobify/cv-scorer/internal/models"
)

func newTestParser(ocr Extractor) DocumentParser {
	log := zap.NewNop()
	return NewDocumentParser(
		NewPDFParserService(log),
		NewDOCXParserService(log),
		ocr,
		NewTextAnalyzer(),
		log,
	)
}

func TestDetectFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		want   models.DocumentFormat
		wantOK bool
	}{
		{"cv.pdf", models.FormatPDF, true},
		{"CV.PDF", models.FormatPDF, true},
		{"resume.docx", models.FormatDOCX, true},
		{"scan.jpg", models.FormatImage, true},
		{"scan.JPEG", models.FormatImage, true},
		{"scan.png", models.FormatImage, true},
		{"notes.txt", "", false},
		{"resume.doc", "", false},
		{"noext", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := DetectFormat(tt.name)
			if got != tt.want || ok != tt.wantOK {
				t.Fatalf("DetectFormat(%q) = %q, %v; want %q, %v", tt.name, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestParseUnsupportedFormatReleasesFile(t *testing.T) {
	doc := tempDocument(t, "notes.txt", []byte("plain text"))

	_, err := newTestParser(stubExtractor{}).Parse(context.Background(), doc)

	var docErr *DocumentError
	if !errors.As(err, &docErr) {
		t.Fatalf("expected DocumentError, got %v", err)
	}
	if docErr.Reason != ReasonUnsupportedFormat {
		t.Fatalf("unexpected reason %q", docErr.Reason)
	}
	if docErr.MessageKey != locale.MsgUnsupportedFormat {
		t.Fatalf("unexpected message key %q", docErr.MessageKey)
	}
	assertRemoved(t, doc.Path)
}

func TestParseUnreadablePDFUsesPlaceholder(t *testing.T) {
	doc := tempDocument(t, "cv.pdf", []byte("this is not a pdf"))

	record, err := newTestParser(stubExtractor{}).Parse(context.Background(), doc)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	if record.Source != models.SourcePDFMock {
		t.Fatalf("unexpected source %q", record.Source)
	}
	if !record.IsPlaceholder() {
		t.Fatal("expected placeholder record")
	}
	if !strings.Contains(record.ExtractedText, "SAMPLE CV") {
		t.Fatalf("placeholder text is not labeled: %q", record.ExtractedText)
	}
	assertRemoved(t, doc.Path)
}

func TestParseCorruptDOCX(t *testing.T) {
	doc := tempDocument(t, "cv.docx", []byte("not a zip archive"))

	_, err := newTestParser(stubExtractor{}).Parse(context.Background(), doc)

	if got := ReasonOf(err); got != ReasonCorruptOrUnsupported {
		t.Fatalf("ReasonOf = %q, want %q (err %v)", got, ReasonCorruptOrUnsupported, err)
	}
	var docErr *DocumentError
	if !errors.As(err, &docErr) {
		t.Fatalf("expected DocumentError, got %v", err)
	}
	if docErr.Reason != ReasonExtractionFailed || docErr.MessageKey != locale.MsgCorruptDOCX {
		t.Fatalf("unexpected document error %+v", docErr)
	}
	assertRemoved(t, doc.Path)
}

func buildDOCX(t *testing.T, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	w, err := zw.Create("[Content_Types].xml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte(`<?xml version="1.0"?><Types/>`)); err != nil {
		t.Fatal(err)
	}

	w, err = zw.Create("word/document.xml")
	if err != nil {
		t.Fatal(err)
	}
	doc := `<?xml version="1.0" encoding="UTF-8"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		body + `</w:body></w:document>`
	if _, err := w.Write([]byte(doc)); err != nil {
		t.Fatal(err)
	}

	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestParseDOCX(t *testing.T) {
	body := `<w:p><w:r><w:t>Nguyen Van A</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>Backend developer with Go</w:t><w:tab/><w:t>and PostgreSQL</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>Bachelor degree at Hanoi University</w:t></w:r></w:p>`
	doc := tempDocument(t, "cv.docx", buildDOCX(t, body))

	record, err := newTestParser(stubExtractor{}).Parse(context.Background(), doc)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	if record.Source != models.SourceDOCX {
		t.Fatalf("unexpected source %q", record.Source)
	}
	want := "Nguyen Van A Backend developer with Go and PostgreSQL Bachelor degree at Hanoi University"
	if record.ExtractedText != want {
		t.Fatalf("unexpected text %q", record.ExtractedText)
	}
	for _, skill := range []string{"go", "postgresql"} {
		found := false
		for _, s := range record.Skills {
			if s == skill {
				found = true
			}
		}
		if !found {
			t.Fatalf("expected %q in %v", skill, record.Skills)
		}
	}
	assertRemoved(t, doc.Path)
}

func TestParseImageRunsOCR(t *testing.T) {
	runner := &stubRunner{stdout: "Marketing specialist with Canva and SEO experience"}
	ocr := NewOCRService(runner, OCRConfig{Language: "vie+eng", TessdataDir: "/opt/tessdata"}, zap.NewNop())
	doc := tempDocument(t, "scan.png", []byte{0x89, 'P', 'N', 'G'})

	record, err := newTestParser(ocr).Parse(context.Background(), doc)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	if runner.name != "tesseract" {
		t.Fatalf("unexpected binary %q", runner.name)
	}
	wantArgs := []string{doc.Path, "stdout", "-l", "vie+eng", "--tessdata-dir", "/opt/tessdata"}
	if !reflect.DeepEqual(runner.args, wantArgs) {
		t.Fatalf("args = %v, want %v", runner.args, wantArgs)
	}
	if record.Source != models.SourceOCR {
		t.Fatalf("unexpected source %q", record.Source)
	}
	if len(record.Warnings) != 0 {
		t.Fatalf("unexpected warnings %v", record.Warnings)
	}
	assertRemoved(t, doc.Path)
}

func TestParseImageOCRFailureIsLowContent(t *testing.T) {
	runner := &stubRunner{err: errors.New("exit status 1")}
	ocr := NewOCRService(runner, OCRConfig{}, zap.NewNop())
	doc := tempDocument(t, "scan.jpg", []byte{0xff, 0xd8, 0xff})

	record, err := newTestParser(ocr).Parse(context.Background(), doc)
	if err != nil {
		t.Fatalf("OCR failure must not fail parsing: %v", err)
	}

	wantArgs := []string{doc.Path, "stdout", "-l", "eng"}
	if !reflect.DeepEqual(runner.args, wantArgs) {
		t.Fatalf("args = %v, want %v", runner.args, wantArgs)
	}
	if len(record.Warnings) != 1 || record.Warnings[0] != models.WarningOCRLowContent {
		t.Fatalf("expected low content warning, got %v", record.Warnings)
	}
	if record.Experience != NoExperienceFound || record.Education != NoEducationFound {
		t.Fatalf("expected sentinel fields, got %+v", record)
	}
}

func TestParseExtractorErrorForImage(t *testing.T) {
	doc := tempDocument(t, "scan.png", []byte("x"))

	_, err := newTestParser(stubExtractor{err: errors.New("boom")}).Parse(context.Background(), doc)

	var docErr *DocumentError
	if !errors.As(err, &docErr) {
		t.Fatalf("expected DocumentError, got %v", err)
	}
	if docErr.Reason != ReasonExtractionFailed || docErr.MessageKey != locale.MsgExtractionFailed {
		t.Fatalf("unexpected document error %+v", docErr)
	}
	assertRemoved(t, doc.Path)
}

func TestParseCancelledContext(t *testing.T) {
	doc := tempDocument(t, "cv.pdf", []byte("%PDF-1.4"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestParser(stubExtractor{}).Parse(ctx, doc)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	assertRemoved(t, doc.Path)
}

func TestExtractTextReleasesOnPanic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cv.pdf")
	if err := os.WriteFile(path, []byte("%PDF"), 0o600); err != nil {
		t.Fatal(err)
	}
	doc := models.NewRawDocument(path, "cv.pdf", "", 4, func() error { return os.Remove(path) })

	log := zap.NewNop()
	parser := NewDocumentParser(stubExtractor{panic: true}, stubExtractor{}, stubExtractor{}, NewTextAnalyzer(), log)

	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("expected panic to propagate")
			}
		}()
		_, _, _ = parser.ExtractText(context.Background(), doc)
	}()

	assertRemoved(t, path)
}

func TestParsePDF(t *testing.T) {
	doc := tempDocument(t, "cv.pdf", buildPDF([]string{
		"Tran Van B",
		"Senior Go developer with 5 years experience",
		"Built microservices with Docker and Kubernetes",
	}))

	record, err := newTestParser(stubExtractor{}).Parse(context.Background(), doc)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	if record.Source != models.SourcePDF {
		t.Fatalf("unexpected source %q (text %q)", record.Source, record.ExtractedText)
	}
	if !strings.Contains(record.ExtractedText, "Senior Go developer") {
		t.Fatalf("unexpected text %q", record.ExtractedText)
	}
	for _, skill := range []string{"docker", "kubernetes"} {
		found := false
		for _, s := range record.Skills {
			found = found || s == skill
		}
		if !found {
			t.Fatalf("expected %q in %v", skill, record.Skills)
		}
	}
	assertRemoved(t, doc.Path)
}
