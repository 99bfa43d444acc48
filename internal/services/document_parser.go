package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"jobify/cv-scorer/internal/locale"
	"jobify/cv-scorer/internal/models"
)

// minOCRSignal is the number of letters or digits below which OCR output is
// flagged as near-empty.
const minOCRSignal = 10

type DocumentParser interface {
	Parse(ctx context.Context, doc *models.RawDocument) (*models.AnalysisRecord, error)
	ExtractText(ctx context.Context, doc *models.RawDocument) (text string, source string, err error)
}

type documentParser struct {
	backends map[models.DocumentFormat]Extractor
	analyzer TextAnalyzer
	logger   *zap.Logger
}

func NewDocumentParser(pdf, docx, ocr Extractor, analyzer TextAnalyzer, logger *zap.Logger) DocumentParser {
	return &documentParser{
		backends: map[models.DocumentFormat]Extractor{
			models.FormatPDF:   pdf,
			models.FormatDOCX:  docx,
			models.FormatImage: ocr,
		},
		analyzer: analyzer,
		logger:   logger,
	}
}

// DetectFormat maps a file name to a backend by extension, ignoring case.
func DetectFormat(filename string) (models.DocumentFormat, bool) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return models.FormatPDF, true
	case ".docx":
		return models.FormatDOCX, true
	case ".jpg", ".jpeg", ".png":
		return models.FormatImage, true
	default:
		return "", false
	}
}

// Parse implements DocumentParser. The document is released on every path.
func (p *documentParser) Parse(ctx context.Context, doc *models.RawDocument) (*models.AnalysisRecord, error) {
	text, source, err := p.ExtractText(ctx, doc)
	if err != nil {
		return nil, err
	}

	record := p.analyzer.Analyze(text, source)
	if source == models.SourceOCR && countSignal(text) < minOCRSignal {
		p.logger.Warn("⚠️ OCR produced almost no text", zap.String("file", doc.OriginalFilename))
		record.Warnings = append(record.Warnings, models.WarningOCRLowContent)
	}

	p.logger.Info("📄 Document parsed",
		zap.String("file", doc.OriginalFilename),
		zap.String("source", record.Source),
		zap.Int("skills", len(record.Skills)),
	)
	return record, nil
}

// ExtractText implements DocumentParser.
func (p *documentParser) ExtractText(ctx context.Context, doc *models.RawDocument) (string, string, error) {
	defer func() {
		if err := doc.Release(); err != nil {
			p.logger.Warn("failed to remove temporary file", zap.String("path", doc.Path), zap.Error(err))
		}
	}()

	format, ok := DetectFormat(doc.OriginalFilename)
	if !ok {
		return "", "", &DocumentError{
			Reason:     ReasonUnsupportedFormat,
			MessageKey: locale.MsgUnsupportedFormat,
			Err:        fmt.Errorf("unsupported file extension %q", filepath.Ext(doc.OriginalFilename)),
		}
	}

	backend, ok := p.backends[format]
	if !ok || backend == nil {
		return "", "", &DocumentError{
			Reason:     ReasonUnsupportedFormat,
			MessageKey: locale.MsgUnsupportedFormat,
			Err:        fmt.Errorf("no backend registered for %s", format),
		}
	}

	text, err := backend.Extract(ctx, doc)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", "", ctxErr
		}

		if format == models.FormatPDF {
			p.logger.Warn("⚠️ PDF extraction failed, using sample CV text",
				zap.String("file", doc.OriginalFilename),
				zap.Error(err),
			)
			return sampleResumeText, models.SourcePDFMock, nil
		}

		key := locale.MsgExtractionFailed
		var extErr *ExtractionError
		if errors.As(err, &extErr) && extErr.Format == models.FormatDOCX {
			key = locale.MsgCorruptDOCX
		}
		return "", "", &DocumentError{Reason: ReasonExtractionFailed, MessageKey: key, Err: err}
	}

	return text, sourceTag(format), nil
}

func sourceTag(format models.DocumentFormat) string {
	switch format {
	case models.FormatPDF:
		return models.SourcePDF
	case models.FormatDOCX:
		return models.SourceDOCX
	default:
		return models.SourceOCR
	}
}

func countSignal(text string) int {
	n := 0
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			n++
		}
	}
	return n
}
