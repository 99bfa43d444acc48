package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"

	"jobify/cv-scorer/internal/models"
)

// Extractor converts one document format to plain text.
type Extractor interface {
	Extract(ctx context.Context, doc *models.RawDocument) (string, error)
}

type PDFParserService interface {
	Extractor
	ExtractTextWithMetaData(filePath string) (*PDFContent, error)
}

type PDFContent struct {
	Text      string
	PageCount int
	FilePath  string
}

type pdfParserService struct {
	logger *zap.Logger
}

func NewPDFParserService(logger *zap.Logger) PDFParserService {
	return &pdfParserService{logger: logger}
}

// Extract implements Extractor.
func (p *pdfParserService) Extract(ctx context.Context, doc *models.RawDocument) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	content, err := p.ExtractTextWithMetaData(doc.Path)
	if err != nil {
		return "", &ExtractionError{Reason: ReasonCorruptOrUnsupported, Format: models.FormatPDF, Err: err}
	}

	p.logger.Debug("pdf text extracted",
		zap.String("file", doc.OriginalFilename),
		zap.Int("pages", content.PageCount),
		zap.Int("chars", len(content.Text)),
	)
	return content.Text, nil
}

func (p *pdfParserService) ExtractTextWithMetaData(filePath string) (content *PDFContent, err error) {
	// the pdf package panics on some malformed cross-reference tables
	defer func() {
		if r := recover(); r != nil {
			content = nil
			err = fmt.Errorf("failed to parse PDF: %v", r)
		}
	}()

	f, r, err := pdf.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	var textBuilder strings.Builder
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			p.logger.Warn("skipping unreadable PDF page", zap.Int("page", pageIndex), zap.Error(err))
			continue
		}

		textBuilder.WriteString(text)
		textBuilder.WriteString("\n\n")
	}

	text := textBuilder.String()
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("no text content found in PDF")
	}

	return &PDFContent{
		Text:      text,
		PageCount: totalPage,
		FilePath:  filePath,
	}, nil
}
