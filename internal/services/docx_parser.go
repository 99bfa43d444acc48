package services

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"jobify/cv-scorer/internal/models"
)

const docxBodyPart = "word/document.xml"

type docxParserService struct {
	logger *zap.Logger
}

func NewDOCXParserService(logger *zap.Logger) Extractor {
	return &docxParserService{logger: logger}
}

// Extract implements Extractor. Any failure here means the file is damaged.
func (d *docxParserService) Extract(ctx context.Context, doc *models.RawDocument) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	text, err := extractDOCXText(doc.Path)
	if err != nil {
		return "", &ExtractionError{Reason: ReasonCorruptOrUnsupported, Format: models.FormatDOCX, Err: err}
	}

	d.logger.Debug("docx text extracted", zap.String("file", doc.OriginalFilename), zap.Int("chars", len(text)))
	return text, nil
}

func extractDOCXText(path string) (string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("failed to open DOCX archive: %w", err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.Name != docxBodyPart {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("failed to open %s: %w", docxBodyPart, err)
		}
		defer rc.Close()
		return readDOCXBody(rc)
	}

	return "", errors.New("no document body found in DOCX")
}

// readDOCXBody walks WordprocessingML and keeps the text runs, turning
// paragraphs and breaks into newlines.
func readDOCXBody(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)
	var b strings.Builder
	inText := false

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to decode DOCX body: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				b.WriteByte('\t')
			case "br", "cr":
				b.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				b.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}

	return b.String(), nil
}
