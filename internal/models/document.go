package models

import (
	"sync"

	"github.com/google/uuid"
)

type DocumentFormat string

const (
	FormatPDF   DocumentFormat = "pdf"
	FormatDOCX  DocumentFormat = "docx"
	FormatImage DocumentFormat = "image"
)

// Source tags attached to an AnalysisRecord.
const (
	SourcePDF     = "PDF"
	SourcePDFMock = "PDF (Mock)"
	SourceDOCX    = "DOCX"
	SourceOCR     = "OCR"
	SourceDemo    = "Demo"
)

// RawDocument is an uploaded résumé held in temporary storage for one request.
type RawDocument struct {
	ID               uuid.UUID
	Path             string
	OriginalFilename string
	DeclaredFormat   string
	Size             int64

	release     func() error
	releaseOnce sync.Once
	releaseErr  error
}

// NewRawDocument wraps a file on disk. release may be nil for files the
// caller does not own.
func NewRawDocument(path, originalFilename, declaredFormat string, size int64, release func() error) *RawDocument {
	return &RawDocument{
		ID:               uuid.New(),
		Path:             path,
		OriginalFilename: originalFilename,
		DeclaredFormat:   declaredFormat,
		Size:             size,
		release:          release,
	}
}

// Release deletes the backing temporary file. Safe to call more than once.
func (d *RawDocument) Release() error {
	if d == nil {
		return nil
	}
	d.releaseOnce.Do(func() {
		if d.release != nil {
			d.releaseErr = d.release()
		}
	})
	return d.releaseErr
}
