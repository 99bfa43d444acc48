package models

// AnalysisRecord is the structured view of a résumé built from its extracted text.
type AnalysisRecord struct {
	ExtractedText string   `json:"extractedText"`
	Skills        []string `json:"skills"`
	Experience    string   `json:"experience"`
	Education     string   `json:"education"`
	KeyPoints     []string `json:"keyPoints"`
	Source        string   `json:"source"`
	Warnings      []string `json:"warnings,omitempty"`
}

// IsPlaceholder reports whether the record was built from the PDF placeholder
// text instead of the uploaded file.
func (a *AnalysisRecord) IsPlaceholder() bool {
	return a != nil && a.Source == SourcePDFMock
}

const WarningOCRLowContent = "ocr_low_content"
