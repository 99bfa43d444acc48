package models

// ScoreUploadForm is the non-file part of the multipart upload.
type ScoreUploadForm struct {
	JobID uint `form:"jobId" validate:"required,gt=0"`
}

type ScoreResponse struct {
	Success  bool            `json:"success"`
	Data     *ScoreReport    `json:"data,omitempty"`
	Analysis *AnalysisRecord `json:"analysis,omitempty"`
	Progress []ProgressEvent `json:"progress,omitempty"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Reason  string `json:"reason,omitempty"`
	Code    int    `json:"code"`
}
