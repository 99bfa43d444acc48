package models

type Stage string

const (
	StageUploading     Stage = "uploading"
	StageExtracting    Stage = "extracting"
	StageAnalyzing     Stage = "analyzing"
	StageAwaitingScore Stage = "awaiting_score"
	StageFinalizing    Stage = "finalizing"
	StageDone          Stage = "done"
	StageFailed        Stage = "failed"
)

var stageOrder = map[Stage]int{
	StageUploading:     1,
	StageExtracting:    2,
	StageAnalyzing:     3,
	StageAwaitingScore: 4,
	StageFinalizing:    5,
	StageDone:          6,
	StageFailed:        7,
}

// Order returns the position of the stage in the request lifecycle.
func (s Stage) Order() int {
	return stageOrder[s]
}

func (s Stage) Terminal() bool {
	return s == StageDone || s == StageFailed
}

type ProgressEvent struct {
	Stage   Stage  `json:"stage"`
	Percent int    `json:"percent"`
	Message string `json:"message"`
}
