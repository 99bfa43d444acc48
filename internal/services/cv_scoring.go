package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"jobify/cv-scorer/internal/locale"
	"jobify/cv-scorer/internal/models"
)

// JobCatalog looks up the job a CV is scored against.
type JobCatalog interface {
	FindRequirement(ctx context.Context, id uint) (*models.JobRequirement, error)
}

// CVScoringService runs the whole pipeline for one request: job lookup,
// document parsing and scoring.
type CVScoringService interface {
	ScoreDocument(ctx context.Context, doc *models.RawDocument, jobID uint, tracker *ProgressTracker) (*models.ScoreReport, *models.AnalysisRecord, error)
	ScoreDemo(ctx context.Context, jobID uint, tracker *ProgressTracker) (*models.ScoreReport, error)
}

type cvScoringService struct {
	catalog      JobCatalog
	parser       DocumentParser
	orchestrator Orchestrator
	logger       *zap.Logger
}

func NewCVScoringService(catalog JobCatalog, parser DocumentParser, orchestrator Orchestrator, logger *zap.Logger) CVScoringService {
	return &cvScoringService{
		catalog:      catalog,
		parser:       parser,
		orchestrator: orchestrator,
		logger:       logger,
	}
}

// ScoreDocument implements CVScoringService. doc is released before it returns.
func (s *cvScoringService) ScoreDocument(ctx context.Context, doc *models.RawDocument, jobID uint, tracker *ProgressTracker) (*models.ScoreReport, *models.AnalysisRecord, error) {
	defer doc.Release()

	if tracker.Closed() {
		return nil, nil, ErrProgressClosed
	}

	tracker.Emit(models.StageUploading, 10, locale.MsgUploading)
	tracker.StartClock(ctx)

	s.logger.Info("🔄 Scoring CV",
		zap.String("request_id", doc.ID.String()),
		zap.String("file", doc.OriginalFilename),
		zap.Uint("job_id", jobID),
	)

	job, err := s.findJob(ctx, jobID, tracker)
	if err != nil {
		return nil, nil, err
	}

	analysis, err := s.parser.Parse(ctx, doc)
	if err != nil {
		tracker.StopClock()
		var docErr *DocumentError
		switch {
		case errors.As(err, &docErr):
			tracker.FailWithMessage(docErr.UserMessage(tracker.Locale()))
		case ctx.Err() != nil:
			tracker.Fail(locale.MsgCancelled)
			return nil, nil, &OrchestratorError{Reason: ReasonCancelled, Err: ctx.Err()}
		default:
			tracker.Fail(locale.MsgExtractionFailed)
		}
		return nil, nil, fmt.Errorf("failed to parse CV: %w", err)
	}

	if analysis.IsPlaceholder() {
		s.logger.Warn("⚠️ Scoring placeholder text instead of the uploaded PDF", zap.String("file", doc.OriginalFilename))
	}

	tracker.Emit(models.StageExtracting, processingCap, locale.MsgFileProcessed)

	report, err := s.orchestrator.Score(ctx, analysis, job, true, tracker)
	if err != nil {
		return nil, analysis, err
	}

	return report, analysis, nil
}

// ScoreDemo implements CVScoringService.
func (s *cvScoringService) ScoreDemo(ctx context.Context, jobID uint, tracker *ProgressTracker) (*models.ScoreReport, error) {
	if tracker.Closed() {
		return nil, ErrProgressClosed
	}

	tracker.Emit(models.StageUploading, 10, locale.MsgDemoScoring)

	job, err := s.findJob(ctx, jobID, tracker)
	if err != nil {
		return nil, err
	}

	return s.orchestrator.Score(ctx, nil, job, false, tracker)
}

func (s *cvScoringService) findJob(ctx context.Context, jobID uint, tracker *ProgressTracker) (*models.JobRequirement, error) {
	job, err := s.catalog.FindRequirement(ctx, jobID)
	if err == nil {
		return job, nil
	}

	tracker.StopClock()
	if errors.Is(err, ErrJobNotFound) {
		tracker.Fail(locale.MsgJobNotFound)
	} else {
		tracker.Fail(locale.MsgInternal)
	}
	return nil, fmt.Errorf("failed to load job %d: %w", jobID, err)
}
