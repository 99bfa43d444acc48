package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"jobify/cv-scorer/internal/locale"
	"jobify/cv-scorer/internal/models"
)

type OrchestratorConfig struct {
	AITimeout     time.Duration
	FallbackDelay time.Duration
}

// Orchestrator turns an analysis and a job into a ScoreReport.
type Orchestrator interface {
	Score(ctx context.Context, analysis *models.AnalysisRecord, job *models.JobRequirement, hasDocument bool, tracker *ProgressTracker) (*models.ScoreReport, error)
}

type orchestrator struct {
	scorer   AIScorer
	fallback FallbackScorer
	cfg      OrchestratorConfig
	logger   *zap.Logger
}

func NewOrchestrator(scorer AIScorer, fallback FallbackScorer, cfg OrchestratorConfig, logger *zap.Logger) Orchestrator {
	if cfg.AITimeout <= 0 {
		cfg.AITimeout = 120 * time.Second
	}
	if cfg.FallbackDelay < 0 {
		cfg.FallbackDelay = 0
	}
	return &orchestrator{
		scorer:   scorer,
		fallback: fallback,
		cfg:      cfg,
		logger:   logger,
	}
}

type aiResult struct {
	response *models.GeminiCVScoringResponse
	err      error
}

// Score implements Orchestrator. Without a document it scores in demo mode
// and never touches the AI model.
func (o *orchestrator) Score(ctx context.Context, analysis *models.AnalysisRecord, job *models.JobRequirement, hasDocument bool, tracker *ProgressTracker) (*models.ScoreReport, error) {
	if tracker.Closed() {
		return nil, ErrProgressClosed
	}

	if !hasDocument {
		return o.scoreDemo(job, tracker), nil
	}
	if o.scorer == nil {
		report := o.scoreDemo(job, tracker)
		report.Degraded = true
		return report, nil
	}

	tracker.StartClock(ctx)
	defer tracker.StopClock()
	tracker.Emit(models.StageAnalyzing, processingCap, locale.MsgAIAnalysis)

	aiCtx, cancel := context.WithTimeout(ctx, o.cfg.AITimeout)
	defer cancel()

	// buffered so the call can finish after we stop waiting for it
	resultCh := make(chan aiResult, 1)
	data := models.NewCVScoringPromptData(analysis, job)
	go func() {
		resp, err := o.scorer.Score(aiCtx, data)
		resultCh <- aiResult{response: resp, err: err}
	}()

	var res aiResult
	select {
	case res = <-resultCh:
	case <-aiCtx.Done():
		res = aiResult{err: aiCtx.Err()}
	}
	tracker.StopClock()

	if res.err == nil && res.response == nil {
		res.err = ErrMalformedResponse
	}

	if res.err != nil {
		switch {
		case ctx.Err() != nil:
			tracker.Fail(locale.MsgCancelled)
			return nil, &OrchestratorError{Reason: ReasonCancelled, Err: ctx.Err()}
		case errors.Is(aiCtx.Err(), context.DeadlineExceeded):
			o.logger.Warn("⏰ AI scoring timed out", zap.Uint("job_id", job.ID), zap.Duration("timeout", o.cfg.AITimeout))
			tracker.Fail(locale.MsgAITimeout)
			return nil, &OrchestratorError{Reason: ReasonTimeout, Err: context.DeadlineExceeded}
		default:
			return o.degrade(ctx, job, tracker, res.err)
		}
	}

	tracker.Emit(models.StageAwaitingScore, 95, locale.MsgReceivingResult)
	report := normalizeReport(res.response)
	report.Provider = o.scorer.Provider()

	tracker.Emit(models.StageFinalizing, 100, locale.MsgFinalizing)
	tracker.Emit(models.StageDone, 100, locale.MsgDone)

	o.logger.Info("✅ CV scored",
		zap.Uint("job_id", job.ID),
		zap.Int("score", report.Score),
		zap.String("provider", report.Provider),
	)
	return report, nil
}

func (o *orchestrator) scoreDemo(job *models.JobRequirement, tracker *ProgressTracker) *models.ScoreReport {
	tracker.Emit(models.StageAnalyzing, 50, locale.MsgDemoScoring)
	report := o.fallback.Score(models.DemoRequest{JobID: job.ID}, job)
	tracker.Emit(models.StageFinalizing, 100, locale.MsgFinalizing)
	tracker.Emit(models.StageDone, 100, locale.MsgDone)
	return report
}

// degrade reports the AI failure, waits the fallback delay and substitutes a
// demo report marked as degraded.
func (o *orchestrator) degrade(ctx context.Context, job *models.JobRequirement, tracker *ProgressTracker, cause error) (*models.ScoreReport, error) {
	o.logger.Error("❌ AI scoring failed, falling back to demo scoring", zap.Uint("job_id", job.ID), zap.Error(cause))
	tracker.Fail(locale.MsgAIFailed)

	if o.cfg.FallbackDelay > 0 {
		timer := time.NewTimer(o.cfg.FallbackDelay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return nil, &OrchestratorError{Reason: ReasonCancelled, Err: ctx.Err()}
		}
	}

	report := o.fallback.Score(models.DemoRequest{JobID: job.ID}, job)
	report.Degraded = true
	report.Provider = models.ProviderFallback
	return report, nil
}

func normalizeReport(r *models.GeminiCVScoringResponse) *models.ScoreReport {
	return &models.ScoreReport{
		Score:           models.ClampScore(r.Score),
		Summary:         strings.TrimSpace(r.Summary),
		Strengths:       cleanList(r.Strengths),
		Weaknesses:      cleanList(r.Weaknesses),
		MatchingSkills:  cleanList(r.MatchingSkills),
		MissingSkills:   cleanList(r.MissingSkills),
		Suggestions:     cleanList(r.Suggestions),
		ExperienceMatch: strings.TrimSpace(r.ExperienceMatch),
		EducationMatch:  strings.TrimSpace(r.EducationMatch),
	}
}

// cleanList trims entries and drops blanks and case-insensitive duplicates.
func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		key := strings.ToLower(item)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}
	return out
}
