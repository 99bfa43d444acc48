package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"jobify/cv-scorer/internal/locale"
	"jobify/cv-scorer/internal/models"
)

const taskEventBuffer = 32

// ScoringTask is one queued request. Events is closed once the task
// finishes; Report, Analysis and Err are set before that.
type ScoringTask struct {
	ID       uuid.UUID
	Document *models.RawDocument
	JobID    uint
	Locale   locale.Locale
	Events   chan models.ProgressEvent

	Report   *models.ScoreReport
	Analysis *models.AnalysisRecord
	Err      error

	ctx  context.Context
	done chan struct{}
	once sync.Once
}

// NewScoringTask creates a task. doc may be nil for demo scoring.
func NewScoringTask(ctx context.Context, doc *models.RawDocument, jobID uint, loc locale.Locale) *ScoringTask {
	id := uuid.New()
	if doc != nil {
		id = doc.ID
	}
	return &ScoringTask{
		ID:       id,
		Document: doc,
		JobID:    jobID,
		Locale:   loc,
		Events:   make(chan models.ProgressEvent, taskEventBuffer),
		ctx:      ctx,
		done:     make(chan struct{}),
	}
}

// Done is closed when the task has a result.
func (t *ScoringTask) Done() <-chan struct{} {
	return t.done
}

func (t *ScoringTask) finish(report *models.ScoreReport, analysis *models.AnalysisRecord, err error) {
	t.once.Do(func() {
		t.Report = report
		t.Analysis = analysis
		t.Err = err
		close(t.Events)
		close(t.done)
	})
}

type Worker interface {
	Start(ctx context.Context)
	Stop()
	Enqueue(task *ScoringTask) error
}

type WorkerConfig struct {
	Concurrency      int
	QueueSize        int
	ProgressInterval time.Duration
}

type worker struct {
	scoring  CVScoringService
	cfg      WorkerConfig
	logger   *zap.Logger
	jobQueue chan *ScoringTask
	wg       sync.WaitGroup
	stopChan chan struct{}

	mu      sync.RWMutex
	stopped bool
}

func NewWorker(scoring CVScoringService, cfg WorkerConfig, logger *zap.Logger) Worker {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if cfg.QueueSize < 0 {
		cfg.QueueSize = 0
	}
	return &worker{
		scoring:  scoring,
		cfg:      cfg,
		logger:   logger,
		jobQueue: make(chan *ScoringTask, cfg.QueueSize),
		stopChan: make(chan struct{}),
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	w.logger.Info("🚀 Starting worker", zap.Int("concurrency", w.cfg.Concurrency))

	for i := 0; i < w.cfg.Concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}

	w.logger.Info("✅ Worker started successfully")
}

// Stop implements Worker. Tasks still queued finish with ErrWorkerStopped.
func (w *worker) Stop() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.stopped = true
	close(w.stopChan)
	w.mu.Unlock()

	w.logger.Info("🛑 Stopping worker...")
	w.wg.Wait()

	for {
		select {
		case task := <-w.jobQueue:
			task.Document.Release()
			task.finish(nil, nil, ErrWorkerStopped)
		default:
			w.logger.Info("✅ Worker stopped")
			return
		}
	}
}

// Enqueue implements Worker. It never blocks: a full queue is reported as
// ErrQueueFull and the task's document is released.
func (w *worker) Enqueue(task *ScoringTask) error {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.stopped {
		task.Document.Release()
		return ErrWorkerStopped
	}

	select {
	case w.jobQueue <- task:
		w.logger.Debug("📥 Task enqueued", zap.String("task_id", task.ID.String()))
		return nil
	default:
		w.logger.Warn("⚠️ Scoring queue full", zap.String("task_id", task.ID.String()))
		task.Document.Release()
		return ErrQueueFull
	}
}

func (w *worker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopChan:
			w.logger.Debug("👷 Worker stopped", zap.Int("worker", workerID))
			return
		case <-ctx.Done():
			return
		case task := <-w.jobQueue:
			w.run(workerID, task)
		}
	}
}

func (w *worker) run(workerID int, task *ScoringTask) {
	log := w.logger.With(zap.Int("worker", workerID), zap.String("task_id", task.ID.String()))

	if err := task.ctx.Err(); err != nil {
		task.Document.Release()
		task.finish(nil, nil, &OrchestratorError{Reason: ReasonCancelled, Err: err})
		log.Info("👷 Skipping cancelled task")
		return
	}

	tracker := NewProgressTracker(NewChannelSink(task.ctx, task.Events), task.Locale, w.cfg.ProgressInterval)
	defer tracker.StopClock()

	log.Info("👷 Processing task", zap.Uint("job_id", task.JobID), zap.Bool("demo", task.Document == nil))

	var (
		report   *models.ScoreReport
		analysis *models.AnalysisRecord
		err      error
	)
	if task.Document == nil {
		report, err = w.scoring.ScoreDemo(task.ctx, task.JobID, tracker)
	} else {
		report, analysis, err = w.scoring.ScoreDocument(task.ctx, task.Document, task.JobID, tracker)
	}

	tracker.StopClock()
	task.finish(report, analysis, err)

	if err != nil {
		log.Error("❌ Task failed", zap.Error(err))
		return
	}
	log.Info("✅ Task completed", zap.Int("score", report.Score), zap.Bool("degraded", report.Degraded))
}
