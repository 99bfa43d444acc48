package services

import (
	"context"
	"sync"
	"time"

	"jobify/cv-scorer/internal/locale"
	"jobify/cv-scorer/internal/models"
)

// ProgressSink receives the events of one request in order.
type ProgressSink interface {
	Publish(ev models.ProgressEvent)
}

// ProgressFunc adapts a plain function to ProgressSink.
type ProgressFunc func(ev models.ProgressEvent)

func (f ProgressFunc) Publish(ev models.ProgressEvent) { f(ev) }

// ChannelSink forwards events to a channel until ctx is done.
type ChannelSink struct {
	ctx context.Context
	ch  chan<- models.ProgressEvent
}

func NewChannelSink(ctx context.Context, ch chan<- models.ProgressEvent) *ChannelSink {
	return &ChannelSink{ctx: ctx, ch: ch}
}

func (s *ChannelSink) Publish(ev models.ProgressEvent) {
	select {
	case s.ch <- ev:
	case <-s.ctx.Done():
	}
}

// Elapsed-time buckets of the progress estimate.
const (
	processingWindow = 10 * time.Second
	analysisWindow   = 20 * time.Second

	processingCap = 30
	analysisCap   = 70
	reportCap     = 85

	defaultTickStep = 4
)

// ProgressTracker serializes the progress events of a single request. Percent
// never decreases, stage never moves backwards and nothing is published after
// done or failed.
type ProgressTracker struct {
	sink     ProgressSink
	locale   locale.Locale
	interval time.Duration
	step     int
	now      func() time.Time

	mu       sync.Mutex
	started  time.Time
	percent  int
	stage    models.Stage
	terminal bool

	clockOnce sync.Once
	stopOnce  sync.Once
	stopCh    chan struct{}
	clockDone chan struct{}
}

func NewProgressTracker(sink ProgressSink, loc locale.Locale, interval time.Duration) *ProgressTracker {
	if sink == nil {
		sink = ProgressFunc(func(models.ProgressEvent) {})
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &ProgressTracker{
		sink:     sink,
		locale:   loc,
		interval: interval,
		step:     defaultTickStep,
		now:      time.Now,
		started:  time.Now(),
		stopCh:   make(chan struct{}),
	}
}

func (t *ProgressTracker) Locale() locale.Locale {
	return t.locale
}

// Emit publishes an event with a localized message. It returns false when the
// event was dropped because the stream already ended.
func (t *ProgressTracker) Emit(stage models.Stage, percent int, key locale.Key) bool {
	return t.publish(stage, percent, locale.Message(t.locale, key))
}

// Fail ends the stream with a failed event.
func (t *ProgressTracker) Fail(key locale.Key) bool {
	return t.FailWithMessage(locale.Message(t.locale, key))
}

func (t *ProgressTracker) FailWithMessage(message string) bool {
	t.mu.Lock()
	percent := t.percent
	t.mu.Unlock()
	return t.publish(models.StageFailed, percent, message)
}

func (t *ProgressTracker) publish(stage models.Stage, percent int, message string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.terminal {
		return false
	}

	if percent < t.percent {
		percent = t.percent
	}
	if percent > 100 {
		percent = 100
	}
	if !stage.Terminal() && stage.Order() < t.stage.Order() {
		stage = t.stage
	}

	t.percent = percent
	t.stage = stage
	t.terminal = stage.Terminal()

	t.sink.Publish(models.ProgressEvent{Stage: stage, Percent: percent, Message: message})
	return true
}

// Closed reports whether done or failed was already published.
func (t *ProgressTracker) Closed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.terminal
}

func (t *ProgressTracker) Percent() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.percent
}

// StartClock begins the time-based estimate. Only the first call has effect.
func (t *ProgressTracker) StartClock(ctx context.Context) {
	t.clockOnce.Do(func() {
		t.mu.Lock()
		t.started = t.now()
		t.mu.Unlock()

		t.clockDone = make(chan struct{})
		go t.runClock(ctx)
	})
}

// StopClock halts the estimate and waits for the ticker goroutine to exit.
func (t *ProgressTracker) StopClock() {
	t.stopOnce.Do(func() { close(t.stopCh) })

	var done chan struct{}
	t.clockOnce.Do(func() {}) // a clock that never started cannot start later
	done = t.clockDone
	if done != nil {
		<-done
	}
}

func (t *ProgressTracker) runClock(ctx context.Context) {
	defer close(t.clockDone)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.stopCh:
			return
		case <-ticker.C:
			if !t.tick() {
				return
			}
		}
	}
}

// tick advances the estimate once. It returns false once the stream is closed.
func (t *ProgressTracker) tick() bool {
	t.mu.Lock()
	if t.terminal {
		t.mu.Unlock()
		return false
	}
	elapsed := t.now().Sub(t.started)
	current := t.percent
	t.mu.Unlock()

	stage, ceiling, key := estimateBucket(elapsed)
	next := current + t.step
	if next > ceiling {
		next = ceiling
	}
	if next <= current {
		return true
	}

	return t.Emit(stage, next, key)
}

func estimateBucket(elapsed time.Duration) (models.Stage, int, locale.Key) {
	switch {
	case elapsed < processingWindow:
		return models.StageExtracting, processingCap, locale.MsgProcessingFile
	case elapsed < analysisWindow:
		return models.StageAnalyzing, analysisCap, locale.MsgAIAnalysis
	default:
		return models.StageAnalyzing, reportCap, locale.MsgBuildingReport
	}
}
