package tasks

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/igx/internal/models"
	"github.com/desertthunder/igx/internal/repositories"
	"github.com/desertthunder/igx/internal/services"
	"github.com/desertthunder/igx/internal/shared"
)

// DefaultInterval is the pause between two classifications.
const DefaultInterval = time.Second

// NoteAPIError is recorded on a record whose classifier call returned an error.
const NoteAPIError = "API Error"

// RunState is the processor's run-level state.
type RunState int

const (
	Idle RunState = iota
	Running
)

func (s RunState) String() string {
	if s == Running {
		return "running"
	}
	return "idle"
}

// RunResult summarizes a finished run.
type RunResult struct {
	Eligible  int       `json:"eligible"`  // Records in the snapshot
	Attempted int       `json:"attempted"` // Records handed to the classifier
	Completed int       `json:"completed"` // Records marked Completed
	Failed    int       `json:"failed"`    // Records marked Failed
	Stopped   bool      `json:"stopped"`   // Run ended before the snapshot was exhausted
	Started   time.Time `json:"started"`
	Finished  time.Time `json:"finished"`
}

// Run is one pass of the [QueueProcessor] over the eligibility snapshot taken at start.
//
// A Run is its own cancellation handle: [Run.Stop] is observed between records and never aborts an in-flight call.
type Run struct {
	ID       string
	snapshot []models.UsernameRecord
	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}

	mu     sync.Mutex
	result RunResult
}

func newRun(snapshot []models.UsernameRecord) *Run {
	return &Run{
		ID:       shared.GenerateID(),
		snapshot: snapshot,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
		result:   RunResult{Eligible: len(snapshot), Started: time.Now()},
	}
}

// Stop raises the stop signal. Safe to call more than once.
func (r *Run) Stop() {
	r.stopOnce.Do(func() { close(r.stop) })
}

// Done is closed once the run has exited.
func (r *Run) Done() <-chan struct{} {
	return r.done
}

// Wait blocks until the run exits or ctx is done.
func (r *Run) Wait(ctx context.Context) (RunResult, error) {
	select {
	case <-r.done:
		return r.Result(), nil
	case <-ctx.Done():
		return r.Result(), ctx.Err()
	}
}

// Result returns the run summary so far.
func (r *Run) Result() RunResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.result
}

// Snapshot returns a copy of the records this run attempts.
func (r *Run) Snapshot() []models.UsernameRecord {
	return append([]models.UsernameRecord(nil), r.snapshot...)
}

func (r *Run) stopped() bool {
	select {
	case <-r.stop:
		return true
	default:
		return false
	}
}

// pause waits d, returning false if the run was stopped or ctx ended first.
func (r *Run) pause(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return !r.stopped() && ctx.Err() == nil
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return true
	case <-r.stop:
		return false
	case <-ctx.Done():
		return false
	}
}

func (r *Run) record(fn func(*RunResult)) {
	r.mu.Lock()
	fn(&r.result)
	r.mu.Unlock()
}

// ProcessorOpts contains configuration for [NewQueueProcessor].
type ProcessorOpts struct {
	Store      repositories.RecordStore
	Classifier services.Classifier
	Interval   time.Duration        // Pause after each record; 0 disables pacing
	Logger     *log.Logger          // Defaults to [shared.NewLogger]
	Progress   chan<- ProgressUpdate // Optional; sends never block
}

// QueueProcessor drives eligible records through the classifier one at a time.
type QueueProcessor struct {
	store      repositories.RecordStore
	classifier services.Classifier
	interval   time.Duration
	logger     *log.Logger
	progress   chan<- ProgressUpdate

	mu    sync.Mutex
	state RunState
	run   *Run
}

// NewQueueProcessor creates an idle processor.
func NewQueueProcessor(opts ProcessorOpts) *QueueProcessor {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Interval < 0 {
		opts.Interval = DefaultInterval
	}

	return &QueueProcessor{
		store:      opts.Store,
		classifier: opts.Classifier,
		interval:   opts.Interval,
		logger:     opts.Logger,
		progress:   opts.Progress,
	}
}

// State reports whether a run is active.
func (p *QueueProcessor) State() RunState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Current returns the active run, or nil when idle.
func (p *QueueProcessor) Current() *Run {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.run
}

// Start snapshots the Idle and Failed records and processes them in the background.
//
// When a run is already active, Start is a no-op and returns that run with started == false.
// Cancelling ctx has the same effect as [QueueProcessor.Stop] for this run.
func (p *QueueProcessor) Start(ctx context.Context) (run *Run, started bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == Running {
		return p.run, false
	}

	run = newRun(p.store.Eligible())
	p.state = Running
	p.run = run

	logger := shared.WithLogger(p.logger, "run", run.ID[:8])
	logger.Info("run started", "eligible", len(run.snapshot))
	p.sendProgress(runStartedUpdate(run, p.stats()))

	go p.process(ctx, run, logger)
	return run, true
}

// Stop raises the active run's stop signal and returns the processor to Idle immediately.
//
// A record already in flight finishes its call and is still written back. Returns false when idle.
func (p *QueueProcessor) Stop() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != Running {
		return false
	}

	p.run.Stop()
	p.state = Idle
	p.run = nil
	return true
}

func (p *QueueProcessor) process(ctx context.Context, run *Run, logger *log.Logger) {
	stopped := false
	defer func() { p.finish(run, stopped, logger) }()

	// The classifier call outlives a stop or cancellation so an in-flight record always reaches a terminal state.
	callCtx := context.WithoutCancel(ctx)

	for i, rec := range run.snapshot {
		if run.stopped() || ctx.Err() != nil {
			stopped = true
			return
		}

		step := i + 1
		if !p.store.Update(rec.ID, models.ProcessingPatch()) {
			logger.Debug("record no longer eligible, skipping", "username", rec.Username)
			continue
		}
		rec.CheckStatus = models.CheckProcessing
		p.sendProgress(recordProcessingUpdate(run, step, rec, p.stats()))

		run.record(func(r *RunResult) { r.Attempted++ })
		res, err := p.classifier.Classify(callCtx, rec.Username)
		if err != nil {
			logger.Warn("check failed", "username", rec.Username, "err", err)
			p.store.Update(rec.ID, models.FailedPatch(NoteAPIError))
			run.record(func(r *RunResult) { r.Failed++ })
			rec.CheckStatus, rec.PageStatus, rec.Notes = models.CheckFailed, models.PageUnknown, NoteAPIError
		} else {
			logger.Info("checked", "username", rec.Username, "page_status", res.PageStatus)
			p.store.Update(rec.ID, models.CompletedPatch(res))
			run.record(func(r *RunResult) { r.Completed++ })
			rec.CheckStatus, rec.PageStatus, rec.Notes, rec.ProfileURL = models.CheckCompleted, res.PageStatus, res.Notes, res.ProfileURL
		}
		p.sendProgress(recordCheckedUpdate(run, step, rec, p.stats()))

		if !run.pause(ctx, p.interval) {
			stopped = true
			return
		}
	}
}

func (p *QueueProcessor) finish(run *Run, stopped bool, logger *log.Logger) {
	run.record(func(r *RunResult) {
		r.Stopped = stopped
		r.Finished = time.Now()
	})

	p.mu.Lock()
	if p.run == run {
		p.state = Idle
		p.run = nil
	}
	p.mu.Unlock()

	result := run.Result()
	logger.Info("run ended", "attempted", result.Attempted, "completed", result.Completed, "failed", result.Failed, "stopped", stopped)
	p.sendProgress(runEndedUpdate(run, result, p.stats()))
	close(run.done)
}

func (p *QueueProcessor) stats() models.ProcessingStats {
	return Aggregate(p.store.List())
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (p *QueueProcessor) sendProgress(update ProgressUpdate) {
	if p.progress == nil {
		return
	}
	select {
	case p.progress <- update:
	default:
	}
}
