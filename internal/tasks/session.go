package tasks

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/igx/internal/formatter"
	"github.com/desertthunder/igx/internal/models"
	"github.com/desertthunder/igx/internal/repositories"
	"github.com/desertthunder/igx/internal/services"
	"github.com/desertthunder/igx/internal/shared"
)

const defaultUpdateBuffer = 64

// SessionOpts contains configuration for [NewSession].
type SessionOpts struct {
	Classifier services.Classifier
	Interval   time.Duration // Pause between records; see [ProcessorOpts]
	Sheet      string        // XLSX sheet name for exports
	Logger     *log.Logger
	Buffer     int // Capacity of the updates channel
}

// Session holds one queue of usernames and the controls a front end drives it with.
type Session struct {
	store     *repositories.RecordRepository
	processor *QueueProcessor
	updates   chan ProgressUpdate
	sheet     string
	logger    *log.Logger
}

// NewSession creates an empty session.
func NewSession(opts SessionOpts) *Session {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Buffer <= 0 {
		opts.Buffer = defaultUpdateBuffer
	}

	s := &Session{
		store:   repositories.NewRecordRepository(),
		updates: make(chan ProgressUpdate, opts.Buffer),
		sheet:   opts.Sheet,
		logger:  opts.Logger,
	}
	s.processor = NewQueueProcessor(ProcessorOpts{
		Store:      s.store,
		Classifier: opts.Classifier,
		Interval:   opts.Interval,
		Logger:     opts.Logger,
		Progress:   s.updates,
	})
	s.store.OnChange(func() {
		select {
		case s.updates <- storeChangedUpdate(s.Stats()):
		default:
		}
	})
	return s
}

// Updates streams store changes and run progress. Events are dropped when the buffer is full.
func (s *Session) Updates() <-chan ProgressUpdate {
	return s.updates
}

// AddText splits a newline- or comma-separated block and queues each handle.
func (s *Session) AddText(text string) []models.UsernameRecord {
	return s.Add(shared.SplitHandles(text))
}

// Add queues the given values as Idle records after normalization.
func (s *Session) Add(values []string) []models.UsernameRecord {
	added := s.store.Add(values)
	if len(added) > 0 {
		s.logger.Debug("usernames queued", "count", len(added))
	}
	return added
}

// AddReader reads handles from a spreadsheet, picking the parser from name's extension.
func (s *Session) AddReader(name string, r io.Reader) ([]models.UsernameRecord, error) {
	handles, err := formatter.ReadHandles(name, r)
	if err != nil {
		return nil, err
	}
	return s.Add(handles), nil
}

// AddFile queues every handle found in the file at path.
func (s *Session) AddFile(path string) ([]models.UsernameRecord, error) {
	handles, err := formatter.ReadHandlesFile(path)
	if err != nil {
		return nil, err
	}
	return s.Add(handles), nil
}

// Start begins a run over the currently eligible records. See [QueueProcessor.Start].
func (s *Session) Start(ctx context.Context) (*Run, bool) {
	return s.processor.Start(ctx)
}

// Stop signals the active run to stop. See [QueueProcessor.Stop].
func (s *Session) Stop() bool {
	return s.processor.Stop()
}

// Clear stops any active run and removes every record.
func (s *Session) Clear() {
	if s.processor.Stop() {
		s.logger.Info("run stopped by clear")
	}
	s.store.Clear()
}

// State reports whether a run is active.
func (s *Session) State() RunState {
	return s.processor.State()
}

// Current returns the active run, or nil.
func (s *Session) Current() *Run {
	return s.processor.Current()
}

// Records returns a copy of the queue in insertion order.
func (s *Session) Records() []models.UsernameRecord {
	return s.store.List()
}

// Stats aggregates the current queue.
func (s *Session) Stats() models.ProcessingStats {
	return Aggregate(s.store.List())
}

// Export writes every record to w. Fails with [shared.ErrNothingToExport] until a record has been processed.
func (s *Session) Export(w io.Writer, format formatter.Format) error {
	records, err := s.exportable()
	if err != nil {
		return err
	}
	return formatter.Export(w, records, format, s.sheet)
}

// ExportFile writes every record to path and returns the path written.
func (s *Session) ExportFile(path string) (string, error) {
	records, err := s.exportable()
	if err != nil {
		return "", err
	}

	written, err := formatter.WriteExport(records, path, s.sheet)
	if err != nil {
		return "", err
	}
	s.logger.Info("results exported", "path", written, "records", len(records))
	return written, nil
}

func (s *Session) exportable() ([]models.UsernameRecord, error) {
	records := s.store.List()
	if Aggregate(records).Processed == 0 {
		return nil, fmt.Errorf("%w: no usernames have been checked", shared.ErrNothingToExport)
	}
	return records, nil
}
