package tasks

import (
	"fmt"

	"github.com/desertthunder/igx/internal/models"
)

// ProgressUpdate represents a progress event during a queue run or a change to the record store.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase                  // Event kind
	RunID   string                 // Run the event belongs to, empty for store changes
	Step    int                    // Current position within the run snapshot (1-based)
	Total   int                    // Size of the run snapshot
	Message string                 // Human-readable message for display
	Stats   models.ProcessingStats // Aggregate counts at the time of the event
	Data    any                    // Optional phase-specific data ([models.UsernameRecord] or [RunResult])
}

// Phase enumerates progress events.
type Phase int

const (
	StoreChanged Phase = iota
	RunStarted
	RecordProcessing
	RecordChecked
	RunFinished
	RunStopped
)

func (p Phase) String() string {
	switch p {
	case StoreChanged:
		return "store_changed"
	case RunStarted:
		return "run_started"
	case RecordProcessing:
		return "record_processing"
	case RecordChecked:
		return "record_checked"
	case RunFinished:
		return "run_finished"
	case RunStopped:
		return "run_stopped"
	default:
		return ""
	}
}

func storeChangedUpdate(stats models.ProcessingStats) ProgressUpdate {
	return ProgressUpdate{
		Phase:   StoreChanged,
		Message: fmt.Sprintf("%d usernames loaded", stats.Total),
		Stats:   stats,
	}
}

func runStartedUpdate(run *Run, stats models.ProcessingStats) ProgressUpdate {
	return ProgressUpdate{
		Phase:   RunStarted,
		RunID:   run.ID,
		Total:   len(run.snapshot),
		Message: fmt.Sprintf("Checking %d usernames...", len(run.snapshot)),
		Stats:   stats,
	}
}

func recordProcessingUpdate(run *Run, step int, rec models.UsernameRecord, stats models.ProcessingStats) ProgressUpdate {
	return ProgressUpdate{
		Phase:   RecordProcessing,
		RunID:   run.ID,
		Step:    step,
		Total:   len(run.snapshot),
		Message: fmt.Sprintf("[%d/%d] @%s", step, len(run.snapshot), rec.Username),
		Stats:   stats,
		Data:    rec,
	}
}

func recordCheckedUpdate(run *Run, step int, rec models.UsernameRecord, stats models.ProcessingStats) ProgressUpdate {
	mark := "✓"
	if rec.CheckStatus == models.CheckFailed {
		mark = "✗"
	}
	return ProgressUpdate{
		Phase:   RecordChecked,
		RunID:   run.ID,
		Step:    step,
		Total:   len(run.snapshot),
		Message: fmt.Sprintf("[%d/%d] %s @%s %s", step, len(run.snapshot), mark, rec.Username, rec.PageStatus),
		Stats:   stats,
		Data:    rec,
	}
}

func runEndedUpdate(run *Run, result RunResult, stats models.ProcessingStats) ProgressUpdate {
	phase, verb := RunFinished, "finished"
	if result.Stopped {
		phase, verb = RunStopped, "stopped"
	}
	return ProgressUpdate{
		Phase:   phase,
		RunID:   run.ID,
		Step:    result.Attempted,
		Total:   result.Eligible,
		Message: fmt.Sprintf("Run %s: %d/%d checked, %d failed", verb, result.Attempted, result.Eligible, result.Failed),
		Stats:   stats,
		Data:    result,
	}
}
