package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/igx/internal/models"
	"github.com/desertthunder/igx/internal/repositories"
	"github.com/desertthunder/igx/internal/services"
	tu "github.com/desertthunder/igx/internal/testing"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func newProcessor(store repositories.RecordStore, c services.Classifier, interval time.Duration, progress chan<- ProgressUpdate) *QueueProcessor {
	return NewQueueProcessor(ProcessorOpts{
		Store:      store,
		Classifier: c,
		Interval:   interval,
		Logger:     quietLogger(),
		Progress:   progress,
	})
}

func waitRun(t *testing.T, run *Run) RunResult {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := run.Wait(ctx)
	if err != nil {
		t.Fatalf("run did not finish: %v", err)
	}
	return result
}

func byName(recs []models.UsernameRecord) map[string]models.UsernameRecord {
	out := make(map[string]models.UsernameRecord, len(recs))
	for _, r := range recs {
		out[r.Username] = r
	}
	return out
}

func TestQueueProcessor(t *testing.T) {
	t.Run("classifier result marks record completed", func(t *testing.T) {
		store := repositories.NewRecordRepository()
		store.Add([]string{"alice"})
		stub := &tu.StubClassifier{Results: map[string]models.ClassifierResult{
			"alice": {PageStatus: models.PageOpen, Notes: "found", ProfileURL: "https://instagram.com/alice"},
		}}

		p := newProcessor(store, stub, 0, nil)
		run, started := p.Start(context.Background())
		if !started {
			t.Fatal("expected run to start")
		}
		result := waitRun(t, run)

		rec := store.List()[0]
		if rec.CheckStatus != models.CheckCompleted || rec.PageStatus != models.PageOpen || rec.Notes != "found" {
			t.Errorf("unexpected record %+v", rec)
		}
		if rec.ProfileURL != "https://instagram.com/alice" {
			t.Errorf("expected profile url to be stored, got %q", rec.ProfileURL)
		}
		if result.Completed != 1 || result.Failed != 0 || result.Stopped {
			t.Errorf("unexpected result %+v", result)
		}
		if p.State() != Idle || p.Current() != nil {
			t.Errorf("expected idle processor after run, got %s", p.State())
		}
	})

	t.Run("unknown result still completes", func(t *testing.T) {
		store := repositories.NewRecordRepository()
		store.Add([]string{"ghost"})
		stub := &tu.StubClassifier{Results: map[string]models.ClassifierResult{
			"ghost": {PageStatus: models.PageUnknown, Notes: services.NoteNoResponse},
		}}

		run, _ := newProcessor(store, stub, 0, nil).Start(context.Background())
		waitRun(t, run)

		rec := store.List()[0]
		if rec.CheckStatus != models.CheckCompleted || rec.PageStatus != models.PageUnknown {
			t.Errorf("expected Completed/Unknown, got %s/%s", rec.CheckStatus, rec.PageStatus)
		}
	})

	t.Run("classifier error fails record and is retried next run", func(t *testing.T) {
		store := repositories.NewRecordRepository()
		store.Add([]string{"alice", "bob"})
		stub := &tu.StubClassifier{Errors: map[string]error{"bob": errors.New("connection reset")}}
		p := newProcessor(store, stub, 0, nil)

		run, _ := p.Start(context.Background())
		result := waitRun(t, run)

		bob := byName(store.List())["bob"]
		if bob.CheckStatus != models.CheckFailed || bob.Notes != NoteAPIError {
			t.Errorf("expected Failed/%q, got %s/%q", NoteAPIError, bob.CheckStatus, bob.Notes)
		}
		if bob.PageStatus != models.PageUnknown {
			t.Errorf("expected Unknown page status, got %s", bob.PageStatus)
		}
		if result.Failed != 1 || result.Completed != 1 {
			t.Errorf("unexpected result %+v", result)
		}

		delete(stub.Errors, "bob")
		run, started := p.Start(context.Background())
		if !started {
			t.Fatal("expected second run to start")
		}
		if got := len(run.Snapshot()); got != 1 {
			t.Fatalf("expected only bob to be eligible, got %d records", got)
		}
		waitRun(t, run)

		if got := fmt.Sprint(stub.Calls()); got != "[alice bob bob]" {
			t.Errorf("unexpected call order %s", got)
		}
		if bob := byName(store.List())["bob"]; bob.CheckStatus != models.CheckCompleted {
			t.Errorf("expected bob to complete on retry, got %s", bob.CheckStatus)
		}
	})

	t.Run("stop between records leaves the rest untouched", func(t *testing.T) {
		store := repositories.NewRecordRepository()
		store.Add([]string{"u1", "u2", "u3", "u4", "u5"})

		var p *QueueProcessor
		c := services.ClassifierFunc(func(ctx context.Context, username string) (models.ClassifierResult, error) {
			if username == "u2" {
				p.Stop()
			}
			return models.ClassifierResult{PageStatus: models.PageClosed, Notes: "none"}, nil
		})
		p = newProcessor(store, c, 0, nil)

		run, _ := p.Start(context.Background())
		result := waitRun(t, run)

		recs := store.List()
		for i, rec := range recs {
			want := models.CheckIdle
			if i < 2 {
				want = models.CheckCompleted
			}
			if rec.CheckStatus != want {
				t.Errorf("%s: expected %s, got %s", rec.Username, want, rec.CheckStatus)
			}
		}
		if !result.Stopped || result.Attempted != 2 {
			t.Errorf("expected stopped run with 2 attempts, got %+v", result)
		}
	})

	t.Run("stop interrupts the pacing wait", func(t *testing.T) {
		store := repositories.NewRecordRepository()
		store.Add([]string{"u1", "u2"})
		progress := make(chan ProgressUpdate, 32)
		p := newProcessor(store, &tu.StubClassifier{}, time.Hour, progress)

		run, _ := p.Start(context.Background())
		for u := range progress {
			if u.Phase == RecordChecked {
				break
			}
		}
		p.Stop()
		result := waitRun(t, run)

		if result.Attempted != 1 || !result.Stopped {
			t.Errorf("expected one attempt before stop, got %+v", result)
		}
		if u2 := byName(store.List())["u2"]; u2.CheckStatus != models.CheckIdle {
			t.Errorf("expected u2 to stay Idle, got %s", u2.CheckStatus)
		}
	})

	t.Run("stop lets the in-flight record finish", func(t *testing.T) {
		store := repositories.NewRecordRepository()
		store.Add([]string{"slow", "next"})
		stub := &tu.StubClassifier{Gate: make(chan struct{}), Started: make(chan string, 2)}
		p := newProcessor(store, stub, 0, nil)

		run, _ := p.Start(context.Background())
		<-stub.Started

		if !p.Stop() {
			t.Fatal("expected stop to report an active run")
		}
		if p.State() != Idle {
			t.Errorf("expected state to flip to idle immediately, got %s", p.State())
		}
		if p.Stop() {
			t.Error("expected second stop to be a no-op")
		}
		if slow := byName(store.List())["slow"]; slow.CheckStatus != models.CheckProcessing {
			t.Errorf("expected in-flight record to be Processing, got %s", slow.CheckStatus)
		}

		stub.Gate <- struct{}{}
		result := waitRun(t, run)

		recs := byName(store.List())
		if recs["slow"].CheckStatus != models.CheckCompleted {
			t.Errorf("expected in-flight record to complete, got %s", recs["slow"].CheckStatus)
		}
		if recs["next"].CheckStatus != models.CheckIdle {
			t.Errorf("expected next record to stay Idle, got %s", recs["next"].CheckStatus)
		}
		if !result.Stopped {
			t.Error("expected run to be marked stopped")
		}
	})

	t.Run("start while running is a no-op", func(t *testing.T) {
		store := repositories.NewRecordRepository()
		store.Add([]string{"alice"})
		stub := &tu.StubClassifier{Gate: make(chan struct{}), Started: make(chan string, 1)}
		p := newProcessor(store, stub, 0, nil)

		first, _ := p.Start(context.Background())
		<-stub.Started

		second, started := p.Start(context.Background())
		if started {
			t.Error("expected second start to be rejected")
		}
		if second != first {
			t.Error("expected the active run to be returned")
		}
		if p.State() != Running || p.Current() != first {
			t.Errorf("expected running state, got %s", p.State())
		}

		close(stub.Gate)
		waitRun(t, first)

		if got := len(stub.Calls()); got != 1 {
			t.Errorf("expected exactly one call, got %d", got)
		}
	})

	t.Run("records added mid-run wait for the next run", func(t *testing.T) {
		store := repositories.NewRecordRepository()
		store.Add([]string{"alice"})
		stub := &tu.StubClassifier{Gate: make(chan struct{}), Started: make(chan string, 2)}
		p := newProcessor(store, stub, 0, nil)

		run, _ := p.Start(context.Background())
		<-stub.Started
		store.Add([]string{"dave"})
		close(stub.Gate)
		waitRun(t, run)

		if dave := byName(store.List())["dave"]; dave.CheckStatus != models.CheckIdle {
			t.Errorf("expected dave to stay Idle, got %s", dave.CheckStatus)
		}
		if got := fmt.Sprint(stub.Calls()); got != "[alice]" {
			t.Errorf("unexpected calls %s", got)
		}
	})

	t.Run("records outside the snapshot keep their status", func(t *testing.T) {
		store := repositories.NewRecordRepository()
		added := store.Add([]string{"done", "todo"})
		store.Update(added[0].ID, models.ProcessingPatch())
		store.Update(added[0].ID, models.CompletedPatch(models.ClassifierResult{PageStatus: models.PageOpen, Notes: "earlier"}))
		stub := &tu.StubClassifier{}

		run, _ := newProcessor(store, stub, 0, nil).Start(context.Background())
		waitRun(t, run)

		done := byName(store.List())["done"]
		if done.Notes != "earlier" || done.PageStatus != models.PageOpen {
			t.Errorf("expected completed record untouched, got %+v", done)
		}
		if got := fmt.Sprint(stub.Calls()); got != "[todo]" {
			t.Errorf("unexpected calls %s", got)
		}
	})

	t.Run("cancelled context stops the run", func(t *testing.T) {
		store := repositories.NewRecordRepository()
		store.Add([]string{"u1", "u2", "u3"})
		ctx, cancel := context.WithCancel(context.Background())
		stub := &tu.StubClassifier{Gate: make(chan struct{}), Started: make(chan string, 3)}

		run, _ := newProcessor(store, stub, 0, nil).Start(ctx)
		<-stub.Started
		cancel()
		stub.Gate <- struct{}{}
		result := waitRun(t, run)

		if !result.Stopped || result.Attempted != 1 {
			t.Errorf("expected stop after the in-flight record, got %+v", result)
		}
		if u1 := byName(store.List())["u1"]; u1.CheckStatus != models.CheckCompleted {
			t.Errorf("expected in-flight call to finish despite cancellation, got %s", u1.CheckStatus)
		}
	})

	t.Run("empty queue finishes immediately", func(t *testing.T) {
		p := newProcessor(repositories.NewRecordRepository(), &tu.StubClassifier{}, time.Hour, nil)
		run, started := p.Start(context.Background())
		if !started {
			t.Fatal("expected run to start")
		}
		result := waitRun(t, run)
		if result.Eligible != 0 || result.Stopped {
			t.Errorf("unexpected result %+v", result)
		}
	})

	t.Run("emits progress in order", func(t *testing.T) {
		store := repositories.NewRecordRepository()
		store.Add([]string{"alice", "bob"})
		progress := make(chan ProgressUpdate, 32)

		run, _ := newProcessor(store, &tu.StubClassifier{}, 0, progress).Start(context.Background())
		waitRun(t, run)
		close(progress)

		var phases []Phase
		for u := range progress {
			phases = append(phases, u.Phase)
			if u.RunID != run.ID {
				t.Errorf("expected run id %s, got %s", run.ID, u.RunID)
			}
		}
		want := []Phase{RunStarted, RecordProcessing, RecordChecked, RecordProcessing, RecordChecked, RunFinished}
		if fmt.Sprint(phases) != fmt.Sprint(want) {
			t.Errorf("expected %v, got %v", want, phases)
		}
	})
}

func TestRunWait(t *testing.T) {
	run := newRun(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := run.Wait(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	run.Stop()
	run.Stop()
	if !run.stopped() {
		t.Error("expected run to report stopped")
	}
}

func TestRunStateString(t *testing.T) {
	if Idle.String() != "idle" || Running.String() != "running" {
		t.Errorf("unexpected strings %q %q", Idle, Running)
	}
}
