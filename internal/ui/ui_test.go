package ui

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/igx/internal/models"
	"github.com/desertthunder/igx/internal/tasks"
	tu "github.com/desertthunder/igx/internal/testing"
)

func newTestModel(t *testing.T, stub *tu.StubClassifier) (*Model, *tasks.Session) {
	t.Helper()
	session := tasks.NewSession(tasks.SessionOpts{Classifier: stub, Logger: log.New(io.Discard)})
	m := NewModel(context.Background(), session, filepath.Join(t.TempDir(), "results.xlsx"))
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m, session
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func waitForPhase(t *testing.T, session *tasks.Session, phase tasks.Phase) tasks.ProgressUpdate {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case u := <-session.Updates():
			if u.Phase == phase {
				return u
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %s", phase)
		}
	}
}

func TestModel(t *testing.T) {
	t.Run("add view queues usernames", func(t *testing.T) {
		m, session := newTestModel(t, &tu.StubClassifier{})

		m.Update(keyPress("a"))
		if m.view != InputView {
			t.Fatalf("expected input view, got %d", m.view)
		}

		m.input.SetValue("alice\n@bob")
		m.Update(keyPress("ctrl+s"))

		if m.view != QueueView {
			t.Errorf("expected queue view after submit, got %d", m.view)
		}
		if got := len(session.Records()); got != 2 {
			t.Errorf("expected 2 records, got %d", got)
		}
		if len(m.records.Items()) != 2 {
			t.Errorf("expected list to show 2 items, got %d", len(m.records.Items()))
		}
		if !strings.Contains(m.notice, "Queued 2") {
			t.Errorf("unexpected notice %q", m.notice)
		}
	})

	t.Run("esc leaves input without queueing", func(t *testing.T) {
		m, session := newTestModel(t, &tu.StubClassifier{})
		m.Update(keyPress("a"))
		m.input.SetValue("alice")
		m.Update(keyPress("esc"))

		if m.view != QueueView || len(session.Records()) != 0 {
			t.Errorf("expected nothing queued, got view %d and %d records", m.view, len(session.Records()))
		}
	})

	t.Run("start runs and session updates refresh counts", func(t *testing.T) {
		stub := &tu.StubClassifier{Results: map[string]models.ClassifierResult{
			"alice": {PageStatus: models.PageOpen, Notes: "found"},
		}}
		m, session := newTestModel(t, stub)
		session.AddText("alice")

		m.Update(keyPress("s"))
		update := waitForPhase(t, session, tasks.RunFinished)
		m.Update(sessionUpdateMsg(update))

		if m.stats.Processed != 1 || m.stats.Open != 1 {
			t.Errorf("unexpected stats %+v", m.stats)
		}
		if m.notice != update.Message {
			t.Errorf("expected notice %q, got %q", update.Message, m.notice)
		}
		if !strings.Contains(m.View(), "Taken 1") {
			t.Error("expected view to show taken count")
		}
	})

	t.Run("stop with no run", func(t *testing.T) {
		m, _ := newTestModel(t, &tu.StubClassifier{})
		m.Update(keyPress("x"))
		if m.notice != "No run in progress" {
			t.Errorf("unexpected notice %q", m.notice)
		}
	})

	t.Run("export is gated until a record is checked", func(t *testing.T) {
		m, session := newTestModel(t, &tu.StubClassifier{})
		session.AddText("alice")
		m.refresh()

		_, cmd := m.Update(keyPress("e"))
		if cmd != nil {
			t.Error("expected no export command")
		}
		if !strings.Contains(m.View(), "before exporting") {
			t.Error("expected export warning in view")
		}
	})

	t.Run("export writes file", func(t *testing.T) {
		m, session := newTestModel(t, &tu.StubClassifier{})
		session.AddText("alice")
		run, _ := session.Start(context.Background())
		<-run.Done()
		m.refresh()

		_, cmd := m.Update(keyPress("e"))
		if cmd == nil {
			t.Fatal("expected export command")
		}
		m.Update(cmd())

		if m.err != nil {
			t.Fatalf("unexpected error: %v", m.err)
		}
		tu.AssertFileExists(t, m.exportPath)
	})

	t.Run("file view imports spreadsheet", func(t *testing.T) {
		m, session := newTestModel(t, &tu.StubClassifier{})
		path := filepath.Join(t.TempDir(), "missing.csv")

		m.Update(keyPress("o"))
		if m.view != FileView {
			t.Fatalf("expected file view, got %d", m.view)
		}
		m.path.SetValue(path)
		_, cmd := m.Update(keyPress("enter"))
		if cmd == nil {
			t.Fatal("expected load command")
		}
		m.Update(cmd())

		if m.err == nil {
			t.Error("expected error for missing file")
		}
		if len(session.Records()) != 0 {
			t.Error("expected no records")
		}
	})

	t.Run("clear empties queue", func(t *testing.T) {
		m, session := newTestModel(t, &tu.StubClassifier{})
		session.AddText("alice\nbob")
		m.refresh()

		m.Update(keyPress("c"))
		if len(m.records.Items()) != 0 || m.stats.Total != 0 {
			t.Errorf("expected empty list, got %d items", len(m.records.Items()))
		}
	})

	t.Run("quit", func(t *testing.T) {
		m, _ := newTestModel(t, &tu.StubClassifier{})
		_, cmd := m.Update(keyPress("q"))
		if cmd == nil {
			t.Fatal("expected quit command")
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Error("expected tea.QuitMsg")
		}
	})
}

func TestRecordItem(t *testing.T) {
	item := recordItem{record: models.UsernameRecord{
		Username:    "alice",
		CheckStatus: models.CheckCompleted,
		PageStatus:  models.PageClosed,
		Notes:       "no profile",
	}}

	if item.FilterValue() != "alice" {
		t.Errorf("unexpected filter value %q", item.FilterValue())
	}
	if !strings.Contains(item.Title(), "@alice") {
		t.Errorf("unexpected title %q", item.Title())
	}
	if desc := item.Description(); !strings.Contains(desc, "AVAILABLE") || !strings.Contains(desc, "no profile") {
		t.Errorf("unexpected description %q", desc)
	}
}
