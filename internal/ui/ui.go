package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/igx/internal/models"
	"github.com/desertthunder/igx/internal/shared"
	"github.com/desertthunder/igx/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	QueueView ViewState = iota
	InputView
	FileView
)

// Model represents the TUI application state.
type Model struct {
	ctx        context.Context
	view       ViewState
	session    *tasks.Session
	exportPath string
	width      int
	height     int
	records    list.Model
	input      textarea.Model
	path       textinput.Model
	bar        progress.Model
	stats      models.ProcessingStats
	notice     string
	err        error
	help       help.Model
	keys       keyMap
}

// NewModel creates a new TUI model for session. Exports are written to exportPath.
func NewModel(ctx context.Context, session *tasks.Session, exportPath string) *Model {
	records := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	records.Title = "Usernames"
	records.SetFilteringEnabled(false)
	records.SetShowHelp(false)
	records.SetStatusBarItemName("username", "usernames")

	input := textarea.New()
	input.Placeholder = "alice\n@bob\nhttps://www.instagram.com/carol/"
	input.ShowLineNumbers = false

	path := textinput.New()
	path.Placeholder = "usernames.xlsx"
	path.Prompt = "File: "

	m := &Model{
		ctx:        ctx,
		view:       QueueView,
		session:    session,
		exportPath: exportPath,
		records:    records,
		input:      input,
		path:       path,
		bar:        progress.New(progress.WithDefaultGradient()),
		help:       help.New(),
		keys:       newKeyMap(),
	}
	m.refresh()
	return m
}

// Init starts listening for session updates.
func (m *Model) Init() tea.Cmd {
	return m.waitForUpdate()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.records.SetSize(msg.Width-4, max(msg.Height-10, 4))
		m.input.SetWidth(msg.Width - 6)
		m.input.SetHeight(max(msg.Height-12, 3))
		m.bar.Width = min(max(msg.Width-8, 10), 80)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case InputView:
			return m.handleInputKeys(msg)
		case FileView:
			return m.handleFileKeys(msg)
		default:
			return m.handleQueueKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	var cmd tea.Cmd
	m.records, cmd = m.records.Update(msg)
	return m, cmd
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgSessionUpdate:
		update := msg.data.(tasks.ProgressUpdate)
		m.refresh()
		if update.Phase != tasks.StoreChanged {
			m.notice = update.Message
			m.err = nil
		}
		return m, m.waitForUpdate()

	case MsgFileLoaded:
		data := msg.data.(fileLoaded)
		m.err = data.err
		if data.err == nil {
			m.notice = fmt.Sprintf("Imported %d usernames from %s", len(data.added), data.path)
		}
		m.refresh()

	case MsgExported:
		data := msg.data.(exported)
		m.err = data.err
		if data.err == nil {
			m.notice = fmt.Sprintf("Results saved to %s", data.path)
		}
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(styles.title.Render("Instagram Username Checker"))
	b.WriteString("\n")
	b.WriteString(m.renderStats())
	b.WriteString("\n")
	b.WriteString(m.bar.ViewAs(m.stats.Progress() / 100))
	b.WriteString("\n")
	b.WriteString(m.renderNotice())
	b.WriteString("\n\n")

	switch m.view {
	case InputView:
		b.WriteString(styles.box.Render(m.input.View()))
		b.WriteString("\n")
		b.WriteString(m.help.ShortHelpView([]key.Binding{m.keys.submit, m.keys.back}))
	case FileView:
		b.WriteString(m.path.View())
		b.WriteString("\n\n")
		enter := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "import"))
		b.WriteString(m.help.ShortHelpView([]key.Binding{enter, m.keys.back}))
	default:
		b.WriteString(m.records.View())
		b.WriteString("\n")
		b.WriteString(m.help.ShortHelpView(m.queueHelp()))
	}

	return b.String()
}

func (m *Model) handleQueueKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		m.session.Stop()
		return m, tea.Quit

	case key.Matches(msg, m.keys.add):
		m.view = InputView
		m.input.Reset()
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.open):
		m.view = FileView
		m.path.Reset()
		return m, m.path.Focus()

	case key.Matches(msg, m.keys.start):
		run, started := m.session.Start(m.ctx)
		switch {
		case !started:
			m.notice = "A run is already in progress"
		case len(run.Snapshot()) == 0:
			m.notice = "Nothing to check"
		}
		return m, nil

	case key.Matches(msg, m.keys.stop):
		if m.session.Stop() {
			m.notice = "Stopping after the current username..."
		} else {
			m.notice = "No run in progress"
		}
		return m, nil

	case key.Matches(msg, m.keys.clear):
		m.session.Clear()
		m.notice = "Queue cleared"
		m.err = nil
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.export):
		if m.stats.Processed == 0 {
			m.err = shared.ErrNothingToExport
			return m, nil
		}
		return m, m.exportResults()
	}

	var cmd tea.Cmd
	m.records, cmd = m.records.Update(msg)
	return m, cmd
}

func (m *Model) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		m.session.Stop()
		return m, tea.Quit

	case key.Matches(msg, m.keys.back):
		m.input.Blur()
		m.view = QueueView
		return m, nil

	case key.Matches(msg, m.keys.submit):
		added := m.session.AddText(m.input.Value())
		m.input.Blur()
		m.view = QueueView
		m.notice = fmt.Sprintf("Queued %d usernames", len(added))
		m.err = nil
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleFileKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.session.Stop()
		return m, tea.Quit
	case "esc":
		m.path.Blur()
		m.view = QueueView
		return m, nil
	case "enter":
		path := strings.TrimSpace(m.path.Value())
		m.path.Blur()
		m.view = QueueView
		if path == "" {
			return m, nil
		}
		return m, m.loadFile(path)
	}

	var cmd tea.Cmd
	m.path, cmd = m.path.Update(msg)
	return m, cmd
}

// refresh reloads the list and counts from the session.
func (m *Model) refresh() {
	recs := m.session.Records()
	m.records.SetItems(recordItems(recs))
	m.stats = tasks.Aggregate(recs)
}

func (m *Model) waitForUpdate() tea.Cmd {
	updates := m.session.Updates()
	return func() tea.Msg {
		select {
		case update := <-updates:
			return sessionUpdateMsg(update)
		case <-m.ctx.Done():
			return nil
		}
	}
}

func (m *Model) loadFile(path string) tea.Cmd {
	return func() tea.Msg {
		added, err := m.session.AddFile(path)
		return fileLoadedMsg(path, added, err)
	}
}

func (m *Model) exportResults() tea.Cmd {
	return func() tea.Msg {
		path, err := m.session.ExportFile(m.exportPath)
		return exportedMsg(path, err)
	}
}

func (m *Model) queueHelp() []key.Binding {
	keys := []key.Binding{m.keys.add, m.keys.open}
	if m.session.State() == tasks.Running {
		keys = append(keys, m.keys.stop)
	} else {
		keys = append(keys, m.keys.start)
	}
	if m.stats.Processed > 0 {
		keys = append(keys, m.keys.export)
	}
	return append(keys, m.keys.clear, m.keys.quit)
}

func (m *Model) renderStats() string {
	state := m.session.State()
	stateLabel := styles.help.Render(state.String())
	if state == tasks.Running {
		stateLabel = styles.warn.Render(state.String())
	}

	return fmt.Sprintf("Total %d  Checked %d  %s  %s  %s  [%s]",
		m.stats.Total,
		m.stats.Processed,
		styles.err.Render(fmt.Sprintf("Taken %d", m.stats.Open)),
		styles.ok.Render(fmt.Sprintf("Available %d", m.stats.Closed)),
		styles.warn.Render(fmt.Sprintf("Errors %d", m.stats.Errors)),
		stateLabel,
	)
}

func (m *Model) renderNotice() string {
	if m.err != nil {
		if errors.Is(m.err, shared.ErrNothingToExport) {
			return styles.warn.Render("Check at least one username before exporting")
		}
		return styles.err.Render(fmt.Sprintf("Error: %v", m.err))
	}
	return styles.help.Render(m.notice)
}
