package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/igx/internal/models"
	"github.com/desertthunder/igx/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgSessionUpdate MsgKind = iota
	MsgFileLoaded
	MsgExported
)

type fileLoaded struct {
	path  string
	added []models.UsernameRecord
	err   error
}

type exported struct {
	path string
	err  error
}

// sessionUpdateMsg is the constructor for [MsgSessionUpdate]
func sessionUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgSessionUpdate, data: update}
}

// fileLoadedMsg is the constructor for [MsgFileLoaded]
func fileLoadedMsg(path string, added []models.UsernameRecord, err error) Msg {
	return Msg{kind: MsgFileLoaded, data: fileLoaded{path, added, err}}
}

// exportedMsg is the constructor for [MsgExported]
func exportedMsg(path string, err error) Msg {
	return Msg{kind: MsgExported, data: exported{path, err}}
}
