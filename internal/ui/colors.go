package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/igx/internal/models"
)

var styles = NewPalette("#E1306C", "#04B575", "#FF0000", "#FFA500", "#626262")

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
	box   lipgloss.Style
}

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title: NewBold(t).MarginBottom(1),
		ok:    NewBold(s),
		err:   NewBold(e),
		warn:  NewStyle(w),
		help:  NewEm(h),
		box:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color(h)).Padding(0, 1),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}

// checkStyle picks the style for a record's check status.
func (p *Palette) checkStyle(s models.CheckStatus) lipgloss.Style {
	switch s {
	case models.CheckCompleted:
		return p.ok
	case models.CheckFailed:
		return p.err
	case models.CheckProcessing, models.CheckPending:
		return p.warn
	default:
		return p.help
	}
}

// pageStyle picks the style for an availability label.
func (p *Palette) pageStyle(s models.PageStatus) lipgloss.Style {
	switch s {
	case models.PageClosed:
		return p.ok
	case models.PageOpen:
		return p.err
	default:
		return p.help
	}
}
