package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/desertthunder/igx/internal/models"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// TableOpts controls [RenderTable].
type TableOpts struct {
	Color    bool // Colorize statuses (only when writing to a terminal)
	MaxNotes int  // Truncate notes to this many runes, 0 for no limit
}

// RenderTable writes a results table followed by a stats footer.
func RenderTable(w io.Writer, records []models.UsernameRecord, stats models.ProcessingStats, opts TableOpts) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	if opts.Color {
		tw.SetStyle(table.StyleRounded)
	} else {
		tw.SetStyle(table.StyleLight)
	}

	tw.AppendHeader(table.Row{"#", "Username", "Status", "Is Page Open?", "Availability", "Notes"})
	for i, rec := range records {
		tw.AppendRow(table.Row{
			i + 1,
			"@" + rec.Username,
			paintStatus(rec.CheckStatus, opts.Color),
			IsPageOpenLabel(rec.PageStatus),
			paintAvailability(rec.PageStatus, opts.Color),
			truncate(rec.Notes, opts.MaxNotes),
		})
	}

	tw.AppendFooter(table.Row{
		"", "Processed", fmt.Sprintf("%d / %d", stats.Processed, stats.Total),
		fmt.Sprintf("open %d", stats.Open), fmt.Sprintf("closed %d", stats.Closed), fmt.Sprintf("errors %d", stats.Errors),
	})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
	})

	tw.Render()
}

func paintStatus(s models.CheckStatus, color bool) string {
	label := string(s)
	if !color {
		return label
	}
	switch s {
	case models.CheckCompleted:
		return text.FgGreen.Sprint(label)
	case models.CheckFailed:
		return text.FgRed.Sprint(label)
	case models.CheckProcessing, models.CheckPending:
		return text.FgYellow.Sprint(label)
	default:
		return text.FgHiBlack.Sprint(label)
	}
}

func paintAvailability(s models.PageStatus, color bool) string {
	label := AvailabilityLabel(s)
	if !color {
		return label
	}
	switch s {
	case models.PageOpen:
		return text.FgRed.Sprint(label)
	case models.PageClosed:
		return text.FgGreen.Sprint(label)
	default:
		return label
	}
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
