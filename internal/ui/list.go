package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/igx/internal/formatter"
	"github.com/desertthunder/igx/internal/models"
)

var _ list.Item = recordItem{}

// recordItem wraps [models.UsernameRecord] to implement [list.Item].
type recordItem struct {
	record models.UsernameRecord
}

func (i recordItem) FilterValue() string { return i.record.Username }
func (i recordItem) Title() string {
	return fmt.Sprintf("@%s  %s", i.record.Username, styles.checkStyle(i.record.CheckStatus).Render(string(i.record.CheckStatus)))
}
func (i recordItem) Description() string {
	parts := []string{styles.pageStyle(i.record.PageStatus).Render(formatter.AvailabilityLabel(i.record.PageStatus))}
	if i.record.Notes != "" {
		parts = append(parts, i.record.Notes)
	}
	return strings.Join(parts, " • ")
}

func recordItems(records []models.UsernameRecord) []list.Item {
	items := make([]list.Item, len(records))
	for i, rec := range records {
		items[i] = recordItem{record: rec}
	}
	return items
}
