package tasks

import "github.com/desertthunder/igx/internal/models"

// Aggregate derives summary counts from the current records.
//
// processed counts Completed and Failed records; open and closed count page outcomes; errors counts Failed records.
func Aggregate(records []models.UsernameRecord) models.ProcessingStats {
	stats := models.ProcessingStats{Total: len(records)}
	for _, rec := range records {
		if rec.CheckStatus.Terminal() {
			stats.Processed++
		}
		switch rec.PageStatus {
		case models.PageOpen:
			stats.Open++
		case models.PageClosed:
			stats.Closed++
		}
		if rec.CheckStatus == models.CheckFailed {
			stats.Errors++
		}
	}
	return stats
}
