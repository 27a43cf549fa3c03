// package repositories provides the record store used by the queue processor and the user-facing controls.
package repositories

import "github.com/desertthunder/igx/internal/models"

// RecordStore is the contract the queue processor and controls depend on.
type RecordStore interface {
	Add(usernames []string) []models.UsernameRecord
	Update(id string, patch models.RecordPatch) bool
	Clear()
	List() []models.UsernameRecord
	Eligible() []models.UsernameRecord
}

var _ RecordStore = (*RecordRepository)(nil)
