package repositories

import (
	"slices"
	"sync"

	"github.com/desertthunder/igx/internal/models"
	"github.com/desertthunder/igx/internal/shared"
)

// RecordRepository holds the ordered username records for a session.
//
// All operations are total: unknown IDs and empty input are no-ops.
type RecordRepository struct {
	mu       sync.RWMutex
	records  []models.UsernameRecord
	index    map[string]int
	newID    func() string
	onChange func()
}

// NewRecordRepository creates an empty repository using [shared.GenerateID] for record IDs.
func NewRecordRepository() *RecordRepository {
	return &RecordRepository{
		index: make(map[string]int),
		newID: shared.GenerateID,
	}
}

// OnChange registers fn to be called after every mutation. fn runs outside the lock.
func (r *RecordRepository) OnChange(fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onChange = fn
}

// Add normalizes each value and appends one Idle record per non-empty handle, in input order.
func (r *RecordRepository) Add(usernames []string) []models.UsernameRecord {
	handles := shared.NormalizeHandles(usernames)
	if len(handles) == 0 {
		return nil
	}

	added := make([]models.UsernameRecord, 0, len(handles))

	r.mu.Lock()
	for _, h := range handles {
		rec := models.UsernameRecord{
			ID:          r.uniqueID(),
			Username:    h,
			CheckStatus: models.CheckIdle,
			PageStatus:  models.PageUnknown,
		}
		r.index[rec.ID] = len(r.records)
		r.records = append(r.records, rec)
		added = append(added, rec)
	}
	fn := r.onChange
	r.mu.Unlock()

	notify(fn)
	return added
}

// uniqueID draws IDs until one is unused. Caller holds the lock.
func (r *RecordRepository) uniqueID() string {
	for {
		id := r.newID()
		if _, taken := r.index[id]; !taken {
			return id
		}
	}
}

// Update merges patch into the record with the given id.
//
// Returns false when the id is absent or the patch would move the record backwards.
func (r *RecordRepository) Update(id string, patch models.RecordPatch) bool {
	r.mu.Lock()
	i, ok := r.index[id]
	if !ok {
		r.mu.Unlock()
		return false
	}
	applied := patch.Apply(&r.records[i])
	fn := r.onChange
	r.mu.Unlock()

	if applied {
		notify(fn)
	}
	return applied
}

// Clear removes all records.
func (r *RecordRepository) Clear() {
	r.mu.Lock()
	r.records = nil
	r.index = make(map[string]int)
	fn := r.onChange
	r.mu.Unlock()

	notify(fn)
}

// Get returns a copy of the record with the given id.
func (r *RecordRepository) Get(id string) (models.UsernameRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[id]
	if !ok {
		return models.UsernameRecord{}, false
	}
	return r.records[i], true
}

// List returns a copy of the current records in insertion order.
func (r *RecordRepository) List() []models.UsernameRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.records)
}

// Eligible returns the records a new run should attempt: Idle or Failed, in insertion order.
func (r *RecordRepository) Eligible() []models.UsernameRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []models.UsernameRecord
	for _, rec := range r.records {
		if rec.CheckStatus.Eligible() {
			out = append(out, rec)
		}
	}
	return out
}

// Len returns the number of records.
func (r *RecordRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}

func notify(fn func()) {
	if fn != nil {
		fn()
	}
}
