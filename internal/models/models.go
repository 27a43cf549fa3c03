// package models defines the data model for the username checker
package models

// CheckStatus is the lifecycle state of a classification attempt.
type CheckStatus string

const (
	CheckIdle       CheckStatus = "IDLE"
	CheckPending    CheckStatus = "PENDING"
	CheckProcessing CheckStatus = "PROCESSING"
	CheckCompleted  CheckStatus = "COMPLETED"
	CheckFailed     CheckStatus = "FAILED"
)

// PageStatus is the outcome of a classification.
type PageStatus string

const (
	PageUnknown PageStatus = "UNKNOWN"
	PageOpen    PageStatus = "OPEN"   // Profile exists (taken)
	PageClosed  PageStatus = "CLOSED" // Profile not found (likely available)
)

// Eligible reports whether a record in this state is picked up by a new run.
func (s CheckStatus) Eligible() bool {
	return s == CheckIdle || s == CheckFailed
}

// Terminal reports whether the attempt has finished.
func (s CheckStatus) Terminal() bool {
	return s == CheckCompleted || s == CheckFailed
}

// CanTransition reports whether moving from s to next is a forward step.
//
// Completed is terminal. Failed may only be re-entered through a new run.
func (s CheckStatus) CanTransition(next CheckStatus) bool {
	if s == next {
		return true
	}
	switch s {
	case CheckIdle, CheckFailed:
		return next == CheckPending || next == CheckProcessing
	case CheckPending:
		return next == CheckProcessing
	case CheckProcessing:
		return next == CheckCompleted || next == CheckFailed
	default:
		return false
	}
}

// UsernameRecord represents one queued username and its classification state.
type UsernameRecord struct {
	ID          string      `json:"id"`
	Username    string      `json:"username"`
	CheckStatus CheckStatus `json:"checkStatus"`
	PageStatus  PageStatus  `json:"pageStatus"`
	Notes       string      `json:"notes,omitempty"`
	ProfileURL  string      `json:"profileUrl,omitempty"`
}

// ClassifierResult is the normalized answer for a single username.
type ClassifierResult struct {
	PageStatus PageStatus `json:"pageStatus"`
	Notes      string     `json:"notes"`
	ProfileURL string     `json:"profileUrl,omitempty"`
}

// RecordPatch holds the fields to merge into a record. Nil fields are left untouched.
type RecordPatch struct {
	CheckStatus *CheckStatus
	PageStatus  *PageStatus
	Notes       *string
	ProfileURL  *string
}

// Apply merges the patch into rec and reports whether it was accepted.
//
// A patch whose CheckStatus would move the record backwards is rejected as a whole.
func (p RecordPatch) Apply(rec *UsernameRecord) bool {
	if p.CheckStatus != nil && !rec.CheckStatus.CanTransition(*p.CheckStatus) {
		return false
	}
	if p.CheckStatus != nil {
		rec.CheckStatus = *p.CheckStatus
	}
	if p.PageStatus != nil {
		rec.PageStatus = *p.PageStatus
	}
	if p.Notes != nil {
		rec.Notes = *p.Notes
	}
	if p.ProfileURL != nil {
		rec.ProfileURL = *p.ProfileURL
	}
	return true
}

// ProcessingPatch marks a record as in flight.
func ProcessingPatch() RecordPatch {
	status := CheckProcessing
	return RecordPatch{CheckStatus: &status}
}

// CompletedPatch marks a record as finished with the classifier's answer.
func CompletedPatch(res ClassifierResult) RecordPatch {
	status := CheckCompleted
	page := res.PageStatus
	if page == "" {
		page = PageUnknown
	}
	return RecordPatch{
		CheckStatus: &status,
		PageStatus:  &page,
		Notes:       &res.Notes,
		ProfileURL:  &res.ProfileURL,
	}
}

// FailedPatch marks a record as failed with an explanatory note.
func FailedPatch(notes string) RecordPatch {
	status := CheckFailed
	page := PageUnknown
	return RecordPatch{CheckStatus: &status, PageStatus: &page, Notes: &notes}
}

// ProcessingStats holds aggregate counts derived from the record store.
type ProcessingStats struct {
	Total     int `json:"total"`
	Processed int `json:"processed"`
	Open      int `json:"open"`
	Closed    int `json:"closed"`
	Errors    int `json:"errors"`
}

// Pending returns the number of records not yet processed.
func (s ProcessingStats) Pending() int {
	return s.Total - s.Processed
}

// Progress returns the processed share as a percentage in [0, 100].
func (s ProcessingStats) Progress() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Processed) / float64(s.Total) * 100
}
