package models

import "testing"

func TestCheckStatusTransitions(t *testing.T) {
	tc := []struct {
		from, to CheckStatus
		want     bool
	}{
		{CheckIdle, CheckProcessing, true},
		{CheckFailed, CheckProcessing, true},
		{CheckIdle, CheckPending, true},
		{CheckPending, CheckProcessing, true},
		{CheckProcessing, CheckCompleted, true},
		{CheckProcessing, CheckFailed, true},
		{CheckCompleted, CheckCompleted, true},
		{CheckIdle, CheckCompleted, false},
		{CheckCompleted, CheckProcessing, false},
		{CheckCompleted, CheckIdle, false},
		{CheckProcessing, CheckIdle, false},
		{CheckFailed, CheckCompleted, false},
	}

	for _, tt := range tc {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			if got := tt.from.CanTransition(tt.to); got != tt.want {
				t.Errorf("CanTransition() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRecordPatch(t *testing.T) {
	t.Run("completed patch copies classifier result", func(t *testing.T) {
		rec := UsernameRecord{ID: "1", Username: "alice", CheckStatus: CheckProcessing, PageStatus: PageUnknown}
		ok := CompletedPatch(ClassifierResult{PageStatus: PageOpen, Notes: "found", ProfileURL: "https://www.instagram.com/alice/"}).Apply(&rec)

		if !ok {
			t.Fatal("expected patch to apply")
		}
		if rec.CheckStatus != CheckCompleted || rec.PageStatus != PageOpen || rec.Notes != "found" || rec.ProfileURL == "" {
			t.Errorf("unexpected record %+v", rec)
		}
	})

	t.Run("empty page status becomes unknown", func(t *testing.T) {
		rec := UsernameRecord{CheckStatus: CheckProcessing}
		CompletedPatch(ClassifierResult{Notes: "No response from AI"}).Apply(&rec)
		if rec.PageStatus != PageUnknown {
			t.Errorf("expected Unknown, got %s", rec.PageStatus)
		}
	})

	t.Run("failed patch leaves page unknown", func(t *testing.T) {
		rec := UsernameRecord{CheckStatus: CheckProcessing, PageStatus: PageUnknown}
		FailedPatch("API Error").Apply(&rec)
		if rec.CheckStatus != CheckFailed || rec.PageStatus != PageUnknown || rec.Notes != "API Error" {
			t.Errorf("unexpected record %+v", rec)
		}
	})

	t.Run("rejected patch changes nothing", func(t *testing.T) {
		rec := UsernameRecord{CheckStatus: CheckIdle, PageStatus: PageUnknown}
		if FailedPatch("API Error").Apply(&rec) {
			t.Fatal("expected Idle -> Failed to be rejected")
		}
		if rec.Notes != "" || rec.CheckStatus != CheckIdle {
			t.Errorf("record mutated by rejected patch: %+v", rec)
		}
	})
}

func TestProcessingStats(t *testing.T) {
	if got := (ProcessingStats{}).Progress(); got != 0 {
		t.Errorf("expected 0 progress for empty stats, got %v", got)
	}

	s := ProcessingStats{Total: 4, Processed: 1}
	if got := s.Progress(); got != 25 {
		t.Errorf("expected 25, got %v", got)
	}
	if got := s.Pending(); got != 3 {
		t.Errorf("expected 3 pending, got %d", got)
	}
}
