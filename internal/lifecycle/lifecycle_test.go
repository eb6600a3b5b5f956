package lifecycle

import "testing"

func TestParseHuntStatus(t *testing.T) {
	for _, s := range []string{"PENDING", "PUBLISHED", "STARTED", "FINISHED"} {
		got, err := ParseHuntStatus(s)
		if err != nil {
			t.Errorf("ParseHuntStatus(%q): %v", s, err)
		}
		if string(got) != s {
			t.Errorf("ParseHuntStatus(%q) = %q", s, got)
		}
	}
}

func TestParseHuntStatusInvalid(t *testing.T) {
	for _, s := range []string{"", "pending", "CANCELLED", "DONE"} {
		if _, err := ParseHuntStatus(s); err == nil {
			t.Errorf("ParseHuntStatus(%q): expected error", s)
		}
	}
}

func TestHuntStatusForwardOnly(t *testing.T) {
	tests := []struct {
		from, to HuntStatus
		want     bool
	}{
		{HuntPending, HuntPublished, true},
		{HuntPending, HuntFinished, true},
		{HuntPublished, HuntStarted, true},
		{HuntStarted, HuntFinished, true},
		{HuntPending, HuntPending, true},
		{HuntPublished, HuntPending, false},
		{HuntStarted, HuntPublished, false},
		{HuntFinished, HuntStarted, false},
	}
	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
			t.Errorf("%s -> %s = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestAssignmentTransitions(t *testing.T) {
	tests := []struct {
		from, to AssignmentStatus
		want     bool
	}{
		{AssignmentIncomplete, AssignmentSubmitted, true},
		{AssignmentPending, AssignmentSubmitted, true},
		{AssignmentSubmitted, AssignmentCompleted, true},
		{AssignmentSubmitted, AssignmentPending, true},
		{AssignmentCompleted, AssignmentSubmitted, false},
		{AssignmentCompleted, AssignmentPending, false},
		{AssignmentIncomplete, AssignmentCompleted, false},
		{AssignmentPending, AssignmentCompleted, false},
		{AssignmentSubmitted, AssignmentSubmitted, false},
	}
	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
			t.Errorf("%s -> %s = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}
