package stage

import (
	"testing"
	"time"
)

func TestNext_Active(t *testing.T) {
	tr, err := Next(StageActive)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr.To != StageDay2Nudge {
		t.Errorf("expected day2_nudge, got %q", tr.To)
	}
	if tr.Action != "Nudge POC offline + standup update" {
		t.Errorf("unexpected action text: %q", tr.Action)
	}
	if tr.Reminder == nil || tr.Reminder.Kind != ReminderSecondNudgeDay4 {
		t.Fatalf("expected second_nudge_day4 reminder, got %+v", tr.Reminder)
	}
	if tr.Reminder.Delay != 48*time.Hour {
		t.Errorf("expected 48h delay, got %v", tr.Reminder.Delay)
	}
}

func TestNext_FullLadder(t *testing.T) {
	// Walk the ladder from active and check cumulative delays (2, 4, 7, 8 days
	// relative to sequential transitions).
	current := StageActive
	wantStages := []Stage{StageDay2Nudge, StageDay4SecondNudge, StageWeek1Call, StageManagerEscalation}
	wantDelays := []time.Duration{48 * time.Hour, 72 * time.Hour, 24 * time.Hour}

	for i, want := range wantStages {
		tr, err := Next(current)
		if err != nil {
			t.Fatalf("step %d: unexpected error: %v", i, err)
		}
		if tr.To != want {
			t.Fatalf("step %d: expected %q, got %q", i, want, tr.To)
		}
		if want == StageManagerEscalation {
			if tr.Reminder != nil {
				t.Errorf("manager_escalation must not schedule a reminder, got %+v", tr.Reminder)
			}
		} else if tr.Reminder == nil || tr.Reminder.Delay != wantDelays[i] {
			t.Errorf("step %d: unexpected reminder %+v", i, tr.Reminder)
		}
		current = tr.To
	}
}

func TestNext_ManagerEscalationSelfLoop(t *testing.T) {
	tr, err := Next(StageManagerEscalation)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr.To != StageManagerEscalation {
		t.Errorf("expected self-loop, got %q", tr.To)
	}
	if tr.Reminder != nil {
		t.Error("self-loop must not schedule a reminder")
	}
}

func TestNext_Resolved(t *testing.T) {
	if _, err := Next(StageResolved); err == nil {
		t.Error("expected error escalating out of resolved")
	}
}

func TestNext_UnknownStage(t *testing.T) {
	if _, err := Next(Stage("blocked")); err == nil {
		t.Error("expected error for unknown stage")
	}
}

func TestCreation(t *testing.T) {
	tr := Creation()
	if tr.To != StageActive {
		t.Errorf("expected active, got %q", tr.To)
	}
	if tr.Action != "Created work item" {
		t.Errorf("unexpected action text: %q", tr.Action)
	}
	if tr.Reminder == nil || tr.Reminder.Kind != ReminderNudgeDay2 || tr.Reminder.Delay != 48*time.Hour {
		t.Fatalf("expected nudge_day2 at +48h, got %+v", tr.Reminder)
	}
}

func TestValid(t *testing.T) {
	for _, s := range []Stage{StageActive, StageDay2Nudge, StageDay4SecondNudge, StageWeek1Call, StageManagerEscalation, StageResolved} {
		if !Valid(s) {
			t.Errorf("expected %q to be valid", s)
		}
	}
	if Valid(Stage("in_progress")) {
		t.Error("in_progress should not be a valid stage")
	}
}

func TestReminderMessage(t *testing.T) {
	msg := ReminderMessage(ReminderNudgeDay2, "Alex", "Payments API")
	if msg != `Time to nudge Alex offline about "Payments API" and add standup update` {
		t.Errorf("unexpected message: %q", msg)
	}
	if ReminderMessage(ReminderKind("bogus"), "Alex", "Payments API") != `Reminder for "Payments API"` {
		t.Error("unknown kind should fall back to generic message")
	}
}

func TestPriority(t *testing.T) {
	order := []Stage{StageManagerEscalation, StageWeek1Call, StageDay4SecondNudge, StageDay2Nudge, StageActive, StageResolved}
	for i := 1; i < len(order); i++ {
		if Priority(order[i-1]) >= Priority(order[i]) {
			t.Errorf("expected %q to rank before %q", order[i-1], order[i])
		}
	}
}
