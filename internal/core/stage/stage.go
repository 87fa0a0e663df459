// Package stage implements the escalation stage machine: the closed set of
// work item stages, the transition function between them, and the reminder
// that each transition schedules. It is pure logic with no persistence.
package stage

import (
	"fmt"
	"time"
)

// Stage is a work item's position in the escalation ladder.
type Stage string

const (
	StageActive            Stage = "active"
	StageDay2Nudge         Stage = "day2_nudge"
	StageDay4SecondNudge   Stage = "day4_second_nudge"
	StageWeek1Call         Stage = "week1_call"
	StageManagerEscalation Stage = "manager_escalation"
	StageResolved          Stage = "resolved"
)

// ReminderKind identifies which nudge a scheduled reminder delivers.
type ReminderKind string

const (
	ReminderNudgeDay2       ReminderKind = "nudge_day2"
	ReminderSecondNudgeDay4 ReminderKind = "second_nudge_day4"
	ReminderSetupCallWeek1  ReminderKind = "setup_call_week1"
	ReminderEscalateManager ReminderKind = "escalate_manager"
)

// ReminderSpec describes the reminder a transition schedules. Delay is
// relative to the moment of the transition, not to item creation, so
// escalating early or late shifts all subsequent reminders accordingly.
type ReminderSpec struct {
	Kind  ReminderKind
	Delay time.Duration
}

// Transition is the result of advancing a work item one step.
type Transition struct {
	To       Stage
	Action   string        // human-readable action text for the history record
	Reminder *ReminderSpec // nil when the new stage schedules nothing
}

// Valid reports whether s is one of the six defined stages.
func Valid(s Stage) bool {
	switch s {
	case StageActive, StageDay2Nudge, StageDay4SecondNudge, StageWeek1Call, StageManagerEscalation, StageResolved:
		return true
	}
	return false
}

// Creation returns the pseudo-transition recorded when a work item is created:
// entry into the active stage with the first nudge reminder two days out.
func Creation() Transition {
	return Transition{
		To:       StageActive,
		Action:   "Created work item",
		Reminder: &ReminderSpec{Kind: ReminderNudgeDay2, Delay: 48 * time.Hour},
	}
}

// Next returns the transition out of the given stage. Repeated escalation at
// manager_escalation is a self-loop (same stage back, no reminder). Resolved
// has no next stage; escalating a resolved item is the caller's error to
// surface, but the machine rejects it too.
func Next(from Stage) (Transition, error) {
	switch from {
	case StageActive:
		return Transition{
			To:       StageDay2Nudge,
			Action:   "Nudge POC offline + standup update",
			Reminder: &ReminderSpec{Kind: ReminderSecondNudgeDay4, Delay: 48 * time.Hour},
		}, nil
	case StageDay2Nudge:
		return Transition{
			To:       StageDay4SecondNudge,
			Action:   "Second nudge + call out in standup",
			Reminder: &ReminderSpec{Kind: ReminderSetupCallWeek1, Delay: 72 * time.Hour},
		}, nil
	case StageDay4SecondNudge:
		return Transition{
			To:       StageWeek1Call,
			Action:   "Setup call with POC",
			Reminder: &ReminderSpec{Kind: ReminderEscalateManager, Delay: 24 * time.Hour},
		}, nil
	case StageWeek1Call, StageManagerEscalation:
		return Transition{
			To:     StageManagerEscalation,
			Action: "Escalate to manager with full context",
		}, nil
	case StageResolved:
		return Transition{}, fmt.Errorf("no transition out of resolved")
	default:
		return Transition{}, fmt.Errorf("unknown stage %q", from)
	}
}

// ReminderMessage formats the notification body for a reminder kind,
// parameterized by the POC name and the work item title.
func ReminderMessage(kind ReminderKind, poc, title string) string {
	switch kind {
	case ReminderNudgeDay2:
		return fmt.Sprintf("Time to nudge %s offline about %q and add standup update", poc, title)
	case ReminderSecondNudgeDay4:
		return fmt.Sprintf("Second nudge needed for %q - Call out in standup", title)
	case ReminderSetupCallWeek1:
		return fmt.Sprintf("It's been a week! Setup a call with %s for %q", poc, title)
	case ReminderEscalateManager:
		return fmt.Sprintf("Time to escalate %q to manager - POC hasn't responded", title)
	default:
		return fmt.Sprintf("Reminder for %q", title)
	}
}

// Priority returns the sort rank used when listing items: the most escalated
// stages first, resolved last.
func Priority(s Stage) int {
	switch s {
	case StageManagerEscalation:
		return 1
	case StageWeek1Call:
		return 2
	case StageDay4SecondNudge:
		return 3
	case StageDay2Nudge:
		return 4
	case StageActive:
		return 5
	case StageResolved:
		return 6
	default:
		return 7
	}
}
