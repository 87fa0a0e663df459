package app

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/dheerajjha/escalator/internal/core/stage"
	"github.com/dheerajjha/escalator/internal/ports/secondary"
)

const (
	defaultCheckInterval = time.Hour
	summaryTimeLayout    = "15:04"
)

// SchedulerConfig carries the tunables for the reminder scheduler. Zero
// values fall back to defaults.
type SchedulerConfig struct {
	// CheckInterval is how often the due-reminder sweep runs. Defaults to
	// one hour.
	CheckInterval time.Duration
	// SummaryTimes are local wall-clock times ("15:04") at which the daily
	// summary fires. Empty disables summaries.
	SummaryTimes []string
	// Logger receives cycle and delivery logs. Defaults to the standard
	// logger.
	Logger *log.Logger
	// Now is the clock. Defaults to time.Now. Tests inject a fixed clock.
	Now func() time.Time
}

// Scheduler periodically sweeps due reminders and sends daily summaries. It
// owns its own lifecycle: construct once, Start, then Stop to shut down
// cleanly. A Scheduler cannot be restarted after Stop.
type Scheduler struct {
	reminderRepo secondary.ReminderRepository
	userRepo     secondary.UserRepository
	workItemRepo secondary.WorkItemRepository
	notifier     secondary.Notifier

	interval     time.Duration
	summaryTimes []time.Duration // offsets from local midnight
	logger       *log.Logger
	now          func() time.Time

	mu      sync.Mutex
	started bool
	stopped bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewScheduler creates a reminder scheduler. Invalid summary times are
// rejected up front rather than discovered at fire time.
func NewScheduler(
	reminderRepo secondary.ReminderRepository,
	userRepo secondary.UserRepository,
	workItemRepo secondary.WorkItemRepository,
	notifier secondary.Notifier,
	cfg SchedulerConfig,
) (*Scheduler, error) {
	if cfg.CheckInterval <= 0 {
		cfg.CheckInterval = defaultCheckInterval
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	offsets := make([]time.Duration, 0, len(cfg.SummaryTimes))
	for _, ts := range cfg.SummaryTimes {
		t, err := time.Parse(summaryTimeLayout, ts)
		if err != nil {
			return nil, fmt.Errorf("invalid summary time %q, want HH:MM: %w", ts, err)
		}
		offsets = append(offsets, time.Duration(t.Hour())*time.Hour+time.Duration(t.Minute())*time.Minute)
	}

	return &Scheduler{
		reminderRepo: reminderRepo,
		userRepo:     userRepo,
		workItemRepo: workItemRepo,
		notifier:     notifier,
		interval:     cfg.CheckInterval,
		summaryTimes: offsets,
		logger:       cfg.Logger,
		now:          cfg.Now,
		stopCh:       make(chan struct{}),
		doneCh:       make(chan struct{}),
	}, nil
}

// Start launches the scheduler loop. It returns an error if the scheduler is
// already running or has been stopped.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return fmt.Errorf("scheduler already started")
	}
	if s.stopped {
		return fmt.Errorf("scheduler already stopped")
	}
	s.started = true

	go s.run(ctx)
	return nil
}

// Stop signals the loop to exit and blocks until the in-flight cycle, if any,
// finishes. Safe to call more than once.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.started || s.stopped {
		s.stopped = true
		s.mu.Unlock()
		return
	}
	s.stopped = true
	s.mu.Unlock()

	close(s.stopCh)
	<-s.doneCh
}

func (s *Scheduler) run(ctx context.Context) {
	defer close(s.doneCh)

	// Sweep immediately on start so reminders that came due while the
	// process was down go out without waiting a full interval.
	if err := s.CheckDueReminders(ctx); err != nil {
		s.logger.Printf("scheduler: reminder sweep failed: %v", err)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	var summaryTimer *time.Timer
	var summaryC <-chan time.Time
	if len(s.summaryTimes) > 0 {
		summaryTimer = time.NewTimer(s.untilNextSummary())
		defer summaryTimer.Stop()
		summaryC = summaryTimer.C
	}

	for {
		select {
		case <-ticker.C:
			if err := s.CheckDueReminders(ctx); err != nil {
				s.logger.Printf("scheduler: reminder sweep failed: %v", err)
			}
		case <-summaryC:
			if err := s.SendDailySummary(ctx); err != nil {
				s.logger.Printf("scheduler: daily summary failed: %v", err)
			}
			summaryTimer.Reset(s.untilNextSummary())
		case <-s.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

// CheckDueReminders processes every reminder whose scheduled time has
// arrived: oldest first, one delivery attempt each, then marked sent. A
// failing reminder is logged and skipped so the rest of the batch still goes
// out.
func (s *Scheduler) CheckDueReminders(ctx context.Context) error {
	due, err := s.reminderRepo.ListDue(ctx, s.now())
	if err != nil {
		return fmt.Errorf("failed to list due reminders: %w", err)
	}
	if len(due) == 0 {
		return nil
	}

	sent := 0
	for _, rem := range due {
		if err := s.processReminder(ctx, rem); err != nil {
			s.logger.Printf("scheduler: reminder %s: %v", rem.ID, err)
			continue
		}
		sent++
	}
	s.logger.Printf("scheduler: processed %d/%d due reminders", sent, len(due))
	return nil
}

func (s *Scheduler) processReminder(ctx context.Context, rem *secondary.DueReminderRecord) error {
	user, err := s.userRepo.GetByID(ctx, rem.UserID)
	if err != nil {
		return fmt.Errorf("failed to load user %s: %w", rem.UserID, err)
	}

	msg := stage.ReminderMessage(stage.ReminderKind(rem.Kind), rem.DependencyPOC, rem.Title)

	// Delivery failure is logged, not returned: the reminder is still
	// marked sent so the scheduler never retries a poisoned notification
	// forever.
	if user.DeviceToken == "" {
		s.logger.Printf("scheduler: user %s has no device token, skipping delivery of %s", user.ID, rem.ID)
	} else {
		result, err := s.notifier.Send(ctx, user.DeviceToken, "Escalation Reminder", msg, map[string]string{
			"workItemId": rem.WorkItemID,
			"type":       "reminder",
		})
		if err != nil {
			s.logger.Printf("scheduler: delivery of %s via %s failed: %v", rem.ID, s.notifier.Name(), err)
		} else if !result.Delivered {
			s.logger.Printf("scheduler: delivery of %s skipped: %s", rem.ID, result.Reason)
		}
	}

	if err := s.reminderRepo.MarkSent(ctx, rem.ID, s.now()); err != nil {
		return fmt.Errorf("failed to mark sent: %w", err)
	}
	return nil
}

// SendDailySummary notifies every user holding a device token how many
// unresolved work items they have. Users with zero unresolved items are
// skipped.
func (s *Scheduler) SendDailySummary(ctx context.Context) error {
	users, err := s.userRepo.ListWithDeviceTokens(ctx)
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	for _, user := range users {
		count, err := s.workItemRepo.CountUnresolvedByUser(ctx, user.ID)
		if err != nil {
			s.logger.Printf("scheduler: summary count for %s failed: %v", user.ID, err)
			continue
		}
		if count == 0 {
			continue
		}

		msg := fmt.Sprintf("You have %d pending work item%s requiring attention", count, plural(count))
		result, err := s.notifier.Send(ctx, user.DeviceToken, "Daily Summary", msg, map[string]string{
			"type": "daily_summary",
		})
		if err != nil {
			s.logger.Printf("scheduler: summary for %s via %s failed: %v", user.ID, s.notifier.Name(), err)
		} else if !result.Delivered {
			s.logger.Printf("scheduler: summary for %s skipped: %s", user.ID, result.Reason)
		}
	}
	return nil
}

// untilNextSummary returns the wait until the earliest configured summary
// time still ahead today, or the earliest one tomorrow.
func (s *Scheduler) untilNextSummary() time.Duration {
	now := s.now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	next := time.Duration(-1)
	for _, offset := range s.summaryTimes {
		at := midnight.Add(offset)
		if !at.After(now) {
			at = at.Add(24 * time.Hour)
		}
		if d := at.Sub(now); next < 0 || d < next {
			next = d
		}
	}
	return next
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
