// Package wire assembles the application from its parts. Construction is
// explicit: the caller opens the database, builds an App from it, and closes
// the database when done. No package-level singletons.
package wire

import (
	"database/sql"
	"log"

	"github.com/dheerajjha/escalator/internal/adapters/notify"
	"github.com/dheerajjha/escalator/internal/adapters/sqlite"
	"github.com/dheerajjha/escalator/internal/app"
	"github.com/dheerajjha/escalator/internal/ports/primary"
	"github.com/dheerajjha/escalator/internal/ports/secondary"
)

// App holds the fully wired service set.
type App struct {
	Users       primary.UserService
	WorkItems   primary.WorkItemService
	Escalations primary.EscalationService
	Standups    primary.StandupService

	// Repositories and notifier stay reachable for the scheduler, which is
	// constructed separately because it owns a lifecycle.
	UserRepo     secondary.UserRepository
	WorkItemRepo secondary.WorkItemRepository
	ReminderRepo secondary.ReminderRepository
	Notifier     secondary.Notifier
}

// NewApp wires repositories, notifier, and services over an open database
// handle. The caller keeps ownership of the handle.
func NewApp(database *sql.DB) *App {
	userRepo := sqlite.NewUserRepository(database)
	workItemRepo := sqlite.NewWorkItemRepository(database)
	historyRepo := sqlite.NewHistoryRepository(database)
	standupRepo := sqlite.NewStandupRepository(database)
	reminderRepo := sqlite.NewReminderRepository(database)

	notifier := notify.NewLogSender(log.Default())

	return &App{
		Users:        app.NewUserService(userRepo),
		WorkItems:    app.NewWorkItemService(workItemRepo, historyRepo, standupRepo),
		Escalations:  app.NewEscalationService(workItemRepo, historyRepo, reminderRepo),
		Standups:     app.NewStandupService(standupRepo),
		UserRepo:     userRepo,
		WorkItemRepo: workItemRepo,
		ReminderRepo: reminderRepo,
		Notifier:     notifier,
	}
}

// NewScheduler builds the reminder scheduler over the app's repositories.
func (a *App) NewScheduler(cfg app.SchedulerConfig) (*app.Scheduler, error) {
	return app.NewScheduler(a.ReminderRepo, a.UserRepo, a.WorkItemRepo, a.Notifier, cfg)
}
