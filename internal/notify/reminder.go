package notify

import (
	"context"
	"time"
)

const (
	// ReminderChannelID is the channel every appointment reminder
	// goes through.
	ReminderChannelID   = "reminders"
	reminderChannelName = "Appointment reminders"

	// DefaultLead is how long before the appointment the reminder
	// fires in the normal case.
	DefaultLead = 15 * time.Minute

	// DefaultClampDelay replaces a fire time that is already in the
	// past: the reminder fires shortly after now instead of never.
	DefaultClampDelay = 5 * time.Second
)

// PlanReminder resolves when a reminder for an appointment starting
// at start should fire. The target is lead before start; if that has
// already passed relative to now, the fire time is clamped to now
// plus clampDelay so a reminder is still observably scheduled.
func PlanReminder(start, now time.Time, lead, clampDelay time.Duration) time.Time {
	target := start.Add(-lead)
	if !target.After(now) {
		return now.Add(clampDelay)
	}
	return target
}

// ReminderResult records whether a reminder ended up scheduled. The
// degraded path is an observable status, not a swallowed error: a
// skipped reminder never fails the booking that requested it.
type ReminderResult struct {
	Scheduled      bool
	NotificationID string
	NotifyAt       time.Time
	SkipReason     string
}

// SkippedReminder builds the degraded result.
func SkippedReminder(reason string) ReminderResult {
	return ReminderResult{SkipReason: reason}
}

// Reminders plans and registers appointment reminders on a Scheduler.
type Reminders struct {
	sched      *Scheduler
	lead       time.Duration
	clampDelay time.Duration
	now        func() time.Time
}

func NewReminders(sched *Scheduler, lead, clampDelay time.Duration) *Reminders {
	if lead <= 0 {
		lead = DefaultLead
	}
	if clampDelay <= 0 {
		clampDelay = DefaultClampDelay
	}
	return &Reminders{
		sched:      sched,
		lead:       lead,
		clampDelay: clampDelay,
		now:        time.Now,
	}
}

// Schedule registers a one-shot reminder for an appointment starting
// at start and returns the scheduled result. The reminders channel is
// ensured first, so the call is safe on a fresh scheduler.
func (r *Reminders) Schedule(ctx context.Context, title, body string, start time.Time) (ReminderResult, error) {
	r.sched.EnsureChannel(ReminderChannelID, reminderChannelName, ImportanceHigh)

	notifyAt := PlanReminder(start, r.now(), r.lead, r.clampDelay)
	id, err := r.sched.ScheduleAt(ctx, ReminderChannelID, Content{Title: title, Body: body}, notifyAt)
	if err != nil {
		return ReminderResult{}, err
	}
	return ReminderResult{Scheduled: true, NotificationID: id, NotifyAt: notifyAt}, nil
}

// Cancel stops a previously scheduled reminder. Best-effort cleanup:
// unknown and empty ids are ignored.
func (r *Reminders) Cancel(id string) {
	r.sched.Cancel(id)
}
