// Package booking implements the appointment flows: book against a
// provider's day, reschedule, cancel, and the live history feed.
//
// Every flow is a strict sequential pipeline: validate, check the
// provider's day for overlaps, bind a reminder (bounded, best-effort)
// and only then touch the store. The conflict check happens strictly
// before any write, so a rejected booking leaves no partial state.
package booking

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"turno/backend/internal/domain"
	"turno/backend/internal/notify"
	"turno/backend/internal/store"
)

// DefaultNotifyTimeout bounds how long a booking waits on the
// notification subsystem before degrading to "no reminder".
const DefaultNotifyTimeout = 4 * time.Second

const reminderTitle = "Appointment reminder"

type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func validationError(msg string) error {
	return &ValidationError{msg: msg}
}

// ReminderScheduler is the slice of the notification subsystem the
// booking flows depend on.
type ReminderScheduler interface {
	Schedule(ctx context.Context, title, body string, start time.Time) (notify.ReminderResult, error)
	Cancel(id string)
}

type Service struct {
	appts         store.AppointmentRepository
	providers     store.ProviderRepository
	reminders     ReminderScheduler
	notifyTimeout time.Duration
	log           *slog.Logger
}

func NewService(appts store.AppointmentRepository, providers store.ProviderRepository, reminders ReminderScheduler, notifyTimeout time.Duration, log *slog.Logger) *Service {
	if notifyTimeout <= 0 {
		notifyTimeout = DefaultNotifyTimeout
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		appts:         appts,
		providers:     providers,
		reminders:     reminders,
		notifyTimeout: notifyTimeout,
		log:           log.With(slog.String("component", "booking")),
	}
}

type BookInput struct {
	UserID          string
	ProviderID      uuid.UUID
	Reason          string
	StartTime       time.Time
	DurationMinutes int
}

// Book validates the request, rejects overlapping slots and persists
// the appointment. The returned ReminderResult reports whether a
// reminder was actually bound; a skipped reminder is not a failure.
func (s *Service) Book(ctx context.Context, in BookInput) (domain.Appointment, notify.ReminderResult, error) {
	reason := strings.TrimSpace(in.Reason)
	if in.UserID == "" {
		return domain.Appointment{}, notify.ReminderResult{}, validationError("user_id is required")
	}
	if in.ProviderID == uuid.Nil {
		return domain.Appointment{}, notify.ReminderResult{}, validationError("provider_id is required")
	}
	if reason == "" {
		return domain.Appointment{}, notify.ReminderResult{}, validationError("reason is required")
	}
	if in.StartTime.IsZero() {
		return domain.Appointment{}, notify.ReminderResult{}, validationError("start_time is required")
	}
	if in.DurationMinutes <= 0 {
		return domain.Appointment{}, notify.ReminderResult{}, validationError("duration_minutes must be positive")
	}

	provider, err := s.providers.Get(ctx, in.ProviderID)
	if err != nil {
		return domain.Appointment{}, notify.ReminderResult{}, err
	}

	conflict, err := s.hasConflict(ctx, in.ProviderID, in.StartTime, in.DurationMinutes, uuid.Nil)
	if err != nil {
		return domain.Appointment{}, notify.ReminderResult{}, err
	}
	if conflict {
		return domain.Appointment{}, notify.ReminderResult{}, store.ErrConflict
	}

	reminder := s.scheduleReminder(ctx, provider.Name, reason, in.StartTime)

	end := in.StartTime.Add(time.Duration(in.DurationMinutes) * time.Minute)
	appt := domain.Appointment{
		UserID:          in.UserID,
		ProviderID:      provider.ID,
		ProviderName:    provider.Name,
		Reason:          reason,
		StartTime:       in.StartTime.UTC(),
		EndTime:         end.UTC(),
		DurationMinutes: in.DurationMinutes,
		Day:             domain.DayKey(in.StartTime),
	}
	if reminder.Scheduled {
		notifyAt := reminder.NotifyAt.UTC()
		appt.NotifyAt = &notifyAt
		appt.NotificationID = reminder.NotificationID
	}

	created, err := s.appts.Create(ctx, appt)
	if err != nil {
		// The reminder is already registered; drop it rather than
		// leave a trigger pointing at an appointment that never
		// landed.
		if reminder.Scheduled {
			s.reminders.Cancel(reminder.NotificationID)
		}
		return domain.Appointment{}, notify.ReminderResult{}, err
	}

	s.log.Info("appointment booked",
		slog.String("appointment_id", created.ID.String()),
		slog.String("user_id", created.UserID),
		slog.String("provider_id", created.ProviderID.String()),
		slog.Time("start_time", created.StartTime),
		slog.Bool("reminder_scheduled", reminder.Scheduled),
	)
	return created, reminder, nil
}

type RescheduleInput struct {
	UserID          string
	AppointmentID   uuid.UUID
	StartTime       time.Time
	DurationMinutes int
}

// Reschedule moves an existing appointment to a new slot. The
// conflict check excludes the appointment under edit, so moving it
// onto a slot that only overlaps itself is allowed. The old reminder
// is cancelled best-effort before the new one is bound.
func (s *Service) Reschedule(ctx context.Context, in RescheduleInput) (domain.Appointment, notify.ReminderResult, error) {
	if in.UserID == "" {
		return domain.Appointment{}, notify.ReminderResult{}, validationError("user_id is required")
	}
	if in.AppointmentID == uuid.Nil {
		return domain.Appointment{}, notify.ReminderResult{}, validationError("appointment_id is required")
	}
	if in.StartTime.IsZero() {
		return domain.Appointment{}, notify.ReminderResult{}, validationError("start_time is required")
	}
	if in.DurationMinutes <= 0 {
		return domain.Appointment{}, notify.ReminderResult{}, validationError("duration_minutes must be positive")
	}

	appt, err := s.appts.Get(ctx, in.UserID, in.AppointmentID)
	if err != nil {
		return domain.Appointment{}, notify.ReminderResult{}, err
	}

	conflict, err := s.hasConflict(ctx, appt.ProviderID, in.StartTime, in.DurationMinutes, appt.ID)
	if err != nil {
		return domain.Appointment{}, notify.ReminderResult{}, err
	}
	if conflict {
		return domain.Appointment{}, notify.ReminderResult{}, store.ErrConflict
	}

	s.reminders.Cancel(appt.NotificationID)
	reminder := s.scheduleReminder(ctx, appt.ProviderName, appt.Reason, in.StartTime)

	end := in.StartTime.Add(time.Duration(in.DurationMinutes) * time.Minute)
	upd := store.ScheduleUpdate{
		StartTime:       in.StartTime.UTC(),
		EndTime:         end.UTC(),
		DurationMinutes: in.DurationMinutes,
		Day:             domain.DayKey(in.StartTime),
	}
	if reminder.Scheduled {
		notifyAt := reminder.NotifyAt.UTC()
		upd.NotifyAt = &notifyAt
		upd.NotificationID = reminder.NotificationID
	}

	updated, err := s.appts.UpdateSchedule(ctx, in.UserID, in.AppointmentID, upd)
	if err != nil {
		if reminder.Scheduled {
			s.reminders.Cancel(reminder.NotificationID)
		}
		return domain.Appointment{}, notify.ReminderResult{}, err
	}

	s.log.Info("appointment rescheduled",
		slog.String("appointment_id", updated.ID.String()),
		slog.String("user_id", updated.UserID),
		slog.Time("start_time", updated.StartTime),
		slog.Bool("reminder_scheduled", reminder.Scheduled),
	)
	return updated, reminder, nil
}

// Cancel deletes an appointment and drops its pending reminder. The
// reminder cancellation is best-effort: the record is removed even if
// the trigger cannot be stopped, which may leave a stale notification
// to fire later.
func (s *Service) Cancel(ctx context.Context, userID string, appointmentID uuid.UUID) error {
	if userID == "" {
		return validationError("user_id is required")
	}
	if appointmentID == uuid.Nil {
		return validationError("appointment_id is required")
	}

	appt, err := s.appts.Get(ctx, userID, appointmentID)
	if err != nil {
		return err
	}

	s.reminders.Cancel(appt.NotificationID)

	if err := s.appts.Delete(ctx, userID, appointmentID); err != nil {
		return err
	}

	s.log.Info("appointment cancelled",
		slog.String("appointment_id", appointmentID.String()),
		slog.String("user_id", userID),
	)
	return nil
}

// History returns the user's appointments, newest start first.
func (s *Service) History(ctx context.Context, userID string) ([]domain.Appointment, error) {
	if userID == "" {
		return nil, validationError("user_id is required")
	}
	return s.appts.ListForUser(ctx, userID)
}

// Watch streams full history snapshots: one on subscribe, one after
// every mutation touching the user. The channel closes with ctx.
func (s *Service) Watch(ctx context.Context, userID string) (<-chan []domain.Appointment, error) {
	if userID == "" {
		return nil, validationError("user_id is required")
	}
	return s.appts.Watch(ctx, userID)
}

// hasConflict reports whether the proposed slot overlaps any recorded
// appointment for the provider on the same calendar day. excludeID
// skips the appointment under edit during a reschedule. The query is
// day-scoped, so an appointment crossing midnight is not seen by a
// check for the following day.
func (s *Service) hasConflict(ctx context.Context, providerID uuid.UUID, start time.Time, durationMinutes int, excludeID uuid.UUID) (bool, error) {
	end := start.Add(time.Duration(durationMinutes) * time.Minute)
	day := domain.DayKey(start)

	candidates, err := s.appts.ListForProviderDay(ctx, providerID, day)
	if err != nil {
		return false, err
	}
	for _, c := range candidates {
		if excludeID != uuid.Nil && c.ID == excludeID {
			continue
		}
		if domain.Overlaps(c.StartTime, c.EndTime, start, end) {
			return true, nil
		}
	}
	return false, nil
}

// scheduleReminder binds a reminder within the notify timeout. A slow
// or failing notification subsystem degrades the flow to "saved, no
// reminder"; it never blocks or fails the appointment write.
func (s *Service) scheduleReminder(ctx context.Context, providerName, reason string, start time.Time) notify.ReminderResult {
	ctx, cancel := context.WithTimeout(ctx, s.notifyTimeout)
	defer cancel()

	body := fmt.Sprintf("%s: %s", providerName, reason)

	type outcome struct {
		res notify.ReminderResult
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := s.reminders.Schedule(ctx, reminderTitle, body, start)
		done <- outcome{res: res, err: err}
	}()

	select {
	case out := <-done:
		if out.err != nil {
			s.log.Warn("reminder scheduling failed, booking proceeds without one", slog.Any("err", out.err))
			return notify.SkippedReminder(out.err.Error())
		}
		return out.res
	case <-ctx.Done():
		s.log.Warn("reminder scheduling timed out, booking proceeds without one", slog.Duration("timeout", s.notifyTimeout))
		return notify.SkippedReminder("notification subsystem timed out")
	}
}
