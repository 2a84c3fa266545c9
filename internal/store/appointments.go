package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"turno/backend/internal/domain"
)

// ScheduleUpdate is the in-place mutation applied by a reschedule.
// End and Day are recomputed by the caller from the new start and
// duration; NotifyAt and NotificationID replace the previous reminder
// binding (nil/empty clears it).
type ScheduleUpdate struct {
	StartTime       time.Time
	EndTime         time.Time
	DurationMinutes int
	Day             string
	NotifyAt        *time.Time
	NotificationID  string
}

type AppointmentRepository interface {
	Create(ctx context.Context, appt domain.Appointment) (domain.Appointment, error)
	Get(ctx context.Context, userID string, appointmentID uuid.UUID) (domain.Appointment, error)
	UpdateSchedule(ctx context.Context, userID string, appointmentID uuid.UUID, upd ScheduleUpdate) (domain.Appointment, error)
	Delete(ctx context.Context, userID string, appointmentID uuid.UUID) error

	// ListForUser returns the user's full history, newest start first.
	ListForUser(ctx context.Context, userID string) ([]domain.Appointment, error)

	// ListForProviderDay returns every appointment recorded for the
	// provider on the given day key, regardless of owner.
	ListForProviderDay(ctx context.Context, providerID uuid.UUID, day string) ([]domain.Appointment, error)

	// Watch emits the user's full history snapshot on subscribe and
	// again after every mutation touching that user. The channel is
	// closed when ctx ends. Delivery is lossy-latest: a slow consumer
	// observes the newest snapshot, not every intermediate one.
	Watch(ctx context.Context, userID string) (<-chan []domain.Appointment, error)
}
