package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"turno/backend/internal/domain"
	"turno/backend/internal/store"
)

type AppointmentRepo struct {
	db  *bun.DB
	hub *store.SnapshotHub
}

func NewAppointmentRepo(db *bun.DB, hub *store.SnapshotHub) *AppointmentRepo {
	if hub == nil {
		hub = store.NewSnapshotHub()
	}
	return &AppointmentRepo{db: db, hub: hub}
}

func (r *AppointmentRepo) Create(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
	m := appt
	if _, err := r.db.NewInsert().Model(&m).Exec(ctx); err != nil {
		return domain.Appointment{}, err
	}
	r.publish(ctx, m.UserID)
	return m, nil
}

func (r *AppointmentRepo) Get(ctx context.Context, userID string, appointmentID uuid.UUID) (domain.Appointment, error) {
	var m domain.Appointment
	err := r.db.NewSelect().
		Model(&m).
		Where("user_id = ?", userID).
		Where("id = ?", appointmentID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Appointment{}, store.ErrNotFound
		}
		return domain.Appointment{}, err
	}
	return m, nil
}

func (r *AppointmentRepo) UpdateSchedule(ctx context.Context, userID string, appointmentID uuid.UUID, upd store.ScheduleUpdate) (domain.Appointment, error) {
	// A cleared reminder is NULL, matching what the insert path writes
	// through the model's nullzero tags.
	var notificationID *string
	if upd.NotificationID != "" {
		notificationID = &upd.NotificationID
	}

	res, err := r.db.NewUpdate().
		Model((*domain.Appointment)(nil)).
		Set("start_time = ?", upd.StartTime).
		Set("end_time = ?", upd.EndTime).
		Set("duration_minutes = ?", upd.DurationMinutes).
		Set("day = ?", upd.Day).
		Set("notify_at = ?", upd.NotifyAt).
		Set("notification_id = ?", notificationID).
		Set("updated_at = now()").
		Where("user_id = ?", userID).
		Where("id = ?", appointmentID).
		Exec(ctx)
	if err != nil {
		return domain.Appointment{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.Appointment{}, err
	}
	if affected == 0 {
		return domain.Appointment{}, store.ErrNotFound
	}

	out, err := r.Get(ctx, userID, appointmentID)
	if err != nil {
		return domain.Appointment{}, err
	}
	r.publish(ctx, userID)
	return out, nil
}

func (r *AppointmentRepo) Delete(ctx context.Context, userID string, appointmentID uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*domain.Appointment)(nil)).
		Where("user_id = ?", userID).
		Where("id = ?", appointmentID).
		Exec(ctx)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	r.publish(ctx, userID)
	return nil
}

func (r *AppointmentRepo) ListForUser(ctx context.Context, userID string) ([]domain.Appointment, error) {
	var rows []domain.Appointment
	err := r.db.NewSelect().
		Model(&rows).
		Where("user_id = ?", userID).
		OrderExpr("start_time DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *AppointmentRepo) ListForProviderDay(ctx context.Context, providerID uuid.UUID, day string) ([]domain.Appointment, error) {
	var rows []domain.Appointment
	err := r.db.NewSelect().
		Model(&rows).
		Where("provider_id = ?", providerID).
		Where("day = ?", day).
		OrderExpr("start_time ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *AppointmentRepo) Watch(ctx context.Context, userID string) (<-chan []domain.Appointment, error) {
	initial, err := r.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return r.hub.SubscribeWithSnapshot(ctx, userID, initial), nil
}

func (r *AppointmentRepo) publish(ctx context.Context, userID string) {
	snapshot, err := r.ListForUser(ctx, userID)
	if err != nil {
		return
	}
	r.hub.Publish(userID, snapshot)
}
