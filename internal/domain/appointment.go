package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Appointment is a reserved time interval for a user with a provider.
// ProviderName is denormalized at booking time; renaming a provider
// afterwards does not propagate here. Day is the calendar day of
// StartTime in the caller's local offset and scopes conflict queries.
type Appointment struct {
	bun.BaseModel `bun:"table:appointments"`

	ID              uuid.UUID  `bun:"id,pk,type:uuid"`
	UserID          string     `bun:"user_id,notnull"`
	ProviderID      uuid.UUID  `bun:"provider_id,notnull,type:uuid"`
	ProviderName    string     `bun:"provider_name,notnull"`
	Reason          string     `bun:"reason,notnull"`
	StartTime       time.Time  `bun:"start_time,notnull"`
	EndTime         time.Time  `bun:"end_time,notnull"`
	DurationMinutes int        `bun:"duration_minutes,notnull"`
	Day             string     `bun:"day,notnull"`
	NotifyAt        *time.Time `bun:"notify_at,nullzero"`
	NotificationID  string     `bun:"notification_id,nullzero"`
	CreatedAt       time.Time  `bun:"created_at,notnull"`
	UpdatedAt       time.Time  `bun:"updated_at,notnull"`
}

func (a *Appointment) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if a.ID == uuid.Nil {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			a.ID = id
		}
		if a.CreatedAt.IsZero() {
			a.CreatedAt = now
		}
		if a.UpdatedAt.IsZero() {
			a.UpdatedAt = now
		}
	case *bun.UpdateQuery:
		a.UpdatedAt = now
	}
	return nil
}
