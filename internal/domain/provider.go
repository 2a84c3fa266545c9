package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// DefaultDurationMinutes applies when a provider does not carry its
// own standard duration.
const DefaultDurationMinutes = 30

// Provider is a bookable service entity. Providers are created,
// seeded or deleted, never mutated in place.
type Provider struct {
	bun.BaseModel `bun:"table:providers"`

	ID              uuid.UUID `bun:"id,pk,type:uuid"`
	Name            string    `bun:"name,notnull"`
	Specialty       string    `bun:"specialty,nullzero"`
	DurationMinutes int       `bun:"duration_minutes,notnull,default:30"`
	CreatedAt       time.Time `bun:"created_at,notnull"`
	UpdatedAt       time.Time `bun:"updated_at,notnull"`
}

func (p *Provider) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if p.ID == uuid.Nil {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			p.ID = id
		}
		if p.DurationMinutes == 0 {
			p.DurationMinutes = DefaultDurationMinutes
		}
		if p.CreatedAt.IsZero() {
			p.CreatedAt = now
		}
		if p.UpdatedAt.IsZero() {
			p.UpdatedAt = now
		}
	case *bun.UpdateQuery:
		p.UpdatedAt = now
	}
	return nil
}
