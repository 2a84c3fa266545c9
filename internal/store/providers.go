package store

import (
	"context"

	"github.com/google/uuid"

	"turno/backend/internal/domain"
)

type ProviderRepository interface {
	List(ctx context.Context) ([]domain.Provider, error)
	Get(ctx context.Context, providerID uuid.UUID) (domain.Provider, error)
	Create(ctx context.Context, p domain.Provider) (domain.Provider, error)
	Delete(ctx context.Context, providerID uuid.UUID) error
	Count(ctx context.Context) (int, error)

	// CreateBatch inserts all providers atomically; either the whole
	// set lands or none of it. Used by the one-time seed.
	CreateBatch(ctx context.Context, ps []domain.Provider) error
}
