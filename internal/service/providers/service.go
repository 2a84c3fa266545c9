// Package providers is the directory of bookable providers.
package providers

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"turno/backend/internal/domain"
	"turno/backend/internal/store"
)

type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func validationError(msg string) error {
	return &ValidationError{msg: msg}
}

// defaultProviders is the fixed set inserted once into an empty
// directory.
var defaultProviders = []domain.Provider{
	{Name: "Clínica Central", Specialty: "Medicina General", DurationMinutes: 30},
	{Name: "Dra. López", Specialty: "Odontología", DurationMinutes: 60},
	{Name: "Centro Bienestar", Specialty: "Fisioterapia", DurationMinutes: 45},
}

type Service struct {
	repo store.ProviderRepository
	log  *slog.Logger
}

func NewService(repo store.ProviderRepository, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		repo: repo,
		log:  log.With(slog.String("component", "providers")),
	}
}

func (s *Service) List(ctx context.Context) ([]domain.Provider, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, providerID uuid.UUID) (domain.Provider, error) {
	if providerID == uuid.Nil {
		return domain.Provider{}, validationError("provider_id is required")
	}
	return s.repo.Get(ctx, providerID)
}

type CreateInput struct {
	Name            string
	Specialty       string
	DurationMinutes int
}

func (s *Service) Create(ctx context.Context, in CreateInput) (domain.Provider, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.Provider{}, validationError("name is required")
	}
	if in.DurationMinutes < 0 {
		return domain.Provider{}, validationError("duration_minutes must be positive")
	}
	duration := in.DurationMinutes
	if duration == 0 {
		duration = domain.DefaultDurationMinutes
	}

	created, err := s.repo.Create(ctx, domain.Provider{
		Name:            name,
		Specialty:       strings.TrimSpace(in.Specialty),
		DurationMinutes: duration,
	})
	if err != nil {
		return domain.Provider{}, err
	}

	s.log.Info("provider created",
		slog.String("provider_id", created.ID.String()),
		slog.String("name", created.Name),
	)
	return created, nil
}

func (s *Service) Delete(ctx context.Context, providerID uuid.UUID) error {
	if providerID == uuid.Nil {
		return validationError("provider_id is required")
	}
	if err := s.repo.Delete(ctx, providerID); err != nil {
		return err
	}
	s.log.Info("provider deleted", slog.String("provider_id", providerID.String()))
	return nil
}

// SeedIfEmpty inserts the default provider set when the directory is
// empty, in a single atomic batch. A non-empty directory is left
// untouched, so repeated startups do not reseed. Idempotence is
// check-then-act only; concurrent seeds are not coordinated.
func (s *Service) SeedIfEmpty(ctx context.Context) (int, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}

	if err := s.repo.CreateBatch(ctx, defaultProviders); err != nil {
		return 0, err
	}
	s.log.Info("provider directory seeded", slog.Int("count", len(defaultProviders)))
	return len(defaultProviders), nil
}
