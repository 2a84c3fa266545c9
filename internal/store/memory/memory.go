// Package memory holds an in-memory implementation of the store
// interfaces. It backs the end-to-end tests and the memory storage
// driver used for local runs without a database.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"turno/backend/internal/domain"
	"turno/backend/internal/store"
)

type Store struct {
	mu           sync.RWMutex
	appointments map[uuid.UUID]domain.Appointment
	providers    map[uuid.UUID]domain.Provider
	users        map[uuid.UUID]domain.User
	hub          *store.SnapshotHub
}

func NewStore() *Store {
	return &Store{
		appointments: make(map[uuid.UUID]domain.Appointment),
		providers:    make(map[uuid.UUID]domain.Provider),
		users:        make(map[uuid.UUID]domain.User),
		hub:          store.NewSnapshotHub(),
	}
}

// Appointments exposes the store as an AppointmentRepository.
func (s *Store) Appointments() store.AppointmentRepository { return (*appointmentRepo)(s) }

// Providers exposes the store as a ProviderRepository.
func (s *Store) Providers() store.ProviderRepository { return (*providerRepo)(s) }

// Users exposes the store as a UserRepository.
func (s *Store) Users() store.UserRepository { return (*userRepo)(s) }

type appointmentRepo Store

func (r *appointmentRepo) Create(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
	now := time.Now().UTC()
	if appt.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return domain.Appointment{}, err
		}
		appt.ID = id
	}
	if appt.CreatedAt.IsZero() {
		appt.CreatedAt = now
	}
	appt.UpdatedAt = now

	r.mu.Lock()
	r.appointments[appt.ID] = appt
	r.mu.Unlock()

	r.publish(appt.UserID)
	return appt, nil
}

func (r *appointmentRepo) Get(ctx context.Context, userID string, appointmentID uuid.UUID) (domain.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.appointments[appointmentID]
	if !ok || a.UserID != userID {
		return domain.Appointment{}, store.ErrNotFound
	}
	return a, nil
}

func (r *appointmentRepo) UpdateSchedule(ctx context.Context, userID string, appointmentID uuid.UUID, upd store.ScheduleUpdate) (domain.Appointment, error) {
	r.mu.Lock()
	a, ok := r.appointments[appointmentID]
	if !ok || a.UserID != userID {
		r.mu.Unlock()
		return domain.Appointment{}, store.ErrNotFound
	}
	a.StartTime = upd.StartTime
	a.EndTime = upd.EndTime
	a.DurationMinutes = upd.DurationMinutes
	a.Day = upd.Day
	a.NotifyAt = upd.NotifyAt
	a.NotificationID = upd.NotificationID
	a.UpdatedAt = time.Now().UTC()
	r.appointments[appointmentID] = a
	r.mu.Unlock()

	r.publish(userID)
	return a, nil
}

func (r *appointmentRepo) Delete(ctx context.Context, userID string, appointmentID uuid.UUID) error {
	r.mu.Lock()
	a, ok := r.appointments[appointmentID]
	if !ok || a.UserID != userID {
		r.mu.Unlock()
		return store.ErrNotFound
	}
	delete(r.appointments, appointmentID)
	r.mu.Unlock()

	r.publish(userID)
	return nil
}

func (r *appointmentRepo) ListForUser(ctx context.Context, userID string) ([]domain.Appointment, error) {
	r.mu.RLock()
	out := make([]domain.Appointment, 0)
	for _, a := range r.appointments {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].StartTime.After(out[j].StartTime)
	})
	return out, nil
}

func (r *appointmentRepo) ListForProviderDay(ctx context.Context, providerID uuid.UUID, day string) ([]domain.Appointment, error) {
	r.mu.RLock()
	out := make([]domain.Appointment, 0)
	for _, a := range r.appointments {
		if a.ProviderID == providerID && a.Day == day {
			out = append(out, a)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].StartTime.Before(out[j].StartTime)
	})
	return out, nil
}

func (r *appointmentRepo) Watch(ctx context.Context, userID string) (<-chan []domain.Appointment, error) {
	initial, err := r.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return r.hub.SubscribeWithSnapshot(ctx, userID, initial), nil
}

func (r *appointmentRepo) publish(userID string) {
	snapshot, _ := r.ListForUser(context.Background(), userID)
	r.hub.Publish(userID, snapshot)
}

type providerRepo Store

func (r *providerRepo) List(ctx context.Context) ([]domain.Provider, error) {
	r.mu.RLock()
	out := make([]domain.Provider, 0, len(r.providers))
	for _, p := range r.providers {
		out = append(out, p)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *providerRepo) Get(ctx context.Context, providerID uuid.UUID) (domain.Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[providerID]
	if !ok {
		return domain.Provider{}, store.ErrNotFound
	}
	return p, nil
}

func (r *providerRepo) Create(ctx context.Context, p domain.Provider) (domain.Provider, error) {
	now := time.Now().UTC()
	if p.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return domain.Provider{}, err
		}
		p.ID = id
	}
	if p.DurationMinutes == 0 {
		p.DurationMinutes = domain.DefaultDurationMinutes
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	r.mu.Lock()
	r.providers[p.ID] = p
	r.mu.Unlock()
	return p, nil
}

func (r *providerRepo) Delete(ctx context.Context, providerID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.providers[providerID]; !ok {
		return store.ErrNotFound
	}
	delete(r.providers, providerID)
	return nil
}

func (r *providerRepo) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.providers), nil
}

func (r *providerRepo) CreateBatch(ctx context.Context, ps []domain.Provider) error {
	prepared := make([]domain.Provider, 0, len(ps))
	now := time.Now().UTC()
	for _, p := range ps {
		if p.ID == uuid.Nil {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			p.ID = id
		}
		if p.DurationMinutes == 0 {
			p.DurationMinutes = domain.DefaultDurationMinutes
		}
		if p.CreatedAt.IsZero() {
			p.CreatedAt = now
		}
		p.UpdatedAt = now
		prepared = append(prepared, p)
	}

	// All-or-nothing: nothing is visible until the lock is released.
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range prepared {
		r.providers[p.ID] = p
	}
	return nil
}

type userRepo Store

func (r *userRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(u.Email))

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == email {
			return domain.User{}, store.ErrDuplicate
		}
	}
	if u.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return domain.User{}, err
		}
		u.ID = id
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	u.Email = email
	r.users[u.ID] = u
	return u, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, store.ErrNotFound
}
