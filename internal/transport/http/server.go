// Package http is the JSON surface over the booking core. Handlers
// stay thin: decode, call a service, map errors. User identity comes
// from the access token and is passed into the services explicitly.
package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"turno/backend/internal/auth"
	"turno/backend/internal/domain"
	"turno/backend/internal/notify"
	"turno/backend/internal/service/booking"
	"turno/backend/internal/service/providers"
	"turno/backend/internal/store"
)

type bookingService interface {
	Book(ctx context.Context, in booking.BookInput) (domain.Appointment, notify.ReminderResult, error)
	Reschedule(ctx context.Context, in booking.RescheduleInput) (domain.Appointment, notify.ReminderResult, error)
	Cancel(ctx context.Context, userID string, appointmentID uuid.UUID) error
	History(ctx context.Context, userID string) ([]domain.Appointment, error)
	Watch(ctx context.Context, userID string) (<-chan []domain.Appointment, error)
}

type providerService interface {
	List(ctx context.Context) ([]domain.Provider, error)
	Create(ctx context.Context, in providers.CreateInput) (domain.Provider, error)
	Delete(ctx context.Context, providerID uuid.UUID) error
}

type authService interface {
	Register(ctx context.Context, email, password string) (auth.Session, error)
	Login(ctx context.Context, email, password string) (auth.Session, error)
}

type Server struct {
	echo      *echo.Echo
	booking   bookingService
	providers providerService
	auth      authService
	jwtSecret string
	log       *slog.Logger
}

type Options struct {
	Booking   bookingService
	Providers providerService
	Auth      authService
	JWTSecret string
	RateLimit RateLimitOptions
	Log       *slog.Logger
}

func NewServer(opts Options) *Server {
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:      e,
		booking:   opts.Booking,
		providers: opts.Providers,
		auth:      opts.Auth,
		jwtSecret: opts.JWTSecret,
		log:       log.With(slog.String("component", "http")),
	}

	e.Use(rateLimitMiddleware(opts.RateLimit))

	v1 := e.Group("/v1")
	v1.POST("/auth/register", s.handleRegister)
	v1.POST("/auth/login", s.handleLogin)

	authed := v1.Group("", s.requireUser)
	authed.GET("/providers", s.handleListProviders)
	authed.POST("/providers", s.handleCreateProvider)
	authed.DELETE("/providers/:id", s.handleDeleteProvider)

	authed.POST("/appointments", s.handleBook)
	authed.GET("/appointments", s.handleHistory)
	authed.GET("/appointments/stream", s.handleStream)
	authed.PATCH("/appointments/:id", s.handleReschedule)
	authed.DELETE("/appointments/:id", s.handleCancel)

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	return s
}

func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Handler exposes the routing tree; tests drive it with httptest.
func (s *Server) Handler() http.Handler {
	return s.echo
}

const userIDKey = "turno.user_id"

// requireUser resolves the bearer token and stashes the user id for
// handlers. Everything behind it assumes an authenticated caller.
func (s *Server) requireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw := bearerToken(c.Request())
		if raw == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
		}
		claims, err := auth.ParseToken(raw, s.jwtSecret)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
		}
		c.Set(userIDKey, claims.UserID)
		return next(c)
	}
}

func bearerToken(r *http.Request) string {
	const prefix = "Bearer "
	h := r.Header.Get(echo.HeaderAuthorization)
	if len(h) > len(prefix) && h[:len(prefix)] == prefix {
		return h[len(prefix):]
	}
	return ""
}

func currentUserID(c echo.Context) string {
	uid, _ := c.Get(userIDKey).(string)
	return uid
}

// mapError translates service errors into HTTP responses. Anything
// unrecognized is a 500 with a generic message; details stay in the
// log.
func (s *Server) mapError(c echo.Context, op string, err error) error {
	var bookingErr *booking.ValidationError
	var providerErr *providers.ValidationError
	var authErr *auth.ValidationError

	switch {
	case errors.As(err, &bookingErr), errors.As(err, &providerErr), errors.As(err, &authErr):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, "that slot overlaps an existing appointment for this provider")
	case errors.Is(err, store.ErrDuplicate):
		return echo.NewHTTPError(http.StatusConflict, "already exists")
	case errors.Is(err, store.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	case errors.Is(err, auth.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	default:
		s.log.Error("request failed", slog.String("op", op), slog.Any("err", err))
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}

type appointmentJSON struct {
	ID              string     `json:"id"`
	ProviderID      string     `json:"provider_id"`
	ProviderName    string     `json:"provider_name"`
	Reason          string     `json:"reason"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         time.Time  `json:"end_time"`
	DurationMinutes int        `json:"duration_minutes"`
	Day             string     `json:"day"`
	NotifyAt        *time.Time `json:"notify_at,omitempty"`
	NotificationID  string     `json:"notification_id,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

func toAppointmentJSON(a domain.Appointment) appointmentJSON {
	return appointmentJSON{
		ID:              a.ID.String(),
		ProviderID:      a.ProviderID.String(),
		ProviderName:    a.ProviderName,
		Reason:          a.Reason,
		StartTime:       a.StartTime,
		EndTime:         a.EndTime,
		DurationMinutes: a.DurationMinutes,
		Day:             a.Day,
		NotifyAt:        a.NotifyAt,
		NotificationID:  a.NotificationID,
		CreatedAt:       a.CreatedAt,
	}
}

type reminderJSON struct {
	Scheduled      bool       `json:"scheduled"`
	NotificationID string     `json:"notification_id,omitempty"`
	NotifyAt       *time.Time `json:"notify_at,omitempty"`
	SkipReason     string     `json:"skip_reason,omitempty"`
}

func toReminderJSON(r notify.ReminderResult) reminderJSON {
	out := reminderJSON{
		Scheduled:      r.Scheduled,
		NotificationID: r.NotificationID,
		SkipReason:     r.SkipReason,
	}
	if r.Scheduled {
		at := r.NotifyAt
		out.NotifyAt = &at
	}
	return out
}
