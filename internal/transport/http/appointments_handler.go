package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"turno/backend/internal/service/booking"
)

type bookRequest struct {
	ProviderID      string `json:"provider_id"`
	Reason          string `json:"reason"`
	StartTime       string `json:"start_time"`
	DurationMinutes int    `json:"duration_minutes"`
}

type appointmentResponse struct {
	Appointment appointmentJSON `json:"appointment"`
	Reminder    reminderJSON    `json:"reminder"`
}

// parseStart keeps the client's UTC offset so the day key reflects
// the caller's calendar day, not the server's.
func parseStart(raw string) (time.Time, error) {
	return time.Parse(time.RFC3339, raw)
}

func (s *Server) handleBook(c echo.Context) error {
	var req bookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	providerID, err := uuid.Parse(req.ProviderID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid provider id")
	}
	start, err := parseStart(req.StartTime)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "start_time must be RFC 3339")
	}

	appt, reminder, err := s.booking.Book(c.Request().Context(), booking.BookInput{
		UserID:          currentUserID(c),
		ProviderID:      providerID,
		Reason:          req.Reason,
		StartTime:       start,
		DurationMinutes: req.DurationMinutes,
	})
	if err != nil {
		return s.mapError(c, "appointments.book", err)
	}

	return c.JSON(http.StatusCreated, appointmentResponse{
		Appointment: toAppointmentJSON(appt),
		Reminder:    toReminderJSON(reminder),
	})
}

func (s *Server) handleHistory(c echo.Context) error {
	list, err := s.booking.History(c.Request().Context(), currentUserID(c))
	if err != nil {
		return s.mapError(c, "appointments.history", err)
	}
	out := make([]appointmentJSON, 0, len(list))
	for _, a := range list {
		out = append(out, toAppointmentJSON(a))
	}
	return c.JSON(http.StatusOK, map[string]any{"appointments": out})
}

type rescheduleRequest struct {
	StartTime       string `json:"start_time"`
	DurationMinutes int    `json:"duration_minutes"`
}

func (s *Server) handleReschedule(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid appointment id")
	}
	var req rescheduleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	start, err := parseStart(req.StartTime)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "start_time must be RFC 3339")
	}

	appt, reminder, err := s.booking.Reschedule(c.Request().Context(), booking.RescheduleInput{
		UserID:          currentUserID(c),
		AppointmentID:   id,
		StartTime:       start,
		DurationMinutes: req.DurationMinutes,
	})
	if err != nil {
		return s.mapError(c, "appointments.reschedule", err)
	}

	return c.JSON(http.StatusOK, appointmentResponse{
		Appointment: toAppointmentJSON(appt),
		Reminder:    toReminderJSON(reminder),
	})
}

func (s *Server) handleCancel(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid appointment id")
	}
	if err := s.booking.Cancel(c.Request().Context(), currentUserID(c), id); err != nil {
		return s.mapError(c, "appointments.cancel", err)
	}
	return c.NoContent(http.StatusNoContent)
}

// handleStream pushes history snapshots as server-sent events: one on
// connect, one after every change, until the client goes away.
func (s *Server) handleStream(c echo.Context) error {
	snapshots, err := s.booking.Watch(c.Request().Context(), currentUserID(c))
	if err != nil {
		return s.mapError(c, "appointments.stream", err)
	}

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set(echo.HeaderCacheControl, "no-cache")
	res.Header().Set(echo.HeaderConnection, "keep-alive")
	res.WriteHeader(http.StatusOK)

	for snapshot := range snapshots {
		out := make([]appointmentJSON, 0, len(snapshot))
		for _, a := range snapshot {
			out = append(out, toAppointmentJSON(a))
		}
		payload, err := json.Marshal(map[string]any{"appointments": out})
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(res, "data: %s\n\n", payload); err != nil {
			return err
		}
		res.Flush()
	}
	return nil
}
