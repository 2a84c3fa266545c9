package http

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"turno/backend/internal/domain"
	"turno/backend/internal/service/providers"
)

type providerJSON struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Specialty       string    `json:"specialty,omitempty"`
	DurationMinutes int       `json:"duration_minutes"`
	CreatedAt       time.Time `json:"created_at"`
}

func toProviderJSON(p domain.Provider) providerJSON {
	return providerJSON{
		ID:              p.ID.String(),
		Name:            p.Name,
		Specialty:       p.Specialty,
		DurationMinutes: p.DurationMinutes,
		CreatedAt:       p.CreatedAt,
	}
}

func (s *Server) handleListProviders(c echo.Context) error {
	list, err := s.providers.List(c.Request().Context())
	if err != nil {
		return s.mapError(c, "providers.list", err)
	}
	out := make([]providerJSON, 0, len(list))
	for _, p := range list {
		out = append(out, toProviderJSON(p))
	}
	return c.JSON(http.StatusOK, map[string]any{"providers": out})
}

type createProviderRequest struct {
	Name            string `json:"name"`
	Specialty       string `json:"specialty"`
	DurationMinutes int    `json:"duration_minutes"`
}

func (s *Server) handleCreateProvider(c echo.Context) error {
	var req createProviderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	created, err := s.providers.Create(c.Request().Context(), providers.CreateInput{
		Name:            req.Name,
		Specialty:       req.Specialty,
		DurationMinutes: req.DurationMinutes,
	})
	if err != nil {
		return s.mapError(c, "providers.create", err)
	}
	return c.JSON(http.StatusCreated, toProviderJSON(created))
}

func (s *Server) handleDeleteProvider(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid provider id")
	}
	if err := s.providers.Delete(c.Request().Context(), id); err != nil {
		return s.mapError(c, "providers.delete", err)
	}
	return c.NoContent(http.StatusNoContent)
}
