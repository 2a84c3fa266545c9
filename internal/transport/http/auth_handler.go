package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Token  string `json:"token"`
}

func (s *Server) handleRegister(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	session, err := s.auth.Register(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return s.mapError(c, "register", err)
	}
	return c.JSON(http.StatusCreated, sessionResponse(session))
}

func (s *Server) handleLogin(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	session, err := s.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return s.mapError(c, "login", err)
	}
	return c.JSON(http.StatusOK, sessionResponse(session))
}
