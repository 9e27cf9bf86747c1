package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/propgate/propgate/internal/core/domain/user"
)

type loginResponse struct {
	Token string     `json:"token"`
	User  *user.User `json:"user"`
}

func (s *Server) login(c echo.Context) error {
	var req user.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email and password are required")
	}

	token, u, err := s.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, loginResponse{Token: token, User: u})
}

// requestPasswordReset responds 202 whether or not the account exists.
func (s *Server) requestPasswordReset(c echo.Context) error {
	var req user.PasswordResetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email is required")
	}

	if err := s.authService.RequestPasswordReset(c.Request().Context(), req.Email); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusAccepted, map[string]string{
		"message": "if the account exists, a reset notice has been sent",
	})
}
