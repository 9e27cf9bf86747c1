package httpserver

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/propgate/propgate/internal/core/domain/dunning"
	"github.com/propgate/propgate/internal/infrastructure/httpserver/helpers"
)

func (s *Server) listDunningProposals(c echo.Context) error {
	sc, err := helpers.GetScopeFromContext(c)
	if err != nil {
		return err
	}
	proposals, err := s.dunningService.Propose(c.Request().Context(), sc)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, proposals)
}

func (s *Server) issueDunningRecord(c echo.Context) error {
	sc, err := helpers.GetScopeFromContext(c)
	if err != nil {
		return err
	}
	var req dunning.IssueRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.LeaseID == uuid.Nil {
		return echo.NewHTTPError(http.StatusBadRequest, "lease_id is required")
	}
	if !req.Stage.IsValid() {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown dunning stage")
	}

	rec, err := s.dunningService.Issue(c.Request().Context(), sc, &req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, rec)
}

// triggerDunningRun is called by the external scheduler. It authenticates
// with a constant-time check on the shared secret, not with a user token.
func (s *Server) triggerDunningRun(c echo.Context) error {
	if s.config.JobTriggerToken == "" {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "job trigger is not configured")
	}
	authHeader := c.Request().Header.Get("Authorization")
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == authHeader || subtle.ConstantTimeCompare([]byte(token), []byte(s.config.JobTriggerToken)) != 1 {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid job token")
	}

	summary, err := s.dunningService.RunAutomatic(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, summary)
}
