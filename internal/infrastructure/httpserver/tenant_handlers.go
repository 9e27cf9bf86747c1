package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/propgate/propgate/internal/core/domain/tenant"
	"github.com/propgate/propgate/internal/infrastructure/httpserver/helpers"
	"github.com/propgate/propgate/internal/utils"
)

func (s *Server) createTenant(c echo.Context) error {
	var req tenant.CreateTenantRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Name == "" || req.Slug == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name and slug are required")
	}
	if req.AdminUser.Email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "admin email is required")
	}
	if err := utils.ValidatePasswordStrength(req.AdminUser.Password); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	t, err := s.tenantService.CreateTenant(c.Request().Context(), &req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, t)
}

func (s *Server) getOwnTenant(c echo.Context) error {
	t, err := helpers.GetTenantFromContext(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, t)
}

func (s *Server) updateDunningSettings(c echo.Context) error {
	t, err := helpers.GetTenantFromContext(c)
	if err != nil {
		return err
	}
	var req tenant.UpdateDunningSettingsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	updated, err := s.tenantService.UpdateDunningSettings(c.Request().Context(), t.ID, &req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (s *Server) exportTenantData(c echo.Context) error {
	sc, err := helpers.GetScopeFromContext(c)
	if err != nil {
		return err
	}
	doc, err := s.exportService.Export(c.Request().Context(), sc)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, doc)
}
