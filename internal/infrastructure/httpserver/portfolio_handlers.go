package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/propgate/propgate/internal/core/domain/lease"
	"github.com/propgate/propgate/internal/core/domain/property"
	"github.com/propgate/propgate/internal/core/domain/receivable"
	"github.com/propgate/propgate/internal/infrastructure/httpserver/helpers"
)

func (s *Server) createProperty(c echo.Context) error {
	sc, err := helpers.GetScopeFromContext(c)
	if err != nil {
		return err
	}
	var req property.CreatePropertyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}
	p, err := s.portfolioService.CreateProperty(c.Request().Context(), sc, &req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (s *Server) listProperties(c echo.Context) error {
	sc, err := helpers.GetScopeFromContext(c)
	if err != nil {
		return err
	}
	out, err := s.portfolioService.ListProperties(c.Request().Context(), sc)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) createUnit(c echo.Context) error {
	sc, err := helpers.GetScopeFromContext(c)
	if err != nil {
		return err
	}
	var req property.CreateUnitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.PropertyID == uuid.Nil || req.Label == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "property_id and label are required")
	}
	u, err := s.portfolioService.CreateUnit(c.Request().Context(), sc, &req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, u)
}

func (s *Server) listUnits(c echo.Context) error {
	sc, err := helpers.GetScopeFromContext(c)
	if err != nil {
		return err
	}
	out, err := s.portfolioService.ListUnits(c.Request().Context(), sc)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) createOccupant(c echo.Context) error {
	sc, err := helpers.GetScopeFromContext(c)
	if err != nil {
		return err
	}
	var req property.CreateOccupantRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.FirstName == "" || req.LastName == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "first_name and last_name are required")
	}
	o, err := s.portfolioService.CreateOccupant(c.Request().Context(), sc, &req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, o)
}

func (s *Server) listOccupants(c echo.Context) error {
	sc, err := helpers.GetScopeFromContext(c)
	if err != nil {
		return err
	}
	out, err := s.portfolioService.ListOccupants(c.Request().Context(), sc)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) createLease(c echo.Context) error {
	sc, err := helpers.GetScopeFromContext(c)
	if err != nil {
		return err
	}
	var req lease.CreateLeaseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.UnitID == uuid.Nil || req.OccupantID == uuid.Nil || req.StartDate.IsZero() {
		return echo.NewHTTPError(http.StatusBadRequest, "unit_id, occupant_id and start_date are required")
	}
	l, err := s.portfolioService.CreateLease(c.Request().Context(), sc, &req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, l)
}

func (s *Server) listLeases(c echo.Context) error {
	sc, err := helpers.GetScopeFromContext(c)
	if err != nil {
		return err
	}
	out, err := s.portfolioService.ListLeases(c.Request().Context(), sc)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) endLease(c echo.Context) error {
	sc, err := helpers.GetScopeFromContext(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid lease ID")
	}
	var req lease.EndLeaseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.MoveOutDate.IsZero() {
		return echo.NewHTTPError(http.StatusBadRequest, "move_out_date is required")
	}
	if err := s.portfolioService.EndLease(c.Request().Context(), sc, id, &req); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) createReceivable(c echo.Context) error {
	sc, err := helpers.GetScopeFromContext(c)
	if err != nil {
		return err
	}
	var req receivable.CreateReceivableRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Purpose == "" || req.DueDate.IsZero() {
		return echo.NewHTTPError(http.StatusBadRequest, "purpose and due_date are required")
	}
	r, err := s.portfolioService.CreateReceivable(c.Request().Context(), sc, &req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, r)
}

func (s *Server) listReceivables(c echo.Context) error {
	sc, err := helpers.GetScopeFromContext(c)
	if err != nil {
		return err
	}
	out, err := s.portfolioService.ListReceivables(c.Request().Context(), sc)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) createPayment(c echo.Context) error {
	sc, err := helpers.GetScopeFromContext(c)
	if err != nil {
		return err
	}
	var req receivable.CreatePaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.ReceivableID == uuid.Nil {
		return echo.NewHTTPError(http.StatusBadRequest, "receivable_id is required")
	}
	p, err := s.portfolioService.CreatePayment(c.Request().Context(), sc, &req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, p)
}
