package httpserver

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/propgate/propgate/internal/core/ports"
)

// billingWebhook receives provider events. Authentication is the payload
// signature; a verification failure is a 400 so the provider retries
// misconfigured endpoints visibly.
func (s *Server) billingWebhook(c echo.Context) error {
	payload, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "failed to read payload")
	}
	signature := c.Request().Header.Get("Stripe-Signature")

	result, err := s.webhookService.Process(c.Request().Context(), payload, signature)
	if err != nil {
		if errors.Is(err, ports.ErrUnauthorized) {
			return echo.NewHTTPError(http.StatusBadRequest, "signature verification failed")
		}
		return httpError(err)
	}
	return c.JSON(http.StatusOK, result)
}
