package api

import (
	"context"
	"log/slog"
	"net/http"

	"minecalc/internal/domain"
	"minecalc/internal/service"

	"github.com/labstack/echo/v4"
)

// Estimator is the service the handlers depend on.
type Estimator interface {
	Calculate(ctx context.Context, in domain.MiningInputs) (service.Estimate, error)
	Snapshot(ctx context.Context) (domain.NetworkSnapshot, error)
}

// Handlers serves the calculator endpoints
type Handlers struct {
	svc Estimator
}

func NewHandlers(svc Estimator) *Handlers {
	return &Handlers{svc: svc}
}

// Calculate binds mining inputs from the JSON body and returns the rounded estimate.
func (h *Handlers) Calculate(c echo.Context) error {
	var in domain.MiningInputs
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Detail: "invalid request body"})
	}

	est, err := h.svc.Calculate(c.Request().Context(), in)
	if err != nil {
		status, body := errorStatus(err)
		if status == http.StatusInternalServerError {
			slog.ErrorContext(c.Request().Context(), "Unexpected calculation failure", slog.Any("error", err))
		}
		return c.JSON(status, body)
	}

	return c.JSON(http.StatusOK, NewCalculateResponse(est))
}

// GetNetwork returns a freshly fetched network snapshot.
func (h *Handlers) GetNetwork(c echo.Context) error {
	snap, err := h.svc.Snapshot(c.Request().Context())
	if err != nil {
		status, body := errorStatus(err)
		return c.JSON(status, body)
	}
	return c.JSON(http.StatusOK, newNetworkResponse(snap))
}

// GetHealth returns OK
func (h *Handlers) GetHealth(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}
