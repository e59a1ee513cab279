package handler

import (
	"log/slog"
	"net/http"

	"crm/internal/delivery/http/response"
	"crm/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// MetricsHandlerParams holds dependencies for MetricsHandler, injected by Fx.
type MetricsHandlerParams struct {
	fx.In

	MetricsUC usecase.MetricsUsecase
	Logger    *slog.Logger
}

// MetricsHandler serves the dashboard overview counters.
type MetricsHandler struct {
	metricsUC usecase.MetricsUsecase
	logger    *slog.Logger
}

// NewMetricsHandler is the constructor for MetricsHandler.
func NewMetricsHandler(params MetricsHandlerParams) *MetricsHandler {
	return &MetricsHandler{
		metricsUC: params.MetricsUC,
		logger:    params.Logger,
	}
}

// Get returns the caller's dashboard metrics.
func (h *MetricsHandler) Get(c echo.Context) error {
	userID, err := actingUserID(c)
	if err != nil {
		return err
	}

	metrics, err := h.metricsUC.GetDashboardMetrics(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, metrics, "")
}
