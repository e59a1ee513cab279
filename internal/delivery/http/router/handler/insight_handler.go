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

// InsightHandlerParams holds dependencies for InsightHandler, injected by Fx.
type InsightHandlerParams struct {
	fx.In

	InsightUC usecase.InsightUsecase
	Logger    *slog.Logger
}

// InsightHandler serves model-written text about CRM records.
type InsightHandler struct {
	insightUC usecase.InsightUsecase
	logger    *slog.Logger
}

// NewInsightHandler is the constructor for InsightHandler.
func NewInsightHandler(params InsightHandlerParams) *InsightHandler {
	return &InsightHandler{
		insightUC: params.InsightUC,
		logger:    params.Logger,
	}
}

// MessageDraftRequest carries the intent for a drafted customer message.
type MessageDraftRequest struct {
	Intent string `json:"intent" validate:"required,max=500"`
}

type insightResponse struct {
	Text string `json:"text"`
}

// CustomerSummary returns a generated summary of one customer.
func (h *InsightHandler) CustomerSummary(c echo.Context) error {
	userID, err := actingUserID(c)
	if err != nil {
		return err
	}
	customerID, err := pathID(c)
	if err != nil {
		return err
	}

	text, err := h.insightUC.CustomerSummary(c.Request().Context(), userID, customerID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, insightResponse{Text: text}, "")
}

// DealNextAction returns a suggested next step for one deal.
func (h *InsightHandler) DealNextAction(c echo.Context) error {
	userID, err := actingUserID(c)
	if err != nil {
		return err
	}
	dealID, err := pathID(c)
	if err != nil {
		return err
	}

	text, err := h.insightUC.DealNextAction(c.Request().Context(), userID, dealID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, insightResponse{Text: text}, "")
}

// MessageDraft returns a drafted WhatsApp-style message to one customer.
func (h *InsightHandler) MessageDraft(c echo.Context) error {
	userID, err := actingUserID(c)
	if err != nil {
		return err
	}
	customerID, err := pathID(c)
	if err != nil {
		return err
	}

	var req MessageDraftRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid draft input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	text, err := h.insightUC.MessageDraft(c.Request().Context(), userID, customerID, req.Intent)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, insightResponse{Text: text}, "")
}
