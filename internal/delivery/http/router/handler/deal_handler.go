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

// DealHandlerParams holds dependencies for DealHandler, injected by Fx.
type DealHandlerParams struct {
	fx.In

	DealUC usecase.DealUsecase
	Logger *slog.Logger
}

// DealHandler holds dependencies for pipeline deal handlers.
type DealHandler struct {
	dealUC usecase.DealUsecase
	logger *slog.Logger
}

// NewDealHandler is the constructor for DealHandler.
func NewDealHandler(params DealHandlerParams) *DealHandler {
	return &DealHandler{
		dealUC: params.DealUC,
		logger: params.Logger,
	}
}

// List returns all deals of the caller's business.
func (h *DealHandler) List(c echo.Context) error {
	userID, err := actingUserID(c)
	if err != nil {
		return err
	}

	deals, err := h.dealUC.ListDeals(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toDealDTOs(deals), "")
}

// Get returns one deal.
func (h *DealHandler) Get(c echo.Context) error {
	userID, err := actingUserID(c)
	if err != nil {
		return err
	}
	dealID, err := pathID(c)
	if err != nil {
		return err
	}

	deal, err := h.dealUC.GetDeal(c.Request().Context(), userID, dealID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toDealDTO(deal), "")
}

// Create adds a deal to the caller's pipeline.
func (h *DealHandler) Create(c echo.Context) error {
	userID, err := actingUserID(c)
	if err != nil {
		return err
	}

	var input usecase.CreateDealInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid deal input")
	}

	deal, err := h.dealUC.CreateDeal(c.Request().Context(), userID, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toDealDTO(deal), "Deal created")
}

// Update edits a deal.
func (h *DealHandler) Update(c echo.Context) error {
	userID, err := actingUserID(c)
	if err != nil {
		return err
	}
	dealID, err := pathID(c)
	if err != nil {
		return err
	}

	var input usecase.UpdateDealInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid deal input")
	}

	deal, err := h.dealUC.UpdateDeal(c.Request().Context(), userID, dealID, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toDealDTO(deal), "Deal updated")
}

// Delete removes a deal.
func (h *DealHandler) Delete(c echo.Context) error {
	userID, err := actingUserID(c)
	if err != nil {
		return err
	}
	dealID, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.dealUC.DeleteDeal(c.Request().Context(), userID, dealID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"id": dealID.String()}, "Deal deleted")
}
