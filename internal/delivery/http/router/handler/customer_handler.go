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

// CustomerHandlerParams holds dependencies for CustomerHandler, injected by Fx.
type CustomerHandlerParams struct {
	fx.In

	CustomerUC usecase.CustomerUsecase
	Logger     *slog.Logger
}

// CustomerHandler holds dependencies for customer handlers.
type CustomerHandler struct {
	customerUC usecase.CustomerUsecase
	logger     *slog.Logger
}

// NewCustomerHandler is the constructor for CustomerHandler.
func NewCustomerHandler(params CustomerHandlerParams) *CustomerHandler {
	return &CustomerHandler{
		customerUC: params.CustomerUC,
		logger:     params.Logger,
	}
}

// List returns all customers of the caller's business.
func (h *CustomerHandler) List(c echo.Context) error {
	userID, err := actingUserID(c)
	if err != nil {
		return err
	}

	customers, err := h.customerUC.ListCustomers(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toCustomerDTOs(customers), "")
}

// Get returns one customer.
func (h *CustomerHandler) Get(c echo.Context) error {
	userID, err := actingUserID(c)
	if err != nil {
		return err
	}
	customerID, err := pathID(c)
	if err != nil {
		return err
	}

	customer, err := h.customerUC.GetCustomer(c.Request().Context(), userID, customerID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toCustomerDTO(customer), "")
}

// Create adds a customer to the caller's business.
func (h *CustomerHandler) Create(c echo.Context) error {
	userID, err := actingUserID(c)
	if err != nil {
		return err
	}

	var input usecase.CreateCustomerInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid customer input")
	}

	customer, err := h.customerUC.CreateCustomer(c.Request().Context(), userID, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toCustomerDTO(customer), "Customer created")
}

// Update edits a customer.
func (h *CustomerHandler) Update(c echo.Context) error {
	userID, err := actingUserID(c)
	if err != nil {
		return err
	}
	customerID, err := pathID(c)
	if err != nil {
		return err
	}

	var input usecase.UpdateCustomerInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid customer input")
	}

	customer, err := h.customerUC.UpdateCustomer(c.Request().Context(), userID, customerID, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toCustomerDTO(customer), "Customer updated")
}

// Delete removes a customer.
func (h *CustomerHandler) Delete(c echo.Context) error {
	userID, err := actingUserID(c)
	if err != nil {
		return err
	}
	customerID, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.customerUC.DeleteCustomer(c.Request().Context(), userID, customerID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"id": customerID.String()}, "Customer deleted")
}
