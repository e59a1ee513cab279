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

// TicketHandlerParams holds dependencies for TicketHandler, injected by Fx.
type TicketHandlerParams struct {
	fx.In

	TicketUC usecase.TicketUsecase
	Logger   *slog.Logger
}

// TicketHandler holds dependencies for support ticket handlers.
type TicketHandler struct {
	ticketUC usecase.TicketUsecase
	logger   *slog.Logger
}

// NewTicketHandler is the constructor for TicketHandler.
func NewTicketHandler(params TicketHandlerParams) *TicketHandler {
	return &TicketHandler{
		ticketUC: params.TicketUC,
		logger:   params.Logger,
	}
}

// List returns all tickets of the caller's business.
func (h *TicketHandler) List(c echo.Context) error {
	userID, err := actingUserID(c)
	if err != nil {
		return err
	}

	tickets, err := h.ticketUC.ListTickets(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toTicketDTOs(tickets), "")
}

// Get returns one ticket.
func (h *TicketHandler) Get(c echo.Context) error {
	userID, err := actingUserID(c)
	if err != nil {
		return err
	}
	ticketID, err := pathID(c)
	if err != nil {
		return err
	}

	ticket, err := h.ticketUC.GetTicket(c.Request().Context(), userID, ticketID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toTicketDTO(ticket), "")
}

// Create opens a ticket.
func (h *TicketHandler) Create(c echo.Context) error {
	userID, err := actingUserID(c)
	if err != nil {
		return err
	}

	var input usecase.CreateTicketInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid ticket input")
	}

	ticket, err := h.ticketUC.CreateTicket(c.Request().Context(), userID, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toTicketDTO(ticket), "Ticket created")
}

// Update edits a ticket.
func (h *TicketHandler) Update(c echo.Context) error {
	userID, err := actingUserID(c)
	if err != nil {
		return err
	}
	ticketID, err := pathID(c)
	if err != nil {
		return err
	}

	var input usecase.UpdateTicketInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid ticket input")
	}

	ticket, err := h.ticketUC.UpdateTicket(c.Request().Context(), userID, ticketID, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toTicketDTO(ticket), "Ticket updated")
}

// Delete removes a ticket.
func (h *TicketHandler) Delete(c echo.Context) error {
	userID, err := actingUserID(c)
	if err != nil {
		return err
	}
	ticketID, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.ticketUC.DeleteTicket(c.Request().Context(), userID, ticketID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"id": ticketID.String()}, "Ticket deleted")
}
