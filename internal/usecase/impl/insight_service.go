package impl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	deliverycontext "crm/internal/delivery/context"
	"crm/internal/domain/entity"
	domainerrors "crm/internal/domain/errors"
	"crm/internal/domain/repository"
	"crm/internal/domain/service"
	"crm/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// insightService implements the InsightUsecase interface. It assembles
// tenant-scoped CRM context into prompts and delegates completion to the
// text generator.
type insightService struct {
	textGenerator   service.TextGenerator
	businessUsecase usecase.BusinessUsecase
	customerRepo    repository.CustomerRepository
	dealRepo        repository.DealRepository
	ticketRepo      repository.TicketRepository
	logger          *slog.Logger
}

// InsightServiceParams holds dependencies for InsightService, injected by Fx.
type InsightServiceParams struct {
	fx.In

	TextGenerator   service.TextGenerator `optional:"true"`
	BusinessUsecase usecase.BusinessUsecase
	CustomerRepo    repository.CustomerRepository
	DealRepo        repository.DealRepository
	TicketRepo      repository.TicketRepository
	Logger          *slog.Logger
}

// NewInsightService is the constructor for insightService. The text generator
// is optional; without it every operation reports the feature as disabled.
func NewInsightService(params InsightServiceParams) usecase.InsightUsecase {
	return &insightService{
		textGenerator:   params.TextGenerator,
		businessUsecase: params.BusinessUsecase,
		customerRepo:    params.CustomerRepo,
		dealRepo:        params.DealRepo,
		ticketRepo:      params.TicketRepo,
		logger:          params.Logger,
	}
}

func (srv *insightService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// CustomerSummary writes a short summary of the customer's relationship from
// their profile, deal history and support history.
func (srv *insightService) CustomerSummary(ctx context.Context, userID, customerID uuid.UUID) (string, error) {
	if srv.textGenerator == nil {
		return "", domainerrors.ErrInsightsNotConfigured
	}

	business, err := srv.businessUsecase.GetOrCreateBusiness(ctx, userID)
	if err != nil {
		return "", err
	}

	customer, err := srv.customerRepo.FindByID(ctx, business.ID, customerID)
	if err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			return "", domainerrors.ErrCustomerNotFound
		}

		return "", err
	}

	deals, err := srv.dealRepo.ListByCustomer(ctx, business.ID, customerID)
	if err != nil {
		return "", err
	}
	tickets, err := srv.ticketRepo.ListByCustomer(ctx, business.ID, customerID)
	if err != nil {
		return "", err
	}

	var totalValue float64
	for _, deal := range deals {
		totalValue += deal.Value
	}

	latestDeal, latestStage := "None", "N/A"
	if len(deals) > 0 {
		latestDeal = deals[0].Title
		latestStage = deals[0].Stage.String()
	}

	openTickets := 0
	latestTicket := "None"
	for _, ticket := range tickets {
		if ticket.Status == entity.TicketStatusOpen || ticket.Status == entity.TicketStatusPending {
			openTickets++
		}
	}
	if len(tickets) > 0 {
		latestTicket = tickets[0].Title
	}

	prompt := fmt.Sprintf(`You are an expert sales assistant. Analyze this customer and provide a concise summary (max 3-4 sentences).
Highlight key opportunities, risks (open tickets), and total value.

Customer: %s
Company: %s
Status: %s

Deals History:
- Total Deals: %d
- Total Value: $%.2f
- Latest Deal: %s (Stage: %s)

Support History:
- Total Tickets: %d
- Open Tickets: %d
- Latest Ticket: %s
`, customer.FullName(), customer.CompanyName, customer.Status, len(deals), totalValue,
		latestDeal, latestStage, len(tickets), openTickets, latestTicket)

	return srv.generate(ctx, prompt)
}

// DealNextAction suggests the single most useful next step for a deal.
func (srv *insightService) DealNextAction(ctx context.Context, userID, dealID uuid.UUID) (string, error) {
	if srv.textGenerator == nil {
		return "", domainerrors.ErrInsightsNotConfigured
	}

	business, err := srv.businessUsecase.GetOrCreateBusiness(ctx, userID)
	if err != nil {
		return "", err
	}

	deal, err := srv.dealRepo.FindByID(ctx, business.ID, dealID)
	if err != nil {
		if errors.Is(err, repository.ErrDealNotFound) {
			return "", domainerrors.ErrDealNotFound
		}

		return "", err
	}

	customerContext := "no customer linked"
	if deal.Customer != nil {
		customerContext = "linked to customer " + deal.Customer.FullName()
	} else if deal.CustomerID != nil {
		customerContext = "linked to customer ID " + deal.CustomerID.String()
	}

	expectedClose := "Unknown"
	if deal.ExpectedCloseDate != nil {
		expectedClose = deal.ExpectedCloseDate.Format("2006-01-02")
	}

	prompt := fmt.Sprintf(`Suggest the single most important next action to move this deal forward. Be specific and actionable (Start with a verb like "Call", "Email", "Schedule").

Deal: %s
Value: %.2f %s
Stage: %s
Expected Close: %s
Context: %s
`, deal.Title, deal.Value, deal.Currency, deal.Stage, expectedClose, customerContext)

	return srv.generate(ctx, prompt)
}

// MessageDraft writes a short WhatsApp-style message to a customer.
func (srv *insightService) MessageDraft(ctx context.Context, userID, customerID uuid.UUID, intent string) (string, error) {
	if srv.textGenerator == nil {
		return "", domainerrors.ErrInsightsNotConfigured
	}
	if strings.TrimSpace(intent) == "" {
		return "", domainerrors.NewValidationError("intent is required")
	}

	business, err := srv.businessUsecase.GetOrCreateBusiness(ctx, userID)
	if err != nil {
		return "", err
	}

	customer, err := srv.customerRepo.FindByID(ctx, business.ID, customerID)
	if err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			return "", domainerrors.ErrCustomerNotFound
		}

		return "", err
	}

	prompt := fmt.Sprintf(`Draft a short, professional WhatsApp message to this customer.
Intent: %s

Customer: %s
Company: %s
`, intent, customer.FullName(), customer.CompanyName)

	return srv.generate(ctx, prompt)
}

func (srv *insightService) generate(ctx context.Context, prompt string) (string, error) {
	text, err := srv.textGenerator.GenerateText(ctx, prompt)
	if err != nil {
		srv.log(ctx).Error("Text generation failed", slog.Any("error", err))

		return "", domainerrors.ErrProvider
	}

	return strings.TrimSpace(text), nil
}
