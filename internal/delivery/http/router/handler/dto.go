// Package handler contains the HTTP handlers for the application.
package handler

import (
	"time"

	"crm/internal/domain/entity"

	"github.com/google/uuid"
)

// The API never returns raw tokens; sessions live in HttpOnly cookies. These
// DTOs shape everything else the frontend reads.

// UserDTO is the public view of an account.
type UserDTO struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	FullName       string    `json:"fullName"`
	EmailConfirmed bool      `json:"emailConfirmed"`
	CreatedAt      time.Time `json:"createdAt"`
}

func toUserDTO(user *entity.User) *UserDTO {
	if user == nil {
		return nil
	}

	return &UserDTO{
		ID:             user.ID,
		Email:          user.Email,
		FullName:       user.FullName,
		EmailConfirmed: user.EmailConfirmed(),
		CreatedAt:      user.CreatedAt,
	}
}

// BusinessDTO is the tenant profile.
type BusinessDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Industry  string    `json:"industry"`
	TeamSize  string    `json:"teamSize"`
	Country   string    `json:"country"`
	CreatedAt time.Time `json:"createdAt"`
}

func toBusinessDTO(business *entity.Business) *BusinessDTO {
	return &BusinessDTO{
		ID:        business.ID,
		Name:      business.Name,
		Industry:  string(business.Industry),
		TeamSize:  string(business.TeamSize),
		Country:   business.Country,
		CreatedAt: business.CreatedAt,
	}
}

// CustomerDTO is one CRM contact.
type CustomerDTO struct {
	ID          uuid.UUID `json:"id"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Email       string    `json:"email,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	CompanyName string    `json:"companyName,omitempty"`
	Status      string    `json:"status"`
	Tags        []string  `json:"tags,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toCustomerDTO(customer *entity.Customer) *CustomerDTO {
	return &CustomerDTO{
		ID:          customer.ID,
		FirstName:   customer.FirstName,
		LastName:    customer.LastName,
		Email:       customer.Email,
		Phone:       customer.Phone,
		CompanyName: customer.CompanyName,
		Status:      string(customer.Status),
		Tags:        customer.Tags,
		CreatedAt:   customer.CreatedAt,
		UpdatedAt:   customer.UpdatedAt,
	}
}

func toCustomerDTOs(customers []*entity.Customer) []*CustomerDTO {
	out := make([]*CustomerDTO, 0, len(customers))
	for _, customer := range customers {
		out = append(out, toCustomerDTO(customer))
	}

	return out
}

// DealDTO is one pipeline deal, with the linked customer when loaded.
type DealDTO struct {
	ID                uuid.UUID    `json:"id"`
	Title             string       `json:"title"`
	Value             float64      `json:"value"`
	Currency          string       `json:"currency"`
	Stage             string       `json:"stage"`
	CustomerID        *uuid.UUID   `json:"customerId,omitempty"`
	Customer          *CustomerDTO `json:"customer,omitempty"`
	ExpectedCloseDate *time.Time   `json:"expectedCloseDate,omitempty"`
	CreatedAt         time.Time    `json:"createdAt"`
	UpdatedAt         time.Time    `json:"updatedAt"`
}

func toDealDTO(deal *entity.Deal) *DealDTO {
	dto := &DealDTO{
		ID:                deal.ID,
		Title:             deal.Title,
		Value:             deal.Value,
		Currency:          deal.Currency,
		Stage:             string(deal.Stage),
		CustomerID:        deal.CustomerID,
		ExpectedCloseDate: deal.ExpectedCloseDate,
		CreatedAt:         deal.CreatedAt,
		UpdatedAt:         deal.UpdatedAt,
	}
	if deal.Customer != nil {
		dto.Customer = toCustomerDTO(deal.Customer)
	}

	return dto
}

func toDealDTOs(deals []*entity.Deal) []*DealDTO {
	out := make([]*DealDTO, 0, len(deals))
	for _, deal := range deals {
		out = append(out, toDealDTO(deal))
	}

	return out
}

// TicketDTO is one support ticket, with the linked customer when loaded.
type TicketDTO struct {
	ID          uuid.UUID    `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Status      string       `json:"status"`
	Priority    string       `json:"priority"`
	CustomerID  *uuid.UUID   `json:"customerId,omitempty"`
	Customer    *CustomerDTO `json:"customer,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

func toTicketDTO(ticket *entity.Ticket) *TicketDTO {
	dto := &TicketDTO{
		ID:          ticket.ID,
		Title:       ticket.Title,
		Description: ticket.Description,
		Status:      string(ticket.Status),
		Priority:    string(ticket.Priority),
		CustomerID:  ticket.CustomerID,
		CreatedAt:   ticket.CreatedAt,
		UpdatedAt:   ticket.UpdatedAt,
	}
	if ticket.Customer != nil {
		dto.Customer = toCustomerDTO(ticket.Customer)
	}

	return dto
}

func toTicketDTOs(tickets []*entity.Ticket) []*TicketDTO {
	out := make([]*TicketDTO, 0, len(tickets))
	for _, ticket := range tickets {
		out = append(out, toTicketDTO(ticket))
	}

	return out
}
