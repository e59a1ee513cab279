// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"crm/internal/delivery/http/middleware"
	"crm/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// RouterParams holds the handlers and middleware, injected by Fx.
type RouterParams struct {
	fx.In

	AuthHandler     *handler.AuthHandler
	CallbackHandler *handler.CallbackHandler
	BusinessHandler *handler.BusinessHandler
	CustomerHandler *handler.CustomerHandler
	DealHandler     *handler.DealHandler
	TicketHandler   *handler.TicketHandler
	MetricsHandler  *handler.MetricsHandler
	InsightHandler  *handler.InsightHandler
	RouteGuard      *middleware.RouteGuard
}

// router holds all the handlers that need to be registered.
type router struct {
	params RouterParams
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{params: params}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// The guard resolves cookies into a session and applies the page rules.
	e.Use(r.params.RouteGuard.Guard)

	// Auth routes
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/register", r.params.AuthHandler.Register)
		authGroup.POST("/login", r.params.AuthHandler.Login)
		authGroup.POST("/logout", r.params.AuthHandler.Logout)
		authGroup.GET("/me", r.params.AuthHandler.Me)

		// The guard skips this path; the handler owns session resolution.
		authGroup.GET("/callback", r.params.CallbackHandler.Resolve)
	}

	// Dashboard routes require an authenticated session.
	dashboardGroup := e.Group("/dashboard")
	dashboardGroup.Use(r.params.RouteGuard.RequireAuth)
	{
		dashboardGroup.GET("/metrics", r.params.MetricsHandler.Get)

		dashboardGroup.GET("/business", r.params.BusinessHandler.Get)
		dashboardGroup.PUT("/business", r.params.BusinessHandler.Update)

		dashboardGroup.GET("/customers", r.params.CustomerHandler.List)
		dashboardGroup.POST("/customers", r.params.CustomerHandler.Create)
		dashboardGroup.GET("/customers/:id", r.params.CustomerHandler.Get)
		dashboardGroup.PUT("/customers/:id", r.params.CustomerHandler.Update)
		dashboardGroup.DELETE("/customers/:id", r.params.CustomerHandler.Delete)

		dashboardGroup.GET("/deals", r.params.DealHandler.List)
		dashboardGroup.POST("/deals", r.params.DealHandler.Create)
		dashboardGroup.GET("/deals/:id", r.params.DealHandler.Get)
		dashboardGroup.PUT("/deals/:id", r.params.DealHandler.Update)
		dashboardGroup.DELETE("/deals/:id", r.params.DealHandler.Delete)

		dashboardGroup.GET("/tickets", r.params.TicketHandler.List)
		dashboardGroup.POST("/tickets", r.params.TicketHandler.Create)
		dashboardGroup.GET("/tickets/:id", r.params.TicketHandler.Get)
		dashboardGroup.PUT("/tickets/:id", r.params.TicketHandler.Update)
		dashboardGroup.DELETE("/tickets/:id", r.params.TicketHandler.Delete)

		dashboardGroup.GET("/insights/customers/:id/summary", r.params.InsightHandler.CustomerSummary)
		dashboardGroup.POST("/insights/customers/:id/draft", r.params.InsightHandler.MessageDraft)
		dashboardGroup.GET("/insights/deals/:id/next-action", r.params.InsightHandler.DealNextAction)
	}
}
