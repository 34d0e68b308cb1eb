package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/ledger_invoicing_app/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_invoicing_app/internal/core/ports/services"
	"github.com/SscSPs/ledger_invoicing_app/internal/dto"
	"github.com/SscSPs/ledger_invoicing_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// customerHandler handles HTTP requests related to customers.
type customerHandler struct {
	customerService portssvc.CustomerSvcFacade
}

func newCustomerHandler(cs portssvc.CustomerSvcFacade) *customerHandler {
	return &customerHandler{customerService: cs}
}

// RegisterCustomerRoutes registers the customer CRUD routes. The ledger and
// statement routes nested under a customer are registered separately.
func RegisterCustomerRoutes(rg *gin.RouterGroup, customerService portssvc.CustomerSvcFacade) {
	h := newCustomerHandler(customerService)

	customers := rg.Group("/customers")
	{
		customers.POST("", h.createCustomer)
		customers.GET("", h.listCustomers)
		customers.GET("/:customerID", h.getCustomer)
		customers.PUT("/:customerID", h.updateCustomer)
		customers.DELETE("/:customerID", h.deleteCustomer)
	}
}

// createCustomer godoc
// @Summary Create a new customer
// @Description Creates a customer. Names are unique.
// @Tags customers
// @Accept  json
// @Produce  json
// @Param   X-Actor header string false "Name recorded in audit fields"
// @Param   customer body dto.CreateCustomerRequest true "Customer details"
// @Success 201 {object} dto.CustomerResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input format or validation error"
// @Failure 409 {object} dto.ErrorResponse "Customer name already taken"
// @Failure 500 {object} dto.ErrorResponse "Failed to create customer"
// @Router /customers [post]
func (h *customerHandler) createCustomer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err, "request format")
		return
	}

	actor := middleware.GetActorFromContext(c)
	customer, err := h.customerService.CreateCustomer(c.Request.Context(), req, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to create customer")
		return
	}

	logger.Info("Customer created successfully", slog.String("customer_id", customer.CustomerID))
	c.JSON(http.StatusCreated, dto.ToCustomerResponse(customer))
}

// listCustomers godoc
// @Summary List customers with balances
// @Description Lists every customer with its closing balance for a financial year
// @Tags customers
// @Produce  json
// @Param   year query string false "Financial year, e.g. 2024-25 (defaults to the current one)"
// @Success 200 {object} dto.ListCustomersResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid financial year"
// @Failure 500 {object} dto.ErrorResponse "Failed to list customers"
// @Router /customers [get]
func (h *customerHandler) listCustomers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var q dto.YearQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, logger, err, "query parameters")
		return
	}

	balances, err := h.customerService.ListCustomers(c.Request.Context(), domain.FinancialYear(q.Year))
	if err != nil {
		respondError(c, logger, err, "Failed to list customers")
		return
	}
	c.JSON(http.StatusOK, dto.ToListCustomersResponse(balances))
}

// getCustomer godoc
// @Summary Get a customer by ID
// @Tags customers
// @Produce  json
// @Param   customerID path string true "Customer ID"
// @Success 200 {object} dto.CustomerResponse
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to retrieve customer"
// @Router /customers/{customerID} [get]
func (h *customerHandler) getCustomer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("customer_id", c.Param("customerID")))

	customer, err := h.customerService.GetCustomer(c.Request.Context(), c.Param("customerID"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve customer")
		return
	}
	c.JSON(http.StatusOK, dto.ToCustomerResponse(customer))
}

// updateCustomer godoc
// @Summary Update a customer
// @Description Updates the provided fields of a customer. Existing invoices keep their address snapshots.
// @Tags customers
// @Accept  json
// @Produce  json
// @Param   X-Actor header string false "Name recorded in audit fields"
// @Param   customerID path string true "Customer ID"
// @Param   customer body dto.UpdateCustomerRequest true "Fields to update"
// @Success 200 {object} dto.CustomerResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input format or validation error"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 409 {object} dto.ErrorResponse "Customer name already taken"
// @Failure 500 {object} dto.ErrorResponse "Failed to update customer"
// @Router /customers/{customerID} [put]
func (h *customerHandler) updateCustomer(c *gin.Context) {
	customerID := c.Param("customerID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("customer_id", customerID))
	var req dto.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err, "request format")
		return
	}

	customer, err := h.customerService.UpdateCustomer(c.Request.Context(), customerID, req, middleware.GetActorFromContext(c))
	if err != nil {
		respondError(c, logger, err, "Failed to update customer")
		return
	}

	logger.Info("Customer updated successfully")
	c.JSON(http.StatusOK, dto.ToCustomerResponse(customer))
}

// deleteCustomer godoc
// @Summary Delete a customer
// @Description Deletes a customer and its ledger. Refused while invoices reference the customer.
// @Tags customers
// @Param   customerID path string true "Customer ID"
// @Success 204 "No Content"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 409 {object} dto.ErrorResponse "Customer still has invoices"
// @Failure 500 {object} dto.ErrorResponse "Failed to delete customer"
// @Router /customers/{customerID} [delete]
func (h *customerHandler) deleteCustomer(c *gin.Context) {
	customerID := c.Param("customerID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("customer_id", customerID))

	if err := h.customerService.DeleteCustomer(c.Request.Context(), customerID); err != nil {
		respondError(c, logger, err, "Failed to delete customer")
		return
	}

	logger.Info("Customer deleted successfully")
	c.Status(http.StatusNoContent)
}
