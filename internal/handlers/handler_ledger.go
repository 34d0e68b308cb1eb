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

// ledgerHandler handles HTTP requests related to customer ledgers.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

func newLedgerHandler(ls portssvc.LedgerSvcFacade) *ledgerHandler {
	return &ledgerHandler{ledgerService: ls}
}

// RegisterLedgerRoutes registers the ledger view, payment and entry routes.
func RegisterLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newLedgerHandler(ledgerService)

	ledger := rg.Group("/customers/:customerID/ledger")
	{
		ledger.GET("", h.getLedger)
		ledger.POST("/payments", h.recordPayment)
		ledger.POST("/entries", h.addEntry)
	}

	entries := rg.Group("/ledger-entries")
	{
		entries.PUT("/:entryID", h.updateEntry)
		entries.DELETE("/:entryID", h.deleteEntry)
	}
}

// getLedger godoc
// @Summary Get a customer's ledger
// @Description Returns the ledger for one financial year with running balances. A carried-forward "Opening Balance" row leads when the customer has earlier history.
// @Tags ledger
// @Produce  json
// @Param   customerID path string true "Customer ID"
// @Param   year query string false "Financial year, e.g. 2024-25 (defaults to the current one)"
// @Success 200 {object} dto.LedgerResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid financial year"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to retrieve ledger"
// @Router /customers/{customerID}/ledger [get]
func (h *ledgerHandler) getLedger(c *gin.Context) {
	customerID := c.Param("customerID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("customer_id", customerID))
	var q dto.YearQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, logger, err, "query parameters")
		return
	}

	view, err := h.ledgerService.GetLedger(c.Request.Context(), customerID, domain.FinancialYear(q.Year))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve ledger")
		return
	}
	c.JSON(http.StatusOK, dto.ToLedgerResponse(customerID, view.FinancialYear, view))
}

// recordPayment godoc
// @Summary Record a payment
// @Description Credits the customer's ledger with a payment received
// @Tags ledger
// @Accept  json
// @Produce  json
// @Param   X-Actor header string false "Name recorded in audit fields"
// @Param   customerID path string true "Customer ID"
// @Param   payment body dto.RecordPaymentRequest true "Payment details"
// @Success 201 {object} dto.LedgerEntryResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input format or validation error"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to record payment"
// @Router /customers/{customerID}/ledger/payments [post]
func (h *ledgerHandler) recordPayment(c *gin.Context) {
	customerID := c.Param("customerID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("customer_id", customerID))
	var req dto.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err, "request format")
		return
	}

	entry, err := h.ledgerService.RecordPayment(c.Request.Context(), customerID, req, middleware.GetActorFromContext(c))
	if err != nil {
		respondError(c, logger, err, "Failed to record payment")
		return
	}

	logger.Info("Payment recorded", slog.String("entry_id", entry.EntryID), slog.String("amount", entry.Credit.String()))
	c.JSON(http.StatusCreated, dto.ToLedgerEntryResponse(entry))
}

// addEntry godoc
// @Summary Add a manual ledger entry
// @Description Adds a debit or credit entry. Reserved particulars are refused.
// @Tags ledger
// @Accept  json
// @Produce  json
// @Param   X-Actor header string false "Name recorded in audit fields"
// @Param   customerID path string true "Customer ID"
// @Param   entry body dto.LedgerEntryRequest true "Entry details"
// @Success 201 {object} dto.LedgerEntryResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input format or validation error"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to add ledger entry"
// @Router /customers/{customerID}/ledger/entries [post]
func (h *ledgerHandler) addEntry(c *gin.Context) {
	customerID := c.Param("customerID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("customer_id", customerID))
	var req dto.LedgerEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err, "request format")
		return
	}

	entry, err := h.ledgerService.AddEntry(c.Request.Context(), customerID, req, middleware.GetActorFromContext(c))
	if err != nil {
		respondError(c, logger, err, "Failed to add ledger entry")
		return
	}

	logger.Info("Ledger entry added", slog.String("entry_id", entry.EntryID))
	c.JSON(http.StatusCreated, dto.ToLedgerEntryResponse(entry))
}

// updateEntry godoc
// @Summary Edit a ledger entry
// @Description Edits a manual or payment entry. The opening balance and invoice-linked rows cannot be edited.
// @Tags ledger
// @Accept  json
// @Produce  json
// @Param   X-Actor header string false "Name recorded in audit fields"
// @Param   entryID path string true "Ledger entry ID"
// @Param   entry body dto.LedgerEntryRequest true "Entry details"
// @Success 200 {object} dto.LedgerEntryResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input format or validation error"
// @Failure 404 {object} dto.ErrorResponse "Ledger entry not found"
// @Failure 409 {object} dto.ErrorResponse "Entry is protected"
// @Failure 500 {object} dto.ErrorResponse "Failed to update ledger entry"
// @Router /ledger-entries/{entryID} [put]
func (h *ledgerHandler) updateEntry(c *gin.Context) {
	entryID := c.Param("entryID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("entry_id", entryID))
	var req dto.LedgerEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err, "request format")
		return
	}

	entry, err := h.ledgerService.UpdateEntry(c.Request.Context(), entryID, req, middleware.GetActorFromContext(c))
	if err != nil {
		respondError(c, logger, err, "Failed to update ledger entry")
		return
	}

	logger.Info("Ledger entry updated")
	c.JSON(http.StatusOK, dto.ToLedgerEntryResponse(entry))
}

// deleteEntry godoc
// @Summary Delete a ledger entry
// @Description Deletes a manual or payment entry. The opening balance and invoice-linked rows cannot be deleted.
// @Tags ledger
// @Param   entryID path string true "Ledger entry ID"
// @Success 204 "No Content"
// @Failure 404 {object} dto.ErrorResponse "Ledger entry not found"
// @Failure 409 {object} dto.ErrorResponse "Entry is protected"
// @Failure 500 {object} dto.ErrorResponse "Failed to delete ledger entry"
// @Router /ledger-entries/{entryID} [delete]
func (h *ledgerHandler) deleteEntry(c *gin.Context) {
	entryID := c.Param("entryID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("entry_id", entryID))

	if err := h.ledgerService.DeleteEntry(c.Request.Context(), entryID); err != nil {
		respondError(c, logger, err, "Failed to delete ledger entry")
		return
	}

	logger.Info("Ledger entry deleted")
	c.Status(http.StatusNoContent)
}
