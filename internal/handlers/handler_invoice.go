package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/ledger_invoicing_app/internal/core/ports/services"
	"github.com/SscSPs/ledger_invoicing_app/internal/dto"
	"github.com/SscSPs/ledger_invoicing_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// invoiceHandler handles HTTP requests related to invoices, invoice numbering,
// tax previews and item suggestions.
type invoiceHandler struct {
	invoiceService portssvc.InvoiceSvcFacade
}

func newInvoiceHandler(is portssvc.InvoiceSvcFacade) *invoiceHandler {
	return &invoiceHandler{invoiceService: is}
}

// RegisterInvoiceRoutes registers invoice routes. Invoice ids contain "/" and
// must be sent URL-escaped; see ConfigureEngine.
func RegisterInvoiceRoutes(rg *gin.RouterGroup, invoiceService portssvc.InvoiceSvcFacade) {
	h := newInvoiceHandler(invoiceService)

	invoices := rg.Group("/invoices")
	{
		invoices.POST("", h.createInvoice)
		invoices.GET("", h.listInvoices)
		invoices.GET("/:invoiceID", h.getInvoice)
		invoices.PUT("/:invoiceID", h.updateInvoice)
		invoices.DELETE("/:invoiceID", h.deleteInvoice)
		invoices.POST("/:invoiceID/paid", h.markInvoicePaid)
	}

	rg.GET("/invoice-numbers/next", h.nextInvoiceID)
	rg.POST("/tax/preview", h.previewTotals)
	rg.GET("/items/suggestions", h.itemSuggestions)
}

// createInvoice godoc
// @Summary Create an invoice
// @Description Creates an invoice numbered within the current financial year and debits the customer's ledger with a "BY BILL" entry. Unknown clients are created as customers.
// @Tags invoices
// @Accept  json
// @Produce  json
// @Param   X-Actor header string false "Name recorded in audit fields"
// @Param   invoice body dto.CreateInvoiceRequest true "Invoice details"
// @Success 201 {object} dto.InvoiceResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input format or validation error"
// @Failure 409 {object} dto.ErrorResponse "Invoice id already taken"
// @Failure 500 {object} dto.ErrorResponse "Failed to create invoice"
// @Router /invoices [post]
func (h *invoiceHandler) createInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err, "request format")
		return
	}

	logger.Info("Received request to create invoice", slog.String("client_name", req.ClientName), slog.Int("item_count", len(req.Items)))
	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), req, middleware.GetActorFromContext(c))
	if err != nil {
		respondError(c, logger, err, "Failed to create invoice")
		return
	}

	logger.Info("Invoice created successfully", slog.String("invoice_id", invoice.InvoiceID), slog.String("total", invoice.Total.String()))
	c.JSON(http.StatusCreated, dto.ToInvoiceResponse(invoice))
}

// listInvoices godoc
// @Summary List invoices
// @Description Lists invoices newest first using token-based pagination
// @Tags invoices
// @Produce  json
// @Param   year query string false "Financial year, e.g. 2024-25"
// @Param   limit query int false "Number of invoices per page" default(20)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListInvoicesResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid query parameters"
// @Failure 500 {object} dto.ErrorResponse "Failed to list invoices"
// @Router /invoices [get]
func (h *invoiceHandler) listInvoices(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListInvoicesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, logger, err, "query parameters")
		return
	}

	resp, err := h.invoiceService.ListInvoices(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list invoices")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getInvoice godoc
// @Summary Get an invoice by ID
// @Tags invoices
// @Produce  json
// @Param   invoiceID path string true "URL-escaped invoice ID, e.g. DS%2F2024-25%2F0007"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 404 {object} dto.ErrorResponse "Invoice not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to retrieve invoice"
// @Router /invoices/{invoiceID} [get]
func (h *invoiceHandler) getInvoice(c *gin.Context) {
	invoiceID := c.Param("invoiceID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("invoice_id", invoiceID))

	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), invoiceID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve invoice")
		return
	}
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice))
}

// updateInvoice godoc
// @Summary Update an invoice
// @Description Rewrites an unpaid invoice and its ledger entry. Paid invoices are immutable.
// @Tags invoices
// @Accept  json
// @Produce  json
// @Param   X-Actor header string false "Name recorded in audit fields"
// @Param   invoiceID path string true "URL-escaped invoice ID"
// @Param   invoice body dto.UpdateInvoiceRequest true "Invoice details"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input format or validation error"
// @Failure 404 {object} dto.ErrorResponse "Invoice not found"
// @Failure 409 {object} dto.ErrorResponse "Invoice already paid"
// @Failure 500 {object} dto.ErrorResponse "Failed to update invoice"
// @Router /invoices/{invoiceID} [put]
func (h *invoiceHandler) updateInvoice(c *gin.Context) {
	invoiceID := c.Param("invoiceID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("invoice_id", invoiceID))
	var req dto.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err, "request format")
		return
	}

	invoice, err := h.invoiceService.UpdateInvoice(c.Request.Context(), invoiceID, req, middleware.GetActorFromContext(c))
	if err != nil {
		respondError(c, logger, err, "Failed to update invoice")
		return
	}

	logger.Info("Invoice updated successfully", slog.String("total", invoice.Total.String()))
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice))
}

// markInvoicePaid godoc
// @Summary Mark an invoice paid
// @Tags invoices
// @Produce  json
// @Param   X-Actor header string false "Name recorded in audit fields"
// @Param   invoiceID path string true "URL-escaped invoice ID"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 404 {object} dto.ErrorResponse "Invoice not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to mark invoice paid"
// @Router /invoices/{invoiceID}/paid [post]
func (h *invoiceHandler) markInvoicePaid(c *gin.Context) {
	invoiceID := c.Param("invoiceID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("invoice_id", invoiceID))

	invoice, err := h.invoiceService.MarkInvoicePaid(c.Request.Context(), invoiceID, middleware.GetActorFromContext(c))
	if err != nil {
		respondError(c, logger, err, "Failed to mark invoice paid")
		return
	}

	logger.Info("Invoice marked paid")
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice))
}

// deleteInvoice godoc
// @Summary Delete an invoice
// @Description Deletes the invoice and its linked ledger entry in one transaction.
// @Tags invoices
// @Param   invoiceID path string true "URL-escaped invoice ID"
// @Success 204 "No Content"
// @Failure 404 {object} dto.ErrorResponse "Invoice not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to delete invoice"
// @Router /invoices/{invoiceID} [delete]
func (h *invoiceHandler) deleteInvoice(c *gin.Context) {
	invoiceID := c.Param("invoiceID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("invoice_id", invoiceID))

	if err := h.invoiceService.DeleteInvoice(c.Request.Context(), invoiceID); err != nil {
		respondError(c, logger, err, "Failed to delete invoice")
		return
	}

	logger.Info("Invoice deleted successfully")
	c.Status(http.StatusNoContent)
}

// nextInvoiceID godoc
// @Summary Preview the next invoice id
// @Description Returns the id the next invoice created today would receive
// @Tags invoices
// @Produce  json
// @Success 200 {object} dto.NextInvoiceIDResponse
// @Failure 500 {object} dto.ErrorResponse "Failed to compute next invoice id"
// @Router /invoice-numbers/next [get]
func (h *invoiceHandler) nextInvoiceID(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	id, fy, err := h.invoiceService.NextInvoiceID(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to compute next invoice id")
		return
	}
	c.JSON(http.StatusOK, dto.NextInvoiceIDResponse{InvoiceID: id, FinancialYear: string(fy)})
}

// previewTotals godoc
// @Summary Preview invoice totals
// @Description Computes subtotal, tax and total without saving anything. Incomplete lines are ignored.
// @Tags tax
// @Accept  json
// @Produce  json
// @Param   request body dto.TaxPreviewRequest true "Items and tax mode"
// @Success 200 {object} dto.TotalsResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input format or validation error"
// @Router /tax/preview [post]
func (h *invoiceHandler) previewTotals(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.TaxPreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err, "request format")
		return
	}

	totals, err := h.invoiceService.PreviewTotals(req)
	if err != nil {
		respondError(c, logger, err, "Failed to compute totals")
		return
	}
	c.JSON(http.StatusOK, dto.ToTotalsResponse(totals))
}

// itemSuggestions godoc
// @Summary Suggest item names
// @Description Lists distinct item names from earlier invoices, sorted
// @Tags invoices
// @Produce  json
// @Success 200 {object} dto.ItemSuggestionsResponse
// @Failure 500 {object} dto.ErrorResponse "Failed to load item suggestions"
// @Router /items/suggestions [get]
func (h *invoiceHandler) itemSuggestions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	items, err := h.invoiceService.ItemSuggestions(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to load item suggestions")
		return
	}
	if items == nil {
		items = []string{}
	}
	c.JSON(http.StatusOK, dto.ItemSuggestionsResponse{Items: items})
}
