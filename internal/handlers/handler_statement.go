package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/SscSPs/ledger_invoicing_app/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_invoicing_app/internal/core/ports/services"
	"github.com/SscSPs/ledger_invoicing_app/internal/dto"
	"github.com/SscSPs/ledger_invoicing_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

type statementHandler struct {
	statementService portssvc.StatementSvcFacade
}

func newStatementHandler(ss portssvc.StatementSvcFacade) *statementHandler {
	return &statementHandler{statementService: ss}
}

// RegisterStatementRoutes registers the rendered and JSON statement routes.
func RegisterStatementRoutes(rg *gin.RouterGroup, statementService portssvc.StatementSvcFacade) {
	h := newStatementHandler(statementService)

	statement := rg.Group("/customers/:customerID/statement")
	{
		statement.GET("", h.renderStatement)
		statement.GET("/pages", h.statementPages)
	}
}

// renderStatement godoc
// @Summary Download a ledger statement
// @Description Renders the customer's statement for a financial year as a paginated PDF or HTML document
// @Tags statements
// @Produce  application/pdf
// @Produce  text/html
// @Param   customerID path string true "Customer ID"
// @Param   year query string false "Financial year, e.g. 2024-25 (defaults to the current one)"
// @Param   format query string false "pdf or html" default(pdf)
// @Success 200 {file} file
// @Failure 400 {object} dto.ErrorResponse "Invalid query parameters"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to render statement"
// @Router /customers/{customerID}/statement [get]
func (h *statementHandler) renderStatement(c *gin.Context) {
	customerID := c.Param("customerID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("customer_id", customerID))
	var q dto.StatementQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, logger, err, "query parameters")
		return
	}

	doc, err := h.statementService.RenderStatement(c.Request.Context(), customerID, domain.FinancialYear(q.Year), q.Format)
	if err != nil {
		respondError(c, logger, err, "Failed to render statement")
		return
	}

	logger.Info("Statement rendered", slog.String("file_name", doc.FileName), slog.Int("bytes", len(doc.Body)))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.FileName))
	c.Data(http.StatusOK, doc.ContentType, doc.Body)
}

// statementPages godoc
// @Summary Get statement pages
// @Description Returns the paginated statement rows without rendering them
// @Tags statements
// @Produce  json
// @Param   customerID path string true "Customer ID"
// @Param   year query string false "Financial year, e.g. 2024-25 (defaults to the current one)"
// @Success 200 {object} dto.StatementPagesResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid financial year"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to build statement"
// @Router /customers/{customerID}/statement/pages [get]
func (h *statementHandler) statementPages(c *gin.Context) {
	customerID := c.Param("customerID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("customer_id", customerID))
	var q dto.YearQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, logger, err, "query parameters")
		return
	}

	doc, err := h.statementService.BuildStatement(c.Request.Context(), customerID, domain.FinancialYear(q.Year))
	if err != nil {
		respondError(c, logger, err, "Failed to build statement")
		return
	}
	c.JSON(http.StatusOK, dto.ToStatementPagesResponse(doc, h.statementService.PageSize()))
}
