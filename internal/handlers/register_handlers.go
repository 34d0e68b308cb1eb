package handlers

import (
	"net/http"

	"github.com/SscSPs/ledger_invoicing_app/cmd/docs"
	portssvc "github.com/SscSPs/ledger_invoicing_app/internal/core/ports/services"
	"github.com/SscSPs/ledger_invoicing_app/internal/platform/config"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// ConfigureEngine lets URL-escaped invoice ids such as "DS%2F2024-25%2F0007"
// match a single path parameter and arrive unescaped in the handler.
func ConfigureEngine(r *gin.Engine) {
	r.UseRawPath = true
	r.UnescapePathValues = true
}

// RegisterRoutes sets up all application routes, injecting dependencies using
// interfaces. apiMiddleware applies to the /api/v1 group only.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	apiMiddleware ...gin.HandlerFunc,
) {
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	setupAPIV1Routes(r, services, apiMiddleware)
	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(r *gin.Engine, services *portssvc.ServiceContainer, apiMiddleware []gin.HandlerFunc) {
	v1 := r.Group("/api/v1", apiMiddleware...)

	RegisterCustomerRoutes(v1, services.Customer)
	RegisterLedgerRoutes(v1, services.Ledger)
	RegisterStatementRoutes(v1, services.Statement)
	RegisterInvoiceRoutes(v1, services.Invoice)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
