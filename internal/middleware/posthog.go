package middleware

import (
	"net/http"
	"strings"

	"github.com/SscSPs/ledger_invoicing_app/internal/utils"
	"github.com/gin-gonic/gin"
)

// pathsToSkip contains paths that should not be tracked by PostHog
var pathsToSkip = map[string]bool{
	"/health": true,
}

// PosthogMiddleware tracks successful API calls. Events are attributed to the
// request's actor and tagged with the organisation prefix.
func PosthogMiddleware(posthogClient *utils.PosthogClientWrapper, orgPrefix string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if posthogClient == nil || !posthogClient.IsInitialized() || pathsToSkip[c.Request.URL.Path] {
			c.Next()
			return
		}

		c.Next()

		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}

		// "/api/v1/invoices/:invoiceID" -> "api_v1_invoices_:invoiceID"
		eventName := strings.ReplaceAll(strings.TrimPrefix(c.FullPath(), "/"), "/", "_")
		if eventName == "" || strings.HasPrefix(eventName, "swagger") {
			return
		}

		props := map[string]any{
			"method":      c.Request.Method,
			"status_code": c.Writer.Status(),
			"org":         orgPrefix,
		}
		posthogClient.Enqueue(GetActorFromContext(c), eventName, props)
	}
}
