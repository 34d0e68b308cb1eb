package middleware

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
)

// ActorHeader names the person operating the client. The service has no
// authentication; the value is only recorded in audit fields.
const ActorHeader = "X-Actor"

var actorPattern = regexp.MustCompile(`^[\w .@-]{1,64}$`)

// ActorMiddleware stores the request's actor in the Gin context and the
// request context, and adds it to the request-scoped logger.
func ActorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		actor := strings.TrimSpace(c.GetHeader(ActorHeader))
		if actor == "" {
			actor = DefaultActor
		} else if !actorPattern.MatchString(actor) {
			logger.Warn("Ignoring malformed actor header", slog.String("header", actor))
			actor = DefaultActor
		}

		enrichedLogger := logger.With(slog.String("actor", actor))
		ctx := WithActor(c.Request.Context(), actor)
		ctx = WithLogger(ctx, enrichedLogger)
		c.Request = c.Request.WithContext(ctx)
		c.Set(string(actorKey), actor)
		c.Set(string(loggerKey), enrichedLogger)

		c.Next()
	}
}
