package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

// actorKey is the key used to store the acting user's name in the contexts.
const actorKey = contextKey("actor")

// DefaultActor is recorded in audit fields when a request names no actor.
const DefaultActor = "system"

// GetActorFromContext retrieves the actor from the Gin context, falling back
// to the request context and finally to DefaultActor.
func GetActorFromContext(c *gin.Context) string {
	if v, exists := c.Get(string(actorKey)); exists {
		if actor, ok := v.(string); ok && actor != "" {
			return actor
		}
	}
	return ActorFromCtx(c.Request.Context())
}

// ActorFromCtx retrieves the actor from a request context.
func ActorFromCtx(ctx context.Context) string {
	if actor, ok := ctx.Value(actorKey).(string); ok && actor != "" {
		return actor
	}
	return DefaultActor
}

// WithActor returns a copy of ctx carrying actor.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}
