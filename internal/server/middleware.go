package server

import (
	"strings"

	"github.com/MiguelAngelCruzVargas/inventario-fichas/internal/actorcontext"
	"github.com/gin-gonic/gin"
)

// ActorMiddleware reads the actor identity the auth proxy injects via
// headers. Unknown or missing actor types fall back to the owner role.
func ActorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		actorType := strings.ToLower(strings.TrimSpace(c.GetHeader("X-Actor-Type")))
		switch actorType {
		case actorcontext.ActorOwner, actorcontext.ActorReseller, actorcontext.ActorSystem:
		default:
			actorType = actorcontext.ActorOwner
		}
		actorID := strings.TrimSpace(c.GetHeader("X-Actor-ID"))

		ctx := actorcontext.WithActor(c.Request.Context(), actorType, actorID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
