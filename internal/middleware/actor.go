package middleware

import (
	"github.com/bolivianotech/consulta-aulas-backend/internal/model"
	"github.com/gin-gonic/gin"
)

// Context keys for the advisory actor identity attached to every request.
const (
	ContextKeyClientID  = "client_id"
	ContextKeyUserAgent = "user_agent"
)

// ActorContext extracts the caller identity headers used by the audit trail
// and the session monitor. X-Client-Id is an opaque id minted by the admin
// panel; X-User-Agent overrides the transport User-Agent so embedded panels
// can report their real identity.
func ActorContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		ua := c.GetHeader("X-User-Agent")
		if ua == "" {
			ua = c.Request.UserAgent()
		}
		c.Set(ContextKeyClientID, c.GetHeader("X-Client-Id"))
		c.Set(ContextKeyUserAgent, ua)
		c.Next()
	}
}

// ActorFrom builds the audit actor recorded alongside mutations. Both fields
// may be empty; the audit trail stores whatever the caller provided.
func ActorFrom(c *gin.Context) model.Actor {
	return model.Actor{
		ClientID:  c.GetString(ContextKeyClientID),
		UserAgent: c.GetString(ContextKeyUserAgent),
	}
}
