package middleware

import (
	"log/slog"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"topodash/internal/session"
)

const sessionKey = "topodash.session"

// InjectSession builds the request's Session from the cookie store once and
// keeps it on the gin context for the guards and handlers.
func InjectSession(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(sessionKey, session.New(sessions.Default(c), log))
		c.Next()
	}
}

// CurrentSession returns the request's session. Outside InjectSession it
// returns a signed-out session backed by nothing.
func CurrentSession(c *gin.Context) *session.Session {
	if v, ok := c.Get(sessionKey); ok {
		if s, ok := v.(*session.Session); ok {
			return s
		}
	}
	return session.New(session.NullStorage{}, nil)
}
