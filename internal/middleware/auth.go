package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"topodash/internal/access"
	"topodash/internal/metrics"
)

const SignInPath = "/auth/sign-in"

// RequireAuth sends visitors without a session to the sign-in page.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentSession(c).IsAuthenticated() {
			metrics.RecordGuardRedirect("unauthenticated")
			c.Redirect(http.StatusFound, SignInPath)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireSection checks the signed-in role against the access table for the
// request's top-level section and sends disallowed users home.
func RequireSection(table *access.Table) gin.HandlerFunc {
	return func(c *gin.Context) {
		section := access.SectionOf(c.Request.URL.Path)
		if !table.Allows(section, CurrentSession(c).Role()) {
			metrics.RecordGuardRedirect("forbidden")
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}
		c.Next()
	}
}
