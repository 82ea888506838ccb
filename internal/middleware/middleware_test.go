package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"topodash/internal/access"
	"topodash/internal/logger"
	"topodash/internal/models"
	"topodash/internal/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newEngine signs the request in as role before the guards run; an empty
// role leaves it signed out.
func newEngine(role models.UserRole) *gin.Engine {
	r := gin.New()
	r.Use(sessions.Sessions("test", cookie.NewStore([]byte("0123456789abcdef0123456789abcdef"))))
	r.Use(InjectSession(logger.Discard()))
	r.Use(func(c *gin.Context) {
		if role != "" {
			_ = CurrentSession(c).Login(session.User{Username: "sara", Role: role, Token: "opaque-token"})
		}
		c.Next()
	})

	guarded := r.Group("/", RequireAuth(), RequireSection(access.Default()))
	ok := func(c *gin.Context) { c.String(http.StatusOK, "ok") }
	guarded.GET("/users", ok)
	guarded.GET("/projects", ok)
	guarded.GET("/clients/:id", ok)
	return r
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuthRedirectsToSignIn(t *testing.T) {
	w := get(newEngine(""), "/projects")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, SignInPath, w.Header().Get("Location"))
}

func TestRequireSectionRedirectsHome(t *testing.T) {
	r := newEngine(models.RoleTechnicien)

	w := get(r, "/users")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	w = get(r, "/clients/3")
	assert.Equal(t, "/", w.Header().Get("Location"))

	w = get(r, "/projects")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminPassesEverySection(t *testing.T) {
	r := newEngine(models.RoleAdmin)
	for _, p := range []string{"/users", "/projects", "/clients/3"} {
		assert.Equal(t, http.StatusOK, get(r, p).Code, p)
	}
}

func TestCurrentSessionWithoutInjection(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	s := CurrentSession(c)
	require.NotNil(t, s)
	assert.False(t, s.IsAuthenticated())
	assert.Empty(t, s.Token())
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), Logger(logger.Discard()))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := get(r, "/")
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}
