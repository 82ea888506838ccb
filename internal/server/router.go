package server

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"topodash/internal/access"
	"topodash/internal/config"
	"topodash/internal/handlers"
	"topodash/internal/middleware"
	"topodash/internal/projectstate"
)

const sessionCookie = "topodash_session"

// sessionMaxAge is a working day; the backend token usually expires first.
const sessionMaxAge = 12 * 60 * 60

type Deps struct {
	Config   *config.Config
	Handlers *handlers.Handlers
	Routes   *access.Table
	Log      *slog.Logger
}

func NewRouter(d Deps) (*gin.Engine, error) {
	if d.Routes == nil {
		d.Routes = access.Default()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(d.Log))

	tmpl, err := loadTemplates()
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	r.SetHTMLTemplate(tmpl)

	hashKey, blockKey, err := cookieKeys(d.Config.SessionSecret)
	if err != nil {
		return nil, fmt.Errorf("derive session keys: %w", err)
	}
	store := cookie.NewStore(hashKey, blockKey)
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		Secure:   d.Config.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionCookie, store))
	r.Use(middleware.InjectSession(d.Log))

	h := d.Handlers

	// HEALTHCHECK / METRICS
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// AUTH
	r.GET("/auth/sign-in", h.ShowSignIn)
	r.POST("/auth/sign-in", h.SignIn)
	r.GET("/auth/sign-up", h.ShowSignUp)
	r.POST("/auth/sign-up", h.SignUp)
	r.GET("/auth/forget-password", h.ShowForgetPassword)
	r.POST("/auth/forget-password", h.ForgetPassword)
	r.GET("/auth/logout", h.SignOut)

	auth := r.Group("/")
	auth.Use(middleware.RequireAuth(), middleware.RequireSection(d.Routes))

	auth.GET("/", h.Home)
	auth.GET("/documentation", h.Documentation)
	auth.GET("/changelog", h.Changelog)

	// PROJECTS
	auth.GET("/projects", h.ListProjects)
	auth.GET("/projects/new", h.NewProject)
	auth.POST("/projects/new", h.CreateProject)
	auth.GET("/projects/:id", h.ShowProject)
	auth.GET("/projects/:id/edit", h.EditProject)
	auth.POST("/projects/:id/edit", h.UpdateProject)
	auth.POST("/projects/:id/delete", h.DeleteProject)
	for _, act := range projectstate.Actions {
		auth.POST("/projects/:id/"+string(act), h.TransitionProject(act))
	}

	// CLIENTS
	auth.GET("/clients", h.ListClients)
	auth.GET("/clients/new", h.NewClient)
	auth.POST("/clients/new", h.CreateClient)
	auth.GET("/clients/:id", h.ShowClient)
	auth.GET("/clients/:id/edit", h.EditClient)
	auth.POST("/clients/:id/edit", h.UpdateClient)
	auth.POST("/clients/:id/activate", h.ActivateClient)
	auth.POST("/clients/:id/deactivate", h.DeactivateClient)
	auth.POST("/clients/:id/delete", h.DeleteClient)

	// TECHNICIENS
	auth.GET("/collaborateurs", h.ListCollaborateurs)
	auth.GET("/techniciens", h.ListTechniciens)
	auth.GET("/techniciens/new", h.NewTechnicien)
	auth.POST("/techniciens/new", h.CreateTechnicien)
	auth.GET("/techniciens/:id", h.ShowTechnicien)
	auth.GET("/techniciens/:id/edit", h.EditTechnicien)
	auth.POST("/techniciens/:id/edit", h.UpdateTechnicien)
	auth.POST("/techniciens/:id/activate", h.ActivateTechnicien)
	auth.POST("/techniciens/:id/deactivate", h.DeactivateTechnicien)
	auth.POST("/techniciens/:id/delete", h.DeleteTechnicien)

	// TOPOGRAPHES
	auth.GET("/topographes", h.ListTopographes)
	auth.GET("/topographes/:id", h.ShowTopographe)
	auth.POST("/topographes/:id/activate", h.ActivateTopographe)
	auth.POST("/topographes/:id/deactivate", h.DeactivateTopographe)

	// USERS
	auth.GET("/users", h.ListUsers)
	auth.GET("/users/new", h.NewUser)
	auth.POST("/users/new", h.CreateUser)
	auth.GET("/users/:id/edit", h.EditUser)
	auth.POST("/users/:id/edit", h.UpdateUser)
	auth.POST("/users/:id/delete", h.DeleteUser)

	// COUNTRIES
	auth.GET("/countries", h.ListCountries)
	auth.GET("/countries/new", h.NewCountry)
	auth.POST("/countries/new", h.CreateCountry)
	auth.GET("/countries/:id/edit", h.EditCountry)
	auth.POST("/countries/:id/edit", h.UpdateCountry)
	auth.POST("/countries/:id/delete", h.DeleteCountry)

	// AUDIT
	auth.GET("/audit", h.ListAuditLogs)

	return r, nil
}
