// Package handlers serves the dashboard screens. Every handler works on the
// request's own session; what a screen remembers between requests (flashes,
// list positions) lives in that session's cookie.
package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"topodash/internal/access"
	"topodash/internal/apiclient"
	"topodash/internal/database"
	"topodash/internal/listing"
	"topodash/internal/middleware"
	"topodash/internal/mutation"
	"topodash/internal/session"
)

// Backend is the part of apiclient.Client the handlers use.
type Backend interface {
	Do(ctx context.Context, token string, req apiclient.Request, out any) (string, error)
	DoPublic(ctx context.Context, req apiclient.Request, out any) (string, error)
}

type Handlers struct {
	api      Backend
	trail    *database.Trail
	routes   *access.Table
	log      *slog.Logger
	pageSize int
}

type Options struct {
	API      Backend
	Trail    *database.Trail
	Routes   *access.Table
	Log      *slog.Logger
	PageSize int
}

func New(o Options) *Handlers {
	if o.Routes == nil {
		o.Routes = access.Default()
	}
	if o.Log == nil {
		o.Log = slog.Default()
	}
	if o.PageSize <= 0 {
		o.PageSize = 10
	}
	return &Handlers{api: o.API, trail: o.Trail, routes: o.Routes, log: o.Log, pageSize: o.PageSize}
}

func sessionOf(c *gin.Context) *session.Session {
	return middleware.CurrentSession(c)
}

func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// Flash kinds map to Bootstrap alert classes.
const (
	flashSuccess = "success"
	flashWarning = "warning"
	flashError   = "danger"
)

type flashMessage struct {
	Kind string
	Text string
}

func flash(c *gin.Context, kind, text string) {
	s := sessions.Default(c)
	s.AddFlash(kind+"|"+text)
	_ = s.Save()
}

// listKey holds the last position of the list screen at path.
func listKey(path string) string { return "list:" + path }

func loadListPosition(c *gin.Context, path string) (listing.Position, bool) {
	raw, ok := sessions.Default(c).Get(listKey(path)).(string)
	if !ok || raw == "" {
		return listing.Position{}, false
	}
	var pos listing.Position
	if err := json.Unmarshal([]byte(raw), &pos); err != nil {
		return listing.Position{}, false
	}
	return pos, true
}

func saveListPosition(c *gin.Context, path string, pos listing.Position) {
	raw, err := json.Marshal(pos)
	if err != nil {
		return
	}
	s := sessions.Default(c)
	s.Set(listKey(path), string(raw))
	_ = s.Save()
}

func popFlashes(c *gin.Context) []flashMessage {
	s := sessions.Default(c)
	raw := s.Flashes()
	if len(raw) == 0 {
		return nil
	}
	_ = s.Save()

	out := make([]flashMessage, 0, len(raw))
	for _, r := range raw {
		str, ok := r.(string)
		if !ok {
			continue
		}
		kind, text, found := strings.Cut(str, "|")
		if !found {
			kind, text = flashError, str
		}
		out = append(out, flashMessage{Kind: kind, Text: text})
	}
	return out
}

// audit records a successful mutation for the signed-in user.
func (h *Handlers) audit(c *gin.Context, entity string, id int64, action, details string) {
	u := sessionOf(c).Current()
	if u == nil {
		return
	}
	h.trail.Record(c.Request.Context(), u.Username, u.Role, entity, id, action, details)
}

// backendFailed handles a failed backend call on a page that cannot render
// without data. An expired token signs the user out.
func (h *Handlers) backendFailed(c *gin.Context, err error, back string) {
	if apiclient.IsUnauthorized(err) {
		h.signOut(c, err.Error())
		return
	}
	h.log.Warn("[Handlers] backend call failed", "path", c.Request.URL.Path, "error", err)
	h.render(c, http.StatusBadGateway, "error.html", gin.H{
		"Title":    "Erreur",
		"Error":    err.Error(),
		"RetryURL": c.Request.URL.RequestURI(),
		"BackURL":  back,
	})
}

func (h *Handlers) signOut(c *gin.Context, reason string) {
	if err := sessionOf(c).Logout(); err != nil {
		h.log.Error("[Auth] failed to clear session", "error", err)
	}
	flash(c, flashWarning, reason)
	c.Redirect(http.StatusFound, middleware.SignInPath)
}

// mutationFailed flashes a failed or rejected mutation. The caller redirects.
func (h *Handlers) mutationFailed(c *gin.Context, err error) {
	switch {
	case mutation.IsWarning(err):
		flash(c, flashWarning, err.Error())
	case apiclient.IsUnauthorized(err):
		if lerr := sessionOf(c).Logout(); lerr != nil {
			h.log.Error("[Auth] failed to clear session", "error", lerr)
		}
		flash(c, flashWarning, err.Error())
	default:
		h.log.Info("[Handlers] mutation failed", "path", c.Request.URL.Path, "error", err)
		flash(c, flashError, err.Error())
	}
}

func (h *Handlers) notFound(c *gin.Context, back string) {
	h.render(c, http.StatusNotFound, "error.html", gin.H{
		"Title":   "Introuvable",
		"Error":   "Resource not found",
		"BackURL": back,
	})
}

// messageOr prefers the backend's envelope message.
func messageOr(msg, fallback string) string {
	if strings.TrimSpace(msg) != "" {
		return msg
	}
	return fallback
}
