package handlers

import (
	"github.com/gin-gonic/gin"

	"topodash/internal/models"
)

type navLink struct {
	Section string
	Label   string
	URL     string
}

var navigation = []navLink{
	{Section: "", Label: "Tableau de bord", URL: "/"},
	{Section: "projects", Label: "Projets", URL: "/projects"},
	{Section: "clients", Label: "Clients", URL: "/clients"},
	{Section: "collaborateurs", Label: "Collaborateurs", URL: "/collaborateurs"},
	{Section: "techniciens", Label: "Techniciens", URL: "/techniciens"},
	{Section: "topographes", Label: "Topographes", URL: "/topographes"},
	{Section: "users", Label: "Utilisateurs", URL: "/users"},
	{Section: "countries", Label: "Pays", URL: "/countries"},
	{Section: "audit", Label: "Audit", URL: "/audit"},
	{Section: "documentation", Label: "Documentation", URL: "/documentation"},
}

func (h *Handlers) navFor(role models.UserRole) []navLink {
	out := make([]navLink, 0, len(navigation))
	for _, l := range navigation {
		if h.routes.Allows(l.Section, role) {
			out = append(out, l)
		}
	}
	return out
}

// render wraps c.HTML and adds the signed-in user, the navigation allowed
// for their role and pending flash messages to every template.
func (h *Handlers) render(c *gin.Context, status int, tmpl string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}

	s := sessionOf(c)
	if u := s.Current(); u != nil {
		data["CurrentUser"] = u
		data["CurrentRole"] = u.Role.Meta()
		data["Nav"] = h.navFor(u.Role)
	}
	data["Flashes"] = popFlashes(c)

	c.HTML(status, tmpl, data)
}
