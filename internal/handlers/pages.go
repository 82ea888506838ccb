package handlers

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"topodash/internal/apiclient"
	"topodash/internal/listing"
	"topodash/internal/models"
)

type statCard struct {
	Label string
	Count int
	URL   string
	Error string

	resource string
}

var homeCards = []struct {
	label    string
	section  string
	resource string
}{
	{"Projets", "projects", "project"},
	{"Clients", "clients", "client"},
	{"Techniciens", "techniciens", "technicien"},
	{"Topographes", "topographes", "topographe"},
}

// Home shows one total per section the user may open. The totals are
// fetched concurrently with a page size of 1; a failed count only marks
// its own card.
func (h *Handlers) Home(c *gin.Context) {
	s := sessionOf(c)
	role := s.Role()

	cards := make([]statCard, 0, len(homeCards))
	for _, hc := range homeCards {
		if h.routes.Allows(hc.section, role) {
			cards = append(cards, statCard{Label: hc.label, URL: "/" + hc.section, resource: hc.resource})
		}
	}

	var (
		mu           sync.Mutex
		unauthorized error
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	for i := range cards {
		resource := cards[i].resource
		g.Go(func() error {
			ctrl := listing.NewController[struct{}](h.api, s, listing.Config{Resource: resource, DefaultSize: 1})
			if err := ctrl.Fetch(ctx, 0, 1, nil); err != nil {
				mu.Lock()
				cards[i].Error = err.Error()
				if apiclient.IsUnauthorized(err) {
					unauthorized = err
				}
				mu.Unlock()
				return nil
			}
			cards[i].Count = ctrl.State().Pagination.TotalElements
			return nil
		})
	}
	_ = g.Wait()

	if unauthorized != nil {
		h.signOut(c, unauthorized.Error())
		return
	}

	h.render(c, http.StatusOK, "home.html", gin.H{"Title": "Tableau de bord", "Cards": cards})
}

func (h *Handlers) Documentation(c *gin.Context) {
	h.render(c, http.StatusOK, "documentation.html", gin.H{
		"Title":          "Documentation",
		"Statuses":       models.ProjectStatusOptions(),
		"ClientTypes":    models.ClientTypeOptions(),
		"SkillLevels":    models.SkillLevelOptions(),
		"Roles":          models.RoleOptions(),
		"RoleRestricted": h.sectionRoles(),
	})
}

type sectionRoles struct {
	Section string
	Roles   []models.UserRole
}

func (h *Handlers) sectionRoles() []sectionRoles {
	out := make([]sectionRoles, 0, len(navigation))
	for _, l := range navigation {
		if l.Section == "" {
			continue
		}
		out = append(out, sectionRoles{Section: l.URL, Roles: h.routes.Roles(l.Section)})
	}
	return out
}

type release struct {
	Version string
	Date    string
	Changes []string
}

var changelog = []release{
	{Version: "1.3.0", Date: "2026-09-28", Changes: []string{
		"Journal d'audit des modifications effectuées depuis le tableau de bord",
		"Confirmation avant de terminer ou d'annuler un projet entamé",
	}},
	{Version: "1.2.0", Date: "2026-07-14", Changes: []string{
		"Écrans topographes : liste, fiche, activation",
		"Vue collaborateurs pour les équipes terrain",
	}},
	{Version: "1.1.0", Date: "2026-05-02", Changes: []string{
		"Recherche filtrée sur toutes les listes",
		"Indicateurs de santé et d'avancement des projets",
	}},
	{Version: "1.0.0", Date: "2026-03-10", Changes: []string{
		"Gestion des clients, projets, techniciens, utilisateurs et pays",
	}},
}

func (h *Handlers) Changelog(c *gin.Context) {
	h.render(c, http.StatusOK, "changelog.html", gin.H{"Title": "Nouveautés", "Releases": changelog})
}
