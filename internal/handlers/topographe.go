package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"topodash/internal/listing"
	"topodash/internal/models"
	"topodash/internal/mutation"
)

func topographeURL(id int64) string {
	if id <= 0 {
		return ""
	}
	return "/topographes/" + strconv.FormatInt(id, 10)
}

func (h *Handlers) ListTopographes(c *gin.Context) {
	showList(h, c, listPage[models.Topographe]{
		title:   "Topographes",
		path:    "/topographes",
		cfg:     listing.Config{Resource: "topographe", Schema: listing.TopographeSchema, SortBy: "lastName", SortDir: "asc"},
		columns: []string{"Nom", "Licence", "Spécialisation", "Ville", "Clients", "Projets", "Techniciens", "Statut"},
		row: func(t models.Topographe) row {
			return row{
				Link: topographeURL(t.ID),
				Cells: []cell{
					{Text: t.FullName(), Link: topographeURL(t.ID)},
					{Text: text(t.LicenseNumber)},
					{Text: text(t.Specialization)},
					{Text: text(t.CityName)},
					{Text: strconv.Itoa(t.TotalClients)},
					{Text: strconv.Itoa(t.TotalProjects)},
					{Text: strconv.Itoa(t.TotalTechniciens)},
					yesNo(t.IsActive),
				},
			}
		},
	})
}

func (h *Handlers) loadTopographe(c *gin.Context) (mutation.Topographes, models.Topographe, bool) {
	ctrl := mutation.NewTopographes(h.api, sessionOf(c))
	id, ok := idParam(c)
	if !ok {
		h.notFound(c, "/topographes")
		return ctrl, models.Topographe{}, false
	}
	t, err := ctrl.Get(c.Request.Context(), id)
	if err != nil {
		h.backendFailed(c, err, "/topographes")
		return ctrl, models.Topographe{}, false
	}
	return ctrl, t, true
}

func (h *Handlers) ShowTopographe(c *gin.Context) {
	_, t, ok := h.loadTopographe(c)
	if !ok {
		return
	}
	id := strconv.FormatInt(t.ID, 10)

	toggle := action{Label: "Désactiver", URL: topographeURL(t.ID) + "/deactivate", Style: "outline-warning"}
	if !t.IsActive {
		toggle = action{Label: "Activer", URL: topographeURL(t.ID) + "/activate", Style: "outline-success"}
	}
	view := detailView{
		Title:    t.FullName(),
		Subtitle: t.Specialization,
		Badges:   []cell{yesNo(t.IsActive)},
		Sections: []section{
			{Title: "Identité", Fields: []field{
				{Label: "Identifiant", Value: t.Username},
				{Label: "Email", Value: t.Email},
				{Label: "Téléphone", Value: text(t.PhoneNumber)},
				{Label: "Ville", Value: text(t.CityName)},
				{Label: "Licence", Value: text(t.LicenseNumber)},
			}},
			{Title: "Portefeuille", Fields: []field{
				{Label: "Clients", Value: strconv.Itoa(t.TotalClients), Link: "/clients?topographeId=" + id},
				{Label: "Projets", Value: strconv.Itoa(t.TotalProjects), Link: "/projects?topographeId=" + id},
				{Label: "Techniciens", Value: strconv.Itoa(t.TotalTechniciens), Link: "/techniciens?topographeId=" + id},
			}},
		},
		Actions: []action{toggle},
		BackURL: "/topographes",
	}
	h.render(c, http.StatusOK, "detail.html", gin.H{"Title": t.FullName(), "Detail": view})
}

func (h *Handlers) ActivateTopographe(c *gin.Context)   { h.toggleTopographe(c, true) }
func (h *Handlers) DeactivateTopographe(c *gin.Context) { h.toggleTopographe(c, false) }

func (h *Handlers) toggleTopographe(c *gin.Context, activate bool) {
	ctrl, t, ok := h.loadTopographe(c)
	if !ok {
		return
	}
	run, act := ctrl.Deactivate, mutation.ActionDeactivate
	if activate {
		run, act = ctrl.Activate, mutation.ActionActivate
	}
	if msg, err := run(c.Request.Context(), t); err != nil {
		h.mutationFailed(c, err)
	} else {
		h.audit(c, "topographe", t.ID, act, "Topographe "+t.FullName())
		flash(c, flashSuccess, messageOr(msg, "Statut du topographe mis à jour"))
	}
	c.Redirect(http.StatusFound, topographeURL(t.ID))
}
