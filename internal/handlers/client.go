package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"topodash/internal/listing"
	"topodash/internal/models"
	"topodash/internal/mutation"
	"topodash/internal/payload"
)

func clientURL(id int64) string { return "/clients/" + strconv.FormatInt(id, 10) }

//
// LIST
//

func (h *Handlers) ListClients(c *gin.Context) {
	showList(h, c, listPage[models.Client]{
		title:  "Clients",
		path:   "/clients",
		newURL: "/clients/new",
		cfg: listing.Config{
			Resource: "client",
			Schema:   listing.ClientSchema,
		},
		columns: []string{"Nom", "Type", "Société", "Ville", "Email", "Projets", "Statut"},
		row: func(cl models.Client) row {
			return row{
				Link: clientURL(cl.ID),
				Cells: []cell{
					{Text: cl.FullName(), Link: clientURL(cl.ID)},
					{Text: cl.ClientType.Meta().Label, Badge: cl.ClientType.Meta().Badge},
					{Text: text(cl.CompanyName)},
					{Text: text(cl.CityName)},
					{Text: cl.Email},
					{Text: strconv.Itoa(cl.TotalProjects)},
					yesNo(cl.IsActive),
				},
			}
		},
	})
}

// clientOptions feeds the client select of the project form.
func (h *Handlers) clientOptions(c *gin.Context) []models.Option {
	ctrl := listing.NewController[models.Client](h.api, sessionOf(c), listing.Config{
		Resource: "client", Schema: listing.ClientSchema, SortBy: "lastName", SortDir: "asc",
	})
	if err := ctrl.Fetch(c.Request.Context(), 0, 100, listing.Filters{"isActive": "true"}); err != nil {
		h.log.Warn("[Handlers] failed to load clients", "error", err)
		return nil
	}
	items := ctrl.State().Items
	out := make([]models.Option, 0, len(items))
	for _, cl := range items {
		label := cl.FullName()
		if cl.CompanyName != "" {
			label += " (" + cl.CompanyName + ")"
		}
		out = append(out, models.Option{Value: strconv.FormatInt(cl.ID, 10), Label: label})
	}
	return out
}

//
// DETAIL
//

func (h *Handlers) loadClient(c *gin.Context) (mutation.Clients, models.Client, bool) {
	ctrl := mutation.NewClients(h.api, sessionOf(c))
	id, ok := idParam(c)
	if !ok {
		h.notFound(c, "/clients")
		return ctrl, models.Client{}, false
	}
	cl, err := ctrl.Get(c.Request.Context(), id)
	if err != nil {
		h.backendFailed(c, err, "/clients")
		return ctrl, models.Client{}, false
	}
	return ctrl, cl, true
}

func (h *Handlers) ShowClient(c *gin.Context) {
	_, cl, ok := h.loadClient(c)
	if !ok {
		return
	}

	toggle := action{Label: "Désactiver", URL: clientURL(cl.ID) + "/deactivate", Style: "outline-warning"}
	if !cl.IsActive {
		toggle = action{Label: "Activer", URL: clientURL(cl.ID) + "/activate", Style: "outline-success"}
	}
	actions := []action{
		{Label: "Nouveau projet", URL: "/projects/new?clientId=" + strconv.FormatInt(cl.ID, 10), Style: "primary"},
		toggle,
	}
	view := detailView{
		Title:    cl.FullName(),
		Subtitle: cl.CompanyName,
		Badges: []cell{
			{Text: cl.ClientType.Meta().Label, Badge: cl.ClientType.Meta().Badge},
			yesNo(cl.IsActive),
		},
		Sections: []section{
			{Title: "Identité", Fields: []field{
				{Label: "Identifiant", Value: cl.Username},
				{Label: "Email", Value: cl.Email},
				{Label: "Téléphone", Value: text(cl.PhoneNumber)},
				{Label: "Date de naissance", Value: text(cl.Birthday)},
				{Label: "CIN", Value: text(cl.CIN)},
				{Label: "Ville", Value: text(cl.CityName)},
				{Label: "Topographe", Value: text(cl.CreatedByTopographeName), Link: topographeURL(cl.CreatedByTopographeID)},
			}},
			{Title: "Projets", Fields: []field{
				{Label: "Total", Value: strconv.Itoa(cl.TotalProjects), Link: "/projects?clientId=" + strconv.FormatInt(cl.ID, 10)},
				{Label: "Actifs", Value: strconv.Itoa(cl.ActiveProjects)},
				{Label: "Terminés", Value: strconv.Itoa(cl.CompletedProjects)},
			}},
		},
		EditURL: clientURL(cl.ID) + "/edit",
		BackURL: "/clients",
	}
	if cl.TotalProjects == 0 {
		actions = append(actions, action{
			Label: "Supprimer", URL: clientURL(cl.ID) + "/delete", Style: "danger",
			Confirm: "Supprimer définitivement ce client ?",
		})
	} else {
		view.Notice = mutation.ErrClientHasProjects.Error()
	}
	view.Actions = actions

	h.render(c, http.StatusOK, "detail.html", gin.H{"Title": cl.FullName(), "Detail": view})
}

//
// CREATE / EDIT
//

func (h *Handlers) clientInputs(c *gin.Context, f payload.ClientForm, create bool) []input {
	inputs := []input{
		{Name: "username", Label: "Identifiant", Type: "text", Value: f.Username, Required: create, Readonly: !create},
		{Name: "email", Label: "Email", Type: "email", Value: f.Email, Required: true},
		{Name: "phoneNumber", Label: "Téléphone", Type: "tel", Value: f.PhoneNumber, Required: true},
		{Name: "firstName", Label: "Prénom", Type: "text", Value: f.FirstName, Required: true},
		{Name: "lastName", Label: "Nom", Type: "text", Value: f.LastName, Required: true},
		{Name: "birthday", Label: "Date de naissance", Type: "date", Value: f.Birthday},
		{Name: "cin", Label: "CIN", Type: "text", Value: f.CIN, Readonly: !create},
		{Name: "cityName", Label: "Ville", Type: "text", Value: f.CityName},
		{Name: "clientType", Label: "Type de client", Type: "select", Value: f.ClientType, Options: models.ClientTypeOptions(), Required: true},
		{Name: "companyName", Label: "Société (entreprise / administration)", Type: "text", Value: f.CompanyName},
	}
	if create && needsAssignment(sessionOf(c).Role()) {
		inputs = append(inputs, input{
			Name: "topographeId", Label: "Topographe", Type: "select", Value: f.TopographeID,
			Options: h.topographeOptions(c), Required: true,
		})
	}
	return inputs
}

func (h *Handlers) NewClient(c *gin.Context) {
	h.renderForm(c, http.StatusOK, formView{
		Title: "Nouveau client", Action: "/clients/new", Submit: "Créer", BackURL: "/clients",
	}, h.clientInputs(c, payload.ClientForm{ClientType: string(models.ClientIndividual)}, true), nil)
}

func (h *Handlers) CreateClient(c *gin.Context) {
	var f payload.ClientForm
	_ = c.ShouldBind(&f)
	view := formView{Title: "Nouveau client", Action: "/clients/new", Submit: "Créer", BackURL: "/clients"}

	body, err := payload.BuildClientCreate(sessionOf(c).Role(), f)
	if err != nil {
		h.renderForm(c, http.StatusBadRequest, view, h.clientInputs(c, f, true), err)
		return
	}

	ctrl := mutation.NewClients(h.api, sessionOf(c))
	res, err := ctrl.Create(c.Request.Context(), body)
	if err != nil {
		h.renderForm(c, http.StatusBadGateway, view, h.clientInputs(c, f, true), err)
		return
	}

	h.audit(c, "client", res.Entity.ID, "create", "Client "+body.FirstName+" "+body.LastName)
	flash(c, flashSuccess, messageOr(res.Message, "Client créé"))
	c.Redirect(http.StatusFound, "/clients")
}

func (h *Handlers) EditClient(c *gin.Context) {
	_, cl, ok := h.loadClient(c)
	if !ok {
		return
	}
	h.renderForm(c, http.StatusOK, formView{
		Title: "Modifier " + cl.FullName(), Action: clientURL(cl.ID) + "/edit", Submit: "Enregistrer", BackURL: clientURL(cl.ID),
	}, h.clientInputs(c, payload.ClientFormFrom(cl), false), nil)
}

func (h *Handlers) UpdateClient(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		h.notFound(c, "/clients")
		return
	}
	var f payload.ClientForm
	_ = c.ShouldBind(&f)
	view := formView{Title: "Modifier le client", Action: clientURL(id) + "/edit", Submit: "Enregistrer", BackURL: clientURL(id)}

	body, err := payload.BuildClientUpdate(f)
	if err != nil {
		h.renderForm(c, http.StatusBadRequest, view, h.clientInputs(c, f, false), err)
		return
	}

	ctrl := mutation.NewClients(h.api, sessionOf(c))
	res, err := ctrl.Update(c.Request.Context(), id, body)
	if err != nil {
		h.renderForm(c, http.StatusBadGateway, view, h.clientInputs(c, f, false), err)
		return
	}

	h.audit(c, "client", id, "update", "Client "+body.FirstName+" "+body.LastName)
	flash(c, flashSuccess, messageOr(res.Message, "Client mis à jour"))
	c.Redirect(http.StatusFound, clientURL(id))
}

//
// STATUS / DELETE
//

func (h *Handlers) ActivateClient(c *gin.Context)   { h.toggleClient(c, true) }
func (h *Handlers) DeactivateClient(c *gin.Context) { h.toggleClient(c, false) }

func (h *Handlers) toggleClient(c *gin.Context, activate bool) {
	ctrl, cl, ok := h.loadClient(c)
	if !ok {
		return
	}
	var (
		msg string
		err error
	)
	if activate {
		msg, err = ctrl.Activate(c.Request.Context(), cl)
	} else {
		msg, err = ctrl.Deactivate(c.Request.Context(), cl)
	}
	if err != nil {
		h.mutationFailed(c, err)
	} else {
		act := mutation.ActionDeactivate
		if activate {
			act = mutation.ActionActivate
		}
		h.audit(c, "client", cl.ID, act, "Client "+cl.FullName())
		flash(c, flashSuccess, messageOr(msg, "Statut du client mis à jour"))
	}
	c.Redirect(http.StatusFound, clientURL(cl.ID))
}

func (h *Handlers) DeleteClient(c *gin.Context) {
	ctrl, cl, ok := h.loadClient(c)
	if !ok {
		return
	}
	msg, err := ctrl.Remove(c.Request.Context(), cl)
	if err != nil {
		h.mutationFailed(c, err)
		c.Redirect(http.StatusFound, clientURL(cl.ID))
		return
	}
	h.audit(c, "client", cl.ID, "delete", "Client "+cl.FullName())
	flash(c, flashSuccess, messageOr(msg, "Client supprimé"))
	c.Redirect(http.StatusFound, "/clients")
}
