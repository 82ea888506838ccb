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

func technicienURL(id int64) string { return "/techniciens/" + strconv.FormatInt(id, 10) }

func technicienRow(t models.Technicien) row {
	return row{
		Link: technicienURL(t.ID),
		Cells: []cell{
			{Text: t.FullName(), Link: technicienURL(t.ID)},
			{Text: t.SkillLevel.Meta().Label, Badge: t.SkillLevel.Meta().Badge},
			{Text: text(t.Specialties)},
			{Text: text(t.AssignedToTopographeName)},
			{Text: strconv.Itoa(t.InProgressTasks) + " / " + strconv.Itoa(t.TotalTasks)},
			yesNo(t.IsActive),
		},
	}
}

var technicienColumns = []string{"Nom", "Niveau", "Spécialités", "Topographe", "Tâches en cours", "Statut"}

func (h *Handlers) ListTechniciens(c *gin.Context) {
	showList(h, c, listPage[models.Technicien]{
		title:   "Techniciens",
		path:    "/techniciens",
		newURL:  "/techniciens/new",
		cfg:     listing.Config{Resource: "technicien", Schema: listing.TechnicienSchema},
		columns: technicienColumns,
		row:     technicienRow,
	})
}

// ListCollaborateurs is the field-team view: active techniciens only.
func (h *Handlers) ListCollaborateurs(c *gin.Context) {
	q := c.Request.URL.Query()
	if q.Has("clear") {
		c.Redirect(http.StatusFound, "/collaborateurs")
		return
	}
	if q.Get("isActive") == "" {
		q.Set("isActive", "true")
		c.Request.URL.RawQuery = q.Encode()
	}
	showList(h, c, listPage[models.Technicien]{
		title:   "Collaborateurs",
		path:    "/collaborateurs",
		cfg:     listing.Config{Resource: "technicien", Schema: listing.TechnicienSchema, SortBy: "lastName", SortDir: "asc"},
		columns: technicienColumns,
		row:     technicienRow,
	})
}

func (h *Handlers) loadTechnicien(c *gin.Context) (mutation.Techniciens, models.Technicien, bool) {
	ctrl := mutation.NewTechniciens(h.api, sessionOf(c))
	id, ok := idParam(c)
	if !ok {
		h.notFound(c, "/techniciens")
		return ctrl, models.Technicien{}, false
	}
	t, err := ctrl.Get(c.Request.Context(), id)
	if err != nil {
		h.backendFailed(c, err, "/techniciens")
		return ctrl, models.Technicien{}, false
	}
	return ctrl, t, true
}

func (h *Handlers) ShowTechnicien(c *gin.Context) {
	_, t, ok := h.loadTechnicien(c)
	if !ok {
		return
	}

	toggle := action{Label: "Désactiver", URL: technicienURL(t.ID) + "/deactivate", Style: "outline-warning"}
	if !t.IsActive {
		toggle = action{Label: "Activer", URL: technicienURL(t.ID) + "/activate", Style: "outline-success"}
	}
	view := detailView{
		Title:    t.FullName(),
		Subtitle: t.Specialties,
		Badges:   []cell{{Text: t.SkillLevel.Meta().Label, Badge: t.SkillLevel.Meta().Badge}, yesNo(t.IsActive)},
		Sections: []section{
			{Title: "Identité", Fields: []field{
				{Label: "Identifiant", Value: t.Username},
				{Label: "Email", Value: t.Email},
				{Label: "Téléphone", Value: text(t.PhoneNumber)},
				{Label: "Date de naissance", Value: text(t.Birthday)},
				{Label: "CIN", Value: text(t.CIN)},
				{Label: "Ville", Value: text(t.CityName)},
				{Label: "Topographe", Value: text(t.AssignedToTopographeName), Link: topographeURL(t.AssignedToTopographeID)},
			}},
			{Title: "Tâches", Fields: []field{
				{Label: "Total", Value: strconv.Itoa(t.TotalTasks)},
				{Label: "À faire", Value: strconv.Itoa(t.TodoTasks)},
				{Label: "En cours", Value: strconv.Itoa(t.InProgressTasks)},
				{Label: "Terminées", Value: strconv.Itoa(t.CompletedTasks)},
			}},
		},
		Actions: []action{toggle},
		EditURL: technicienURL(t.ID) + "/edit",
		BackURL: "/techniciens",
	}
	if t.TotalTasks == 0 {
		view.Actions = append(view.Actions, action{
			Label: "Supprimer", URL: technicienURL(t.ID) + "/delete", Style: "danger",
			Confirm: "Supprimer définitivement ce technicien ?",
		})
	} else {
		view.Notice = mutation.ErrTechnicienHasTask.Error()
	}

	h.render(c, http.StatusOK, "detail.html", gin.H{"Title": t.FullName(), "Detail": view})
}

func (h *Handlers) technicienInputs(c *gin.Context, f payload.TechnicienForm, create bool) []input {
	inputs := []input{
		{Name: "username", Label: "Identifiant", Type: "text", Value: f.Username, Required: create, Readonly: !create},
		{Name: "email", Label: "Email", Type: "email", Value: f.Email, Required: true},
		{Name: "phoneNumber", Label: "Téléphone", Type: "tel", Value: f.PhoneNumber, Required: true},
		{Name: "firstName", Label: "Prénom", Type: "text", Value: f.FirstName, Required: true},
		{Name: "lastName", Label: "Nom", Type: "text", Value: f.LastName, Required: true},
		{Name: "birthday", Label: "Date de naissance", Type: "date", Value: f.Birthday},
		{Name: "cin", Label: "CIN", Type: "text", Value: f.CIN, Readonly: !create},
		{Name: "cityName", Label: "Ville", Type: "text", Value: f.CityName},
		{Name: "skillLevel", Label: "Niveau", Type: "select", Value: f.SkillLevel, Options: models.SkillLevelOptions(), Required: true},
		{Name: "specialties", Label: "Spécialités", Type: "textarea", Value: f.Specialties},
	}
	if create && needsAssignment(sessionOf(c).Role()) {
		inputs = append(inputs, input{
			Name: "topographeId", Label: "Topographe", Type: "select", Value: f.TopographeID,
			Options: h.topographeOptions(c), Required: true,
		})
	}
	return inputs
}

func (h *Handlers) NewTechnicien(c *gin.Context) {
	h.renderForm(c, http.StatusOK, formView{
		Title: "Nouveau technicien", Action: "/techniciens/new", Submit: "Créer", BackURL: "/techniciens",
	}, h.technicienInputs(c, payload.TechnicienForm{SkillLevel: string(models.SkillJunior)}, true), nil)
}

func (h *Handlers) CreateTechnicien(c *gin.Context) {
	var f payload.TechnicienForm
	_ = c.ShouldBind(&f)
	view := formView{Title: "Nouveau technicien", Action: "/techniciens/new", Submit: "Créer", BackURL: "/techniciens"}

	body, err := payload.BuildTechnicienCreate(sessionOf(c).Role(), f)
	if err != nil {
		h.renderForm(c, http.StatusBadRequest, view, h.technicienInputs(c, f, true), err)
		return
	}

	ctrl := mutation.NewTechniciens(h.api, sessionOf(c))
	res, err := ctrl.Create(c.Request.Context(), body)
	if err != nil {
		h.renderForm(c, http.StatusBadGateway, view, h.technicienInputs(c, f, true), err)
		return
	}

	h.audit(c, "technicien", res.Entity.ID, "create", "Technicien "+body.FirstName+" "+body.LastName)
	flash(c, flashSuccess, messageOr(res.Message, "Technicien créé"))
	c.Redirect(http.StatusFound, "/techniciens")
}

func (h *Handlers) EditTechnicien(c *gin.Context) {
	_, t, ok := h.loadTechnicien(c)
	if !ok {
		return
	}
	h.renderForm(c, http.StatusOK, formView{
		Title: "Modifier " + t.FullName(), Action: technicienURL(t.ID) + "/edit", Submit: "Enregistrer", BackURL: technicienURL(t.ID),
	}, h.technicienInputs(c, payload.TechnicienFormFrom(t), false), nil)
}

func (h *Handlers) UpdateTechnicien(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		h.notFound(c, "/techniciens")
		return
	}
	var f payload.TechnicienForm
	_ = c.ShouldBind(&f)
	view := formView{Title: "Modifier le technicien", Action: technicienURL(id) + "/edit", Submit: "Enregistrer", BackURL: technicienURL(id)}

	body, err := payload.BuildTechnicienUpdate(f)
	if err != nil {
		h.renderForm(c, http.StatusBadRequest, view, h.technicienInputs(c, f, false), err)
		return
	}

	ctrl := mutation.NewTechniciens(h.api, sessionOf(c))
	res, err := ctrl.Update(c.Request.Context(), id, body)
	if err != nil {
		h.renderForm(c, http.StatusBadGateway, view, h.technicienInputs(c, f, false), err)
		return
	}

	h.audit(c, "technicien", id, "update", "Technicien "+body.FirstName+" "+body.LastName)
	flash(c, flashSuccess, messageOr(res.Message, "Technicien mis à jour"))
	c.Redirect(http.StatusFound, technicienURL(id))
}

func (h *Handlers) ActivateTechnicien(c *gin.Context)   { h.toggleTechnicien(c, true) }
func (h *Handlers) DeactivateTechnicien(c *gin.Context) { h.toggleTechnicien(c, false) }

func (h *Handlers) toggleTechnicien(c *gin.Context, activate bool) {
	ctrl, t, ok := h.loadTechnicien(c)
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
		h.audit(c, "technicien", t.ID, act, "Technicien "+t.FullName())
		flash(c, flashSuccess, messageOr(msg, "Statut du technicien mis à jour"))
	}
	c.Redirect(http.StatusFound, technicienURL(t.ID))
}

func (h *Handlers) DeleteTechnicien(c *gin.Context) {
	ctrl, t, ok := h.loadTechnicien(c)
	if !ok {
		return
	}
	msg, err := ctrl.Remove(c.Request.Context(), t)
	if err != nil {
		h.mutationFailed(c, err)
		c.Redirect(http.StatusFound, technicienURL(t.ID))
		return
	}
	h.audit(c, "technicien", t.ID, "delete", "Technicien "+t.FullName())
	flash(c, flashSuccess, messageOr(msg, "Technicien supprimé"))
	c.Redirect(http.StatusFound, "/techniciens")
}
