package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"topodash/internal/listing"
	"topodash/internal/models"
	"topodash/internal/mutation"
	"topodash/internal/payload"
	"topodash/internal/projectstate"
)

func projectURL(id int64) string { return "/projects/" + strconv.FormatInt(id, 10) }

//
// LIST
//

func (h *Handlers) ListProjects(c *gin.Context) {
	showList(h, c, listPage[models.Project]{
		title:  "Projets",
		path:   "/projects",
		newURL: "/projects/new",
		cfg: listing.Config{
			Resource: "project",
			Schema:   listing.ProjectSchema,
			SortBy:   "id",
			SortDir:  "desc",
		},
		columns: []string{"Nom", "Client", "Topographe", "Statut", "Avancement", "Échéance", "Santé"},
		row: func(p models.Project) row {
			deadline := p.EndDate
			if p.IsOverdue {
				deadline += " (en retard)"
			}
			return row{
				Link: projectURL(p.ID),
				Cells: []cell{
					{Text: p.Name, Link: projectURL(p.ID)},
					{Text: text(p.ClientName), Link: clientURL(p.ClientID)},
					{Text: text(p.TopographeName)},
					{Text: p.Status.Meta().Label, Badge: p.Status.Meta().Badge},
					{Text: fmt.Sprintf("%.0f%%", projectstate.Completion(p))},
					{Text: text(deadline)},
					{Text: p.HealthStatus.Meta().Label, Badge: p.HealthStatus.Meta().Badge},
				},
			}
		},
	})
}

//
// DETAIL
//

func (h *Handlers) loadProject(c *gin.Context) (mutation.Projects, models.Project, bool) {
	ctrl := mutation.NewProjects(h.api, sessionOf(c))
	id, ok := idParam(c)
	if !ok {
		h.notFound(c, "/projects")
		return ctrl, models.Project{}, false
	}
	p, err := ctrl.Get(c.Request.Context(), id)
	if err != nil {
		h.backendFailed(c, err, "/projects")
		return ctrl, models.Project{}, false
	}
	return ctrl, p, true
}

func (h *Handlers) ShowProject(c *gin.Context) {
	_, p, ok := h.loadProject(c)
	if !ok {
		return
	}

	actions := make([]action, 0, 5)
	for _, a := range projectstate.Available(p.Status) {
		style := "outline-primary"
		if a == projectstate.ActionCancel {
			style = "outline-danger"
		}
		actions = append(actions, action{
			Label: a.Label(),
			URL:   projectURL(p.ID) + "/" + string(a),
			Style: style,
		})
	}
	if projectstate.CanDelete(p) {
		actions = append(actions, action{
			Label:   "Supprimer",
			URL:     projectURL(p.ID) + "/delete",
			Style:   "danger",
			Confirm: "Supprimer définitivement ce projet ?",
		})
	}

	view := detailView{
		Title:    p.Name,
		Subtitle: p.Description,
		Badges: []cell{
			{Text: p.Status.Meta().Label, Badge: p.Status.Meta().Badge},
			{Text: p.HealthStatus.Meta().Label, Badge: p.HealthStatus.Meta().Badge},
		},
		Sections: []section{
			{Title: "Informations", Fields: []field{
				{Label: "Client", Value: text(p.ClientName), Link: clientURL(p.ClientID)},
				{Label: "Société", Value: text(p.ClientCompanyName)},
				{Label: "Topographe", Value: text(p.TopographeName), Link: topographeURL(p.TopographeID)},
				{Label: "Licence", Value: text(p.TopographeLicenseNumber)},
				{Label: "Début", Value: text(p.StartDate)},
				{Label: "Fin", Value: text(p.EndDate)},
			}},
			{Title: "Avancement", Fields: []field{
				{Label: "Progression", Percent: percent(projectstate.Completion(p))},
				{Label: "Progression pondérée", Percent: percent(p.WeightedProgressPercentage)},
				{Label: "Temps écoulé", Percent: percent(p.TimeProgressPercentage)},
				{Label: "Jours restants", Value: strconv.Itoa(p.DaysRemaining)},
				{Label: "Santé", Value: text(p.HealthMessage), Badge: p.HealthStatus.Meta().Badge},
			}},
			{Title: "Tâches", Fields: []field{
				{Label: "Total", Value: strconv.Itoa(p.TotalTasks)},
				{Label: "À faire", Value: strconv.Itoa(p.TodoTasks)},
				{Label: "En cours", Value: strconv.Itoa(p.InProgressTasks)},
				{Label: "En revue", Value: strconv.Itoa(p.ReviewTasks)},
				{Label: "Terminées", Value: strconv.Itoa(p.CompletedTasks)},
			}},
			{Title: "Équipe", Fields: techniciensFields(p)},
		},
		Actions: actions,
		BackURL: "/projects",
	}
	if projectstate.CanEdit(p) {
		view.EditURL = projectURL(p.ID) + "/edit"
	}
	if !projectstate.CanDelete(p) {
		view.Notice = projectstate.ErrCannotDelete.Error()
	}

	h.render(c, http.StatusOK, "detail.html", gin.H{"Title": p.Name, "Detail": view})
}

func techniciensFields(p models.Project) []field {
	out := []field{{Label: "Techniciens assignés", Value: strconv.Itoa(p.AssignedTechniciensCount)}}
	for _, name := range p.AssignedTechniciensNames {
		out = append(out, field{Label: "", Value: name})
	}
	return out
}

//
// CREATE / EDIT
//

func (h *Handlers) projectInputs(c *gin.Context, f payload.ProjectForm, create bool) []input {
	inputs := []input{
		{Name: "name", Label: "Nom", Type: "text", Value: f.Name, Required: true},
		{Name: "description", Label: "Description", Type: "textarea", Value: f.Description},
		{Name: "startDate", Label: "Date de début", Type: "date", Value: f.StartDate, Required: true},
		{Name: "endDate", Label: "Date de fin", Type: "date", Value: f.EndDate, Required: true},
		{Name: "clientId", Label: "Client", Type: "select", Value: f.ClientID, Options: h.clientOptions(c), Required: true},
	}
	if create && needsAssignment(sessionOf(c).Role()) {
		inputs = append(inputs, input{
			Name: "topographeId", Label: "Topographe", Type: "select", Value: f.TopographeID,
			Options: h.topographeOptions(c), Required: true,
		})
	}
	return inputs
}

func (h *Handlers) NewProject(c *gin.Context) {
	f := payload.ProjectForm{ClientID: c.Query("clientId")}
	h.renderForm(c, http.StatusOK, formView{
		Title: "Nouveau projet", Action: "/projects/new", Submit: "Créer", BackURL: "/projects",
	}, h.projectInputs(c, f, true), nil)
}

func (h *Handlers) CreateProject(c *gin.Context) {
	var f payload.ProjectForm
	_ = c.ShouldBind(&f)
	view := formView{Title: "Nouveau projet", Action: "/projects/new", Submit: "Créer", BackURL: "/projects"}

	body, err := payload.BuildProjectCreate(sessionOf(c).Role(), f)
	if err != nil {
		h.renderForm(c, http.StatusBadRequest, view, h.projectInputs(c, f, true), err)
		return
	}

	ctrl := mutation.NewProjects(h.api, sessionOf(c))
	res, err := ctrl.Create(c.Request.Context(), body)
	if err != nil {
		h.renderForm(c, http.StatusBadGateway, view, h.projectInputs(c, f, true), err)
		return
	}

	h.audit(c, "project", res.Entity.ID, "create", "Projet "+body.Name)
	flash(c, flashSuccess, messageOr(res.Message, "Projet créé"))
	c.Redirect(http.StatusFound, projectURL(res.Entity.ID))
}

// editable loads the project and refuses closed ones with a flash.
func (h *Handlers) editable(c *gin.Context) (models.Project, bool) {
	_, p, ok := h.loadProject(c)
	if !ok {
		return p, false
	}
	if !projectstate.CanEdit(p) {
		h.mutationFailed(c, projectstate.ErrClosed)
		c.Redirect(http.StatusFound, projectURL(p.ID))
		return p, false
	}
	return p, true
}

func (h *Handlers) EditProject(c *gin.Context) {
	p, ok := h.editable(c)
	if !ok {
		return
	}
	h.renderForm(c, http.StatusOK, formView{
		Title: "Modifier " + p.Name, Action: projectURL(p.ID) + "/edit", Submit: "Enregistrer", BackURL: projectURL(p.ID),
	}, h.projectInputs(c, payload.ProjectFormFrom(p), false), nil)
}

func (h *Handlers) UpdateProject(c *gin.Context) {
	p, ok := h.editable(c)
	if !ok {
		return
	}
	id := p.ID
	var f payload.ProjectForm
	_ = c.ShouldBind(&f)
	view := formView{Title: "Modifier le projet", Action: projectURL(id) + "/edit", Submit: "Enregistrer", BackURL: projectURL(id)}

	body, err := payload.BuildProjectUpdate(f)
	if err != nil {
		h.renderForm(c, http.StatusBadRequest, view, h.projectInputs(c, f, false), err)
		return
	}

	ctrl := mutation.NewProjects(h.api, sessionOf(c))
	res, err := ctrl.Update(c.Request.Context(), id, body)
	if err != nil {
		h.renderForm(c, http.StatusBadGateway, view, h.projectInputs(c, f, false), err)
		return
	}

	h.audit(c, "project", id, "update", "Projet "+body.Name)
	flash(c, flashSuccess, messageOr(res.Message, "Projet mis à jour"))
	c.Redirect(http.StatusFound, projectURL(id))
}

//
// STATUS / DELETE
//

// TransitionProject runs start, complete, hold or cancel. A transition with
// warnings shows a confirmation page first; the confirmed form posts back
// with confirm=1.
func (h *Handlers) TransitionProject(act projectstate.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctrl, p, ok := h.loadProject(c)
		if !ok {
			return
		}

		confirmed := c.PostForm("confirm") == "1"
		msg, err := ctrl.Transition(c.Request.Context(), p, act, confirmed)

		var conf *mutation.ConfirmationRequired
		switch {
		case errors.As(err, &conf):
			h.render(c, http.StatusOK, "confirm.html", gin.H{
				"Title": act.Label(),
				"Confirm": confirmView{
					Title:    act.Label() + " : " + p.Name,
					Warnings: conf.Warnings,
					Action:   projectURL(p.ID) + "/" + string(act),
					Submit:   act.Label(),
					BackURL:  projectURL(p.ID),
				},
			})
			return
		case err != nil:
			h.mutationFailed(c, err)
		default:
			next, _ := projectstate.Next(p.Status, act)
			h.audit(c, "project", p.ID, string(act), fmt.Sprintf("%s -> %s", p.Status, next))
			flash(c, flashSuccess, messageOr(msg, "Statut mis à jour : "+next.Meta().Label))
		}
		c.Redirect(http.StatusFound, projectURL(p.ID))
	}
}

func (h *Handlers) DeleteProject(c *gin.Context) {
	ctrl, p, ok := h.loadProject(c)
	if !ok {
		return
	}
	msg, err := ctrl.Remove(c.Request.Context(), p)
	if err != nil {
		h.mutationFailed(c, err)
		c.Redirect(http.StatusFound, projectURL(p.ID))
		return
	}
	h.audit(c, "project", p.ID, "delete", "Projet "+p.Name)
	flash(c, flashSuccess, messageOr(msg, "Projet supprimé"))
	c.Redirect(http.StatusFound, "/projects")
}
