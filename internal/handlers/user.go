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

func userURL(id int64) string { return "/users/" + strconv.FormatInt(id, 10) }

func (h *Handlers) ListUsers(c *gin.Context) {
	showList(h, c, listPage[models.User]{
		title:   "Utilisateurs",
		path:    "/users",
		newURL:  "/users/new",
		cfg:     listing.Config{Resource: "user", Schema: listing.UserSchema, SortBy: "username", SortDir: "asc"},
		columns: []string{"Identifiant", "Email", "Téléphone", "Rôle"},
		row: func(u models.User) row {
			return row{
				Link: userURL(u.ID) + "/edit",
				Cells: []cell{
					{Text: u.Username, Link: userURL(u.ID) + "/edit"},
					{Text: u.Email},
					{Text: text(u.PhoneNumber)},
					{Text: u.Role.Meta().Label, Badge: u.Role.Meta().Badge},
				},
			}
		},
	})
}

func userInputs(f payload.UserForm, create bool) []input {
	inputs := []input{
		{Name: "username", Label: "Identifiant", Type: "text", Value: f.Username, Required: create, Readonly: !create},
		{Name: "email", Label: "Email", Type: "email", Value: f.Email, Required: true},
		{Name: "phoneNumber", Label: "Téléphone", Type: "tel", Value: f.PhoneNumber},
		{Name: "role", Label: "Rôle", Type: "select", Value: f.Role, Options: models.RoleOptions(), Required: true},
	}
	if create {
		inputs = append(inputs, input{Name: "password", Label: "Mot de passe", Type: "password", Required: true})
	}
	return inputs
}

func (h *Handlers) NewUser(c *gin.Context) {
	h.renderForm(c, http.StatusOK, formView{
		Title: "Nouvel utilisateur", Action: "/users/new", Submit: "Créer", BackURL: "/users",
	}, userInputs(payload.UserForm{Role: string(models.RoleUser)}, true), nil)
}

func (h *Handlers) CreateUser(c *gin.Context) {
	var f payload.UserForm
	_ = c.ShouldBind(&f)
	view := formView{Title: "Nouvel utilisateur", Action: "/users/new", Submit: "Créer", BackURL: "/users"}

	body, err := payload.BuildUserCreate(f)
	if err != nil {
		h.renderForm(c, http.StatusBadRequest, view, userInputs(f, true), err)
		return
	}

	ctrl := mutation.NewUsers(h.api, sessionOf(c))
	res, err := ctrl.Create(c.Request.Context(), body)
	if err != nil {
		h.renderForm(c, http.StatusBadGateway, view, userInputs(f, true), err)
		return
	}

	h.audit(c, "user", res.Entity.ID, "create", "Utilisateur "+body.Username+" ("+string(body.Role)+")")
	flash(c, flashSuccess, messageOr(res.Message, "Utilisateur créé"))
	c.Redirect(http.StatusFound, "/users")
}

func (h *Handlers) EditUser(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		h.notFound(c, "/users")
		return
	}
	u, err := mutation.NewUsers(h.api, sessionOf(c)).Get(c.Request.Context(), id)
	if err != nil {
		h.backendFailed(c, err, "/users")
		return
	}
	h.renderForm(c, http.StatusOK, formView{
		Title: "Modifier " + u.Username, Action: userURL(id) + "/edit", Submit: "Enregistrer", BackURL: "/users",
	}, userInputs(payload.UserFormFrom(u), false), nil)
}

func (h *Handlers) UpdateUser(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		h.notFound(c, "/users")
		return
	}
	var f payload.UserForm
	_ = c.ShouldBind(&f)
	view := formView{Title: "Modifier l'utilisateur", Action: userURL(id) + "/edit", Submit: "Enregistrer", BackURL: "/users"}

	body, err := payload.BuildUserUpdate(f)
	if err != nil {
		h.renderForm(c, http.StatusBadRequest, view, userInputs(f, false), err)
		return
	}

	ctrl := mutation.NewUsers(h.api, sessionOf(c))
	res, err := ctrl.Update(c.Request.Context(), id, body)
	if err != nil {
		h.renderForm(c, http.StatusBadGateway, view, userInputs(f, false), err)
		return
	}

	h.audit(c, "user", id, "update", "Rôle "+string(body.Role))
	flash(c, flashSuccess, messageOr(res.Message, "Utilisateur mis à jour"))
	c.Redirect(http.StatusFound, "/users")
}

func (h *Handlers) DeleteUser(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		h.notFound(c, "/users")
		return
	}
	msg, err := mutation.NewUsers(h.api, sessionOf(c)).Delete(c.Request.Context(), id)
	if err != nil {
		h.mutationFailed(c, err)
	} else {
		h.audit(c, "user", id, "delete", "")
		flash(c, flashSuccess, messageOr(msg, "Utilisateur supprimé"))
	}
	c.Redirect(http.StatusFound, "/users")
}
