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

func countryURL(id int64) string { return "/countries/" + strconv.FormatInt(id, 10) }

func (h *Handlers) ListCountries(c *gin.Context) {
	showList(h, c, listPage[models.Country]{
		title:   "Pays",
		path:    "/countries",
		newURL:  "/countries/new",
		cfg:     listing.Config{Resource: "country", Schema: listing.CountrySchema, SortBy: "name", SortDir: "asc"},
		columns: []string{"Nom", "Code"},
		row: func(ct models.Country) row {
			return row{
				Link: countryURL(ct.ID) + "/edit",
				Cells: []cell{
					{Text: ct.Name, Link: countryURL(ct.ID) + "/edit"},
					{Text: ct.Code, Badge: "light"},
				},
			}
		},
	})
}

func countryInputs(f payload.CountryForm) []input {
	return []input{
		{Name: "name", Label: "Nom", Type: "text", Value: f.Name, Required: true},
		{Name: "code", Label: "Code (ISO)", Type: "text", Value: f.Code, Required: true},
	}
}

func (h *Handlers) NewCountry(c *gin.Context) {
	h.renderForm(c, http.StatusOK, formView{
		Title: "Nouveau pays", Action: "/countries/new", Submit: "Créer", BackURL: "/countries",
	}, countryInputs(payload.CountryForm{}), nil)
}

func (h *Handlers) CreateCountry(c *gin.Context) {
	var f payload.CountryForm
	_ = c.ShouldBind(&f)
	view := formView{Title: "Nouveau pays", Action: "/countries/new", Submit: "Créer", BackURL: "/countries"}

	body, err := payload.BuildCountry(f)
	if err != nil {
		h.renderForm(c, http.StatusBadRequest, view, countryInputs(f), err)
		return
	}
	res, err := mutation.NewCountries(h.api, sessionOf(c)).Create(c.Request.Context(), body)
	if err != nil {
		h.renderForm(c, http.StatusBadGateway, view, countryInputs(f), err)
		return
	}

	h.audit(c, "country", res.Entity.ID, "create", body.Name+" ("+body.Code+")")
	flash(c, flashSuccess, messageOr(res.Message, "Pays créé"))
	c.Redirect(http.StatusFound, "/countries")
}

func (h *Handlers) EditCountry(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		h.notFound(c, "/countries")
		return
	}
	ct, err := mutation.NewCountries(h.api, sessionOf(c)).Get(c.Request.Context(), id)
	if err != nil {
		h.backendFailed(c, err, "/countries")
		return
	}
	h.renderForm(c, http.StatusOK, formView{
		Title: "Modifier " + ct.Name, Action: countryURL(id) + "/edit", Submit: "Enregistrer", BackURL: "/countries",
	}, countryInputs(payload.CountryFormFrom(ct)), nil)
}

func (h *Handlers) UpdateCountry(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		h.notFound(c, "/countries")
		return
	}
	var f payload.CountryForm
	_ = c.ShouldBind(&f)
	view := formView{Title: "Modifier le pays", Action: countryURL(id) + "/edit", Submit: "Enregistrer", BackURL: "/countries"}

	body, err := payload.BuildCountry(f)
	if err != nil {
		h.renderForm(c, http.StatusBadRequest, view, countryInputs(f), err)
		return
	}
	res, err := mutation.NewCountries(h.api, sessionOf(c)).Update(c.Request.Context(), id, body)
	if err != nil {
		h.renderForm(c, http.StatusBadGateway, view, countryInputs(f), err)
		return
	}

	h.audit(c, "country", id, "update", body.Name+" ("+body.Code+")")
	flash(c, flashSuccess, messageOr(res.Message, "Pays mis à jour"))
	c.Redirect(http.StatusFound, "/countries")
}

func (h *Handlers) DeleteCountry(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		h.notFound(c, "/countries")
		return
	}
	msg, err := mutation.NewCountries(h.api, sessionOf(c)).Delete(c.Request.Context(), id)
	if err != nil {
		h.mutationFailed(c, err)
	} else {
		h.audit(c, "country", id, "delete", "")
		flash(c, flashSuccess, messageOr(msg, "Pays supprimé"))
	}
	c.Redirect(http.StatusFound, "/countries")
}
