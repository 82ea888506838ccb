package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"topodash/internal/apiclient"
	"topodash/internal/listing"
	"topodash/internal/models"
	"topodash/internal/payload"
)

//
// LIST
//

type cell struct {
	Text  string
	Badge string
	Link  string
}

type row struct {
	Cells []cell
	Link  string
}

type filterInput struct {
	Name    string
	Label   string
	Type    string // text, select, number, bool
	Value   string
	Options []models.Option
}

type pageLink struct {
	Label    string
	URL      string
	Active   bool
	Disabled bool
}

type listView struct {
	Title      string
	Path       string
	NewURL     string
	Columns    []string
	Rows       []row
	Filters    []filterInput
	Searching  bool
	Pagination listing.Pagination
	Pages      []pageLink
	Error      string
	RetryURL   string
}

// listPage describes one list screen.
type listPage[T any] struct {
	title   string
	path    string
	newURL  string
	cfg     listing.Config
	columns []string
	row     func(T) row
}

func queryInt(q url.Values, key string, def int) int {
	n, err := strconv.Atoi(q.Get(key))
	if err != nil || n < 0 {
		return def
	}
	return n
}

// showList drives a list controller from the query string. The controller
// resumes from the position kept in the session so page changes, retries and
// clears work on the same state as the previous screen:
//
//	?clear=1       drop the filters
//	?retry=1       replay the last request
//	?search=1&...  validate the submitted filters and go back to page 0
//	?page=n&size=m change page; an out-of-range page redirects to the last one
func showList[T any](h *Handlers, c *gin.Context, p listPage[T]) {
	s := sessionOf(c)
	if p.cfg.DefaultSize <= 0 {
		p.cfg.DefaultSize = h.pageSize
	}
	ctrl := listing.NewController[T](h.api, s, p.cfg)
	ctx := c.Request.Context()

	q := c.Request.URL.Query()
	page := queryInt(q, "page", 0)
	size := queryInt(q, "size", p.cfg.DefaultSize)
	if size == 0 || size > 100 {
		size = p.cfg.DefaultSize
	}
	requested := p.cfg.Schema.Validate(p.cfg.Schema.FromQuery(q), s.IsAdmin())

	pos, resumed := loadListPosition(c, p.path)
	pos.Request.Filters = p.cfg.Schema.Validate(pos.Request.Filters, s.IsAdmin())
	fresh := !resumed
	if resumed && !q.Has("retry") && !q.Has("clear") {
		fresh = pos.Request.Size != size || !pos.Request.Filters.Equal(requested)
	}
	if fresh {
		// The page count is unknown until this fetch returns.
		pos = listing.Position{Request: listing.Request{Page: page, Size: size, Filters: requested}}
	}
	ctrl.Resume(pos)

	var err error
	switch {
	case q.Has("clear"):
		err = ctrl.Clear(ctx)
	case q.Has("retry"):
		err = ctrl.Retry(ctx)
	case q.Has("search"):
		err = ctrl.Search(ctx, p.cfg.Schema.FromQuery(q))
	default:
		var moved bool
		moved, err = ctrl.ChangePage(ctx, page)
		if !moved {
			c.Redirect(http.StatusFound, pageURL(p.path, pos.TotalPages-1, size, requested))
			return
		}
	}
	if err != nil && apiclient.IsUnauthorized(err) {
		h.signOut(c, err.Error())
		return
	}
	if next, ok := ctrl.Position(); ok {
		saveListPosition(c, p.path, next)
	}

	st := ctrl.State()
	if err == nil && st.Pagination.TotalPages > 0 && page >= st.Pagination.TotalPages && !q.Has("search") && !q.Has("clear") {
		c.Redirect(http.StatusFound, pageURL(p.path, st.Pagination.TotalPages-1, size, st.Filters))
		return
	}

	view := listView{
		Title:      p.title,
		Path:       p.path,
		NewURL:     p.newURL,
		Columns:    p.columns,
		Filters:    filterInputs(p.cfg.Schema, st.Filters, s.IsAdmin()),
		Searching:  st.Filters.Active(),
		Pagination: st.Pagination,
		Error:      st.Error,
	}
	if st.Error != "" {
		view.RetryURL = p.path + "?retry=1"
	} else {
		view.Rows = make([]row, 0, len(st.Items))
		for _, item := range st.Items {
			view.Rows = append(view.Rows, p.row(item))
		}
		view.Pages = pageLinks(p.path, st.Filters, st.Pagination)
	}

	status := http.StatusOK
	if err != nil {
		status = http.StatusBadGateway
	}
	h.render(c, status, "list.html", gin.H{"Title": p.title, "List": view})
}

func pageURL(path string, page, size int, filters listing.Filters) string {
	return path + "?" + listing.Request{Page: max(page, 0), Size: size, Filters: filters}.Query().Encode()
}

func filterInputs(schema listing.Schema, current listing.Filters, isAdmin bool) []filterInput {
	out := make([]filterInput, 0, len(schema))
	for _, f := range schema {
		if f.AdminOnly && !isAdmin {
			continue
		}
		in := filterInput{Name: f.Name, Label: f.Label, Value: current[f.Name]}
		switch f.Kind {
		case listing.Enum:
			in.Type = "select"
			in.Options = f.Options
		case listing.Number:
			in.Type = "number"
		case listing.Bool:
			in.Type = "select"
			in.Options = []models.Option{{Value: "true", Label: "Oui"}, {Value: "false", Label: "Non"}}
		default:
			in.Type = "text"
		}
		out = append(out, in)
	}
	return out
}

const pageWindow = 2

func pageLinks(path string, filters listing.Filters, p listing.Pagination) []pageLink {
	if p.TotalPages <= 1 {
		return nil
	}
	link := func(n int) string { return pageURL(path, n, p.PageSize, filters) }

	links := []pageLink{{
		Label:    "«",
		URL:      link(p.PageNumber - 1),
		Disabled: p.PageNumber <= 0,
	}}
	from := max(0, p.PageNumber-pageWindow)
	to := min(p.TotalPages-1, p.PageNumber+pageWindow)
	for n := from; n <= to; n++ {
		links = append(links, pageLink{Label: strconv.Itoa(n + 1), URL: link(n), Active: n == p.PageNumber})
	}
	links = append(links, pageLink{
		Label:    "»",
		URL:      link(p.PageNumber + 1),
		Disabled: p.PageNumber >= p.TotalPages-1,
	})
	return links
}

//
// DETAIL
//

type field struct {
	Label   string
	Value   string
	Badge   string
	Link    string
	Percent *float64
}

type section struct {
	Title  string
	Fields []field
}

// action is a button posting to URL. Confirm, when set, is asked first.
type action struct {
	Label   string
	URL     string
	Style   string
	Confirm string
}

type detailView struct {
	Title    string
	Subtitle string
	Badges   []cell
	Sections []section
	Actions  []action
	EditURL  string
	BackURL  string
	Notice   string
}

func percent(v float64) *float64 { return &v }

func yesNo(b bool) cell {
	if b {
		return cell{Text: "Actif", Badge: "success"}
	}
	return cell{Text: "Inactif", Badge: "secondary"}
}

func text(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

//
// FORMS
//

type input struct {
	Name     string
	Label    string
	Type     string // text, email, tel, date, password, number, select, textarea
	Value    string
	Options  []models.Option
	Required bool
	Readonly bool
	Error    string
}

type formView struct {
	Title   string
	Action  string
	Submit  string
	BackURL string
	Inputs  []input
	Error   string
}

// formErrors splits a builder error into per-field messages and a general one.
func formErrors(err error) (map[string]string, string) {
	if err == nil {
		return nil, ""
	}
	var verrs payload.ValidationErrors
	if errors.As(err, &verrs) {
		return verrs, "Veuillez corriger les champs signalés."
	}
	if errors.Is(err, payload.ErrAssignmentRequired) {
		return map[string]string{"topographeId": err.Error()}, ""
	}
	return nil, err.Error()
}

func withErrors(inputs []input, fieldErrs map[string]string) []input {
	for i := range inputs {
		inputs[i].Error = fieldErrs[inputs[i].Name]
	}
	return inputs
}

func (h *Handlers) renderForm(c *gin.Context, status int, view formView, inputs []input, err error) {
	fieldErrs, general := formErrors(err)
	view.Inputs = withErrors(inputs, fieldErrs)
	if general != "" {
		view.Error = general
	}
	h.render(c, status, "form.html", gin.H{"Title": view.Title, "Form": view})
}

// topographeOptions loads the first page of active topographes for the
// assignment select shown to admins and managers.
func (h *Handlers) topographeOptions(c *gin.Context) []models.Option {
	s := sessionOf(c)
	if s.Role() != models.RoleAdmin && s.Role() != models.RoleManager {
		return nil
	}
	ctrl := listing.NewController[models.Topographe](h.api, s, listing.Config{
		Resource: "topographe", Schema: listing.TopographeSchema, SortBy: "lastName", SortDir: "asc",
	})
	if err := ctrl.Fetch(c.Request.Context(), 0, 100, listing.Filters{"isActive": "true"}); err != nil {
		h.log.Warn("[Handlers] failed to load topographes", "error", err)
		return nil
	}
	items := ctrl.State().Items
	out := make([]models.Option, 0, len(items))
	for _, t := range items {
		out = append(out, models.Option{Value: strconv.FormatInt(t.ID, 10), Label: t.FullName()})
	}
	return out
}

// needsAssignment: admins and managers pick the owning topographe on create.
func needsAssignment(role models.UserRole) bool {
	return role == models.RoleAdmin || role == models.RoleManager
}

//
// CONFIRM
//

type confirmView struct {
	Title    string
	Warnings []string
	Action   string
	Submit   string
	BackURL  string
}
