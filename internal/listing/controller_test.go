package listing

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"topodash/internal/apiclient"
	"topodash/internal/models"
)

type fakeIdentity struct {
	token string
	admin bool
}

func (f fakeIdentity) Token() string { return f.token }
func (f fakeIdentity) IsAdmin() bool { return f.admin }

type fakeAPI struct {
	mu      sync.Mutex
	calls   []apiclient.Request
	respond func(req apiclient.Request) (any, error)
}

func (f *fakeAPI) Do(ctx context.Context, token string, req apiclient.Request, out any) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	f.mu.Unlock()

	data, err := f.respond(req)
	if err != nil {
		return "", err
	}
	raw, _ := json.Marshal(data)
	return "ok", json.Unmarshal(raw, out)
}

func (f *fakeAPI) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeAPI) last() apiclient.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

func projectsPage(n, page, size, total, pages int) models.PageResponse[models.Project] {
	content := make([]models.Project, n)
	for i := range content {
		content[i] = models.Project{ID: int64(page*size + i + 1), Status: models.StatusPlanning}
	}
	return models.PageResponse[models.Project]{
		Content: content, Page: page, Size: size, TotalElements: total, TotalPages: pages,
	}
}

func newProjects(api *fakeAPI, admin bool) *Controller[models.Project] {
	return NewController[models.Project](api, fakeIdentity{token: "tok", admin: admin}, Config{
		Resource:    "project",
		Schema:      ProjectSchema,
		SortBy:      "createdAt",
		SortDir:     "desc",
		DefaultSize: 5,
	})
}

func TestFetchFirstPageOfProjects(t *testing.T) {
	api := &fakeAPI{respond: func(req apiclient.Request) (any, error) {
		return projectsPage(5, 0, 5, 12, 3), nil
	}}
	c := newProjects(api, true)

	require.NoError(t, c.Fetch(context.Background(), 0, 5, Filters{}))

	st := c.State()
	assert.Equal(t, 3, st.Pagination.TotalPages)
	assert.Equal(t, 12, st.Pagination.TotalElements)
	assert.Len(t, st.Items, 5)
	assert.False(t, st.Loading)
	assert.Empty(t, st.Error)

	req := api.last()
	assert.Equal(t, "/project", req.Path)
	assert.Equal(t, "0", req.Query.Get("page"))
	assert.Equal(t, "5", req.Query.Get("size"))
	assert.Equal(t, "createdAt", req.Query.Get("sortBy"))
	assert.Equal(t, "desc", req.Query.Get("sortDir"))
}

func TestFiltersSwitchToSearchEndpoint(t *testing.T) {
	api := &fakeAPI{respond: func(req apiclient.Request) (any, error) {
		return projectsPage(1, 0, 5, 1, 1), nil
	}}
	c := newProjects(api, true)

	require.NoError(t, c.Fetch(context.Background(), 0, 5, Filters{"status": "IN_PROGRESS", "name": ""}))

	req := api.last()
	assert.Equal(t, "/project/search", req.Path)
	assert.Equal(t, "IN_PROGRESS", req.Query.Get("status"))
	_, hasName := req.Query["name"]
	assert.False(t, hasName)

	require.NoError(t, c.Fetch(context.Background(), 0, 5, Filters{"name": ""}))
	assert.Equal(t, "/project", api.last().Path)
}

func TestFetchFailureResetsItems(t *testing.T) {
	fail := false
	api := &fakeAPI{respond: func(req apiclient.Request) (any, error) {
		if fail {
			return nil, &apiclient.Error{Kind: apiclient.KindHTTP, Status: 500, Message: "Server error, please try again later"}
		}
		return projectsPage(5, 0, 5, 12, 3), nil
	}}
	c := newProjects(api, true)
	require.NoError(t, c.Fetch(context.Background(), 0, 5, nil))

	fail = true
	err := c.Fetch(context.Background(), 1, 7, nil)
	require.Error(t, err)

	st := c.State()
	assert.Empty(t, st.Items)
	assert.Equal(t, "Server error, please try again later", st.Error)
	assert.Equal(t, 0, st.Pagination.TotalElements)
	assert.Equal(t, 0, st.Pagination.TotalPages)
	assert.Equal(t, 7, st.Pagination.PageSize)
	assert.False(t, st.Loading)
}

func TestChangePageOutOfRangeIsNoop(t *testing.T) {
	api := &fakeAPI{respond: func(req apiclient.Request) (any, error) {
		return projectsPage(5, 0, 5, 12, 3), nil
	}}
	c := newProjects(api, true)
	require.NoError(t, c.Fetch(context.Background(), 0, 5, nil))
	before := c.State()
	calls := api.callCount()

	for _, p := range []int{-1, 3, 10} {
		moved, err := c.ChangePage(context.Background(), p)
		require.NoError(t, err)
		assert.False(t, moved, "page %d", p)
	}
	assert.Equal(t, calls, api.callCount())
	assert.Equal(t, before, c.State())
}

func TestChangePageKeepsFilters(t *testing.T) {
	api := &fakeAPI{respond: func(req apiclient.Request) (any, error) {
		page := 0
		if req.Query.Get("page") == "2" {
			page = 2
		}
		return projectsPage(2, page, 5, 12, 3), nil
	}}
	c := newProjects(api, true)
	require.NoError(t, c.Search(context.Background(), Filters{"status": "planning"}))

	moved, err := c.ChangePage(context.Background(), 2)
	require.NoError(t, err)
	assert.True(t, moved)

	req := api.last()
	assert.Equal(t, "/project/search", req.Path)
	assert.Equal(t, "2", req.Query.Get("page"))
	assert.Equal(t, "PLANNING", req.Query.Get("status"))
	assert.Equal(t, 2, c.State().Pagination.PageNumber)
}

func TestChangePageWithUnknownTotalFetches(t *testing.T) {
	api := &fakeAPI{respond: func(req apiclient.Request) (any, error) {
		return projectsPage(0, 0, 5, 0, 0), nil
	}}
	c := newProjects(api, true)

	moved, err := c.ChangePage(context.Background(), 4)
	require.NoError(t, err)
	assert.True(t, moved)
	assert.Equal(t, 1, api.callCount())
}

func TestSearchDropsAdminOnlyFilterForNonAdmin(t *testing.T) {
	api := &fakeAPI{respond: func(req apiclient.Request) (any, error) {
		return projectsPage(0, 0, 5, 0, 0), nil
	}}
	c := newProjects(api, false)

	require.NoError(t, c.Search(context.Background(), Filters{"topographeId": "5"}))

	req := api.last()
	_, has := req.Query["topographeId"]
	assert.False(t, has)
	assert.Equal(t, "/project", req.Path)
	assert.NotContains(t, c.State().Filters, "topographeId")
}

func TestSearchKeepsAdminOnlyFilterForAdmin(t *testing.T) {
	api := &fakeAPI{respond: func(req apiclient.Request) (any, error) {
		return projectsPage(0, 0, 5, 0, 0), nil
	}}
	c := newProjects(api, true)

	require.NoError(t, c.Search(context.Background(), Filters{"topographeId": "5"}))
	assert.Equal(t, "5", api.last().Query.Get("topographeId"))
}

func TestSearchResetsToFirstPage(t *testing.T) {
	api := &fakeAPI{respond: func(req apiclient.Request) (any, error) {
		return projectsPage(5, 0, 5, 12, 3), nil
	}}
	c := newProjects(api, true)
	require.NoError(t, c.Fetch(context.Background(), 2, 5, nil))

	require.NoError(t, c.Search(context.Background(), Filters{"name": " Relevé "}))
	req := api.last()
	assert.Equal(t, "0", req.Query.Get("page"))
	assert.Equal(t, "Relevé", req.Query.Get("name"))
}

func TestClearDropsFilters(t *testing.T) {
	api := &fakeAPI{respond: func(req apiclient.Request) (any, error) {
		return projectsPage(1, 0, 5, 1, 1), nil
	}}
	c := newProjects(api, true)
	require.NoError(t, c.Search(context.Background(), Filters{"name": "x"}))

	require.NoError(t, c.Clear(context.Background()))
	assert.Equal(t, "/project", api.last().Path)
	assert.Empty(t, c.State().Filters)
}

func TestRetryReplaysLastRequest(t *testing.T) {
	fail := true
	api := &fakeAPI{respond: func(req apiclient.Request) (any, error) {
		if fail {
			return nil, errors.New("boom")
		}
		return projectsPage(2, 1, 4, 6, 2), nil
	}}
	c := newProjects(api, true)
	require.Error(t, c.Fetch(context.Background(), 1, 4, Filters{"clientId": "9"}))

	fail = false
	require.NoError(t, c.Retry(context.Background()))

	req := api.last()
	assert.Equal(t, url.Values{
		"page": {"1"}, "size": {"4"}, "clientId": {"9"}, "sortBy": {"createdAt"}, "sortDir": {"desc"},
	}, req.Query)
	st := c.State()
	assert.Len(t, st.Items, 2)
	assert.Empty(t, st.Error)
}

func TestStaleResponseIsDiscarded(t *testing.T) {
	release := make(chan struct{})
	firstStarted := make(chan struct{})
	api := &fakeAPI{respond: func(req apiclient.Request) (any, error) {
		if req.Query.Get("page") == "0" {
			close(firstStarted)
			<-release
			return projectsPage(5, 0, 5, 12, 3), nil
		}
		return projectsPage(2, 2, 5, 12, 3), nil
	}}
	c := newProjects(api, true)

	done := make(chan error, 1)
	go func() { done <- c.Fetch(context.Background(), 0, 5, nil) }()
	<-firstStarted

	require.NoError(t, c.Fetch(context.Background(), 2, 5, nil))
	close(release)
	assert.ErrorIs(t, <-done, ErrSuperseded)

	st := c.State()
	assert.Equal(t, 2, st.Pagination.PageNumber)
	assert.Len(t, st.Items, 2)
}

func TestStateIsSnapshot(t *testing.T) {
	api := &fakeAPI{respond: func(req apiclient.Request) (any, error) {
		return projectsPage(1, 0, 5, 1, 1), nil
	}}
	c := newProjects(api, true)
	require.NoError(t, c.Fetch(context.Background(), 0, 5, Filters{"name": "a"}))

	st := c.State()
	st.Items[0].Name = "mutated"
	st.Filters["name"] = "b"

	again := c.State()
	assert.Empty(t, again.Items[0].Name)
	assert.Equal(t, "a", again.Filters["name"])
}

func TestResumedControllerGuardsPageRange(t *testing.T) {
	api := &fakeAPI{respond: func(req apiclient.Request) (any, error) {
		return projectsPage(5, 1, 5, 12, 3), nil
	}}
	first := newProjects(api, true)
	require.NoError(t, first.Fetch(context.Background(), 0, 5, Filters{"name": "bornage"}))

	pos, ok := first.Position()
	require.True(t, ok)
	assert.Equal(t, 3, pos.TotalPages)
	assert.Equal(t, Filters{"name": "bornage"}, pos.Request.Filters)

	next := newProjects(api, true)
	next.Resume(pos)

	moved, err := next.ChangePage(context.Background(), 3)
	require.NoError(t, err)
	assert.False(t, moved)
	assert.Equal(t, 1, api.callCount())

	moved, err = next.ChangePage(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, moved)
	assert.Equal(t, "/project/search", api.last().Path)
	assert.Equal(t, "1", api.last().Query.Get("page"))
	assert.Equal(t, "bornage", api.last().Query.Get("name"))
}

func TestResumedControllerRetries(t *testing.T) {
	api := &fakeAPI{respond: func(req apiclient.Request) (any, error) {
		return projectsPage(0, 0, 7, 0, 0), nil
	}}
	c := newProjects(api, true)
	_, ok := c.Position()
	assert.False(t, ok)

	c.Resume(Position{Request: Request{Page: 2, Size: 7, Filters: Filters{"status": "ON_HOLD"}}})
	require.NoError(t, c.Retry(context.Background()))
	q := api.last().Query
	assert.Equal(t, "2", q.Get("page"))
	assert.Equal(t, "7", q.Get("size"))
	assert.Equal(t, "ON_HOLD", q.Get("status"))

	c.Resume(Position{Request: Request{Page: -1, Size: 0}})
	require.NoError(t, c.Clear(context.Background()))
	assert.Equal(t, "5", api.last().Query.Get("size"))
	assert.Equal(t, "/project", api.last().Path)
}
