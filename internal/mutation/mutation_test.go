package mutation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"topodash/internal/apiclient"
	"topodash/internal/models"
	"topodash/internal/projectstate"
)

type token string

func (t token) Token() string { return string(t) }

type fakeAPI struct {
	calls []apiclient.Request
	data  any
	err   error
}

func (f *fakeAPI) Do(_ context.Context, _ string, req apiclient.Request, out any) (string, error) {
	f.calls = append(f.calls, req)
	if f.err != nil {
		return "", f.err
	}
	if out != nil && f.data != nil {
		raw, _ := json.Marshal(f.data)
		if err := json.Unmarshal(raw, out); err != nil {
			return "", err
		}
	}
	return "done", nil
}

func TestCompleteWarnsBeforeCalling(t *testing.T) {
	api := &fakeAPI{}
	projects := NewProjects(api, token("t"))
	p := models.Project{ID: 12, Status: models.StatusInProgress, ProgressPercentage: 40}

	_, err := projects.Transition(context.Background(), p, projectstate.ActionComplete, false)
	var conf *ConfirmationRequired
	require.ErrorAs(t, err, &conf)
	assert.Len(t, conf.Warnings, 1)
	assert.Contains(t, conf.Warnings[0], "40%")
	assert.True(t, IsWarning(err))
	assert.Empty(t, api.calls)

	msg, err := projects.Transition(context.Background(), p, projectstate.ActionComplete, true)
	require.NoError(t, err)
	assert.Equal(t, "done", msg)
	require.Len(t, api.calls, 1)
	assert.Equal(t, http.MethodPatch, api.calls[0].Method)
	assert.Equal(t, "/project/12/complete", api.calls[0].Path)
	assert.Empty(t, projects.LastError())
}

func TestIllegalTransitionNeverCalls(t *testing.T) {
	api := &fakeAPI{}
	projects := NewProjects(api, token("t"))
	p := models.Project{ID: 3, Status: models.StatusCompleted}

	_, err := projects.Transition(context.Background(), p, projectstate.ActionCancel, true)
	var terr *projectstate.TransitionError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "a completed project cannot be cancelled", projects.LastError())
	assert.False(t, IsWarning(err))
	assert.Empty(t, api.calls)
}

func TestProjectDeleteGuard(t *testing.T) {
	api := &fakeAPI{}
	projects := NewProjects(api, token("t"))

	for _, s := range []models.ProjectStatus{models.StatusPlanning, models.StatusInProgress, models.StatusOnHold, models.StatusCompleted} {
		_, err := projects.Remove(context.Background(), models.Project{ID: 1, Status: s, TotalTasks: 2})
		assert.ErrorIs(t, err, projectstate.ErrCannotDelete, s)
	}
	assert.Empty(t, api.calls)

	_, err := projects.Remove(context.Background(), models.Project{ID: 1, Status: models.StatusCancelled, TotalTasks: 2})
	require.NoError(t, err)
	_, err = projects.Remove(context.Background(), models.Project{ID: 2, Status: models.StatusPlanning})
	require.NoError(t, err)
	require.Len(t, api.calls, 2)
	assert.Equal(t, http.MethodDelete, api.calls[1].Method)
	assert.Equal(t, "/project/2", api.calls[1].Path)
}

func TestActivateAlreadyActiveClient(t *testing.T) {
	api := &fakeAPI{}
	clients := NewClients(api, token("t"))

	_, err := clients.Activate(context.Background(), models.Client{ID: 4, IsActive: true})
	assert.ErrorIs(t, err, ErrAlreadyActive)
	assert.True(t, IsWarning(err))
	assert.Empty(t, api.calls)

	_, err = clients.Deactivate(context.Background(), models.Client{ID: 4, IsActive: true})
	require.NoError(t, err)
	require.Len(t, api.calls, 1)
	assert.Equal(t, "/client/4/deactivate", api.calls[0].Path)
}

func TestDeactivateInactiveTechnicien(t *testing.T) {
	api := &fakeAPI{}
	techs := NewTechniciens(api, token("t"))

	_, err := techs.Deactivate(context.Background(), models.Technicien{ID: 9})
	assert.ErrorIs(t, err, ErrAlreadyInactive)
	assert.Empty(t, api.calls)
}

func TestDeleteGuardsOnDependents(t *testing.T) {
	api := &fakeAPI{}

	_, err := NewClients(api, token("t")).Remove(context.Background(), models.Client{ID: 1, TotalProjects: 3})
	assert.ErrorIs(t, err, ErrClientHasProjects)

	_, err = NewTechniciens(api, token("t")).Remove(context.Background(), models.Technicien{ID: 1, TotalTasks: 1})
	assert.ErrorIs(t, err, ErrTechnicienHasTask)

	assert.Empty(t, api.calls)
}

func TestCreateReturnsEntity(t *testing.T) {
	api := &fakeAPI{data: models.Country{ID: 5, Name: "Maroc", Code: "MA"}}
	countries := NewCountries(api, token("t"))

	res, err := countries.Create(context.Background(), map[string]string{"name": "Maroc", "code": "MA"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), res.Entity.ID)
	assert.Equal(t, "done", res.Message)
	assert.Equal(t, "/country", api.calls[0].Path)
	assert.Equal(t, http.MethodPost, api.calls[0].Method)
}

func TestFailureKeepsOnlyMessage(t *testing.T) {
	api := &fakeAPI{err: errors.New("Server error, please try again later")}
	users := NewUsers(api, token("t"))

	res, err := users.Update(context.Background(), 7, map[string]string{"email": "a@b.c"})
	require.Error(t, err)
	assert.Equal(t, Result[models.User]{}, res)
	assert.Equal(t, "Server error, please try again later", users.LastError())
	assert.Equal(t, "/user/7", api.calls[0].Path)

	api.err = nil
	api.data = models.User{ID: 7}
	_, err = users.Update(context.Background(), 7, map[string]string{"email": "a@b.c"})
	require.NoError(t, err)
	assert.Empty(t, users.LastError())
}
